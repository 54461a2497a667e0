package imagegen

import (
	"sort"
	"strings"

	"github.com/samber/lo"

	"github.com/forthelynnn/deycantik/internal/domain"
)

// payloadShape is one known backend response layout with its extractor.
type payloadShape struct {
	name    string
	extract func(obj map[string]any) []domain.ImageArtifact
}

// Tried in order; the first shape yielding at least one artifact wins.
var payloadShapes = []payloadShape{
	{name: "images", extract: extractImages},
	{name: "candidates", extract: extractCandidates},
	{name: "outputs", extract: extractOutputs},
}

// Normalized is the result of scanning a backend payload.
type Normalized struct {
	Artifacts []domain.ImageArtifact
	Shape     string
}

// Normalize extracts the ordered artifacts of a generically decoded backend
// payload. Unknown layouts yield an empty result, never an error.
func Normalize(payload any) Normalized {
	obj, ok := payload.(map[string]any)
	if !ok {
		return Normalized{}
	}
	for _, shape := range payloadShapes {
		if artifacts := shape.extract(obj); len(artifacts) > 0 {
			return Normalized{Artifacts: artifacts, Shape: shape.name}
		}
	}
	return Normalized{}
}

// PayloadKeys lists the top-level keys of a payload for diagnostics.
func PayloadKeys(payload any) []string {
	obj, ok := payload.(map[string]any)
	if !ok {
		return nil
	}
	keys := lo.Keys(obj)
	sort.Strings(keys)
	return keys
}

// images[]: {base64, mime?} or {url}
func extractImages(obj map[string]any) []domain.ImageArtifact {
	return lo.FilterMap(listField(obj, "images"), func(item any, _ int) (domain.ImageArtifact, bool) {
		entry, ok := item.(map[string]any)
		if !ok {
			return domain.ImageArtifact{}, false
		}
		if data := stringField(entry, "base64"); data != "" {
			return domain.InlineArtifact(data, firstString(entry, "mime", "mimeType", "mime_type")), true
		}
		if locator := stringField(entry, "url"); locator != "" {
			return domain.ReferenceArtifact(locator), true
		}
		return domain.ImageArtifact{}, false
	})
}

// candidates[]: {image} or the Gemini content.parts[] layout.
func extractCandidates(obj map[string]any) []domain.ImageArtifact {
	var out []domain.ImageArtifact
	for _, item := range listField(obj, "candidates") {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if data := stringField(entry, "image"); data != "" {
			out = append(out, domain.InlineArtifact(data, ""))
			continue
		}
		for _, rawPart := range listField(objectField(entry, "content"), "parts") {
			part, ok := rawPart.(map[string]any)
			if !ok {
				continue
			}
			if artifact, ok := partArtifact(part); ok {
				out = append(out, artifact)
			}
		}
	}
	return out
}

func partArtifact(part map[string]any) (domain.ImageArtifact, bool) {
	if inline := firstObject(part, "inlineData", "inline_data"); inline != nil {
		if data := stringField(inline, "data"); data != "" {
			mime := firstString(inline, "mimeType", "mime_type")
			if mime != "" && !strings.HasPrefix(mime, "image/") {
				return domain.ImageArtifact{}, false
			}
			return domain.InlineArtifact(data, mime), true
		}
	}
	if file := firstObject(part, "fileData", "file_data"); file != nil {
		if uri := firstString(file, "fileUri", "file_uri"); uri != "" {
			return domain.ReferenceArtifact(uri), true
		}
	}
	return domain.ImageArtifact{}, false
}

// outputs[].content.images[]: {image_base64} or {uri}
func extractOutputs(obj map[string]any) []domain.ImageArtifact {
	var out []domain.ImageArtifact
	for _, item := range listField(obj, "outputs") {
		for _, rawImage := range listField(objectField(item, "content"), "images") {
			img, ok := rawImage.(map[string]any)
			if !ok {
				continue
			}
			if data := stringField(img, "image_base64"); data != "" {
				out = append(out, domain.InlineArtifact(data, ""))
			} else if uri := stringField(img, "uri"); uri != "" {
				out = append(out, domain.ReferenceArtifact(uri))
			}
		}
	}
	return out
}

func listField(obj map[string]any, key string) []any {
	if obj == nil {
		return nil
	}
	list, _ := obj[key].([]any)
	return list
}

func objectField(v any, key string) map[string]any {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	child, _ := obj[key].(map[string]any)
	return child
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}

func firstString(obj map[string]any, keys ...string) string {
	for _, key := range keys {
		if s := stringField(obj, key); s != "" {
			return s
		}
	}
	return ""
}

func firstObject(obj map[string]any, keys ...string) map[string]any {
	for _, key := range keys {
		if child := objectField(obj, key); child != nil {
			return child
		}
	}
	return nil
}
