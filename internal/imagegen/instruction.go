package imagegen

import (
	"strings"

	"github.com/forthelynnn/deycantik/internal/domain"
)

// ProductDescription stands in for the product in the prompt; the product
// itself travels as an inline image.
const ProductDescription = "Uploaded product image (provided by user)"

const promptTemplate = `Generate a photorealistic UGC TikTok-style fashion image.

Product: [PRODUCT_DESCRIPTION]
Model: [MODEL_GENDER], ethnicity [ETHNICITY], realistic skin, natural anatomy.
Pose Style: [POSE_STYLE]
Composition: [COMPOSITION]
Lighting: [LIGHTING]
Color Grading: [COLOR_GRADING]
Vibe / Background: [VIBE]

Aspect Ratio: [ASPECT_RATIO]
Quality: ultra realistic, 4K, clean shadows, no distortion.`

// Slot names in template order. Each appears exactly once in promptTemplate.
var promptSlots = []string{
	"PRODUCT_DESCRIPTION",
	"MODEL_GENDER",
	"ETHNICITY",
	"POSE_STYLE",
	"COMPOSITION",
	"LIGHTING",
	"COLOR_GRADING",
	"VIBE",
	"ASPECT_RATIO",
}

// CompilePrompt renders the generation instruction for a validated request.
// Output depends only on the selection.
func CompilePrompt(req domain.GenerationRequest) domain.GenerationPrompt {
	sel := req.Selection
	values := map[string]string{
		"PRODUCT_DESCRIPTION": ProductDescription,
		"MODEL_GENDER":        sel.ModelGender,
		"ETHNICITY":           sel.Ethnicity,
		"POSE_STYLE":          sel.PoseStyle,
		"COMPOSITION":         sel.Composition,
		"LIGHTING":            sel.Lighting,
		"COLOR_GRADING":       sel.ColorGrading,
		"VIBE":                sel.Vibe,
		"ASPECT_RATIO":        sel.AspectRatio,
	}
	return domain.GenerationPrompt{
		Text:        renderSlots(promptTemplate, values),
		AspectRatio: sel.AspectRatio,
		ImageCount:  sel.ImageCount,
	}
}

// renderSlots substitutes every [SLOT] marker in a single left-to-right pass,
// so substituted text is never scanned for further markers.
func renderSlots(tmpl string, values map[string]string) string {
	pairs := make([]string, 0, len(promptSlots)*2)
	for _, slot := range promptSlots {
		pairs = append(pairs, slotMarker(slot), values[slot])
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

func slotMarker(slot string) string {
	return "[" + slot + "]"
}
