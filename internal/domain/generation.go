package domain

import (
	"encoding/base64"
	"strings"
)

// ImagePayload is decoded image content tagged with its MIME type.
type ImagePayload struct {
	Data     []byte
	MIMEType string
}

// Empty reports whether the payload carries no bytes.
func (p *ImagePayload) Empty() bool {
	return p == nil || len(p.Data) == 0
}

// Base64 returns the standard base64 encoding of the payload bytes.
func (p ImagePayload) Base64() string {
	return base64.StdEncoding.EncodeToString(p.Data)
}

// GenerationRequest is built once per inbound call and never mutated.
type GenerationRequest struct {
	Selection SelectionSet
	Product   ImagePayload
	Model     *ImagePayload
}

// GenerationPrompt is the compiled instruction plus the generation options the
// backend needs alongside it.
type GenerationPrompt struct {
	Text        string
	AspectRatio string
	ImageCount  int
}

// ImageRole tags an inline image input sent to the backend.
type ImageRole string

const (
	RoleProduct ImageRole = "product"
	RoleModel   ImageRole = "model"
)

// ImageInput is one ordered image attachment of a backend call.
type ImageInput struct {
	Role    ImageRole
	Payload ImagePayload
}

// ArtifactKind distinguishes embedded from referenced artifacts.
type ArtifactKind string

const (
	ArtifactInline    ArtifactKind = "inline"
	ArtifactReference ArtifactKind = "reference"
)

// ImageArtifact is one generated image. Inline artifacts keep the backend's
// base64 text untouched so the rendered data URL matches what was received.
type ImageArtifact struct {
	Kind     ArtifactKind
	MIMEType string
	Encoded  string
	Locator  string
}

// InlineArtifact builds an embedded artifact, defaulting the MIME type to PNG.
func InlineArtifact(encoded, mimeType string) ImageArtifact {
	mimeType = strings.TrimSpace(mimeType)
	if mimeType == "" {
		mimeType = "image/png"
	}
	return ImageArtifact{Kind: ArtifactInline, MIMEType: mimeType, Encoded: encoded}
}

// ReferenceArtifact builds an artifact pointing at a locator.
func ReferenceArtifact(locator string) ImageArtifact {
	return ImageArtifact{Kind: ArtifactReference, Locator: locator}
}

// String renders the artifact as displayed by the caller: a data URL for
// inline bytes or the bare locator.
func (a ImageArtifact) String() string {
	if a.Kind == ArtifactInline {
		return "data:" + a.MIMEType + ";base64," + a.Encoded
	}
	return a.Locator
}

// GenerationOutcome is the success arm of the gateway. Raw is set only when
// Artifacts is empty, so callers can tell "no images" from "request failed".
type GenerationOutcome struct {
	Artifacts []ImageArtifact
	Raw       any
}

// Empty reports whether normalization found no artifacts.
func (o GenerationOutcome) Empty() bool {
	return len(o.Artifacts) == 0
}

// Strings renders every artifact in order.
func (o GenerationOutcome) Strings() []string {
	out := make([]string, len(o.Artifacts))
	for i, a := range o.Artifacts {
		out[i] = a.String()
	}
	return out
}
