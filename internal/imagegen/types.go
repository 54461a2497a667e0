package imagegen

import (
	"context"

	"github.com/forthelynnn/deycantik/internal/domain"
	"github.com/forthelynnn/deycantik/internal/domain/jsoncfg"
)

// UploadedImage is a file part received through multipart/form-data.
type UploadedImage struct {
	Data        []byte
	ContentType string
}

// RawInput is an inbound request before validation. Uploaded files take
// precedence over the encoded image strings in Fields.
type RawInput struct {
	Fields      jsoncfg.UGCRequest
	ProductFile *UploadedImage
	ModelFile   *UploadedImage
}

// Backend performs the single outbound call of a generation and returns the
// generically decoded payload.
type Backend interface {
	Generate(ctx context.Context, prompt domain.GenerationPrompt, req domain.GenerationRequest) (any, error)
}
