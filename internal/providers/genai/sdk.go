package genai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	genaisdk "google.golang.org/genai"

	"github.com/forthelynnn/deycantik/internal/domain"
	"github.com/forthelynnn/deycantik/internal/infra"
)

var responseModalities = []string{"TEXT", "IMAGE"}

// SDKClient generates images through the official Gemini SDK using
// GenerateContent with inline image parts.
type SDKClient struct {
	client *genaisdk.Client
	model  string
	logger *infra.Logger
}

// NewSDKClient builds the SDK backend. Without an API key the client stays
// unconfigured and every Generate call fails with a configuration error.
func NewSDKClient(ctx context.Context, opts Options) (*SDKClient, error) {
	opts = opts.withDefaults()
	c := &SDKClient{model: opts.Model, logger: opts.Logger}
	if opts.APIKey == "" {
		return c, nil
	}

	baseURL, version := splitAPIVersion(opts.BaseURL)
	client, err := genaisdk.NewClient(ctx, &genaisdk.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genaisdk.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
		HTTPOptions: genaisdk.HTTPOptions{
			BaseURL:    baseURL + "/",
			APIVersion: version,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	c.client = client
	return c, nil
}

// Model returns the configured model identifier.
func (c *SDKClient) Model() string {
	return c.model
}

// Generate issues one GenerateContent call and returns the response as a
// generic JSON value, which carries the candidates[].content.parts layout.
func (c *SDKClient) Generate(ctx context.Context, prompt domain.GenerationPrompt, req domain.GenerationRequest) (any, error) {
	if c.client == nil {
		return nil, domain.ConfigurationError(domain.ErrMissingCredential)
	}

	parts := []*genaisdk.Part{genaisdk.NewPartFromText(prompt.Text)}
	for _, in := range ImageInputs(req) {
		parts = append(parts, &genaisdk.Part{InlineData: &genaisdk.Blob{
			MIMEType: in.Payload.MIMEType,
			Data:     in.Payload.Data,
		}})
	}
	contents := []*genaisdk.Content{genaisdk.NewContentFromParts(parts, genaisdk.RoleUser)}

	config := &genaisdk.GenerateContentConfig{
		CandidateCount:     int32(imageCount(prompt.ImageCount)),
		ResponseModalities: responseModalities,
		ImageConfig:        &genaisdk.ImageConfig{AspectRatio: prompt.AspectRatio},
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return nil, classifySDKError(err)
	}

	out, err := toGeneric(resp)
	if err != nil {
		return nil, domain.BackendError(0, err.Error())
	}
	c.logger.Debug().
		Str("model", c.model).
		Int("candidates", len(resp.Candidates)).
		Msg("genai: GenerateContent completed")
	return out, nil
}

func classifySDKError(err error) error {
	var apiErr genaisdk.APIError
	if errors.As(err, &apiErr) {
		return domain.BackendError(apiErr.Code, apiErr.Message)
	}
	var apiErrPtr *genaisdk.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return domain.BackendError(apiErrPtr.Code, apiErrPtr.Message)
	}
	return domain.TransportError(err)
}

// toGeneric round-trips the typed response through JSON so the normalizer
// sees the same shape a REST caller would.
func toGeneric(resp *genaisdk.GenerateContentResponse) (any, error) {
	data, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encode response: %w", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}

// splitAPIVersion separates a trailing version segment such as /v1beta from
// the configured base URL.
func splitAPIVersion(baseURL string) (string, string) {
	i := strings.LastIndex(baseURL, "/")
	if i < 0 {
		return baseURL, ""
	}
	last := baseURL[i+1:]
	if strings.HasPrefix(last, "v1") {
		return baseURL[:i], last
	}
	return baseURL, ""
}
