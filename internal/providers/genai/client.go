package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/forthelynnn/deycantik/internal/domain"
	"github.com/forthelynnn/deycantik/internal/infra"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-1.0"
	defaultTimeout = 120 * time.Second

	apiKeyHeader = "x-goog-api-key"
)

// Options controls how the Gemini clients are configured.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     *infra.Logger
}

func (o Options) withDefaults() Options {
	o.APIKey = strings.TrimSpace(o.APIKey)
	o.BaseURL = strings.TrimRight(strings.TrimSpace(o.BaseURL), "/")
	if o.BaseURL == "" {
		o.BaseURL = defaultBaseURL
	}
	o.Model = strings.TrimSpace(o.Model)
	if o.Model == "" {
		o.Model = defaultModel
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.HTTPClient == nil {
		o.HTTPClient = &http.Client{Timeout: o.Timeout}
	}
	if o.Logger == nil {
		discard := zerolog.New(io.Discard)
		o.Logger = &discard
	}
	return o
}

// Client calls the generateImage REST endpoint. It performs exactly one
// request per Generate call.
type Client struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *infra.Logger
}

type generateImageRequest struct {
	Instances []generateImageInstance `json:"instances"`
}

type generateImageInstance struct {
	Prompt      string       `json:"prompt"`
	ImageInputs []imageInput `json:"image_inputs"`
	ModelConfig modelConfig  `json:"modelConfig"`
}

type imageInput struct {
	Role    string `json:"role"`
	Mime    string `json:"mime"`
	Content string `json:"content"`
}

type modelConfig struct {
	AspectRatio string `json:"aspectRatio"`
	ImageCount  int    `json:"imageCount"`
}

// NewClient constructs a REST client. Callers may provide a nil HTTP client;
// one bounded by opts.Timeout will be created.
func NewClient(opts Options) (*Client, error) {
	opts = opts.withDefaults()
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	return &Client{
		apiKey:     opts.APIKey,
		baseURL:    opts.BaseURL,
		model:      opts.Model,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
	}, nil
}

// Model returns the configured model identifier.
func (c *Client) Model() string {
	return c.model
}

// Generate sends the prompt and image inputs and returns the decoded JSON
// payload. Numbers are kept as json.Number.
func (c *Client) Generate(ctx context.Context, prompt domain.GenerationPrompt, req domain.GenerationRequest) (any, error) {
	if c.apiKey == "" {
		return nil, domain.ConfigurationError(domain.ErrMissingCredential)
	}

	payload := generateImageRequest{Instances: []generateImageInstance{{
		Prompt:      prompt.Text,
		ImageInputs: encodeInputs(ImageInputs(req)),
		ModelConfig: modelConfig{
			AspectRatio: prompt.AspectRatio,
			ImageCount:  imageCount(prompt.ImageCount),
		},
	}}}

	var out any
	if err := c.invoke(ctx, c.endpoint(), payload, &out); err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("model", c.model).
		Int("image_inputs", len(payload.Instances[0].ImageInputs)).
		Msg("genai: generateImage completed")
	return out, nil
}

func (c *Client) endpoint() string {
	return fmt.Sprintf("%s/models/%s:generateImage", c.baseURL, url.PathEscape(c.model))
}

func encodeInputs(inputs []domain.ImageInput) []imageInput {
	out := make([]imageInput, len(inputs))
	for i, in := range inputs {
		out[i] = imageInput{
			Role:    string(in.Role),
			Mime:    in.Payload.MIMEType,
			Content: in.Payload.Base64(),
		}
	}
	return out
}

func (c *Client) invoke(ctx context.Context, endpoint string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.TransportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.TransportError(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.BackendError(resp.StatusCode, strings.TrimSpace(string(data)))
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return domain.BackendError(resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return nil
}
