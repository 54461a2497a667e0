package genai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forthelynnn/deycantik/internal/domain"
	"github.com/forthelynnn/deycantik/internal/imagegen"
)

const sdkTestModel = "gemini-test-image"

type sdkInlineData struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type sdkPart struct {
	Text       string         `json:"text"`
	InlineData *sdkInlineData `json:"inlineData"`
}

type sdkRequest struct {
	Contents []struct {
		Role  string    `json:"role"`
		Parts []sdkPart `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		CandidateCount     int      `json:"candidateCount"`
		ResponseModalities []string `json:"responseModalities"`
		ImageConfig        struct {
			AspectRatio string `json:"aspectRatio"`
		} `json:"imageConfig"`
	} `json:"generationConfig"`
}

func newSDKTestClient(t *testing.T, baseURL string) *SDKClient {
	t.Helper()
	client, err := NewSDKClient(context.Background(), Options{
		APIKey:  "sdk-key",
		BaseURL: baseURL + "/v1beta",
		Model:   sdkTestModel,
	})
	require.NoError(t, err)
	return client
}

func TestSDKClientGenerateContent(t *testing.T) {
	var (
		got    sdkRequest
		path   string
		apiKey string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		apiKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[
			{"text":"here you go"},
			{"inlineData":{"mimeType":"image/png","data":"iVBORw0KGgo="}}
		]}}]}`))
	}))
	defer srv.Close()

	client := newSDKTestClient(t, srv.URL)
	assert.Equal(t, sdkTestModel, client.Model())

	payload, err := client.Generate(context.Background(), samplePrompt(), sampleRequest(true, true))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(path, "/v1beta/"), "path %q", path)
	assert.True(t, strings.HasSuffix(path, "models/"+sdkTestModel+":generateContent"), "path %q", path)
	assert.Equal(t, "sdk-key", apiKey)

	require.Len(t, got.Contents, 1)
	parts := got.Contents[0].Parts
	require.Len(t, parts, 3)
	assert.Equal(t, "compiled prompt", parts[0].Text)
	require.NotNil(t, parts[1].InlineData)
	require.NotNil(t, parts[2].InlineData)
	assert.Equal(t, "image/png", parts[1].InlineData.MIMEType)
	assert.Equal(t, "image/jpeg", parts[2].InlineData.MIMEType)

	assert.Equal(t, 3, got.GenerationConfig.CandidateCount)
	assert.Equal(t, []string{"TEXT", "IMAGE"}, got.GenerationConfig.ResponseModalities)
	assert.Equal(t, "16:9", got.GenerationConfig.ImageConfig.AspectRatio)

	normalized := imagegen.Normalize(payload)
	require.Len(t, normalized.Artifacts, 1)
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", normalized.Artifacts[0].String())
}

func TestSDKClientOmitsModelImageWhenNotIncluded(t *testing.T) {
	var got sdkRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer srv.Close()

	payload, err := newSDKTestClient(t, srv.URL).Generate(context.Background(), samplePrompt(), sampleRequest(false, true))
	require.NoError(t, err)
	require.Len(t, got.Contents, 1)
	assert.Len(t, got.Contents[0].Parts, 2)
	assert.Empty(t, imagegen.Normalize(payload).Artifacts)
}

func TestSDKClientAPIErrorIsBackendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exhausted","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	_, err := newSDKTestClient(t, srv.URL).Generate(context.Background(), samplePrompt(), sampleRequest(false, false))
	require.Error(t, err)

	var gwErr *domain.GatewayError
	require.True(t, errors.As(err, &gwErr), "got %v", err)
	assert.Equal(t, domain.KindBackend, gwErr.Kind)
	assert.Equal(t, http.StatusTooManyRequests, gwErr.StatusCode)
	assert.Contains(t, gwErr.Body, "quota exhausted")
}

func TestSDKClientDialFailureIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	closedURL := srv.URL
	srv.Close()

	_, err := newSDKTestClient(t, closedURL).Generate(context.Background(), samplePrompt(), sampleRequest(false, false))
	require.Error(t, err)
	assert.Equal(t, domain.KindTransport, domain.KindOf(err))
	assert.ErrorIs(t, err, domain.ErrBackendUnreachable)
}
