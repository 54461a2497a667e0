package handlers

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/forthelynnn/deycantik/internal/domain"
	"github.com/forthelynnn/deycantik/internal/imagegen"
	"github.com/forthelynnn/deycantik/internal/infra"
	"github.com/forthelynnn/deycantik/internal/middleware"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type stubGenerator struct {
	outcome domain.GenerationOutcome
	err     error
	calls   int
	last    imagegen.RawInput
}

func (s *stubGenerator) Generate(_ context.Context, in imagegen.RawInput) (domain.GenerationOutcome, error) {
	s.calls++
	s.last = in
	return s.outcome, s.err
}

func testConfig() *infra.Config {
	return &infra.Config{
		AppEnv:             "test",
		BackendProvider:    infra.BackendREST,
		MaxUploadBytes:     1 << 20,
		DefaultLocale:      "en",
		ExposeBackendDebug: false,
	}
}

func postJSON(t *testing.T, app *App, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.GenerateUGC(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestGenerateUGCReturnsImages(t *testing.T) {
	gen := &stubGenerator{outcome: domain.GenerationOutcome{Artifacts: []domain.ImageArtifact{
		domain.InlineArtifact("AAA", ""),
		domain.ReferenceArtifact("http://x/y.png"),
	}}}
	app := NewApp(testConfig(), nil, gen)

	rec := postJSON(t, app, "/api/generate-ugc", map[string]any{
		"product_image": base64.StdEncoding.EncodeToString(pngBytes),
		"aspect_ratio":  "16:9",
		"image_count":   3,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	images, _ := body["images"].([]any)
	if len(images) != 2 || images[0] != "data:image/png;base64,AAA" || images[1] != "http://x/y.png" {
		t.Fatalf("unexpected images: %v", body["images"])
	}
	if _, ok := body["debug"]; ok {
		t.Fatal("debug must not be present on success")
	}
	if gen.last.Fields.AspectRatio != "16:9" || gen.last.Fields.ImageCount == nil || *gen.last.Fields.ImageCount != 3 {
		t.Fatalf("fields not forwarded: %+v", gen.last.Fields)
	}
}

func TestGenerateUGCEmptyOutcomeDebugGate(t *testing.T) {
	raw := map[string]any{"foo": "bar"}
	for _, expose := range []bool{false, true} {
		cfg := testConfig()
		cfg.ExposeBackendDebug = expose
		app := NewApp(cfg, nil, &stubGenerator{outcome: domain.GenerationOutcome{Raw: raw}})

		rec := postJSON(t, app, "/api/generate-ugc", map[string]any{"product_image": "x"})
		if rec.Code != http.StatusOK {
			t.Fatalf("expose=%v: status = %d", expose, rec.Code)
		}
		body := decodeBody(t, rec)
		images, ok := body["images"].([]any)
		if !ok || len(images) != 0 {
			t.Fatalf("expose=%v: images should be an empty list, got %v", expose, body["images"])
		}
		_, hasDebug := body["debug"]
		if hasDebug != expose {
			t.Fatalf("expose=%v: debug present = %v", expose, hasDebug)
		}
	}
}

func TestGenerateUGCErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantText   string
	}{
		{"missing product", domain.ValidationError(domain.FieldProductImage, domain.ErrMissingProductImage), http.StatusBadRequest, "Product image is required."},
		{"bad enum", domain.ValidationError(domain.FieldVibe, domain.ErrInvalidEnumValue), http.StatusBadRequest, "not supported"},
		{"configuration", domain.ConfigurationError(domain.ErrMissingCredential), http.StatusInternalServerError, "not configured"},
		{"transport", domain.TransportError(io.ErrUnexpectedEOF), http.StatusBadGateway, "could not be reached"},
		{"backend", domain.BackendError(503, "secret upstream body"), http.StatusBadGateway, "failed to generate"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := NewApp(testConfig(), nil, &stubGenerator{err: tc.err})
			rec := postJSON(t, app, "/api/generate-ugc", map[string]any{})
			if rec.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantStatus)
			}
			body := decodeBody(t, rec)
			msg, _ := body["error"].(string)
			if !strings.Contains(msg, tc.wantText) {
				t.Fatalf("error = %q, want it to contain %q", msg, tc.wantText)
			}
			if strings.Contains(rec.Body.String(), "secret upstream body") {
				t.Fatal("backend body leaked to caller")
			}
		})
	}
}

func TestGenerateUGCValidationDetails(t *testing.T) {
	app := NewApp(testConfig(), nil, &stubGenerator{err: domain.ValidationError(domain.FieldImageCount, domain.ErrInvalidImageCount)})
	rec := postJSON(t, app, "/api/generate-ugc", map[string]any{})
	body := decodeBody(t, rec)
	details, _ := body["details"].(map[string]any)
	if details["field"] != domain.FieldImageCount {
		t.Fatalf("details = %v", body["details"])
	}
}

func TestGenerateUGCLocalizedError(t *testing.T) {
	app := NewApp(testConfig(), nil, &stubGenerator{err: domain.ValidationError(domain.FieldProductImage, domain.ErrMissingProductImage)})
	req := httptest.NewRequest(http.MethodPost, "/api/generate-ugc", strings.NewReader(`{}`))
	req = req.WithContext(context.WithValue(req.Context(), middleware.LocaleKey, "id"))
	rec := httptest.NewRecorder()
	app.GenerateUGC(rec, req)

	body := decodeBody(t, rec)
	if body["error"] != "Gambar produk wajib diunggah." {
		t.Fatalf("error = %v", body["error"])
	}
}

func TestGenerateUGCRejectsBadRequests(t *testing.T) {
	gen := &stubGenerator{}
	app := NewApp(testConfig(), nil, gen)

	rec := httptest.NewRecorder()
	app.GenerateUGC(rec, httptest.NewRequest(http.MethodGet, "/api/generate-ugc", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET status = %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/generate-ugc", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	app.GenerateUGC(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("malformed json status = %d", rec.Code)
	}

	cfg := testConfig()
	cfg.MaxUploadBytes = 16
	small := NewApp(cfg, nil, gen)
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/generate-ugc", strings.NewReader(`{"product_image":"`+strings.Repeat("A", 64)+`"}`))
	small.GenerateUGC(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("oversized status = %d", rec.Code)
	}

	if gen.calls != 0 {
		t.Fatalf("generator called %d times for rejected requests", gen.calls)
	}
}

func TestGenerateUGCMultipart(t *testing.T) {
	gen := &stubGenerator{outcome: domain.GenerationOutcome{Artifacts: []domain.ImageArtifact{domain.InlineArtifact("AAA", "")}}}
	app := NewApp(testConfig(), nil, gen)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("include_model", "true")
	_ = mw.WriteField("image_count", "4")
	_ = mw.WriteField("vibe", "Cafe Aesthetic")
	part, err := mw.CreateFormFile("product_image", "product.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = part.Write(pngBytes)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/generate-ugc", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	app.GenerateUGC(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", rec.Code, rec.Body.String())
	}
	in := gen.last
	if in.ProductFile == nil || !bytes.Equal(in.ProductFile.Data, pngBytes) {
		t.Fatalf("product upload not forwarded: %+v", in.ProductFile)
	}
	if in.ModelFile != nil {
		t.Fatal("model upload should be absent")
	}
	if !in.Fields.IncludeModel || in.Fields.Vibe != "Cafe Aesthetic" || in.Fields.ImageCount == nil || *in.Fields.ImageCount != 4 {
		t.Fatalf("form fields not decoded: %+v", in.Fields)
	}
}

func TestGenerateUGCMultipartBadCount(t *testing.T) {
	gen := &stubGenerator{}
	app := NewApp(testConfig(), nil, gen)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("image_count", "many")
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/generate-ugc", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	app.GenerateUGC(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if gen.calls != 0 {
		t.Fatal("generator should not be called")
	}
}

func TestGenerateUGCZipFormat(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString(pngBytes)
	gen := &stubGenerator{outcome: domain.GenerationOutcome{Artifacts: []domain.ImageArtifact{
		domain.InlineArtifact(encoded, "image/png"),
		domain.ReferenceArtifact("https://cdn/out.jpg"),
	}}}
	app := NewApp(testConfig(), nil, gen)

	rec := postJSON(t, app, "/api/generate-ugc?format=zip", map[string]any{"product_image": encoded})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/zip" {
		t.Fatalf("content type = %q", ct)
	}
	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	if err != nil {
		t.Fatalf("open zip: %v", err)
	}
	if len(zr.File) != 2 || zr.File[0].Name != "ugc-01.png" || zr.File[1].Name != "ugc-02.url" {
		t.Fatalf("unexpected entries: %v", zr.File)
	}
	rc, _ := zr.File[0].Open()
	data, _ := io.ReadAll(rc)
	rc.Close()
	if !bytes.Equal(data, pngBytes) {
		t.Fatalf("image entry not decoded: %q", data)
	}
}

func TestGenerateUGCZipEmptyFallsBackToJSON(t *testing.T) {
	app := NewApp(testConfig(), nil, &stubGenerator{outcome: domain.GenerationOutcome{Raw: map[string]any{}}})
	rec := postJSON(t, app, "/api/generate-ugc?format=zip", map[string]any{"product_image": "x"})
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("content type = %q", ct)
	}
}

func TestGenerateUGCLogsRequestCountry(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	gen := &stubGenerator{outcome: domain.GenerationOutcome{Artifacts: []domain.ImageArtifact{domain.ReferenceArtifact("https://x/1.png")}}}
	app := NewApp(testConfig(), &logger, gen)

	req := httptest.NewRequest(http.MethodPost, "/api/generate-ugc", strings.NewReader(`{"product_image":"AAA"}`))
	req.Header.Set("Content-Type", "application/json")
	ctx := context.WithValue(req.Context(), middleware.CountryKey, "ID")
	ctx = context.WithValue(ctx, middleware.LocaleKey, "id")
	rec := httptest.NewRecorder()
	app.GenerateUGC(rec, req.WithContext(ctx))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	line := buf.String()
	for _, want := range []string{`"country":"ID"`, `"locale":"id"`, `"images":1`} {
		if !strings.Contains(line, want) {
			t.Fatalf("log %q missing %s", line, want)
		}
	}
}
