package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/forthelynnn/deycantik/internal/domain"
	"github.com/forthelynnn/deycantik/internal/imagegen"
	"github.com/forthelynnn/deycantik/internal/middleware"
)

type generateResponse struct {
	Images []string `json:"images"`
	Debug  any      `json:"debug,omitempty"`
}

type fieldDetails struct {
	Field string `json:"field"`
}

// GenerateUGC accepts a JSON body or a multipart form and returns the
// generated images as data URLs or locators.
func (a *App) GenerateUGC(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		a.error(w, r, http.StatusMethodNotAllowed, msgMethodNotAllowed, nil)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, a.Config.MaxUploadBytes)

	in, err := a.decodeInput(r)
	if err != nil {
		switch {
		case isTooLarge(err):
			a.error(w, r, http.StatusRequestEntityTooLarge, msgPayloadTooLarge, nil)
		case domain.KindOf(err) == domain.KindValidation:
			a.gatewayError(w, r, err)
		default:
			a.log(r).Debug().Err(err).Msg("generate-ugc: undecodable body")
			a.error(w, r, http.StatusBadRequest, msgInvalidPayload, nil)
		}
		return
	}

	outcome, err := a.Gateway.Generate(r.Context(), in)
	if err != nil {
		a.gatewayError(w, r, err)
		return
	}
	a.log(r).Info().
		Str("locale", middleware.LocaleFromContext(r.Context())).
		Str("country", middleware.CountryFromContext(r.Context())).
		Int("images", len(outcome.Artifacts)).
		Msg("generate-ugc: served")

	if r.URL.Query().Get("format") == "zip" && !outcome.Empty() {
		a.writeArchive(w, r, outcome)
		return
	}

	resp := generateResponse{Images: outcome.Strings()}
	if outcome.Empty() && a.Config.ExposeBackendDebug {
		resp.Debug = outcome.Raw
	}
	a.json(w, http.StatusOK, resp)
}

// gatewayError maps a failure to its status; backend bodies stay in the logs.
func (a *App) gatewayError(w http.ResponseWriter, r *http.Request, err error) {
	var gwErr *domain.GatewayError
	if !errors.As(err, &gwErr) {
		a.log(r).Error().Err(err).Msg("generate-ugc: unclassified failure")
		a.error(w, r, http.StatusInternalServerError, msgInternal, nil)
		return
	}

	switch gwErr.Kind {
	case domain.KindValidation:
		a.error(w, r, http.StatusBadRequest, validationMessage(gwErr), fieldDetails{Field: gwErr.Field})
	case domain.KindConfiguration:
		a.log(r).Error().Err(err).Msg("generate-ugc: backend not configured")
		a.error(w, r, http.StatusInternalServerError, msgNotConfigured, nil)
	case domain.KindTransport:
		a.error(w, r, http.StatusBadGateway, msgBackendUnreachable, nil)
	case domain.KindBackend:
		a.error(w, r, http.StatusBadGateway, msgBackendFailed, map[string]int{"status": gwErr.StatusCode})
	default:
		a.error(w, r, http.StatusInternalServerError, msgInternal, nil)
	}
}

func validationMessage(err *domain.GatewayError) messageKey {
	switch {
	case errors.Is(err, domain.ErrMissingProductImage):
		return msgMissingProductImage
	case errors.Is(err, domain.ErrInvalidImageCount):
		return msgInvalidImageCount
	case errors.Is(err, domain.ErrInvalidImage):
		return msgInvalidImage
	default:
		return msgInvalidEnumValue
	}
}

func (a *App) decodeInput(r *http.Request) (imagegen.RawInput, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		return a.decodeMultipart(r)
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return imagegen.RawInput{}, err
		}
		var in imagegen.RawInput
		for key, values := range r.PostForm {
			if len(values) == 0 {
				continue
			}
			if err := in.Fields.SetField(key, values[0]); err != nil {
				return imagegen.RawInput{}, err
			}
		}
		return in, nil
	default:
		var in imagegen.RawInput
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(&in.Fields); err != nil {
			if errors.Is(err, io.EOF) {
				return in, nil
			}
			return imagegen.RawInput{}, err
		}
		return in, nil
	}
}

func (a *App) decodeMultipart(r *http.Request) (imagegen.RawInput, error) {
	if err := r.ParseMultipartForm(a.Config.MaxUploadBytes); err != nil {
		return imagegen.RawInput{}, err
	}
	var in imagegen.RawInput
	for key, values := range r.MultipartForm.Value {
		if len(values) == 0 {
			continue
		}
		if err := in.Fields.SetField(key, strings.TrimSpace(values[0])); err != nil {
			return imagegen.RawInput{}, err
		}
	}

	var err error
	if in.ProductFile, err = readUpload(r.MultipartForm, domain.FieldProductImage); err != nil {
		return imagegen.RawInput{}, err
	}
	if in.ModelFile, err = readUpload(r.MultipartForm, domain.FieldModelImage); err != nil {
		return imagegen.RawInput{}, err
	}
	return in, nil
}

func readUpload(form *multipart.Form, field string) (*imagegen.UploadedImage, error) {
	headers := form.File[field]
	if len(headers) == 0 {
		return nil, nil
	}
	f, err := headers[0].Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", field, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	return &imagegen.UploadedImage{Data: data, ContentType: headers[0].Header.Get("Content-Type")}, nil
}

func isTooLarge(err error) bool {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return true
	}
	// multipart parsing does not always wrap the reader error
	return strings.Contains(err.Error(), "request body too large")
}
