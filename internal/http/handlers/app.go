package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/forthelynnn/deycantik/internal/domain"
	"github.com/forthelynnn/deycantik/internal/imagegen"
	"github.com/forthelynnn/deycantik/internal/infra"
)

// Generator runs one generation request end to end.
type Generator interface {
	Generate(ctx context.Context, in imagegen.RawInput) (domain.GenerationOutcome, error)
}

type App struct {
	Config  *infra.Config
	Logger  *infra.Logger
	Gateway Generator
}

func NewApp(cfg *infra.Config, logger *infra.Logger, gateway Generator) *App {
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	return &App{Config: cfg, Logger: logger, Gateway: gateway}
}

type errorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, r *http.Request, code int, key messageKey, details any) {
	a.json(w, code, errorResponse{Error: localize(r.Context(), key), Details: details})
}

// log returns the request-scoped logger when the middleware attached one.
func (a *App) log(r *http.Request) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return a.Logger
}
