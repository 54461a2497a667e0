package imagegen

import (
	"context"
	"errors"
	"io"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/forthelynnn/deycantik/internal/domain"
	"github.com/forthelynnn/deycantik/internal/infra"
)

// Gateway runs one generation: validate, compile the prompt, call the
// backend once and normalize whatever comes back.
type Gateway struct {
	validator *Validator
	backend   Backend
	model     string
	logger    *infra.Logger
}

// modelNamer is implemented by backends bound to a single model.
type modelNamer interface {
	Model() string
}

// NewGateway wires a backend into a gateway. A nil logger discards output.
func NewGateway(backend Backend, logger *infra.Logger) *Gateway {
	if logger == nil {
		discard := zerolog.New(io.Discard)
		logger = &discard
	}
	g := &Gateway{validator: NewValidator(), backend: backend, logger: logger}
	if named, ok := backend.(modelNamer); ok {
		g.model = named.Model()
	}
	return g
}

// Generate returns either the ordered artifacts or a *domain.GatewayError.
// Validation failures never reach the backend.
func (g *Gateway) Generate(ctx context.Context, in RawInput) (domain.GenerationOutcome, error) {
	req, err := g.validator.Validate(in)
	if err != nil {
		return domain.GenerationOutcome{}, err
	}

	log := g.loggerFor(ctx)
	prompt := CompilePrompt(req)
	log.Debug().
		Str("model", g.model).
		Str("aspect_ratio", prompt.AspectRatio).
		Int("image_count", prompt.ImageCount).
		Bool("include_model", req.Selection.IncludeModel).
		Bool("model_supplied", req.Model != nil).
		Msg("imagegen: dispatching generation")

	payload, err := g.backend.Generate(ctx, prompt, req)
	if err != nil {
		if domain.KindOf(err) == "" {
			err = domain.TransportError(err)
		}
		logFailure(log, g.model, err)
		return domain.GenerationOutcome{}, err
	}

	normalized := Normalize(payload)
	if len(normalized.Artifacts) == 0 {
		log.Warn().
			Strs("payload_keys", PayloadKeys(payload)).
			Msg("imagegen: backend returned no recognizable images")
		return domain.GenerationOutcome{Raw: payload}, nil
	}

	log.Info().
		Str("model", g.model).
		Str("shape", normalized.Shape).
		Int("artifacts", len(normalized.Artifacts)).
		Msg("imagegen: generation completed")
	return domain.GenerationOutcome{Artifacts: normalized.Artifacts}, nil
}

// loggerFor prefers the request-scoped logger attached by the HTTP middleware.
func (g *Gateway) loggerFor(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return g.logger
}

func logFailure(log *zerolog.Logger, model string, err error) {
	event := log.Error().Err(err).Str("model", model).Str("kind", string(domain.KindOf(err)))
	var gwErr *domain.GatewayError
	if errors.As(err, &gwErr) && gwErr.StatusCode != 0 {
		event = event.Int("backend_status", gwErr.StatusCode).Str("backend_body", truncate(gwErr.Body, 512))
	}
	event.Msg("imagegen: backend call failed")
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}
