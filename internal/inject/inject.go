package inject

import (
	"context"
	"fmt"
	"net/http"

	"github.com/samber/do"

	"github.com/forthelynnn/deycantik/internal/http/handlers"
	"github.com/forthelynnn/deycantik/internal/http/httpapi"
	"github.com/forthelynnn/deycantik/internal/imagegen"
	"github.com/forthelynnn/deycantik/internal/infra"
	"github.com/forthelynnn/deycantik/internal/infra/geoip"
	"github.com/forthelynnn/deycantik/internal/middleware"
	"github.com/forthelynnn/deycantik/internal/providers/genai"
)

// Setup registers every service of the API process. Services are built
// lazily on first invocation.
func Setup(ctx context.Context, cfg *infra.Config, logger *infra.Logger) *do.Injector {
	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			logger.Debug().Msgf(format, args...)
		},
	})

	do.ProvideValue[*infra.Config](injector, cfg)
	do.ProvideValue[*infra.Logger](injector, logger)

	do.Provide[geoip.CountryResolver](injector, func(i *do.Injector) (geoip.CountryResolver, error) {
		return geoip.NewResolver(do.MustInvoke[*infra.Config](i).GeoIPDBPath)
	})
	do.Provide[imagegen.Backend](injector, func(i *do.Injector) (imagegen.Backend, error) {
		return NewBackend(ctx, do.MustInvoke[*infra.Config](i), do.MustInvoke[*infra.Logger](i))
	})
	do.Provide[*imagegen.Gateway](injector, func(i *do.Injector) (*imagegen.Gateway, error) {
		return imagegen.NewGateway(do.MustInvoke[imagegen.Backend](i), do.MustInvoke[*infra.Logger](i)), nil
	})
	do.Provide[*handlers.App](injector, func(i *do.Injector) (*handlers.App, error) {
		return handlers.NewApp(
			do.MustInvoke[*infra.Config](i),
			do.MustInvoke[*infra.Logger](i),
			do.MustInvoke[*imagegen.Gateway](i),
		), nil
	})
	do.Provide[http.Handler](injector, func(i *do.Injector) (http.Handler, error) {
		cfg := do.MustInvoke[*infra.Config](i)
		return httpapi.NewRouter(do.MustInvoke[*handlers.App](i), httpapi.Options{
			AllowedOrigins:  cfg.CORSAllowedOrigins,
			RateLimitPerMin: cfg.RateLimitPerMin,
			DefaultLocale:   cfg.DefaultLocale,
			CountryLookup:   countryLookup(do.MustInvoke[geoip.CountryResolver](i)),
		}), nil
	})
	do.Provide[*infra.HTTPServer](injector, func(i *do.Injector) (*infra.HTTPServer, error) {
		return infra.NewHTTPServer(do.MustInvoke[*infra.Config](i), do.MustInvoke[http.Handler](i)), nil
	})

	return injector
}

// NewBackend selects the backend client named by BACKEND_PROVIDER.
func NewBackend(ctx context.Context, cfg *infra.Config, logger *infra.Logger) (imagegen.Backend, error) {
	opts := genai.Options{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiImageModel,
		Timeout: cfg.BackendTimeout,
		Logger:  logger,
	}
	switch cfg.BackendProvider {
	case infra.BackendREST:
		return genai.NewClient(opts)
	case infra.BackendGenAI:
		return genai.NewSDKClient(ctx, opts)
	default:
		return nil, fmt.Errorf("unknown backend provider %q", cfg.BackendProvider)
	}
}

func countryLookup(resolver geoip.CountryResolver) middleware.CountryLookup {
	if resolver == nil {
		return nil
	}
	return resolver.CountryCode
}
