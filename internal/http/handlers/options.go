package handlers

import (
	"net/http"

	"github.com/samber/lo"

	"github.com/forthelynnn/deycantik/internal/domain"
)

type imageCountOption struct {
	Min     int `json:"min"`
	Max     int `json:"max"`
	Default int `json:"default"`
}

type optionsResponse struct {
	Fields       []domain.EnumField `json:"fields"`
	ImageCount   imageCountOption   `json:"image_count"`
	IncludeModel bool               `json:"include_model"`
	Defaults     map[string]string  `json:"defaults"`
}

// UGCOptions serves the closed sets the form must offer.
func (a *App) UGCOptions(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, optionsResponse{
		Fields: domain.Schema,
		ImageCount: imageCountOption{
			Min:     domain.MinImageCount,
			Max:     domain.MaxImageCount,
			Default: domain.DefaultImageCount,
		},
		IncludeModel: domain.DefaultSelection().IncludeModel,
		Defaults: lo.Associate(domain.Schema, func(f domain.EnumField) (string, string) {
			return f.Name, f.Default
		}),
	})
}
