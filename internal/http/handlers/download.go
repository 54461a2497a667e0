package handlers

import (
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/forthelynnn/deycantik/internal/domain"
	"github.com/forthelynnn/deycantik/internal/imagegen"
	"github.com/forthelynnn/deycantik/pkg/zip"
)

// writeArchive sends inline artifacts as decoded image files and references
// as .url text files.
func (a *App) writeArchive(w http.ResponseWriter, r *http.Request, outcome domain.GenerationOutcome) {
	assets := make([]zip.Asset, 0, len(outcome.Artifacts))
	for i, artifact := range outcome.Artifacts {
		asset, err := artifactAsset(i+1, artifact)
		if err != nil {
			a.log(r).Warn().Err(err).Int("index", i).Msg("generate-ugc: artifact not archivable")
			continue
		}
		assets = append(assets, asset)
	}

	archive, err := zip.ArchiveAssets(assets)
	if err != nil {
		a.log(r).Error().Err(err).Msg("generate-ugc: build archive")
		a.error(w, r, http.StatusInternalServerError, msgInternal, nil)
		return
	}
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=ugc-%s.zip", time.Now().UTC().Format("20060102-150405")))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

func artifactAsset(index int, artifact domain.ImageArtifact) (zip.Asset, error) {
	if artifact.Kind == domain.ArtifactReference {
		return zip.Asset{
			Filename: fmt.Sprintf("ugc-%02d.url", index),
			MIME:     "text/plain",
			Data:     []byte(artifact.Locator + "\n"),
		}, nil
	}
	data, err := imagegen.DecodeBase64(artifact.Encoded)
	if err != nil {
		return zip.Asset{}, err
	}
	return zip.Asset{
		Filename: fmt.Sprintf("ugc-%02d%s", index, extensionFor(artifact.MIMEType)),
		MIME:     artifact.MIMEType,
		Data:     data,
	}, nil
}

func extensionFor(mimeType string) string {
	switch strings.ToLower(mimeType) {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
