package imagegen

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/gabriel-vasile/mimetype"

	"github.com/forthelynnn/deycantik/internal/domain"
)

var errNoImage = errors.New("no image supplied")

// fallbackMIME labels bytes that decode but match no known image signature.
const fallbackMIME = "image/png"

var base64Encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

func resolveImage(upload *UploadedImage, encoded string) (domain.ImagePayload, error) {
	if upload != nil {
		if len(upload.Data) == 0 {
			return domain.ImagePayload{}, errNoImage
		}
		return sniffPayload(upload.Data, upload.ContentType), nil
	}
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return domain.ImagePayload{}, errNoImage
	}
	return DecodeImageString(encoded)
}

// DecodeImageString accepts raw base64 or a data URL and returns the decoded
// image bytes with their MIME type.
func DecodeImageString(s string) (domain.ImagePayload, error) {
	declared := ""
	body := strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(body, "data:"); ok {
		meta, data, found := strings.Cut(rest, ",")
		if !found {
			return domain.ImagePayload{}, fmt.Errorf("%w: malformed data url", domain.ErrInvalidImage)
		}
		mime, isBase64 := strings.CutSuffix(meta, ";base64")
		if !isBase64 {
			return domain.ImagePayload{}, fmt.Errorf("%w: data url must be base64 encoded", domain.ErrInvalidImage)
		}
		declared = mime
		body = data
	}
	data, err := DecodeBase64(body)
	if err != nil {
		return domain.ImagePayload{}, fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}
	if len(data) == 0 {
		return domain.ImagePayload{}, errNoImage
	}
	return sniffPayload(data, declared), nil
}

// DecodeBase64 decodes padded or unpadded, standard or URL-safe base64,
// ignoring embedded whitespace.
func DecodeBase64(s string) ([]byte, error) {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	for _, enc := range base64Encodings {
		if data, err := enc.DecodeString(s); err == nil {
			return data, nil
		}
	}
	return nil, errors.New("payload is not base64")
}

// sniffPayload prefers the detected image type, then a declared image type,
// and otherwise labels the bytes with fallbackMIME.
func sniffPayload(data []byte, declared string) domain.ImagePayload {
	detected := baseMIME(mimetype.Detect(data).String())
	declared = baseMIME(declared)
	switch {
	case strings.HasPrefix(detected, "image/"):
		return domain.ImagePayload{Data: data, MIMEType: detected}
	case strings.HasPrefix(declared, "image/"):
		return domain.ImagePayload{Data: data, MIMEType: declared}
	default:
		return domain.ImagePayload{Data: data, MIMEType: fallbackMIME}
	}
}

func baseMIME(v string) string {
	if i := strings.IndexByte(v, ';'); i >= 0 {
		v = v[:i]
	}
	return strings.ToLower(strings.TrimSpace(v))
}
