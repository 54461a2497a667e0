package handlers

import (
	"context"

	"github.com/forthelynnn/deycantik/internal/middleware"
)

type messageKey string

const (
	msgMissingProductImage messageKey = "missing_product_image"
	msgInvalidEnumValue    messageKey = "invalid_enum_value"
	msgInvalidImageCount   messageKey = "invalid_image_count"
	msgInvalidImage        messageKey = "invalid_image"
	msgInvalidPayload      messageKey = "invalid_payload"
	msgPayloadTooLarge     messageKey = "payload_too_large"
	msgMethodNotAllowed    messageKey = "method_not_allowed"
	msgNotConfigured       messageKey = "not_configured"
	msgBackendUnreachable  messageKey = "backend_unreachable"
	msgBackendFailed       messageKey = "backend_failed"
	msgInternal            messageKey = "internal"
)

var messages = map[string]map[messageKey]string{
	"en": {
		msgMissingProductImage: "Product image is required.",
		msgInvalidEnumValue:    "One of the selected options is not supported.",
		msgInvalidImageCount:   "Image count must be between 1 and 6.",
		msgInvalidImage:        "The uploaded file is not a supported image.",
		msgInvalidPayload:      "The request could not be read.",
		msgPayloadTooLarge:     "The upload is too large.",
		msgMethodNotAllowed:    "Method not allowed.",
		msgNotConfigured:       "Image generation is not configured on the server.",
		msgBackendUnreachable:  "The image service could not be reached. Please try again.",
		msgBackendFailed:       "The image service failed to generate images.",
		msgInternal:            "Something went wrong.",
	},
	"id": {
		msgMissingProductImage: "Gambar produk wajib diunggah.",
		msgInvalidEnumValue:    "Salah satu pilihan tidak didukung.",
		msgInvalidImageCount:   "Jumlah gambar harus antara 1 dan 6.",
		msgInvalidImage:        "Berkas yang diunggah bukan gambar yang didukung.",
		msgInvalidPayload:      "Permintaan tidak dapat dibaca.",
		msgPayloadTooLarge:     "Ukuran unggahan terlalu besar.",
		msgMethodNotAllowed:    "Metode tidak diizinkan.",
		msgNotConfigured:       "Pembuatan gambar belum dikonfigurasi di server.",
		msgBackendUnreachable:  "Layanan gambar tidak dapat dihubungi. Silakan coba lagi.",
		msgBackendFailed:       "Layanan gambar gagal membuat gambar.",
		msgInternal:            "Terjadi kesalahan.",
	},
}

func localize(ctx context.Context, key messageKey) string {
	if table, ok := messages[middleware.LocaleFromContext(ctx)]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	return messages["en"][key]
}
