package jsoncfg

import (
	"fmt"
	"strconv"

	"github.com/forthelynnn/deycantik/internal/domain"
)

// UGCRequest is the inbound generate-ugc payload as sent by the form. Image
// fields hold raw base64 or a data URL; every selection field may be omitted.
type UGCRequest struct {
	ProductImage   string `json:"product_image"`
	ModelImage     string `json:"model_image"`
	IncludeModel   bool   `json:"include_model"`
	AspectRatio    string `json:"aspect_ratio"`
	ImageCount     *int   `json:"image_count"`
	SpeechLanguage string `json:"speech_language"`
	ModelGender    string `json:"model_gender"`
	HairStyle      string `json:"hair_style"`
	HairColor      string `json:"hair_color"`
	Ethnicity      string `json:"ethnicity"`
	PoseStyle      string `json:"pose_style"`
	Composition    string `json:"composition"`
	Lighting       string `json:"lighting"`
	ColorGrading   string `json:"color_grading"`
	Vibe           string `json:"vibe"`
}

// Normalize fills every omitted selection field with its documented default.
// Provided values are left untouched so validation can reject them.
func (r *UGCRequest) Normalize() {
	if r == nil {
		return
	}
	for _, slot := range r.enumSlots() {
		if *slot.value == "" {
			*slot.value = domain.DefaultFor(slot.field)
		}
	}
	if r.ImageCount == nil {
		n := domain.DefaultImageCount
		r.ImageCount = &n
	}
}

// Selection copies the normalized fields into a SelectionSet.
func (r UGCRequest) Selection() domain.SelectionSet {
	count := 0
	if r.ImageCount != nil {
		count = *r.ImageCount
	}
	return domain.SelectionSet{
		IncludeModel:   r.IncludeModel,
		AspectRatio:    r.AspectRatio,
		ImageCount:     count,
		SpeechLanguage: r.SpeechLanguage,
		ModelGender:    r.ModelGender,
		HairStyle:      r.HairStyle,
		HairColor:      r.HairColor,
		Ethnicity:      r.Ethnicity,
		PoseStyle:      r.PoseStyle,
		Composition:    r.Composition,
		Lighting:       r.Lighting,
		ColorGrading:   r.ColorGrading,
		Vibe:           r.Vibe,
	}
}

// SetField assigns a selection field by wire name, as used by form decoding.
func (r *UGCRequest) SetField(name, value string) error {
	switch name {
	case domain.FieldProductImage:
		r.ProductImage = value
		return nil
	case domain.FieldModelImage:
		r.ModelImage = value
		return nil
	case domain.FieldIncludeModel:
		r.IncludeModel = parseFormBool(value)
		return nil
	case domain.FieldImageCount:
		if value == "" {
			return nil
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return domain.ValidationError(name, fmt.Errorf("%w: %q is not an integer", domain.ErrInvalidImageCount, value))
		}
		r.ImageCount = &n
		return nil
	}
	for _, slot := range r.enumSlots() {
		if slot.field == name {
			*slot.value = value
			return nil
		}
	}
	return nil
}

type enumSlot struct {
	field string
	value *string
}

func (r *UGCRequest) enumSlots() []enumSlot {
	return []enumSlot{
		{domain.FieldAspectRatio, &r.AspectRatio},
		{domain.FieldSpeechLanguage, &r.SpeechLanguage},
		{domain.FieldModelGender, &r.ModelGender},
		{domain.FieldHairStyle, &r.HairStyle},
		{domain.FieldHairColor, &r.HairColor},
		{domain.FieldEthnicity, &r.Ethnicity},
		{domain.FieldPoseStyle, &r.PoseStyle},
		{domain.FieldComposition, &r.Composition},
		{domain.FieldLighting, &r.Lighting},
		{domain.FieldColorGrading, &r.ColorGrading},
		{domain.FieldVibe, &r.Vibe},
	}
}

func parseFormBool(v string) bool {
	switch v {
	case "1", "true", "TRUE", "True", "on", "yes":
		return true
	default:
		return false
	}
}
