package domain

import "github.com/samber/lo"

// Wire names of the selection fields.
const (
	FieldIncludeModel   = "include_model"
	FieldAspectRatio    = "aspect_ratio"
	FieldImageCount     = "image_count"
	FieldSpeechLanguage = "speech_language"
	FieldModelGender    = "model_gender"
	FieldHairStyle      = "hair_style"
	FieldHairColor      = "hair_color"
	FieldEthnicity      = "ethnicity"
	FieldPoseStyle      = "pose_style"
	FieldComposition    = "composition"
	FieldLighting       = "lighting"
	FieldColorGrading   = "color_grading"
	FieldVibe           = "vibe"
	FieldProductImage   = "product_image"
	FieldModelImage     = "model_image"
)

const (
	// DefaultImageCount is applied when the request omits image_count.
	DefaultImageCount = 2
	// MinImageCount and MaxImageCount bound image_count inclusively.
	MinImageCount = 1
	MaxImageCount = 6
)

// EnumField describes one closed-set selection parameter.
type EnumField struct {
	Name    string   `json:"name"`
	Values  []string `json:"values"`
	Default string   `json:"default"`
}

// Schema lists every enum field in form order.
var Schema = []EnumField{
	{Name: FieldAspectRatio, Default: "9:16", Values: []string{"16:9", "9:16"}},
	{Name: FieldSpeechLanguage, Default: "Indonesia", Values: []string{"Indonesia", "English", "Malaysia"}},
	{Name: FieldModelGender, Default: "Female", Values: []string{"Female", "Male", "Androgynous", "Unspecified"}},
	{Name: FieldHairStyle, Default: "Long Straight", Values: []string{
		"Long Straight", "Long Wavy", "Long Curly", "Medium Bob", "Short Bob",
		"Pixie Cut", "Ponytail", "Bun", "Braided",
	}},
	{Name: FieldHairColor, Default: "Black", Values: []string{
		"Black", "Dark Brown", "Light Brown", "Blonde", "Platinum", "Red", "Ginger", "Ash Grey",
	}},
	{Name: FieldEthnicity, Default: "Indonesian", Values: []string{
		"Indonesian", "Asian", "Caucasian", "African", "Middle Eastern", "Latin", "Indian", "Mixed",
	}},
	{Name: FieldPoseStyle, Default: "Eye Contact", Values: []string{
		"Eye Contact", "Natural Smile", "Side Look", "Walking", "Sitting Casual", "Standing Straight",
		"Holding Product", "Talking Style", "Over-the-Shoulder", "Leaning Pose", "Looking Down",
		"Action / Movement",
	}},
	{Name: FieldComposition, Default: "Vlog Style", Values: []string{
		"Vlog Style", "Product Focus", "Full Body", "Half Body", "Close Up", "Lifestyle Shot",
		"Fashion Editorial", "POV Shot", "Mirror Selfie Style", "Minimalist Studio Shot",
	}},
	{Name: FieldLighting, Default: "Ring Light", Values: []string{
		"Ring Light", "Soft Light", "Golden Hour", "Natural Window Light", "Studio Light",
		"High Contrast", "Low Light Mood", "Neon Light", "Outdoor Shade",
	}},
	{Name: FieldColorGrading, Default: "Natural", Values: []string{
		"Natural", "Warm", "Cool", "Cinematic", "High Contrast", "Soft Pastel", "Moody", "Vibrant",
	}},
	{Name: FieldVibe, Default: "Bedroom Morning", Values: []string{
		"Bedroom Morning", "Cafe Aesthetic", "Outdoor Street", "Minimalist Studio",
		"Luxury Living Room", "Shopping Mall", "Rooftop Sunset", "Beach Daylight", "Office Modern",
		"Cozy Warm Room", "Clean White Background", "Fashion Runway Style",
	}},
}

var schemaByName = lo.KeyBy(Schema, func(f EnumField) string { return f.Name })

// LookupField returns the enum definition for a wire field name.
func LookupField(name string) (EnumField, bool) {
	f, ok := schemaByName[name]
	return f, ok
}

// Allowed reports whether value belongs to the closed set of field.
func Allowed(field, value string) bool {
	f, ok := schemaByName[field]
	if !ok {
		return false
	}
	return lo.Contains(f.Values, value)
}

// DefaultFor returns the documented default of an enum field.
func DefaultFor(field string) string {
	return schemaByName[field].Default
}

// SelectionSet is the validated, fully defaulted configuration for one
// generation request.
type SelectionSet struct {
	IncludeModel   bool   `json:"include_model"`
	AspectRatio    string `json:"aspect_ratio" validate:"ugcenum=aspect_ratio"`
	ImageCount     int    `json:"image_count" validate:"min=1,max=6"`
	SpeechLanguage string `json:"speech_language" validate:"ugcenum=speech_language"`
	ModelGender    string `json:"model_gender" validate:"ugcenum=model_gender"`
	HairStyle      string `json:"hair_style" validate:"ugcenum=hair_style"`
	HairColor      string `json:"hair_color" validate:"ugcenum=hair_color"`
	Ethnicity      string `json:"ethnicity" validate:"ugcenum=ethnicity"`
	PoseStyle      string `json:"pose_style" validate:"ugcenum=pose_style"`
	Composition    string `json:"composition" validate:"ugcenum=composition"`
	Lighting       string `json:"lighting" validate:"ugcenum=lighting"`
	ColorGrading   string `json:"color_grading" validate:"ugcenum=color_grading"`
	Vibe           string `json:"vibe" validate:"ugcenum=vibe"`
}

// DefaultSelection returns the selection used when every field is omitted.
func DefaultSelection() SelectionSet {
	return SelectionSet{
		IncludeModel:   false,
		AspectRatio:    DefaultFor(FieldAspectRatio),
		ImageCount:     DefaultImageCount,
		SpeechLanguage: DefaultFor(FieldSpeechLanguage),
		ModelGender:    DefaultFor(FieldModelGender),
		HairStyle:      DefaultFor(FieldHairStyle),
		HairColor:      DefaultFor(FieldHairColor),
		Ethnicity:      DefaultFor(FieldEthnicity),
		PoseStyle:      DefaultFor(FieldPoseStyle),
		Composition:    DefaultFor(FieldComposition),
		Lighting:       DefaultFor(FieldLighting),
		ColorGrading:   DefaultFor(FieldColorGrading),
		Vibe:           DefaultFor(FieldVibe),
	}
}
