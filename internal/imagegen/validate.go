package imagegen

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/forthelynnn/deycantik/internal/domain"
)

// Validator turns a RawInput into a well-formed GenerationRequest without I/O.
type Validator struct {
	validate *validator.Validate
}

// NewValidator registers the closed-set rule used by the SelectionSet tags.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Only fails on a malformed registration, which is a programming error.
	if err := v.RegisterValidation("ugcenum", func(fl validator.FieldLevel) bool {
		return domain.Allowed(fl.Param(), fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return &Validator{validate: v}
}

// Validate checks the product image first, then fills defaults and checks
// every selection field against its closed set.
func (v *Validator) Validate(in RawInput) (domain.GenerationRequest, error) {
	product, err := resolveImage(in.ProductFile, in.Fields.ProductImage)
	if err != nil {
		if errors.Is(err, errNoImage) {
			return domain.GenerationRequest{}, domain.ValidationError(domain.FieldProductImage, domain.ErrMissingProductImage)
		}
		return domain.GenerationRequest{}, domain.ValidationError(domain.FieldProductImage, err)
	}

	fields := in.Fields
	fields.Normalize()
	selection := fields.Selection()
	if err := v.validate.Struct(selection); err != nil {
		return domain.GenerationRequest{}, selectionError(err)
	}

	req := domain.GenerationRequest{Selection: selection, Product: product}
	model, err := resolveImage(in.ModelFile, fields.ModelImage)
	switch {
	case errors.Is(err, errNoImage):
	case err != nil && selection.IncludeModel:
		return domain.GenerationRequest{}, domain.ValidationError(domain.FieldModelImage, err)
	case err != nil:
		// model image not requested; ignore it
	default:
		req.Model = &model
	}
	return req, nil
}

func selectionError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return domain.ValidationError("selection", err)
	}
	first := fieldErrs[0]
	if first.Field() == domain.FieldImageCount {
		return domain.ValidationError(first.Field(), domain.ErrInvalidImageCount)
	}
	return domain.ValidationError(first.Field(), domain.ErrInvalidEnumValue)
}
