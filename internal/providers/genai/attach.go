package genai

import "github.com/forthelynnn/deycantik/internal/domain"

// modelAttachment decides whether the model image travels with the call.
// Every combination is listed so none is left to a default.
var modelAttachment = []struct {
	include  bool
	supplied bool
	attach   bool
}{
	{include: true, supplied: true, attach: true},
	{include: true, supplied: false, attach: false},
	{include: false, supplied: true, attach: false},
	{include: false, supplied: false, attach: false},
}

func attachModel(include, supplied bool) bool {
	for _, row := range modelAttachment {
		if row.include == include && row.supplied == supplied {
			return row.attach
		}
	}
	return false
}

// ImageInputs returns the ordered inline images of a backend call: the
// product first, then the model image when it is attached.
func ImageInputs(req domain.GenerationRequest) []domain.ImageInput {
	inputs := []domain.ImageInput{{Role: domain.RoleProduct, Payload: req.Product}}
	if attachModel(req.Selection.IncludeModel, !req.Model.Empty()) {
		inputs = append(inputs, domain.ImageInput{Role: domain.RoleModel, Payload: *req.Model})
	}
	return inputs
}

func imageCount(n int) int {
	if n <= 0 {
		return 1
	}
	return n
}
