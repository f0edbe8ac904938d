package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/hostbuddy/api/internal/domain"
)

type CreateElementRequest struct {
	Name        string          `json:"name" binding:"required"`
	ElementData domain.Document `json:"element_data" binding:"required" swaggertype:"object"`
	Thumbnail   *string         `json:"thumbnail"`
}

func (req *CreateElementRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.ElementData, validation.NotNil),
	)
}

func (req *CreateElementRequest) ToDomain() domain.CustomElement {
	return domain.CustomElement{
		Name:      req.Name,
		Data:      req.ElementData,
		Thumbnail: req.Thumbnail,
	}
}

type UpdateElementRequest struct {
	Name        domain.Optional[string]          `json:"name" swaggertype:"string"`
	ElementData domain.Optional[domain.Document] `json:"element_data" swaggertype:"object"`
	Thumbnail   domain.Optional[*string]         `json:"thumbnail" swaggertype:"string"`
}

func (req *UpdateElementRequest) Validate() error {
	return validation.Errors{
		"name": validateIfSet(req.Name, validation.Required, validation.Length(1, 200)),
	}.Filter()
}

func (req *UpdateElementRequest) ToPatch() domain.ElementPatch {
	return domain.ElementPatch{
		Name:      req.Name,
		Data:      req.ElementData,
		Thumbnail: req.Thumbnail,
	}
}
