package request

import (
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/hostbuddy/api/internal/domain"
)

type CreateLayoutRequest struct {
	EventID uint            `json:"event_id" binding:"required"`
	Name    string          `json:"name" binding:"required"`
	Layout  domain.Document `json:"layout"`
}

func (req *CreateLayoutRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.EventID, validation.Required),
		validation.Field(&req.Name, validation.Required, validation.Length(1, 200)),
	)
}

func (req *CreateLayoutRequest) ToDomain() domain.Layout {
	return domain.Layout{
		EventID:  req.EventID,
		Name:     req.Name,
		Document: req.Layout,
	}
}

type UpdateLayoutRequest struct {
	Name   domain.Optional[string]          `json:"name" swaggertype:"string"`
	Layout domain.Optional[domain.Document] `json:"layout" swaggertype:"object"`
}

func (req *UpdateLayoutRequest) Validate() error {
	return validation.Errors{
		"name": validateIfSet(req.Name, validation.Required, validation.Length(1, 200)),
	}.Filter()
}

func (req *UpdateLayoutRequest) ToPatch() domain.LayoutPatch {
	return domain.LayoutPatch{
		Name:     req.Name,
		Document: req.Layout,
	}
}
