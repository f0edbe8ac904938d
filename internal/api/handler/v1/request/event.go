package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/hostbuddy/api/internal/domain"
)

type CreateEventRequest struct {
	Title       string            `json:"title" binding:"required"`
	Description *string           `json:"description"`
	Location    *string           `json:"location"`
	Images      []string          `json:"images"`
	StartDate   *domain.Date      `json:"start_date" swaggertype:"string" example:"2025-06-01"`
	EndDate     *domain.Date      `json:"end_date" swaggertype:"string" example:"2025-06-02"`
	StartTime   *domain.TimeOfDay `json:"start_time" swaggertype:"string" example:"18:00:00"`
	EndTime     *domain.TimeOfDay `json:"end_time" swaggertype:"string" example:"23:30:00"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&req.Location, validation.NilOrNotEmpty, validation.Length(0, 500)),
		validation.Field(&req.Images, validation.Each(validation.Required)),
	)
}

func (req *CreateEventRequest) ToDomain() domain.Event {
	return domain.Event{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Images:      req.Images,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	}
}

// UpdateEventRequest distinguishes omitted fields from explicit nulls.
type UpdateEventRequest struct {
	Title       domain.Optional[string]            `json:"title" swaggertype:"string"`
	Description domain.Optional[*string]           `json:"description" swaggertype:"string"`
	Location    domain.Optional[*string]           `json:"location" swaggertype:"string"`
	Images      domain.Optional[[]string]          `json:"images" swaggertype:"array,string"`
	StartDate   domain.Optional[*domain.Date]      `json:"start_date" swaggertype:"string"`
	EndDate     domain.Optional[*domain.Date]      `json:"end_date" swaggertype:"string"`
	StartTime   domain.Optional[*domain.TimeOfDay] `json:"start_time" swaggertype:"string"`
	EndTime     domain.Optional[*domain.TimeOfDay] `json:"end_time" swaggertype:"string"`
}

func (req *UpdateEventRequest) Validate() error {
	return validation.Errors{
		"title":  validateIfSet(req.Title, validation.Required, validation.Length(1, 200)),
		"images": validateIfSet(req.Images, validation.Each(validation.Required)),
	}.Filter()
}

func (req *UpdateEventRequest) ToPatch() domain.EventPatch {
	return domain.EventPatch{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Images:      req.Images,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
	}
}

type AddImageRequest struct {
	ImageURL string `json:"image_url" binding:"required"`
}

func (req *AddImageRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.ImageURL, validation.Required, is.URL),
	)
}
