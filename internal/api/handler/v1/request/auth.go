package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	"github.com/hostbuddy/api/internal/domain"
)

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (req *RegisterRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
	)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (req *LoginRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
	)
}

// UpdateProfileRequest is a partial update: omitted fields keep their value.
type UpdateProfileRequest struct {
	Name  domain.Optional[string] `json:"name" swaggertype:"string"`
	Email domain.Optional[string] `json:"email" swaggertype:"string"`
}

func (req *UpdateProfileRequest) Validate() error {
	return validation.Errors{
		"name":  validateIfSet(req.Name, validation.Required, validation.Length(1, 100)),
		"email": validateIfSet(req.Email, validation.Required, is.Email),
	}.Filter()
}

func (req *UpdateProfileRequest) ToPatch() domain.ProfilePatch {
	return domain.ProfilePatch{
		Name:  req.Name,
		Email: req.Email,
	}
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

func (req *ChangePasswordRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.CurrentPassword, validation.Required),
		validation.Field(&req.NewPassword, validation.Required),
	)
}

type DeleteAccountRequest struct {
	Password     string `json:"password" binding:"required"`
	Confirmation string `json:"confirmation" binding:"required"`
}

func (req *DeleteAccountRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Password, validation.Required),
		validation.Field(&req.Confirmation, validation.Required),
	)
}

func validateIfSet[T any](o domain.Optional[T], rules ...validation.Rule) error {
	if !o.Set {
		return nil
	}

	return validation.Validate(o.Value, rules...)
}
