package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostbuddy/api/internal/api/handler/v1/request"
	"github.com/hostbuddy/api/internal/api/handler/v1/response"
	"github.com/hostbuddy/api/internal/domain"
	"github.com/hostbuddy/api/internal/pkg/jwthelper"
)

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (domain.User, error)
	Login(ctx context.Context, email, password string) (domain.User, jwthelper.Token, error)
	UpdateProfile(ctx context.Context, user domain.User, patch domain.ProfilePatch) (domain.User, error)
	ChangePassword(ctx context.Context, user domain.User, currentPassword, newPassword string) error
	DeleteAccount(ctx context.Context, user domain.User, password, confirmation string) error
}

type AuthHandler struct {
	svc AuthService
}

func NewAuthHandler(svc AuthService) *AuthHandler {
	return &AuthHandler{
		svc: svc,
	}
}

// HandleRegister godoc
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.RegisterRequest  true  "request body"
// @Success      201      {object}  domain.User
// @Failure      400      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /auth/register [post]
func (h *AuthHandler) HandleRegister(ctx *gin.Context) {
	var req request.RegisterRequest
	if !bindJSON(ctx, &req) {
		return
	}

	user, err := h.svc.Register(ctx.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleRegister -> h.svc.Register", err)
		return
	}

	ctx.JSON(http.StatusCreated, user)
}

// HandleLogin godoc
// @Summary      Log in and receive a bearer token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body      request.LoginRequest  true  "request body"
// @Success      200      {object}  response.LoginResponse
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      500      {object}  response.Err
// @Router       /auth/login [post]
func (h *AuthHandler) HandleLogin(ctx *gin.Context) {
	var req request.LoginRequest
	if !bindJSON(ctx, &req) {
		return
	}

	_, token, err := h.svc.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleLogin -> h.svc.Login", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewLoginResponse(token))
}

// HandleMe godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.User
// @Failure      401  {object}  response.Err
// @Router       /auth/me [get]
func (h *AuthHandler) HandleMe(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, user)
}

// HandleUpdateProfile godoc
// @Summary      Update name and/or email
// @Description  Tokens carry the email as subject; after an email change the client must log in again.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      request.UpdateProfileRequest  true  "request body"
// @Success      200      {object}  domain.User
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Failure      409      {object}  response.Err
// @Router       /auth/me/profile [put]
func (h *AuthHandler) HandleUpdateProfile(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req request.UpdateProfileRequest
	if !bindJSON(ctx, &req) {
		return
	}

	updated, err := h.svc.UpdateProfile(ctx.Request.Context(), user, req.ToPatch())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateProfile -> h.svc.UpdateProfile", err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleChangePassword godoc
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      request.ChangePasswordRequest  true  "request body"
// @Success      200      {object}  response.Message
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Router       /auth/me/password [put]
func (h *AuthHandler) HandleChangePassword(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req request.ChangePasswordRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := h.svc.ChangePassword(ctx.Request.Context(), user, req.CurrentPassword, req.NewPassword); err != nil {
		renderServiceErr(ctx, "v1.HandleChangePassword -> h.svc.ChangePassword", err)
		return
	}

	ctx.JSON(http.StatusOK, response.Message{Message: "Password updated successfully"})
}

// HandleDeleteAccount godoc
// @Summary      Delete the account and everything it owns
// @Tags         auth
// @Accept       json
// @Security     BearerAuth
// @Param        request  body  request.DeleteAccountRequest  true  "request body"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Router       /auth/me [delete]
func (h *AuthHandler) HandleDeleteAccount(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req request.DeleteAccountRequest
	if !bindJSON(ctx, &req) {
		return
	}

	if err := h.svc.DeleteAccount(ctx.Request.Context(), user, req.Password, req.Confirmation); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteAccount -> h.svc.DeleteAccount", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
