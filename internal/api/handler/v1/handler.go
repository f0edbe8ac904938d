package v1

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hostbuddy/api/internal/api/handler/v1/response"
	"github.com/hostbuddy/api/internal/api/middleware"
	"github.com/hostbuddy/api/internal/domain"
	"github.com/hostbuddy/api/internal/service"
)

var (
	errInvalidID         = errors.New("id must be a positive integer")
	errMissingPrincipal  = errors.New("authenticated user missing from request context")
	errInvalidImageIndex = errors.New("invalid image index")
)

// renderServiceErr maps a service error onto its HTTP status. Anything that is
// not one of the service error kinds is a 500 and is logged with op.
func renderServiceErr(ctx *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	case errors.Is(err, service.ErrUnauthorized):
		response.RenderErr(ctx, response.ErrUnauthorized(err))
	case errors.Is(err, service.ErrNotFound):
		response.RenderErr(ctx, response.ErrNotFound(err))
	case errors.Is(err, service.ErrConflict):
		response.RenderErr(ctx, response.ErrConflict(err))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(fmt.Errorf("%s -> %w", op, err)))
	}
}

// currentUser reads the user stored by the authenticator. Routes using it are
// always mounted behind that middleware.
func currentUser(ctx *gin.Context) (domain.User, bool) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		response.RenderErr(ctx, response.ErrInternalServerError(errMissingPrincipal))
		return domain.User{}, false
	}

	return user, true
}

func parseID(ctx *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(param), 10, 64)
	if err != nil || id == 0 {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("%s: %w", param, errInvalidID)))
		return 0, false
	}

	return uint(id), true
}

type validator interface {
	Validate() error
}

// bindJSON decodes and validates the body, rendering a 400 on failure.
func bindJSON(ctx *gin.Context, req validator) bool {
	if err := ctx.ShouldBindJSON(req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return false
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return false
	}

	return true
}
