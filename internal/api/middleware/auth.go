package middleware

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/hostbuddy/api/internal/api/handler/v1/response"
	"github.com/hostbuddy/api/internal/domain"
	"github.com/hostbuddy/api/internal/pkg/jwthelper"
	"github.com/hostbuddy/api/internal/service"
)

const ContextUserKey = "user"

type UserResolver interface {
	CurrentUser(ctx context.Context, token string) (domain.User, error)
}

type Authenticator struct {
	users UserResolver
}

func NewAuthenticator(users UserResolver) *Authenticator {
	return &Authenticator{
		users: users,
	}
}

// VerifyJWT resolves the bearer token to a user and stores it on the context
// under ContextUserKey.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := jwthelper.TokenFromHeader(ctx.GetHeader("Authorization"))
		if err != nil {
			response.RenderErr(ctx, response.ErrUnauthorized(err))
			return
		}

		user, err := a.users.CurrentUser(ctx.Request.Context(), token)
		if err != nil {
			if errors.Is(err, service.ErrUnauthorized) {
				response.RenderErr(ctx, response.ErrUnauthorized(err))
				return
			}

			response.RenderErr(ctx, response.ErrInternalServerError(err))
			return
		}

		ctx.Set(ContextUserKey, user)
		ctx.Next()
	}
}

// CurrentUser returns the user VerifyJWT stored on the context.
func CurrentUser(ctx *gin.Context) (domain.User, bool) {
	v, ok := ctx.Get(ContextUserKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := v.(domain.User)

	return user, ok
}
