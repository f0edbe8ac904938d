package response

import (
	"time"

	"github.com/hostbuddy/api/internal/pkg/jwthelper"
)

type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func NewLoginResponse(token jwthelper.Token) LoginResponse {
	return LoginResponse{
		AccessToken: token.Value,
		TokenType:   "bearer",
		ExpiresIn:   int64(token.TTL().Seconds()),
		ExpiresAt:   token.ExpiresAt.UTC(),
	}
}

type Message struct {
	Message string `json:"message"`
}
