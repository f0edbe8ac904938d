package v1

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hostbuddy/api/internal/api/handler/v1/response"
)

func TestHealthHandler(t *testing.T) {
	var pingErr error
	h := NewHealthHandler("1.2.3", PingFunc(func(ctx context.Context) error { return pingErr }))
	r := newTestRouter(nil)
	r.GET("/", h.HandleRoot)
	r.GET("/health", h.HandleHealthcheck)
	r.GET("/ready", h.HandleReady)

	w := doJSON(t, r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1.2.3", decode[response.Health](t, w).Version)

	w = doJSON(t, r, http.MethodGet, "/health", nil)
	assert.Equal(t, "healthy", decode[response.Health](t, w).Status)

	w = doJSON(t, r, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	pingErr = errors.New("connection refused")
	w = doJSON(t, r, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "unavailable", decode[response.Health](t, w).Status)
}
