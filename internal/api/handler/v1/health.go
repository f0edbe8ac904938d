package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hostbuddy/api/internal/api/handler/v1/response"
)

const readinessTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error {
	return f(ctx)
}

type HealthHandler struct {
	version string
	db      Pinger
}

func NewHealthHandler(version string, db Pinger) *HealthHandler {
	return &HealthHandler{
		version: version,
		db:      db,
	}
}

// HandleRoot godoc
// @Summary      Welcome message
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Health
// @Router       / [get]
func (h *HealthHandler) HandleRoot(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.Health{
		Status:  "ok",
		Message: "Host Buddy API",
		Version: h.version,
	})
}

// HandleHealthcheck godoc
// @Summary      Liveness check
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Health
// @Router       /health [get]
func (h *HealthHandler) HandleHealthcheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, response.Health{Status: "healthy"})
}

// HandleReady godoc
// @Summary      Readiness check, pings the database
// @Tags         health
// @Produce      json
// @Success      200  {object}  response.Health
// @Failure      503  {object}  response.Health
// @Router       /ready [get]
func (h *HealthHandler) HandleReady(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), readinessTimeout)
	defer cancel()

	if err := h.db.Ping(pingCtx); err != nil {
		zap.L().Warn("readiness check failed", zap.Error(err))
		ctx.JSON(http.StatusServiceUnavailable, response.Health{Status: "unavailable"})
		return
	}

	ctx.JSON(http.StatusOK, response.Health{Status: "ready"})
}
