package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/clubhub/internal/app/models/dto"
)

// PingFunc checks one dependency
type PingFunc func(ctx context.Context) error

// HealthController reports database and cache reachability
type HealthController struct {
	db    PingFunc
	cache PingFunc
}

// NewHealthController creates a new HealthController. A nil cache check
// reports the cache as disabled.
func NewHealthController(db, cache PingFunc) *HealthController {
	return &HealthController{db: db, cache: cache}
}

// Health reports dependency status
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Healthy"
// @Failure 503 {object} dto.HealthResponse "A dependency is down"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	resp := dto.HealthResponse{Status: "ok", Database: "up", Redis: "disabled"}
	if err := c.db(pingCtx); err != nil {
		resp.Status, resp.Database = "degraded", "down"
	}
	if c.cache != nil {
		resp.Redis = "up"
		if err := c.cache(pingCtx); err != nil {
			resp.Status, resp.Redis = "degraded", "down"
		}
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	ctx.JSON(status, resp)
}
