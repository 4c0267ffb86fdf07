package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Govind-619/ZapShift/utils"
)

const healthTimeout = 5 * time.Second

// Healthz reports whether the store and the lock backend answer
func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	status := gin.H{"database": "up", "cache": "up"}
	healthy := true
	if err := h.ledger.Ping(ctx); err != nil {
		utils.LogError("Health check: database ping failed: %v", err)
		status["database"] = "down"
		healthy = false
	}
	if err := h.locker.Ping(ctx); err != nil {
		utils.LogError("Health check: cache ping failed: %v", err)
		status["cache"] = "down"
		healthy = false
	}

	if !healthy {
		utils.Error(c, http.StatusServiceUnavailable, "Service unhealthy", status)
		return
	}
	utils.Success(c, "Service healthy", status)
}
