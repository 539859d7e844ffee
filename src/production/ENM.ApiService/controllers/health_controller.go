package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gitlab.com/voltsense1/enm.energy_server/src/production/ENM.ApiService/health"
	"gitlab.com/voltsense1/enm.energy_server/src/production/ENM.ApiService/metrics"
)

// HealthController exposes liveness, readiness and metrics endpoints
type HealthController struct {
	checker *health.HealthChecker
}

// NewHealthController creates a new health controller
func NewHealthController(checker *health.HealthChecker) *HealthController {
	return &HealthController{checker: checker}
}

// RegisterRoutes registers the health routes with Gin
func (c *HealthController) RegisterRoutes(router *gin.Engine) {
	router.GET("/health/live", c.Live)
	router.GET("/health/ready", c.Ready)
	router.GET("/metrics", metrics.Handler())
}

// Live reports that the process is running
func (c *HealthController) Live(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports whether the database is reachable
func (c *HealthController) Ready(ctx *gin.Context) {
	status := c.checker.GetHealthStatus(ctx.Request.Context())
	code := http.StatusOK
	if status["status"] != "healthy" {
		code = http.StatusServiceUnavailable
	}
	ctx.JSON(code, status)
}
