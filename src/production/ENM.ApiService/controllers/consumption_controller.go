package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"gitlab.com/voltsense1/enm.energy_server/src/production/ENM.ApiService/implementation/consumption"
	logger "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Logger"
	enmmodels "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models"
	api_models "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models/api"
)

// ConsumptionController handles consumption report queries
type ConsumptionController struct {
	consumption *consumption.Service
	logger      *logger.Logger
}

// NewConsumptionController creates a new consumption controller
func NewConsumptionController(consumptionService *consumption.Service, log *logger.Logger) *ConsumptionController {
	return &ConsumptionController{
		consumption: consumptionService,
		logger:      log.WithComponent("consumption_api"),
	}
}

// RegisterRoutes registers the consumption routes with Gin
func (c *ConsumptionController) RegisterRoutes(router *gin.Engine) {
	router.GET("/consumption", c.GetConsumption)
}

// GetConsumption returns the consumption report for optional device_id and
// period query parameters.
func (c *ConsumptionController) GetConsumption(ctx *gin.Context) {
	var deviceID *int
	if raw := ctx.Query("device_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "device_id must be an integer"})
			return
		}
		deviceID = &id
	}

	period := enmmodels.Period(ctx.DefaultQuery("period", string(enmmodels.PeriodTotal)))
	if !period.IsValid() {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "period must be one of today, week, month, total"})
		return
	}

	report, err := c.consumption.Aggregate(ctx.Request.Context(), deviceID, period)
	if err != nil {
		if errors.Is(err, api_models.ErrDeviceNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.logger.WithError(err).Error("failed to aggregate consumption")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, report)
}
