package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"gitlab.com/voltsense1/enm.energy_server/src/production/ENM.ApiService/implementation/ai"
	"gitlab.com/voltsense1/enm.energy_server/src/production/ENM.ApiService/implementation/consumption"
	logger "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Logger"
	enmmodels "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models"
	api_models "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models/api"
	parser "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Parser"
	interfaces "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Repository/Interfaces"
)

// TestController drives the full parse → aggregate → generate pipeline
// synchronously, without the messaging platform. Useful for trying the
// assistant before wiring Chatwoot.
type TestController struct {
	consumption *consumption.Service
	agent       ai.Agent
	devices     interfaces.DeviceRepository
	readings    interfaces.ReadingRepository
	logger      *logger.Logger
}

// NewTestController creates a new test controller
func NewTestController(consumptionService *consumption.Service, agent ai.Agent, devices interfaces.DeviceRepository, readings interfaces.ReadingRepository, log *logger.Logger) *TestController {
	return &TestController{
		consumption: consumptionService,
		agent:       agent,
		devices:     devices,
		readings:    readings,
		logger:      log.WithComponent("test_api"),
	}
}

// RegisterRoutes registers the test routes with Gin
func (c *TestController) RegisterRoutes(router *gin.Engine) {
	test := router.Group("/test")
	{
		test.POST("/chat", c.Chat)
		test.GET("/devices", c.ListDevices)
	}
}

type chatRequest struct {
	Message  string `json:"message"`
	DeviceID *int   `json:"device_id"`
	Period   string `json:"period"`
}

// Chat runs the pipeline for one message. Explicit device_id/period fields
// override whatever the parser extracts from the message.
func (c *TestController) Chat(ctx *gin.Context) {
	var req chatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Message == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error": "field 'message' is required",
			"example": chatRequest{
				Message: "Qual o consumo hoje do dispositivo 1?",
			},
		})
		return
	}

	parsed := parser.Parse(req.Message)

	deviceID := parsed.DeviceID
	if req.DeviceID != nil {
		deviceID = req.DeviceID
	}

	period := parsed.Period
	if req.Period != "" {
		period = enmmodels.Period(req.Period)
		if !period.IsValid() {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "period must be one of today, week, month, total"})
			return
		}
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

	answer, err := c.agent.GenerateResponse(ctx.Request.Context(), req.Message, report)
	if err != nil {
		c.logger.WithError(err).Error("failed to generate answer")
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success": true,
		"input": gin.H{
			"message":   req.Message,
			"device_id": deviceID,
			"period":    period,
		},
		"report":    report,
		"answer":    answer,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ListDevices returns the registered devices with their reading counts
func (c *TestController) ListDevices(ctx *gin.Context) {
	devices, err := c.devices.ListDevices(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	items := make([]enmmodels.DeviceWithReadingCount, 0, len(devices))
	for _, device := range devices {
		count, err := c.readings.CountReadingsByDevice(ctx.Request.Context(), device.ID)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		items = append(items, enmmodels.DeviceWithReadingCount{
			ID:           device.ID,
			Name:         device.Name,
			Port:         device.Port,
			Description:  device.Description,
			ReadingCount: count,
		})
	}

	ctx.JSON(http.StatusOK, gin.H{"devices": items, "total": len(items)})
}
