package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	logger "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Logger"
	enmmodels "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models"
	interfaces "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Repository/Interfaces"
)

// ReadingController ingests readings reported by the meter firmware
type ReadingController struct {
	devices  interfaces.DeviceRepository
	readings interfaces.ReadingRepository
	logger   *logger.Logger
}

// NewReadingController creates a new reading controller
func NewReadingController(devices interfaces.DeviceRepository, readings interfaces.ReadingRepository, log *logger.Logger) *ReadingController {
	return &ReadingController{
		devices:  devices,
		readings: readings,
		logger:   log.WithComponent("readings"),
	}
}

// RegisterRoutes registers the reading routes with Gin
func (c *ReadingController) RegisterRoutes(router *gin.Engine) {
	router.POST("/readings", c.CreateReading)
}

type createReadingRequest struct {
	Port        string   `json:"port"`
	EnergyWh    *float64 `json:"energy_wh"`
	DurationMin *float64 `json:"duration_min"`
}

// CreateReading stores a reading for the device registered on the given port
func (c *ReadingController) CreateReading(ctx *gin.Context) {
	var req createReadingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Port == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "field 'port' is required"})
		return
	}
	if req.EnergyWh == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "field 'energy_wh' is required"})
		return
	}
	if req.DurationMin == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "field 'duration_min' is required"})
		return
	}

	device, err := c.devices.GetDeviceByPort(ctx.Request.Context(), req.Port)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if device == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no device registered on port %s", req.Port)})
		return
	}

	reading, err := c.readings.CreateReading(ctx.Request.Context(), enmmodels.Reading{
		DeviceID:    device.ID,
		EnergyWh:    *req.EnergyWh,
		DurationMin: *req.DurationMin,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		c.logger.WithError(err).Error("failed to store reading")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, reading)
}
