package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	logger "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Logger"
	enmmodels "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models"
	interfaces "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Repository/Interfaces"
)

// lastPowerReadings caps how many samples the per-device listing returns
const lastPowerReadings = 100

// PowerController ingests active-power samples reported by the meter firmware
type PowerController struct {
	devices interfaces.DeviceRepository
	power   interfaces.PowerRepository
	logger  *logger.Logger
}

// NewPowerController creates a new power controller
func NewPowerController(devices interfaces.DeviceRepository, power interfaces.PowerRepository, log *logger.Logger) *PowerController {
	return &PowerController{
		devices: devices,
		power:   power,
		logger:  log.WithComponent("power"),
	}
}

// RegisterRoutes registers the power routes with Gin
func (c *PowerController) RegisterRoutes(router *gin.Engine) {
	power := router.Group("/power")
	{
		power.POST("", c.CreatePowerReading)
		power.GET("/device/:deviceId", c.ListPowerReadingsByDevice)
	}
}

type createPowerReadingRequest struct {
	Port      string   `json:"port"`
	RealPower *float64 `json:"real_power"`
	PowerW    *float64 `json:"power_w"`
}

// CreatePowerReading stores an active-power sample for the device registered
// on the given port. The firmware reports the value as either real_power or
// power_w; real_power wins when both are present.
func (c *PowerController) CreatePowerReading(ctx *gin.Context) {
	var req createPowerReadingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Port == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "field 'port' is required"})
		return
	}
	value := req.RealPower
	if value == nil {
		value = req.PowerW
	}
	if value == nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "field 'real_power' or 'power_w' is required"})
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

	reading, err := c.power.CreatePowerReading(ctx.Request.Context(), enmmodels.PowerReading{
		DeviceID:  device.ID,
		PowerW:    *value,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		c.logger.WithError(err).Error("failed to store power reading")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message":       fmt.Sprintf("power reading registered for %s", device.Name),
		"power_reading": reading,
	})
}

// ListPowerReadingsByDevice returns the last samples of one device, newest
// first
func (c *PowerController) ListPowerReadingsByDevice(ctx *gin.Context) {
	deviceID, err := strconv.Atoi(ctx.Param("deviceId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
		return
	}

	readings, err := c.power.GetPowerReadingsByDevice(ctx.Request.Context(), deviceID, lastPowerReadings)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"power_readings": readings})
}
