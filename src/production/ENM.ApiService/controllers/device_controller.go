package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	logger "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Logger"
	interfaces "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Repository/Interfaces"
)

// DeviceController handles device management requests
type DeviceController struct {
	devices    interfaces.DeviceRepository
	readings   interfaces.ReadingRepository
	costPerKWh float64
	logger     *logger.Logger
}

// NewDeviceController creates a new device controller
func NewDeviceController(devices interfaces.DeviceRepository, readings interfaces.ReadingRepository, costPerKWh float64, log *logger.Logger) *DeviceController {
	return &DeviceController{
		devices:    devices,
		readings:   readings,
		costPerKWh: costPerKWh,
		logger:     log.WithComponent("devices"),
	}
}

// RegisterRoutes registers the device routes with Gin. Specific routes come
// before the parameterized ones.
func (c *DeviceController) RegisterRoutes(router *gin.Engine) {
	devices := router.Group("/devices")
	{
		devices.GET("", c.ListDevices)
		devices.POST("", c.CreateDevice)
		devices.POST("/associate", c.AssociateName)
		devices.GET("/port/:port", c.GetDeviceByPort)
		devices.GET("/:id/readings", c.ListDeviceReadings)
		devices.GET("/:id/summary", c.GetDeviceSummary)
		devices.GET("/:id", c.GetDevice)
		devices.PUT("/:id", c.UpdateDevice)
	}
}

// ListDevices lists all registered devices
func (c *DeviceController) ListDevices(ctx *gin.Context) {
	devices, err := c.devices.ListDevices(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, devices)
}

type createDeviceRequest struct {
	Name        string `json:"name"`
	Port        string `json:"port"`
	Description string `json:"description"`
}

// CreateDevice registers a new device
func (c *DeviceController) CreateDevice(ctx *gin.Context) {
	var req createDeviceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "field 'name' is required"})
		return
	}
	if req.Port == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "field 'port' is required"})
		return
	}

	device, err := c.devices.CreateDevice(ctx.Request.Context(), req.Name, req.Port, req.Description)
	if err != nil {
		c.logger.WithError(err).Error("failed to create device")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, device)
}

type associateNameRequest struct {
	Port        string  `json:"port"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
}

// AssociateName binds a human-readable name to a meter port. The device on
// that port is updated when it exists and created otherwise.
func (c *DeviceController) AssociateName(ctx *gin.Context) {
	var req associateNameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Port == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "field 'port' is required"})
		return
	}
	if req.Name == "" {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "field 'name' is required"})
		return
	}

	existing, err := c.devices.GetDeviceByPort(ctx.Request.Context(), req.Port)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if existing != nil {
		update := interfaces.DeviceUpdate{Name: &req.Name, Description: req.Description}
		device, err := c.devices.UpdateDevice(ctx.Request.Context(), existing.ID, update)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		ctx.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("name updated for port %s", req.Port),
			"device":  device,
		})
		return
	}

	description := ""
	if req.Description != nil {
		description = *req.Description
	}
	device, err := c.devices.CreateDevice(ctx.Request.Context(), req.Name, req.Port, description)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("device registered on port %s", req.Port),
		"device":  device,
	})
}

// GetDeviceByPort looks a device up by its meter port
func (c *DeviceController) GetDeviceByPort(ctx *gin.Context) {
	port := ctx.Param("port")

	device, err := c.devices.GetDeviceByPort(ctx.Request.Context(), port)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if device == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no device registered on port %s", port)})
		return
	}
	ctx.JSON(http.StatusOK, device)
}

// GetDevice returns one device with its last readings
func (c *DeviceController) GetDevice(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
		return
	}

	device, err := c.devices.GetDevice(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if device == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}

	readings, err := c.readings.GetReadings(ctx.Request.Context(), interfaces.ReadingQueryParams{DeviceID: &id})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(readings) > 10 {
		readings = readings[:10]
	}

	ctx.JSON(http.StatusOK, gin.H{"device": device, "readings": readings})
}

// UpdateDevice updates a device's mutable fields
func (c *DeviceController) UpdateDevice(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Port        *string `json:"port"`
		Description *string `json:"description"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	device, err := c.devices.UpdateDevice(ctx.Request.Context(), id, interfaces.DeviceUpdate{
		Name:        req.Name,
		Port:        req.Port,
		Description: req.Description,
	})
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if device == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}
	ctx.JSON(http.StatusOK, device)
}

// ListDeviceReadings lists all readings of one device, oldest first
func (c *DeviceController) ListDeviceReadings(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
		return
	}

	readings, err := c.readings.GetReadingsByDevice(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, readings)
}

// GetDeviceSummary returns the all-time totals of one device
func (c *DeviceController) GetDeviceSummary(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid device id"})
		return
	}

	device, err := c.devices.GetDevice(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if device == nil {
		ctx.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
		return
	}

	readings, err := c.readings.GetReadingsByDevice(ctx.Request.Context(), id)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var totalWh float64
	for _, reading := range readings {
		totalWh += reading.EnergyWh
	}
	totalKWh := totalWh / 1000

	ctx.JSON(http.StatusOK, gin.H{
		"device_id":      id,
		"total_wh":       totalWh,
		"total_kwh":      totalKWh,
		"estimated_cost": fmt.Sprintf("%.2f", totalKWh*c.costPerKWh),
	})
}
