// Package consumption computes per-device and overall energy statistics from
// stored readings. It is read-only against the repositories and safe to call
// concurrently.
package consumption

import (
	"context"
	"fmt"
	"strconv"
	"time"

	logger "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Logger"
	enmmodels "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models"
	api_models "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models/api"
	interfaces "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Repository/Interfaces"
)

// Service aggregates readings into consumption reports
type Service struct {
	devices    interfaces.DeviceRepository
	readings   interfaces.ReadingRepository
	costPerKWh float64
	logger     *logger.Logger

	// now is replaceable in tests to pin the period lower bounds
	now func() time.Time
}

// NewService creates a new consumption service
func NewService(devices interfaces.DeviceRepository, readings interfaces.ReadingRepository, costPerKWh float64, log *logger.Logger) *Service {
	return &Service{
		devices:    devices,
		readings:   readings,
		costPerKWh: costPerKWh,
		logger:     log.WithComponent("consumption"),
		now:        time.Now,
	}
}

// Aggregate computes the consumption report for the given device filter and
// period. A nil deviceID means all devices. Returns ErrDeviceNotFound when a
// requested device does not exist.
func (s *Service) Aggregate(ctx context.Context, deviceID *int, period enmmodels.Period) (*enmmodels.ConsumptionReport, error) {
	devices, err := s.resolveDevices(ctx, deviceID)
	if err != nil {
		return nil, err
	}

	params := interfaces.ReadingQueryParams{DeviceID: deviceID}
	if from, ok := period.LowerBound(s.now()); ok {
		params.From = &from
	}

	readings, err := s.readings.GetReadings(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}

	// Readings arrive newest first, so the first one seen per device is its
	// most recent.
	byDevice := make(map[int][]enmmodels.Reading)
	for _, reading := range readings {
		byDevice[reading.DeviceID] = append(byDevice[reading.DeviceID], reading)
	}

	rows := make([]enmmodels.DeviceConsumption, 0, len(devices))
	for _, device := range devices {
		rows = append(rows, s.deviceStats(device, byDevice[device.ID]))
	}

	return &enmmodels.ConsumptionReport{
		Period:  period,
		Summary: summarize(rows),
		Devices: rows,
	}, nil
}

func (s *Service) resolveDevices(ctx context.Context, deviceID *int) ([]enmmodels.Device, error) {
	if deviceID == nil {
		devices, err := s.devices.ListDevices(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list devices: %w", err)
		}
		return devices, nil
	}

	device, err := s.devices.GetDevice(ctx, *deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to get device %d: %w", *deviceID, err)
	}
	if device == nil {
		return nil, fmt.Errorf("device %d: %w", *deviceID, api_models.ErrDeviceNotFound)
	}
	return []enmmodels.Device{*device}, nil
}

func (s *Service) deviceStats(device enmmodels.Device, readings []enmmodels.Reading) enmmodels.DeviceConsumption {
	var totalWh, totalMinutes float64
	for _, reading := range readings {
		totalWh += reading.EnergyWh
		totalMinutes += reading.DurationMin
	}

	totalKWh := totalWh / 1000
	estimatedCost := totalKWh * s.costPerKWh

	var lastReadingAt *time.Time
	if len(readings) > 0 {
		last := readings[0].CreatedAt
		lastReadingAt = &last
	}

	return enmmodels.DeviceConsumption{
		DeviceName:    device.Name,
		Port:          device.Port,
		TotalWh:       formatAmount(totalWh),
		TotalKWh:      formatAmount(totalKWh),
		EstimatedCost: formatAmount(estimatedCost),
		ReadingCount:  len(readings),
		TotalMinutes:  totalMinutes,
		LastReadingAt: lastReadingAt,
	}
}

// summarize sums the rendered device rows element-wise so the summary always
// matches what the report displays.
func summarize(rows []enmmodels.DeviceConsumption) enmmodels.ConsumptionSummary {
	var totalWh, totalKWh, totalCost float64
	for _, row := range rows {
		totalWh += parseAmount(row.TotalWh)
		totalKWh += parseAmount(row.TotalKWh)
		totalCost += parseAmount(row.EstimatedCost)
	}
	return enmmodels.ConsumptionSummary{
		TotalWh:   formatAmount(totalWh),
		TotalKWh:  formatAmount(totalKWh),
		TotalCost: formatAmount(totalCost),
	}
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func parseAmount(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
