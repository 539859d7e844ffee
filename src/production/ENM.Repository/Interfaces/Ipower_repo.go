package interfaces

import (
	"context"

	enmmodels "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models"
)

// PowerRepository provides read/write access to stored power samples
type PowerRepository interface {
	CreatePowerReading(ctx context.Context, reading enmmodels.PowerReading) (*enmmodels.PowerReading, error)

	// GetPowerReadingsByDevice returns up to limit samples of one device,
	// newest first
	GetPowerReadingsByDevice(ctx context.Context, deviceID int, limit int64) ([]enmmodels.PowerReading, error)
}
