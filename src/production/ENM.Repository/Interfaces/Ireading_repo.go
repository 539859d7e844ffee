package interfaces

import (
	"context"
	"time"

	enmmodels "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models"
)

// ReadingQueryParams represents parameters for reading queries
type ReadingQueryParams struct {
	// DeviceID limits the query to one device when non-nil
	DeviceID *int
	// From is the inclusive lower bound on created_at; nil means unbounded
	From *time.Time
}

// ReadingRepository provides read/write access to stored readings
type ReadingRepository interface {
	CreateReading(ctx context.Context, reading enmmodels.Reading) (*enmmodels.Reading, error)

	// GetReadings returns readings matching params, newest first
	GetReadings(ctx context.Context, params ReadingQueryParams) ([]enmmodels.Reading, error)

	// GetReadingsByDevice returns all readings of one device, oldest first
	GetReadingsByDevice(ctx context.Context, deviceID int) ([]enmmodels.Reading, error)

	CountReadingsByDevice(ctx context.Context, deviceID int) (int64, error)
}
