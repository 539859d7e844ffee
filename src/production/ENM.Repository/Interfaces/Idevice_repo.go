package interfaces

import (
	"context"

	enmmodels "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models"
)

// DeviceUpdate carries the mutable device fields; nil means "leave unchanged"
type DeviceUpdate struct {
	Name        *string
	Port        *string
	Description *string
}

// DeviceRepository provides access to registered devices. Lookups return
// (nil, nil) when the device does not exist; callers decide whether that is
// an error.
type DeviceRepository interface {
	CreateDevice(ctx context.Context, name, port, description string) (*enmmodels.Device, error)
	GetDevice(ctx context.Context, id int) (*enmmodels.Device, error)
	GetDeviceByPort(ctx context.Context, port string) (*enmmodels.Device, error)
	ListDevices(ctx context.Context) ([]enmmodels.Device, error)
	UpdateDevice(ctx context.Context, id int, update DeviceUpdate) (*enmmodels.Device, error)
}
