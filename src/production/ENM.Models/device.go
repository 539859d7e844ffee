package enmmodels

import "time"

// Device represents an appliance wired to one input port of the energy meter
type Device struct {
	ID          int       `bson:"_id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Port        string    `bson:"port" json:"port"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
}

// DeviceWithReadingCount is the listing shape returned by /test/devices
type DeviceWithReadingCount struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Port         string `json:"port"`
	Description  string `json:"description,omitempty"`
	ReadingCount int64  `json:"reading_count"`
}
