package enmmodels

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Reading is one energy measurement reported by the meter for a device
type Reading struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	DeviceID    int                `bson:"device_id" json:"device_id"`
	EnergyWh    float64            `bson:"energy_wh" json:"energy_wh"`
	DurationMin float64            `bson:"duration_min" json:"duration_min"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
