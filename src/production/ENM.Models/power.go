package enmmodels

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PowerReading is one instantaneous active-power sample reported by the meter
// firmware, in Watts. It is a separate channel from energy readings: power is
// sampled continuously while energy is accumulated per interval.
type PowerReading struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DeviceID  int                `bson:"device_id" json:"device_id"`
	PowerW    float64            `bson:"power_w" json:"power_w"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}
