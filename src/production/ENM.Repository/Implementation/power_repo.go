package implementation

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	enmmodels "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models"
)

// MongoPowerRepository stores power samples in a MongoDB collection
type MongoPowerRepository struct {
	col *mongo.Collection
}

func NewMongoPowerRepository(db *mongo.Database) *MongoPowerRepository {
	return &MongoPowerRepository{col: db.Collection("power_readings")}
}

// EnsureIndexes creates the query indexes. Call once at startup.
func (r *MongoPowerRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "device_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create power reading index: %w", err)
	}
	return nil
}

func (r *MongoPowerRepository) CreatePowerReading(ctx context.Context, reading enmmodels.PowerReading) (*enmmodels.PowerReading, error) {
	if reading.ID.IsZero() {
		reading.ID = primitive.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, reading); err != nil {
		return nil, fmt.Errorf("failed to insert power reading: %w", err)
	}
	return &reading, nil
}

func (r *MongoPowerRepository) GetPowerReadingsByDevice(ctx context.Context, deviceID int, limit int64) ([]enmmodels.PowerReading, error) {
	cursor, err := r.col.Find(
		ctx,
		bson.M{"device_id": deviceID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var readings []enmmodels.PowerReading
	if err := cursor.All(ctx, &readings); err != nil {
		return nil, err
	}
	return readings, nil
}
