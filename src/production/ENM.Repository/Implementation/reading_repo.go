package implementation

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	enmmodels "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models"
	interfaces "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Repository/Interfaces"
)

// MongoReadingRepository stores readings in a MongoDB collection
type MongoReadingRepository struct {
	col *mongo.Collection
}

func NewMongoReadingRepository(db *mongo.Database) *MongoReadingRepository {
	return &MongoReadingRepository{col: db.Collection("readings")}
}

// EnsureIndexes creates the query indexes. Call once at startup.
func (r *MongoReadingRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "device_id", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create reading index: %w", err)
	}
	return nil
}

func (r *MongoReadingRepository) CreateReading(ctx context.Context, reading enmmodels.Reading) (*enmmodels.Reading, error) {
	if reading.ID.IsZero() {
		reading.ID = primitive.NewObjectID()
	}
	if _, err := r.col.InsertOne(ctx, reading); err != nil {
		return nil, fmt.Errorf("failed to insert reading: %w", err)
	}
	return &reading, nil
}

func (r *MongoReadingRepository) GetReadings(ctx context.Context, params interfaces.ReadingQueryParams) ([]enmmodels.Reading, error) {
	filter := bson.M{}
	if params.DeviceID != nil {
		filter["device_id"] = *params.DeviceID
	}
	if params.From != nil {
		filter["created_at"] = bson.M{"$gte": *params.From}
	}

	cursor, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var readings []enmmodels.Reading
	if err := cursor.All(ctx, &readings); err != nil {
		return nil, err
	}
	return readings, nil
}

func (r *MongoReadingRepository) GetReadingsByDevice(ctx context.Context, deviceID int) ([]enmmodels.Reading, error) {
	cursor, err := r.col.Find(
		ctx,
		bson.M{"device_id": deviceID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var readings []enmmodels.Reading
	if err := cursor.All(ctx, &readings); err != nil {
		return nil, err
	}
	return readings, nil
}

func (r *MongoReadingRepository) CountReadingsByDevice(ctx context.Context, deviceID int) (int64, error) {
	return r.col.CountDocuments(ctx, bson.M{"device_id": deviceID})
}
