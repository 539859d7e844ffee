package implementation

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	enmmodels "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Models"
	interfaces "gitlab.com/voltsense1/enm.energy_server/src/production/ENM.Repository/Interfaces"
)

// MongoDeviceRepository stores devices in a MongoDB collection with
// sequential integer ids and a unique port.
type MongoDeviceRepository struct {
	col *mongo.Collection
}

func NewMongoDeviceRepository(db *mongo.Database) *MongoDeviceRepository {
	return &MongoDeviceRepository{col: db.Collection("devices")}
}

// EnsureIndexes creates the unique port index. Call once at startup.
func (r *MongoDeviceRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "port", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create device port index: %w", err)
	}
	return nil
}

func (r *MongoDeviceRepository) CreateDevice(ctx context.Context, name, port, description string) (*enmmodels.Device, error) {
	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	device := enmmodels.Device{
		ID:          id,
		Name:        name,
		Port:        port,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}

	if _, err := r.col.InsertOne(ctx, device); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("port %q is already in use", port)
		}
		return nil, fmt.Errorf("failed to insert device: %w", err)
	}

	return &device, nil
}

func (r *MongoDeviceRepository) GetDevice(ctx context.Context, id int) (*enmmodels.Device, error) {
	var device enmmodels.Device
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&device)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &device, nil
}

func (r *MongoDeviceRepository) GetDeviceByPort(ctx context.Context, port string) (*enmmodels.Device, error) {
	var device enmmodels.Device
	err := r.col.FindOne(ctx, bson.M{"port": port}).Decode(&device)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &device, nil
}

func (r *MongoDeviceRepository) ListDevices(ctx context.Context) ([]enmmodels.Device, error) {
	cursor, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var devices []enmmodels.Device
	if err := cursor.All(ctx, &devices); err != nil {
		return nil, err
	}
	return devices, nil
}

func (r *MongoDeviceRepository) UpdateDevice(ctx context.Context, id int, update interfaces.DeviceUpdate) (*enmmodels.Device, error) {
	set := bson.M{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Port != nil {
		set["port"] = *update.Port
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}

	if len(set) == 0 {
		return r.GetDevice(ctx, id)
	}

	var device enmmodels.Device
	err := r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&device)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("port is already in use")
		}
		return nil, err
	}
	return &device, nil
}

// nextID returns the next sequential device id. Device creation is rare
// (manual registration), so a max+1 scan is enough.
func (r *MongoDeviceRepository) nextID(ctx context.Context) (int, error) {
	var last enmmodels.Device
	err := r.col.FindOne(ctx, bson.M{}, options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})).Decode(&last)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 1, nil
		}
		return 0, err
	}
	return last.ID + 1, nil
}
