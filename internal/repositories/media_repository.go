package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/tanvirio/openblog/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MediaRepository defines the interface for stored upload operations
type MediaRepository interface {
	SaveFile(ctx context.Context, file *models.MediaFile) error
	GetFile(ctx context.Context, name string) (*models.MediaFile, error)
}

// MongoMediaRepository implements MediaRepository for MongoDB
type MongoMediaRepository struct {
	collection *mongo.Collection
}

// NewMongoMediaRepository creates a new MongoMediaRepository
func NewMongoMediaRepository(db *mongo.Database) *MongoMediaRepository {
	collection := db.Collection("media")
	// Unique name index; stored names are random so collisions mean a bug.
	idx := mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	_, _ = collection.Indexes().CreateOne(context.Background(), idx)
	return &MongoMediaRepository{collection: collection}
}

// SaveFile stores the upload bytes under their generated name.
func (r *MongoMediaRepository) SaveFile(ctx context.Context, file *models.MediaFile) error {
	file.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, file)
	return err
}

// GetFile retrieves a stored upload by name.
func (r *MongoMediaRepository) GetFile(ctx context.Context, name string) (*models.MediaFile, error) {
	var file models.MediaFile
	err := r.collection.FindOne(ctx, bson.M{"name": name}).Decode(&file)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("media not found")
		}
		return nil, err
	}
	return &file, nil
}
