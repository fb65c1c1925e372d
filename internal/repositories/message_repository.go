package repositories

import (
	"context"
	"time"

	"github.com/ravikumar3183/SimpleChat/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MessageRepository defines the interface for chat message operations
type MessageRepository interface {
	CreateMessage(ctx context.Context, message *models.Message) error
	GetMessagesByConversation(ctx context.Context, conversationID string, skip, limit int64) ([]models.Message, error)
}

// MongoMessageRepository implements MessageRepository for MongoDB
type MongoMessageRepository struct {
	collection *mongo.Collection
}

// NewMongoMessageRepository creates a new MongoMessageRepository
func NewMongoMessageRepository(db *mongo.Database) *MongoMessageRepository {
	return &MongoMessageRepository{collection: db.Collection("messages")}
}

// CreateMessage appends a new message to a conversation stream
func (r *MongoMessageRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	message.Timestamp = time.Now()
	_, err := r.collection.InsertOne(ctx, message)
	return err
}

// GetMessagesByConversation retrieves a conversation's messages ordered by
// timestamp ascending, with skip/limit pagination
func (r *MongoMessageRepository) GetMessagesByConversation(ctx context.Context, conversationID string, skip, limit int64) ([]models.Message, error) {
	var messages []models.Message
	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(bson.D{{Key: "timestamp", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"conversation_id": conversationID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
