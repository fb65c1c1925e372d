package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is one chat message in MongoDB. ConversationID is either the
// canonical pair key for a 1:1 chat or a groupId for a group chat.
type Message struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ConversationID string             `json:"conversationId" bson:"conversation_id"`
	SenderID       string             `json:"senderId" bson:"sender_id"`
	Text           string             `json:"text" bson:"text"`
	Timestamp      time.Time          `json:"timestamp" bson:"timestamp"`
}

// SendMessageRequest defines the request body for sending a chat message
type SendMessageRequest struct {
	Text string `json:"text" validate:"required,min=1,max=4000"`
}
