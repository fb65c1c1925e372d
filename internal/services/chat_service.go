package services

import (
	"context"
	"fmt"

	"github.com/ravikumar3183/SimpleChat/internal/identity"
	"github.com/ravikumar3183/SimpleChat/internal/models"
	"github.com/ravikumar3183/SimpleChat/internal/repositories"
	"github.com/ravikumar3183/SimpleChat/internal/store"
)

// ChatService resolves conversation keys and reads/writes message streams.
// 1:1 chats are keyed by the canonical pair key of the two participants, so
// both sides always land in the same stream; group chats are keyed by the
// groupId directly.
type ChatService struct {
	messages repositories.MessageRepository
	store    store.Store
}

// NewChatService creates a new ChatService
func NewChatService(messages repositories.MessageRepository, st store.Store) *ChatService {
	return &ChatService{messages: messages, store: st}
}

// SendDirectMessage appends a message to the 1:1 conversation between
// senderID and otherID.
func (s *ChatService) SendDirectMessage(ctx context.Context, senderID, otherID, text string) (*models.Message, error) {
	if senderID == otherID {
		return nil, fmt.Errorf("%w: cannot message yourself", store.ErrInvalidArgument)
	}
	return s.append(ctx, identity.ConversationID(senderID, otherID), senderID, text)
}

// SendGroupMessage appends a message to a group's stream. The sender must be
// a member of the group.
func (s *ChatService) SendGroupMessage(ctx context.Context, senderID, groupID, text string) (*models.Message, error) {
	var group models.Group
	if err := s.store.Get(ctx, store.CollectionGroups, groupID, &group); err != nil {
		return nil, err
	}
	if !group.HasMember(senderID) {
		return nil, fmt.Errorf("%w: sender is not a member of the group", store.ErrInvalidArgument)
	}
	return s.append(ctx, groupID, senderID, text)
}

// DirectHistory returns the 1:1 conversation between myID and otherID,
// oldest first.
func (s *ChatService) DirectHistory(ctx context.Context, myID, otherID string, skip, limit int64) ([]models.Message, error) {
	return s.messages.GetMessagesByConversation(ctx, identity.ConversationID(myID, otherID), skip, limit)
}

// GroupHistory returns a group's messages, oldest first. The reader must be
// a member of the group.
func (s *ChatService) GroupHistory(ctx context.Context, myID, groupID string, skip, limit int64) ([]models.Message, error) {
	var group models.Group
	if err := s.store.Get(ctx, store.CollectionGroups, groupID, &group); err != nil {
		return nil, err
	}
	if !group.HasMember(myID) {
		return nil, fmt.Errorf("%w: reader is not a member of the group", store.ErrInvalidArgument)
	}
	return s.messages.GetMessagesByConversation(ctx, groupID, skip, limit)
}

func (s *ChatService) append(ctx context.Context, conversationID, senderID, text string) (*models.Message, error) {
	message := &models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Text:           text,
	}
	if err := s.messages.CreateMessage(ctx, message); err != nil {
		return nil, err
	}
	return message, nil
}
