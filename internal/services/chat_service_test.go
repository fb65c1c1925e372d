package services

import (
	"context"
	"testing"
	"time"

	"github.com/ravikumar3183/SimpleChat/internal/models"
	"github.com/ravikumar3183/SimpleChat/internal/store"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeMessageRepository keeps messages in memory so chat tests do not need a
// MongoDB instance.
type fakeMessageRepository struct {
	messages []models.Message
}

func (r *fakeMessageRepository) CreateMessage(ctx context.Context, message *models.Message) error {
	message.ID = primitive.NewObjectID()
	message.Timestamp = time.Now()
	r.messages = append(r.messages, *message)
	return nil
}

func (r *fakeMessageRepository) GetMessagesByConversation(ctx context.Context, conversationID string, skip, limit int64) ([]models.Message, error) {
	var result []models.Message
	for _, m := range r.messages {
		if m.ConversationID == conversationID {
			result = append(result, m)
		}
	}
	if skip > int64(len(result)) {
		skip = int64(len(result))
	}
	result = result[skip:]
	if limit > 0 && limit < int64(len(result)) {
		result = result[:limit]
	}
	return result, nil
}

func TestSendDirectMessage(t *testing.T) {
	ctx := context.Background()
	repo := &fakeMessageRepository{}
	svc := NewChatService(repo, store.NewMemoryStore())

	_, err := svc.SendDirectMessage(ctx, "u1", "u1", "hi")
	require.ErrorIs(t, err, store.ErrInvalidArgument)

	msg, err := svc.SendDirectMessage(ctx, "u2", "u1", "hello")
	require.NoError(t, err)
	require.Equal(t, "u1_u2", msg.ConversationID)

	// The other side reads the same stream.
	history, err := svc.DirectHistory(ctx, "u1", "u2", 0, 50)
	require.NoError(t, err)
	require.Len(t, history, 1)
	require.Equal(t, "hello", history[0].Text)
}

func TestGroupMessaging(t *testing.T) {
	ctx := context.Background()
	repo := &fakeMessageRepository{}
	st := store.NewMemoryStore()
	svc := NewChatService(repo, st)

	group := models.Group{GroupID: "g1", Name: "Team", OwnerID: "owner", Members: []string{"owner", "m1"}}
	require.NoError(t, st.Put(ctx, store.CollectionGroups, group.GroupID, group))

	_, err := svc.SendGroupMessage(ctx, "stranger", "g1", "hi")
	require.ErrorIs(t, err, store.ErrInvalidArgument)

	_, err = svc.SendGroupMessage(ctx, "m1", "missing-group", "hi")
	require.ErrorIs(t, err, store.ErrNotFound)

	msg, err := svc.SendGroupMessage(ctx, "m1", "g1", "hi team")
	require.NoError(t, err)
	require.Equal(t, "g1", msg.ConversationID)

	history, err := svc.GroupHistory(ctx, "owner", "g1", 0, 50)
	require.NoError(t, err)
	require.Len(t, history, 1)

	_, err = svc.GroupHistory(ctx, "stranger", "g1", 0, 50)
	require.ErrorIs(t, err, store.ErrInvalidArgument)
}
