package models

// Connection statuses. Decline and cancel delete the record instead of
// recording a state, so these two are the only values that exist.
const (
	ConnectionStatusPending  = "pending"
	ConnectionStatusAccepted = "accepted"
)

// Connection represents the relationship between exactly two users. User1 is
// always the lexicographically smaller ID, so an unordered pair has at most
// one record, stored at key "user1_user2".
type Connection struct {
	User1    string `json:"user1" firestore:"user1"`
	User2    string `json:"user2" firestore:"user2"`
	Status   string `json:"status" firestore:"status"`
	ActionBy string `json:"actionBy" firestore:"actionBy"` // who performed the last transition
}

// HasUser reports whether uid is one of the two participants.
func (c Connection) HasUser(uid string) bool {
	return c.User1 == uid || c.User2 == uid
}

// Other returns the participant that is not uid. Callers must have checked
// HasUser first; for a non-participant it returns User1.
func (c Connection) Other(uid string) string {
	if c.User1 == uid {
		return c.User2
	}
	return c.User1
}

// SendConnectionRequest defines the request body for sending a friend request
type SendConnectionRequest struct {
	OtherUserID string `json:"otherUserId" validate:"required"`
}
