package models

// GroupInvitation is one outstanding invite for one user. It carries the
// group name so invite lists render without a second lookup. The record is
// deleted on both accept and decline; only the side effect differs.
type GroupInvitation struct {
	ID         string `json:"id" firestore:"id"`
	GroupID    string `json:"groupId" firestore:"groupId"`
	GroupName  string `json:"groupName" firestore:"groupName"`
	SenderID   string `json:"senderId" firestore:"senderId"`
	ReceiverID string `json:"receiverId" firestore:"receiverId"`
}
