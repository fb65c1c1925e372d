package models

// Group is a named chat room. The owner is set at creation, is always a
// member, and is never re-assigned. Members only ever grows: invitees are
// appended when they accept; leave/kick does not exist.
type Group struct {
	GroupID string   `json:"groupId" firestore:"groupId"`
	Name    string   `json:"name" firestore:"name"`
	OwnerID string   `json:"ownerId" firestore:"ownerId"`
	Members []string `json:"members" firestore:"members"`
}

// HasMember reports whether uid is in the member list.
func (g Group) HasMember(uid string) bool {
	for _, m := range g.Members {
		if m == uid {
			return true
		}
	}
	return false
}

// CreateGroupRequest defines the request body for creating a group
type CreateGroupRequest struct {
	Name       string   `json:"name" validate:"required,min=1,max=100"`
	InviteeIDs []string `json:"inviteeIds" validate:"omitempty,dive,required"`
}
