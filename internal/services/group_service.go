package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/ravikumar3183/SimpleChat/internal/models"
	"github.com/ravikumar3183/SimpleChat/internal/store"
)

// GroupService owns group creation and the invitation lifecycle. An
// invitation is issued once per invitee and deleted on both accept and
// decline; acceptance additionally appends the receiver to the group's
// member list. Multi-record writes go through the store's atomic batch, so
// a group is never visible without its invitations and an accepted invite
// never lingers after the membership write.
type GroupService struct {
	store store.Store
}

// NewGroupService creates a new GroupService
func NewGroupService(st store.Store) *GroupService {
	return &GroupService{store: st}
}

// CreateGroup writes a new group owned by ownerID, with the owner as sole
// initial member, and fans out one invitation per invitee in the same atomic
// batch. Returns the fresh groupId. A blank name is rejected; the owner and
// duplicate entries are dropped from the invitee list so at most one
// invitation exists per (group, receiver) pair.
func (s *GroupService) CreateGroup(ctx context.Context, ownerID, name string, inviteeIDs []string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: group name must not be blank", store.ErrInvalidArgument)
	}

	groupID := uuid.NewString()
	group := models.Group{
		GroupID: groupID,
		Name:    name,
		OwnerID: ownerID,
		Members: []string{ownerID},
	}

	mutations := []store.Mutation{
		{Op: store.OpPut, Collection: store.CollectionGroups, Key: groupID, Doc: group},
	}
	seen := map[string]bool{ownerID: true}
	for _, inviteeID := range inviteeIDs {
		if seen[inviteeID] {
			continue
		}
		seen[inviteeID] = true

		invite := models.GroupInvitation{
			ID:         uuid.NewString(),
			GroupID:    groupID,
			GroupName:  name,
			SenderID:   ownerID,
			ReceiverID: inviteeID,
		}
		mutations = append(mutations, store.Mutation{
			Op: store.OpPut, Collection: store.CollectionInvitations, Key: invite.ID, Doc: invite,
		})
	}

	if err := s.store.Apply(ctx, mutations); err != nil {
		return "", err
	}
	return groupID, nil
}

// AcceptInvite appends the invite's receiver to the group and deletes the
// invitation, atomically. Returns ErrNotFound when the group was deleted
// after the invite was issued. Accepting twice is harmless: the membership
// append is skipped when the receiver is already a member, and the second
// invitation delete is idempotent.
func (s *GroupService) AcceptInvite(ctx context.Context, invite models.GroupInvitation) error {
	var group models.Group
	if err := s.store.Get(ctx, store.CollectionGroups, invite.GroupID, &group); err != nil {
		return err
	}

	members := group.Members
	if !group.HasMember(invite.ReceiverID) {
		members = append(members, invite.ReceiverID)
	}

	return s.store.Apply(ctx, []store.Mutation{
		{
			Op:         store.OpUpdate,
			Collection: store.CollectionGroups,
			Key:        invite.GroupID,
			Fields:     map[string]interface{}{"members": members},
		},
		{Op: store.OpDelete, Collection: store.CollectionInvitations, Key: invite.ID},
	})
}

// DeclineInvite deletes the invitation without touching the group. Idempotent.
func (s *GroupService) DeclineInvite(ctx context.Context, inviteID string) error {
	return s.store.Delete(ctx, store.CollectionInvitations, inviteID)
}

// InvitationByID returns one invitation, or ErrNotFound.
func (s *GroupService) InvitationByID(ctx context.Context, inviteID string) (*models.GroupInvitation, error) {
	var invite models.GroupInvitation
	if err := s.store.Get(ctx, store.CollectionInvitations, inviteID, &invite); err != nil {
		return nil, err
	}
	return &invite, nil
}

// Group returns one group, or ErrNotFound.
func (s *GroupService) Group(ctx context.Context, groupID string) (*models.Group, error) {
	var group models.Group
	if err := s.store.Get(ctx, store.CollectionGroups, groupID, &group); err != nil {
		return nil, err
	}
	return &group, nil
}

// InvitationsFor returns the invitations currently addressed to userID.
func (s *GroupService) InvitationsFor(ctx context.Context, userID string) ([]models.GroupInvitation, error) {
	snap, err := firstSnapshot(ctx, s.store, store.CollectionInvitations)
	if err != nil {
		return nil, err
	}
	return invitationsFrom(snap, userID), nil
}

// GroupsContaining returns the groups userID is a member of.
func (s *GroupService) GroupsContaining(ctx context.Context, userID string) ([]models.Group, error) {
	snap, err := firstSnapshot(ctx, s.store, store.CollectionGroups)
	if err != nil {
		return nil, err
	}
	return groupsFrom(snap, userID), nil
}

// WatchInvitations opens a continuously updated view of userID's incoming
// invitations. The caller must Close the view when its session ends.
func (s *GroupService) WatchInvitations(ctx context.Context, userID string) (*InvitationView, error) {
	sub, err := s.store.Subscribe(ctx, store.CollectionInvitations)
	if err != nil {
		return nil, err
	}

	view := &InvitationView{sub: sub, ch: make(chan []models.GroupInvitation, 1)}
	go func() {
		defer close(view.ch)
		for snap := range sub.Snapshots() {
			pushLatest(view.ch, invitationsFrom(snap, userID))
		}
	}()
	return view, nil
}

// WatchGroups opens a continuously updated view of the groups userID belongs
// to. The caller must Close the view when its session ends.
func (s *GroupService) WatchGroups(ctx context.Context, userID string) (*GroupView, error) {
	sub, err := s.store.Subscribe(ctx, store.CollectionGroups)
	if err != nil {
		return nil, err
	}

	view := &GroupView{sub: sub, ch: make(chan []models.Group, 1)}
	go func() {
		defer close(view.ch)
		for snap := range sub.Snapshots() {
			pushLatest(view.ch, groupsFrom(snap, userID))
		}
	}()
	return view, nil
}

// InvitationView is a derived view over the invitation feed.
type InvitationView struct {
	sub store.Subscription
	ch  chan []models.GroupInvitation
}

func (v *InvitationView) Updates() <-chan []models.GroupInvitation { return v.ch }
func (v *InvitationView) Close()                                   { v.sub.Close() }

// GroupView is a derived view over the group feed.
type GroupView struct {
	sub store.Subscription
	ch  chan []models.Group
}

func (v *GroupView) Updates() <-chan []models.Group { return v.ch }
func (v *GroupView) Close()                         { v.sub.Close() }

func invitationsFrom(snap store.Snapshot, userID string) []models.GroupInvitation {
	var invites []models.GroupInvitation
	for _, doc := range snap.Docs {
		var invite models.GroupInvitation
		if err := doc.DataTo(&invite); err != nil {
			continue
		}
		if invite.ReceiverID == userID {
			invites = append(invites, invite)
		}
	}
	return invites
}

func groupsFrom(snap store.Snapshot, userID string) []models.Group {
	var groups []models.Group
	for _, doc := range snap.Docs {
		var group models.Group
		if err := doc.DataTo(&group); err != nil {
			continue
		}
		if group.HasMember(userID) {
			groups = append(groups, group)
		}
	}
	return groups
}
