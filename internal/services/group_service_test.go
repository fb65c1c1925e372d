package services

import (
	"context"
	"testing"

	"github.com/ravikumar3183/SimpleChat/internal/models"
	"github.com/ravikumar3183/SimpleChat/internal/store"
	"github.com/stretchr/testify/suite"
)

type GroupServiceSuite struct {
	suite.Suite
	store *store.MemoryStore
	svc   *GroupService
}

func (s *GroupServiceSuite) SetupTest() {
	s.store = store.NewMemoryStore()
	s.svc = NewGroupService(s.store)
}

func TestGroupServiceSuite(t *testing.T) {
	suite.Run(t, new(GroupServiceSuite))
}

func (s *GroupServiceSuite) TestCreateGroup() {
	ctx := context.Background()

	s.Run("rejects blank name", func() {
		_, err := s.svc.CreateGroup(ctx, "owner1", "   ", nil)
		s.Require().ErrorIs(err, store.ErrInvalidArgument)
	})

	s.Run("creates group with owner as sole member and fans out invites", func() {
		groupID, err := s.svc.CreateGroup(ctx, "owner1", "Team", []string{"f1", "f2"})
		s.Require().NoError(err)

		group, err := s.svc.Group(ctx, groupID)
		s.Require().NoError(err)
		s.Equal("Team", group.Name)
		s.Equal("owner1", group.OwnerID)
		s.Equal([]string{"owner1"}, group.Members)

		receivers := map[string]bool{}
		for _, invitee := range []string{"f1", "f2"} {
			invites, err := s.svc.InvitationsFor(ctx, invitee)
			s.Require().NoError(err)
			s.Require().Len(invites, 1)
			s.Equal(groupID, invites[0].GroupID)
			s.Equal("Team", invites[0].GroupName)
			s.Equal("owner1", invites[0].SenderID)
			receivers[invites[0].ReceiverID] = true
		}
		s.Len(receivers, 2)
	})

	s.Run("drops owner and duplicates from the invitee list", func() {
		_, err := s.svc.CreateGroup(ctx, "owner2", "Dupes", []string{"f3", "f3", "owner2"})
		s.Require().NoError(err)

		invites, err := s.svc.InvitationsFor(ctx, "f3")
		s.Require().NoError(err)
		s.Len(invites, 1)

		ownInvites, err := s.svc.InvitationsFor(ctx, "owner2")
		s.Require().NoError(err)
		s.Empty(ownInvites)
	})
}

func (s *GroupServiceSuite) TestAcceptInvite() {
	ctx := context.Background()

	s.Run("appends receiver and deletes the invitation", func() {
		groupID, err := s.svc.CreateGroup(ctx, "owner1", "Team", []string{"f1"})
		s.Require().NoError(err)

		invites, err := s.svc.InvitationsFor(ctx, "f1")
		s.Require().NoError(err)
		s.Require().Len(invites, 1)

		s.Require().NoError(s.svc.AcceptInvite(ctx, invites[0]))

		group, err := s.svc.Group(ctx, groupID)
		s.Require().NoError(err)
		s.Equal([]string{"owner1", "f1"}, group.Members)

		remaining, err := s.svc.InvitationsFor(ctx, "f1")
		s.Require().NoError(err)
		s.Empty(remaining)
	})

	s.Run("double accept does not duplicate the member", func() {
		groupID, err := s.svc.CreateGroup(ctx, "owner2", "Twice", []string{"f2"})
		s.Require().NoError(err)

		invites, err := s.svc.InvitationsFor(ctx, "f2")
		s.Require().NoError(err)
		s.Require().Len(invites, 1)

		s.Require().NoError(s.svc.AcceptInvite(ctx, invites[0]))
		s.Require().NoError(s.svc.AcceptInvite(ctx, invites[0]))

		group, err := s.svc.Group(ctx, groupID)
		s.Require().NoError(err)
		s.Equal([]string{"owner2", "f2"}, group.Members)
	})

	s.Run("returns not found when the group is gone", func() {
		invite := models.GroupInvitation{
			ID:         "orphan",
			GroupID:    "deleted-group",
			ReceiverID: "f1",
		}
		err := s.svc.AcceptInvite(ctx, invite)
		s.Require().ErrorIs(err, store.ErrNotFound)
	})
}

func (s *GroupServiceSuite) TestDeclineInvite() {
	ctx := context.Background()

	groupID, err := s.svc.CreateGroup(ctx, "owner1", "Team", []string{"f1"})
	s.Require().NoError(err)

	invites, err := s.svc.InvitationsFor(ctx, "f1")
	s.Require().NoError(err)
	s.Require().Len(invites, 1)

	s.Require().NoError(s.svc.DeclineInvite(ctx, invites[0].ID))

	// Invitation is gone and the group is untouched.
	remaining, err := s.svc.InvitationsFor(ctx, "f1")
	s.Require().NoError(err)
	s.Empty(remaining)

	group, err := s.svc.Group(ctx, groupID)
	s.Require().NoError(err)
	s.Equal([]string{"owner1"}, group.Members)

	// Declining again is a no-op.
	s.Require().NoError(s.svc.DeclineInvite(ctx, invites[0].ID))
}

func (s *GroupServiceSuite) TestGroupsContaining() {
	ctx := context.Background()

	groupID, err := s.svc.CreateGroup(ctx, "owner1", "Team", []string{"f1"})
	s.Require().NoError(err)
	_, err = s.svc.CreateGroup(ctx, "someone-else", "Other", nil)
	s.Require().NoError(err)

	invites, err := s.svc.InvitationsFor(ctx, "f1")
	s.Require().NoError(err)
	s.Require().Len(invites, 1)
	s.Require().NoError(s.svc.AcceptInvite(ctx, invites[0]))

	groups, err := s.svc.GroupsContaining(ctx, "f1")
	s.Require().NoError(err)
	s.Require().Len(groups, 1)
	s.Equal(groupID, groups[0].GroupID)
}

func (s *GroupServiceSuite) TestWatchInvitations() {
	ctx := context.Background()

	view, err := s.svc.WatchInvitations(ctx, "f1")
	s.Require().NoError(err)

	initial := <-view.Updates()
	s.Empty(initial)

	_, err = s.svc.CreateGroup(ctx, "owner1", "Team", []string{"f1"})
	s.Require().NoError(err)

	updated := <-view.Updates()
	s.Require().Len(updated, 1)
	s.Equal("f1", updated[0].ReceiverID)

	view.Close()
	for range view.Updates() {
		// drain until the channel closes
	}
}
