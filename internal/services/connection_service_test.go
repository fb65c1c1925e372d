package services

import (
	"context"
	"testing"

	"github.com/ravikumar3183/SimpleChat/internal/models"
	"github.com/ravikumar3183/SimpleChat/internal/store"
	"github.com/stretchr/testify/suite"
)

type ConnectionServiceSuite struct {
	suite.Suite
	store *store.MemoryStore
	svc   *ConnectionService
}

func (s *ConnectionServiceSuite) SetupTest() {
	s.store = store.NewMemoryStore()
	s.svc = NewConnectionService(s.store)
}

func TestConnectionServiceSuite(t *testing.T) {
	suite.Run(t, new(ConnectionServiceSuite))
}

func (s *ConnectionServiceSuite) TestSendRequest() {
	ctx := context.Background()

	s.Run("rejects self-request", func() {
		err := s.svc.SendRequest(ctx, "u1", "u1")
		s.Require().ErrorIs(err, store.ErrInvalidArgument)
	})

	s.Run("creates pending record at canonical key", func() {
		s.Require().NoError(s.svc.SendRequest(ctx, "u1", "u2"))

		var conn models.Connection
		s.Require().NoError(s.store.Get(ctx, store.CollectionConnections, "u1_u2", &conn))
		s.Equal("u1", conn.User1)
		s.Equal("u2", conn.User2)
		s.Equal(models.ConnectionStatusPending, conn.Status)
		s.Equal("u1", conn.ActionBy)
	})

	s.Run("both directions resolve to the same record", func() {
		s.Require().NoError(s.svc.SendRequest(ctx, "b", "a"))
		s.Require().NoError(s.svc.SendRequest(ctx, "a", "b"))

		var conn models.Connection
		s.Require().NoError(s.store.Get(ctx, store.CollectionConnections, "a_b", &conn))
		s.Equal("a", conn.ActionBy) // last writer
	})

	s.Run("does not demote an accepted connection", func() {
		s.Require().NoError(s.svc.SendRequest(ctx, "x", "y"))
		s.Require().NoError(s.svc.AcceptRequest(ctx, "y", "x"))

		err := s.svc.SendRequest(ctx, "x", "y")
		s.Require().ErrorIs(err, store.ErrAlreadyConnected)

		conn, err := s.svc.Connection(ctx, "x", "y")
		s.Require().NoError(err)
		s.Equal(models.ConnectionStatusAccepted, conn.Status)
	})
}

func (s *ConnectionServiceSuite) TestAcceptRequest() {
	ctx := context.Background()

	s.Run("accept after send yields accepted with counterparty actionBy", func() {
		s.Require().NoError(s.svc.SendRequest(ctx, "u1", "u2"))
		s.Require().NoError(s.svc.AcceptRequest(ctx, "u2", "u1"))

		var conn models.Connection
		s.Require().NoError(s.store.Get(ctx, store.CollectionConnections, "u1_u2", &conn))
		s.Equal(models.ConnectionStatusAccepted, conn.Status)
		s.Equal("u2", conn.ActionBy)
	})

	s.Run("accepting a missing request returns not found", func() {
		err := s.svc.AcceptRequest(ctx, "u3", "u4")
		s.Require().ErrorIs(err, store.ErrNotFound)
	})

	s.Run("cannot accept own outgoing request", func() {
		s.Require().NoError(s.svc.SendRequest(ctx, "u5", "u6"))
		err := s.svc.AcceptRequest(ctx, "u5", "u6")
		s.Require().ErrorIs(err, store.ErrInvalidArgument)
	})
}

func (s *ConnectionServiceSuite) TestRemoveConnection() {
	ctx := context.Background()

	s.Run("removes pending and accepted records", func() {
		s.Require().NoError(s.svc.SendRequest(ctx, "u1", "u2"))
		s.Require().NoError(s.svc.RemoveConnection(ctx, "u2", "u1"))

		_, err := s.svc.Connection(ctx, "u1", "u2")
		s.Require().ErrorIs(err, store.ErrNotFound)
	})

	s.Run("is idempotent", func() {
		s.Require().NoError(s.svc.RemoveConnection(ctx, "u1", "u2"))
		s.Require().NoError(s.svc.RemoveConnection(ctx, "u1", "u2"))
	})
}

func (s *ConnectionServiceSuite) TestConnectionsFor() {
	ctx := context.Background()

	s.Require().NoError(s.svc.SendRequest(ctx, "u1", "u2"))
	s.Require().NoError(s.svc.AcceptRequest(ctx, "u2", "u1"))
	s.Require().NoError(s.svc.SendRequest(ctx, "u1", "u3"))
	s.Require().NoError(s.svc.SendRequest(ctx, "u4", "u5")) // not u1's

	mine, err := s.svc.ConnectionsFor(ctx, "u1")
	s.Require().NoError(err)
	s.Len(mine, 2)
	s.Equal(models.ConnectionStatusAccepted, mine["u2"].Status)
	s.Equal(models.ConnectionStatusPending, mine["u3"].Status)

	// Both participants observe the same status for their pair.
	theirs, err := s.svc.ConnectionsFor(ctx, "u2")
	s.Require().NoError(err)
	s.Equal(mine["u2"].Status, theirs["u1"].Status)
}

func (s *ConnectionServiceSuite) TestWatchConnections() {
	ctx := context.Background()

	view, err := s.svc.WatchConnections(ctx, "u1")
	s.Require().NoError(err)

	initial := <-view.Updates()
	s.Empty(initial)

	s.Require().NoError(s.svc.SendRequest(ctx, "u1", "u2"))
	updated := <-view.Updates()
	s.Require().Contains(updated, "u2")
	s.Equal(models.ConnectionStatusPending, updated["u2"].Status)

	view.Close()
	for range view.Updates() {
		// drain until the channel closes
	}
}
