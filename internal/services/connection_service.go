package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ravikumar3183/SimpleChat/internal/identity"
	"github.com/ravikumar3183/SimpleChat/internal/models"
	"github.com/ravikumar3183/SimpleChat/internal/store"
)

// ConnectionService drives the friend-request lifecycle for unordered user
// pairs. States per pair: absent -> pending -> accepted, with both non-absent
// states deletable back to absent. All operations normalize the pair through
// identity.PairKey, so calls from either side hit the same record.
//
// The service holds no state of its own; every mutation is a store write and
// concurrent writers to the same pair race with last-write-wins semantics.
type ConnectionService struct {
	store store.Store
}

// NewConnectionService creates a new ConnectionService
func NewConnectionService(st store.Store) *ConnectionService {
	return &ConnectionService{store: st}
}

// SendRequest creates or re-issues a pending connection request from myID to
// otherID. An already-accepted connection is not demoted back to pending;
// that returns ErrAlreadyConnected. Re-sending over an existing pending
// request overwrites status and actionBy, which makes the call idempotent
// for the requester.
func (s *ConnectionService) SendRequest(ctx context.Context, myID, otherID string) error {
	if myID == otherID {
		return fmt.Errorf("%w: cannot send a connection request to yourself", store.ErrInvalidArgument)
	}

	key := identity.PairKey(myID, otherID)

	var existing models.Connection
	err := s.store.Get(ctx, store.CollectionConnections, key, &existing)
	switch {
	case err == nil:
		if existing.Status == models.ConnectionStatusAccepted {
			return store.ErrAlreadyConnected
		}
	case !errors.Is(err, store.ErrNotFound):
		return err
	}

	lo, hi := identity.Order(myID, otherID)
	conn := models.Connection{
		User1:    lo,
		User2:    hi,
		Status:   models.ConnectionStatusPending,
		ActionBy: myID,
	}
	return s.store.Put(ctx, store.CollectionConnections, key, conn)
}

// AcceptRequest transitions the pair's pending request to accepted. The
// request must exist (ErrNotFound otherwise) and must not be myID's own
// outgoing request.
func (s *ConnectionService) AcceptRequest(ctx context.Context, myID, otherID string) error {
	key := identity.PairKey(myID, otherID)

	var existing models.Connection
	if err := s.store.Get(ctx, store.CollectionConnections, key, &existing); err != nil {
		return err
	}
	if existing.Status == models.ConnectionStatusPending && existing.ActionBy == myID {
		return fmt.Errorf("%w: cannot accept your own outgoing request", store.ErrInvalidArgument)
	}

	return s.store.Update(ctx, store.CollectionConnections, key, map[string]interface{}{
		"status":   models.ConnectionStatusAccepted,
		"actionBy": myID,
	})
}

// RemoveConnection deletes the pair's record unconditionally. It covers
// declining an incoming request, cancelling an outgoing one, and unfriending
// an accepted connection; all three are the same delete. Removing a missing
// connection is not an error.
func (s *ConnectionService) RemoveConnection(ctx context.Context, myID, otherID string) error {
	return s.store.Delete(ctx, store.CollectionConnections, identity.PairKey(myID, otherID))
}

// Connection returns the pair's current record, or ErrNotFound.
func (s *ConnectionService) Connection(ctx context.Context, myID, otherID string) (*models.Connection, error) {
	var conn models.Connection
	if err := s.store.Get(ctx, store.CollectionConnections, identity.PairKey(myID, otherID), &conn); err != nil {
		return nil, err
	}
	return &conn, nil
}

// ConnectionsFor returns the current connection set involving myID, keyed by
// the other participant. This is the one-shot form of WatchConnections.
func (s *ConnectionService) ConnectionsFor(ctx context.Context, myID string) (map[string]models.Connection, error) {
	snap, err := firstSnapshot(ctx, s.store, store.CollectionConnections)
	if err != nil {
		return nil, err
	}
	return connectionsFrom(snap, myID), nil
}

// WatchConnections opens a continuously updated view of myID's connections.
// The caller must Close the view when its session ends.
func (s *ConnectionService) WatchConnections(ctx context.Context, myID string) (*ConnectionView, error) {
	sub, err := s.store.Subscribe(ctx, store.CollectionConnections)
	if err != nil {
		return nil, err
	}

	view := &ConnectionView{
		sub: sub,
		ch:  make(chan map[string]models.Connection, 1),
	}
	go func() {
		defer close(view.ch)
		for snap := range sub.Snapshots() {
			pushLatest(view.ch, connectionsFrom(snap, myID))
		}
	}()
	return view, nil
}

// ConnectionView is a derived, non-owning view over the connection feed. It
// delivers the full recomputed mapping on every underlying change.
type ConnectionView struct {
	sub store.Subscription
	ch  chan map[string]models.Connection
}

// Updates returns the channel of recomputed views. The channel closes after
// Close is called.
func (v *ConnectionView) Updates() <-chan map[string]models.Connection {
	return v.ch
}

// Close releases the underlying store subscription.
func (v *ConnectionView) Close() {
	v.sub.Close()
}

// connectionsFrom filters a raw connections snapshot down to records
// involving myID, keyed by the other participant. The store feed is the
// whole collection; filtering happens here, on the client side.
func connectionsFrom(snap store.Snapshot, myID string) map[string]models.Connection {
	result := make(map[string]models.Connection)
	for _, doc := range snap.Docs {
		var conn models.Connection
		if err := doc.DataTo(&conn); err != nil {
			continue
		}
		if !conn.HasUser(myID) {
			continue
		}
		result[conn.Other(myID)] = conn
	}
	return result
}
