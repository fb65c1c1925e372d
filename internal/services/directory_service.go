package services

import (
	"context"
	"sort"

	"github.com/ravikumar3183/SimpleChat/internal/models"
	"github.com/ravikumar3183/SimpleChat/internal/store"
)

// DirectoryEntry pairs one directory user with the viewer's connection to
// them, if any. Connection is nil when the two users have no record.
type DirectoryEntry struct {
	User       models.DirectoryUser `json:"user"`
	Connection *models.Connection   `json:"connection,omitempty"`
}

// Project joins the user directory with the viewer's connection map. The
// viewer is excluded and the result is ordered by userId so repeated
// projections of the same inputs are identical. Pure read-side join; never
// mutates either input.
func Project(users []models.DirectoryUser, connections map[string]models.Connection, currentUserID string) []DirectoryEntry {
	entries := make([]DirectoryEntry, 0, len(users))
	for _, user := range users {
		if user.UserID == currentUserID {
			continue
		}
		entry := DirectoryEntry{User: user}
		if conn, ok := connections[user.UserID]; ok {
			c := conn
			entry.Connection = &c
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].User.UserID < entries[j].User.UserID })
	return entries
}

// FriendsOf filters the directory down to users whose connection with the
// viewer is accepted. Pending or absent connections never qualify. This is
// the selectable-member pool for group creation.
func FriendsOf(users []models.DirectoryUser, connections map[string]models.Connection) []models.DirectoryUser {
	var friends []models.DirectoryUser
	for _, user := range users {
		if conn, ok := connections[user.UserID]; ok && conn.Status == models.ConnectionStatusAccepted {
			friends = append(friends, user)
		}
	}
	return friends
}

// DirectoryService composes the store's user feed with the connection state
// machine's output for presentation.
type DirectoryService struct {
	store store.Store
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(st store.Store) *DirectoryService {
	return &DirectoryService{store: st}
}

// Directory returns the current projection for currentUserID.
func (s *DirectoryService) Directory(ctx context.Context, currentUserID string) ([]DirectoryEntry, error) {
	users, err := s.directoryUsers(ctx)
	if err != nil {
		return nil, err
	}
	connSnap, err := firstSnapshot(ctx, s.store, store.CollectionConnections)
	if err != nil {
		return nil, err
	}
	return Project(users, connectionsFrom(connSnap, currentUserID), currentUserID), nil
}

// Friends returns the users currentUserID has an accepted connection with.
func (s *DirectoryService) Friends(ctx context.Context, currentUserID string) ([]models.DirectoryUser, error) {
	users, err := s.directoryUsers(ctx)
	if err != nil {
		return nil, err
	}
	connSnap, err := firstSnapshot(ctx, s.store, store.CollectionConnections)
	if err != nil {
		return nil, err
	}
	return FriendsOf(users, connectionsFrom(connSnap, currentUserID)), nil
}

// WatchDirectory opens a continuously updated projection: it is recomputed
// whenever either the user directory or the connection set changes. The
// caller must Close the view when its session ends.
func (s *DirectoryService) WatchDirectory(ctx context.Context, currentUserID string) (*DirectoryView, error) {
	userSub, err := s.store.Subscribe(ctx, store.CollectionUsers)
	if err != nil {
		return nil, err
	}
	connSub, err := s.store.Subscribe(ctx, store.CollectionConnections)
	if err != nil {
		userSub.Close()
		return nil, err
	}

	view := &DirectoryView{
		userSub: userSub,
		connSub: connSub,
		ch:      make(chan []DirectoryEntry, 1),
	}
	go func() {
		defer close(view.ch)

		var users []models.DirectoryUser
		connections := make(map[string]models.Connection)
		userCh, connCh := userSub.Snapshots(), connSub.Snapshots()

		for userCh != nil || connCh != nil {
			select {
			case snap, ok := <-userCh:
				if !ok {
					userCh = nil
					continue
				}
				users = usersFrom(snap)
			case snap, ok := <-connCh:
				if !ok {
					connCh = nil
					continue
				}
				connections = connectionsFrom(snap, currentUserID)
			}
			pushLatest(view.ch, Project(users, connections, currentUserID))
		}
	}()
	return view, nil
}

// DirectoryView is a derived view joining the user and connection feeds.
type DirectoryView struct {
	userSub store.Subscription
	connSub store.Subscription
	ch      chan []DirectoryEntry
}

func (v *DirectoryView) Updates() <-chan []DirectoryEntry { return v.ch }

// Close releases both underlying subscriptions.
func (v *DirectoryView) Close() {
	v.userSub.Close()
	v.connSub.Close()
}

func (s *DirectoryService) directoryUsers(ctx context.Context) ([]models.DirectoryUser, error) {
	snap, err := firstSnapshot(ctx, s.store, store.CollectionUsers)
	if err != nil {
		return nil, err
	}
	return usersFrom(snap), nil
}

func usersFrom(snap store.Snapshot) []models.DirectoryUser {
	users := make([]models.DirectoryUser, 0, len(snap.Docs))
	for _, doc := range snap.Docs {
		var user models.DirectoryUser
		if err := doc.DataTo(&user); err != nil {
			continue
		}
		users = append(users, user)
	}
	return users
}
