package store

import (
	"context"
	"encoding/json"
)

// Collection names shared by every store implementation.
const (
	CollectionUsers       = "users"
	CollectionConnections = "connections"
	CollectionGroups      = "groups"
	CollectionInvitations = "group_invitations"
)

// Doc is one document in a snapshot: its key plus the raw field map.
type Doc struct {
	Key  string
	Data map[string]interface{}
}

// DataTo decodes the raw field map into out. Field names follow the json
// tags on the model structs, which match the firestore tags.
func (d Doc) DataTo(out interface{}) error {
	b, err := json.Marshal(d.Data)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// Snapshot is the full result set of a collection at one point in time.
// Subscriptions deliver whole snapshots, not incremental diffs; callers
// that need a diff compute it themselves.
type Snapshot struct {
	Docs []Doc
}

// Subscription is a live feed of collection snapshots. The first snapshot is
// delivered immediately on subscribe, then one per underlying change. Close
// releases the feed deterministically; after Close the channel is closed.
type Subscription interface {
	Snapshots() <-chan Snapshot
	Close()
}

// MutationOp discriminates the entries of an atomic batch.
type MutationOp int

const (
	OpPut MutationOp = iota
	OpUpdate
	OpDelete
)

// Mutation is one entry of an atomic batch passed to Apply.
type Mutation struct {
	Op         MutationOp
	Collection string
	Key        string
	Doc        interface{}            // OpPut
	Fields     map[string]interface{} // OpUpdate
}

// Store is the minimal document-store contract the services are written
// against. Any document store with real-time change notification can back
// it; FirestoreStore is the production implementation and MemoryStore backs
// tests and local development.
//
// Writes are last-write-wins per document key. There is no optimistic
// concurrency control: concurrent writers to the same key race and the last
// write landing at the store wins, regardless of what either writer had
// observed. Cross-key operations never contend.
type Store interface {
	// Put upserts a whole document.
	Put(ctx context.Context, collection, key string, doc interface{}) error
	// Update merges the given fields into an existing document. Returns
	// ErrNotFound when the key is absent.
	Update(ctx context.Context, collection, key string, fields map[string]interface{}) error
	// Delete removes a document. Deleting a missing key is not an error.
	Delete(ctx context.Context, collection, key string) error
	// Get reads a document into out. Returns ErrNotFound when absent.
	Get(ctx context.Context, collection, key string, out interface{}) error
	// Subscribe opens a snapshot feed over a collection.
	Subscribe(ctx context.Context, collection string) (Subscription, error)
	// Apply commits all mutations atomically: either every entry lands or
	// none does.
	Apply(ctx context.Context, mutations []Mutation) error
}

// Encode turns a model struct into the raw field map stored by MemoryStore.
func Encode(doc interface{}) (map[string]interface{}, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}
