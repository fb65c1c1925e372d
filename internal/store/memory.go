package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore implements Store with mutex-guarded maps. It backs the test
// suites and local development without a Firestore project. Every mutation
// broadcasts a fresh full snapshot to the collection's subscribers, matching
// the production listener semantics.
type MemoryStore struct {
	mu          sync.Mutex
	collections map[string]map[string]map[string]interface{}
	subs        map[string][]*memorySubscription
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]map[string]interface{}),
		subs:        make(map[string][]*memorySubscription),
	}
}

// Put upserts a whole document.
func (s *MemoryStore) Put(ctx context.Context, collection, key string, doc interface{}) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.putLocked(collection, key, data)
	s.broadcastLocked(collection)
	return nil
}

// Update merges fields into an existing document.
func (s *MemoryStore) Update(ctx context.Context, collection, key string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.collections[collection][key]
	if !ok {
		return ErrNotFound
	}

	// Stored maps are treated as immutable so snapshots can share them;
	// merge into a copy and swap it in.
	merged := make(map[string]interface{}, len(existing)+len(fields))
	for k, v := range existing {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	s.collections[collection][key] = merged
	s.broadcastLocked(collection)
	return nil
}

// Delete removes a document. Missing keys are ignored.
func (s *MemoryStore) Delete(ctx context.Context, collection, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	docs, ok := s.collections[collection]
	if !ok {
		return nil
	}
	if _, ok := docs[key]; !ok {
		return nil
	}
	delete(docs, key)
	s.broadcastLocked(collection)
	return nil
}

// Get reads a document into out.
func (s *MemoryStore) Get(ctx context.Context, collection, key string, out interface{}) error {
	s.mu.Lock()
	data, ok := s.collections[collection][key]
	s.mu.Unlock()

	if !ok {
		return ErrNotFound
	}
	return Doc{Key: key, Data: data}.DataTo(out)
}

// Subscribe opens a snapshot feed. The current snapshot is queued before
// Subscribe returns.
func (s *MemoryStore) Subscribe(ctx context.Context, collection string) (Subscription, error) {
	sub := &memorySubscription{
		store:      s,
		collection: collection,
		ch:         make(chan Snapshot, 1),
	}

	s.mu.Lock()
	s.subs[collection] = append(s.subs[collection], sub)
	sub.push(s.snapshotLocked(collection))
	s.mu.Unlock()

	return sub, nil
}

// Apply commits all mutations under one lock acquisition, so the batch is
// atomic with respect to readers and a single snapshot is broadcast per
// touched collection.
func (s *MemoryStore) Apply(ctx context.Context, mutations []Mutation) error {
	// Encode before mutating anything so a bad document fails the whole batch.
	encoded := make([]map[string]interface{}, len(mutations))
	for i, m := range mutations {
		if m.Op != OpPut {
			continue
		}
		data, err := Encode(m.Doc)
		if err != nil {
			return err
		}
		encoded[i] = data
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range mutations {
		if m.Op != OpUpdate {
			continue
		}
		if _, ok := s.collections[m.Collection][m.Key]; !ok {
			return ErrNotFound
		}
	}

	touched := make(map[string]bool)
	for i, m := range mutations {
		switch m.Op {
		case OpPut:
			s.putLocked(m.Collection, m.Key, encoded[i])
		case OpUpdate:
			existing := s.collections[m.Collection][m.Key]
			merged := make(map[string]interface{}, len(existing)+len(m.Fields))
			for k, v := range existing {
				merged[k] = v
			}
			for k, v := range m.Fields {
				merged[k] = v
			}
			s.collections[m.Collection][m.Key] = merged
		case OpDelete:
			delete(s.collections[m.Collection], m.Key)
		}
		touched[m.Collection] = true
	}
	for collection := range touched {
		s.broadcastLocked(collection)
	}
	return nil
}

func (s *MemoryStore) putLocked(collection, key string, data map[string]interface{}) {
	docs, ok := s.collections[collection]
	if !ok {
		docs = make(map[string]map[string]interface{})
		s.collections[collection] = docs
	}
	docs[key] = data
}

func (s *MemoryStore) snapshotLocked(collection string) Snapshot {
	docs := s.collections[collection]
	snap := Snapshot{Docs: make([]Doc, 0, len(docs))}
	for key, data := range docs {
		snap.Docs = append(snap.Docs, Doc{Key: key, Data: data})
	}
	sort.Slice(snap.Docs, func(i, j int) bool { return snap.Docs[i].Key < snap.Docs[j].Key })
	return snap
}

func (s *MemoryStore) broadcastLocked(collection string) {
	snap := s.snapshotLocked(collection)
	for _, sub := range s.subs[collection] {
		sub.push(snap)
	}
}

type memorySubscription struct {
	store      *MemoryStore
	collection string
	ch         chan Snapshot
	closed     bool
}

func (sub *memorySubscription) Snapshots() <-chan Snapshot {
	return sub.ch
}

// Close removes the subscription and closes the channel. Idempotent.
func (sub *memorySubscription) Close() {
	sub.store.mu.Lock()
	defer sub.store.mu.Unlock()

	if sub.closed {
		return
	}
	sub.closed = true

	subs := sub.store.subs[sub.collection]
	for i, other := range subs {
		if other == sub {
			sub.store.subs[sub.collection] = append(subs[:i], subs[i+1:]...)
			break
		}
	}
	close(sub.ch)
}

// push is always called with the store mutex held. A slow consumer keeps
// only the latest snapshot; intermediate ones are coalesced.
func (sub *memorySubscription) push(snap Snapshot) {
	if sub.closed {
		return
	}
	for {
		select {
		case sub.ch <- snap:
			return
		default:
			select {
			case <-sub.ch:
			default:
			}
		}
	}
}
