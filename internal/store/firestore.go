package store

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore implements Store on Cloud Firestore. Documents map 1:1 to
// Firestore documents and Subscribe rides on Firestore snapshot listeners,
// which already deliver the full result set on every change.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a FirestoreStore around an initialized client.
func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

// Put upserts a whole document.
func (s *FirestoreStore) Put(ctx context.Context, collection, key string, doc interface{}) error {
	_, err := s.client.Collection(collection).Doc(key).Set(ctx, doc)
	return mapFirestoreError(err)
}

// Update merges fields into an existing document.
func (s *FirestoreStore) Update(ctx context.Context, collection, key string, fields map[string]interface{}) error {
	_, err := s.client.Collection(collection).Doc(key).Update(ctx, firestoreUpdates(fields))
	return mapFirestoreError(err)
}

// Delete removes a document. Firestore deletes are idempotent already.
func (s *FirestoreStore) Delete(ctx context.Context, collection, key string) error {
	_, err := s.client.Collection(collection).Doc(key).Delete(ctx)
	return mapFirestoreError(err)
}

// Get reads a document into out.
func (s *FirestoreStore) Get(ctx context.Context, collection, key string, out interface{}) error {
	snap, err := s.client.Collection(collection).Doc(key).Get(ctx)
	if err != nil {
		return mapFirestoreError(err)
	}
	return Doc{Key: snap.Ref.ID, Data: snap.Data()}.DataTo(out)
}

// Subscribe opens a snapshot listener over the whole collection. Firestore
// delivers the initial result set immediately, then one snapshot per change.
func (s *FirestoreStore) Subscribe(ctx context.Context, collection string) (Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	iter := s.client.Collection(collection).Snapshots(ctx)

	sub := &firestoreSubscription{
		cancel: cancel,
		ch:     make(chan Snapshot, 1),
	}

	go func() {
		defer close(sub.ch)
		defer iter.Stop()
		for {
			qs, err := iter.Next()
			if err != nil {
				if status.Code(err) != codes.Canceled {
					log.Printf("Firestore listener on %q stopped: %v", collection, err)
				}
				return
			}

			snap := Snapshot{}
			for {
				doc, err := qs.Documents.Next()
				if err != nil {
					break
				}
				snap.Docs = append(snap.Docs, Doc{Key: doc.Ref.ID, Data: doc.Data()})
			}

			select {
			case sub.ch <- snap:
			case <-ctx.Done():
				return
			}
		}
	}()

	return sub, nil
}

// Apply commits the batch inside a single Firestore transaction, so partial
// completion is impossible.
func (s *FirestoreStore) Apply(ctx context.Context, mutations []Mutation) error {
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, m := range mutations {
			ref := s.client.Collection(m.Collection).Doc(m.Key)
			switch m.Op {
			case OpPut:
				if err := tx.Set(ref, m.Doc); err != nil {
					return err
				}
			case OpUpdate:
				if err := tx.Update(ref, firestoreUpdates(m.Fields)); err != nil {
					return err
				}
			case OpDelete:
				if err := tx.Delete(ref); err != nil {
					return err
				}
			}
		}
		return nil
	})
	return mapFirestoreError(err)
}

type firestoreSubscription struct {
	cancel context.CancelFunc
	ch     chan Snapshot
}

func (sub *firestoreSubscription) Snapshots() <-chan Snapshot {
	return sub.ch
}

func (sub *firestoreSubscription) Close() {
	sub.cancel()
}

func firestoreUpdates(fields map[string]interface{}) []firestore.Update {
	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}
	return updates
}

// mapFirestoreError folds gRPC status codes into the store taxonomy.
func mapFirestoreError(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.NotFound:
		return ErrNotFound
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}
