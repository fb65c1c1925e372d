package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
)

type memoryDoc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type MemoryStoreSuite struct {
	suite.Suite
	store *MemoryStore
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewMemoryStore()
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) TestPutGet() {
	ctx := context.Background()

	s.Run("roundtrips a document", func() {
		s.Require().NoError(s.store.Put(ctx, "things", "k1", memoryDoc{Name: "a", Count: 1}))

		var got memoryDoc
		s.Require().NoError(s.store.Get(ctx, "things", "k1", &got))
		s.Equal(memoryDoc{Name: "a", Count: 1}, got)
	})

	s.Run("put overwrites the whole document", func() {
		s.Require().NoError(s.store.Put(ctx, "things", "k1", memoryDoc{Name: "b"}))

		var got memoryDoc
		s.Require().NoError(s.store.Get(ctx, "things", "k1", &got))
		s.Equal(memoryDoc{Name: "b", Count: 0}, got)
	})

	s.Run("get on a missing key returns ErrNotFound", func() {
		var got memoryDoc
		err := s.store.Get(ctx, "things", "missing", &got)
		s.Require().ErrorIs(err, ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestUpdate() {
	ctx := context.Background()

	s.Run("merges fields into an existing document", func() {
		s.Require().NoError(s.store.Put(ctx, "things", "k1", memoryDoc{Name: "a", Count: 1}))
		s.Require().NoError(s.store.Update(ctx, "things", "k1", map[string]interface{}{"count": 5}))

		var got memoryDoc
		s.Require().NoError(s.store.Get(ctx, "things", "k1", &got))
		s.Equal("a", got.Name)
		s.Equal(5, got.Count)
	})

	s.Run("fails with ErrNotFound on a missing key", func() {
		err := s.store.Update(ctx, "things", "missing", map[string]interface{}{"count": 5})
		s.Require().ErrorIs(err, ErrNotFound)
	})
}

func (s *MemoryStoreSuite) TestDeleteIsIdempotent() {
	ctx := context.Background()

	s.Require().NoError(s.store.Put(ctx, "things", "k1", memoryDoc{Name: "a"}))
	s.Require().NoError(s.store.Delete(ctx, "things", "k1"))
	s.Require().NoError(s.store.Delete(ctx, "things", "k1"))
	s.Require().NoError(s.store.Delete(ctx, "never-existed", "k1"))
}

func (s *MemoryStoreSuite) TestSubscribe() {
	ctx := context.Background()

	s.Require().NoError(s.store.Put(ctx, "things", "k1", memoryDoc{Name: "a"}))

	sub, err := s.store.Subscribe(ctx, "things")
	s.Require().NoError(err)

	// Initial snapshot is the current full result set.
	snap := <-sub.Snapshots()
	s.Require().Len(snap.Docs, 1)
	s.Equal("k1", snap.Docs[0].Key)

	// Every change delivers a fresh full snapshot, not a diff.
	s.Require().NoError(s.store.Put(ctx, "things", "k2", memoryDoc{Name: "b"}))
	snap = <-sub.Snapshots()
	s.Require().Len(snap.Docs, 2)

	s.Require().NoError(s.store.Delete(ctx, "things", "k1"))
	snap = <-sub.Snapshots()
	s.Require().Len(snap.Docs, 1)
	s.Equal("k2", snap.Docs[0].Key)

	// Close ends the feed; closing twice is fine.
	sub.Close()
	sub.Close()
	_, ok := <-sub.Snapshots()
	s.False(ok)
}

func (s *MemoryStoreSuite) TestApply() {
	ctx := context.Background()

	s.Run("commits all mutations", func() {
		s.Require().NoError(s.store.Put(ctx, "things", "old", memoryDoc{Name: "old"}))

		err := s.store.Apply(ctx, []Mutation{
			{Op: OpPut, Collection: "things", Key: "new", Doc: memoryDoc{Name: "new"}},
			{Op: OpUpdate, Collection: "things", Key: "old", Fields: map[string]interface{}{"count": 9}},
			{Op: OpDelete, Collection: "other", Key: "gone"},
		})
		s.Require().NoError(err)

		var got memoryDoc
		s.Require().NoError(s.store.Get(ctx, "things", "new", &got))
		s.Require().NoError(s.store.Get(ctx, "things", "old", &got))
		s.Equal(9, got.Count)
	})

	s.Run("a failing update aborts the whole batch", func() {
		err := s.store.Apply(ctx, []Mutation{
			{Op: OpPut, Collection: "things", Key: "stray", Doc: memoryDoc{Name: "stray"}},
			{Op: OpUpdate, Collection: "things", Key: "missing", Fields: map[string]interface{}{"count": 1}},
		})
		s.Require().ErrorIs(err, ErrNotFound)

		var got memoryDoc
		err = s.store.Get(ctx, "things", "stray", &got)
		s.Require().ErrorIs(err, ErrNotFound, "no partial writes from an aborted batch")
	})

	s.Run("one snapshot per touched collection", func() {
		sub, err := s.store.Subscribe(ctx, "batched")
		s.Require().NoError(err)
		defer sub.Close()
		<-sub.Snapshots() // initial

		err = s.store.Apply(ctx, []Mutation{
			{Op: OpPut, Collection: "batched", Key: "a", Doc: memoryDoc{Name: "a"}},
			{Op: OpPut, Collection: "batched", Key: "b", Doc: memoryDoc{Name: "b"}},
		})
		s.Require().NoError(err)

		snap := <-sub.Snapshots()
		s.Len(snap.Docs, 2, "both writes land in a single snapshot")
	})
}
