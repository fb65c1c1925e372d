package services

import (
	"context"

	"github.com/ravikumar3183/SimpleChat/internal/store"
)

// firstSnapshot reads the current state of a collection through the
// subscription contract: subscribe, take the initial snapshot, release. Both
// store implementations queue the current result set before Subscribe
// returns, so this does not wait for a change.
func firstSnapshot(ctx context.Context, st store.Store, collection string) (store.Snapshot, error) {
	sub, err := st.Subscribe(ctx, collection)
	if err != nil {
		return store.Snapshot{}, err
	}
	defer sub.Close()

	select {
	case snap, ok := <-sub.Snapshots():
		if !ok {
			return store.Snapshot{}, store.ErrUnavailable
		}
		return snap, nil
	case <-ctx.Done():
		return store.Snapshot{}, ctx.Err()
	}
}

// pushLatest delivers v on a capacity-1 channel, replacing any undelivered
// value. Slow consumers always observe the latest view; intermediate views
// may be skipped.
func pushLatest[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}
