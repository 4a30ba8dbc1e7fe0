// Package seen persists the set of item identifiers that have already been
// notified, optionally mirrored to a remote blob store.
package seen

import (
	"context"

	"github.com/pevans/newswatch"
)

// Store is a durable set of seen identifiers.
//
// Load returns an empty set, not an error, when nothing has been saved yet.
// Save persists exactly the given set; saving the same set twice leaves the
// same content behind.
type Store interface {
	Load(ctx context.Context) (*newswatch.Set, error)
	Save(ctx context.Context, set *newswatch.Set) error
}
