// Package storage defines the persistence contract for the event set.
package storage

import "context"

// EventsKey is the fixed key the encoded event collection is stored under.
const EventsKey = "events"

// StringSetStore persists named sets of strings. Put replaces the whole
// set for a key in one atomic step; Get of an absent key yields an empty
// set. Member order is not preserved and byte-identical members collapse
// to a single entry.
type StringSetStore interface {
	GetStringSet(ctx context.Context, key string) ([]string, error)
	PutStringSet(ctx context.Context, key string, members []string) error
}
