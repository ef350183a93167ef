// Package repository handles all interactions with the user store.
//
// Every backend (DynamoDB, PostgreSQL, in-memory) speaks the same Store
// interface in terms of attribute-tagged items, so the service layer never
// knows which one it is talking to.
package repository

import (
	"context"

	"github.com/deppfellow/users-api/internal/model"
)

// Store is the single-table key-value store holding user items, keyed by userId.
type Store interface {
	// Put writes item unconditionally, overwriting any existing item with the same key.
	Put(ctx context.Context, item model.Item) error

	// Get returns the item stored under userID, or nil when there is none.
	Get(ctx context.Context, userID string) (model.Item, error)

	// Scan returns every stored item. There is no pagination or filtering.
	Scan(ctx context.Context) ([]model.Item, error)

	// Update sets the given attributes on the item stored under userID,
	// creating it when absent, and returns the item as it is after the write.
	Update(ctx context.Context, userID string, fields model.Item) (model.Item, error)

	// Delete removes the item stored under userID and returns what was
	// removed, or nil when nothing was stored. Removal and read are atomic.
	Delete(ctx context.Context, userID string) (model.Item, error)
}

// Pinger is implemented by stores that can report their own reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// cloneItem copies the attribute map. Attribute values are never mutated in
// place, so sharing them is safe.
func cloneItem(item model.Item) model.Item {
	if item == nil {
		return nil
	}
	out := make(model.Item, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}
