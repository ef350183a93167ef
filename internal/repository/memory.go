package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/deppfellow/users-api/internal/model"
)

// ErrEmptyKey mirrors DynamoDB rejecting an empty string as a key value.
var ErrEmptyKey = errors.New("the AttributeValue for a key attribute cannot contain an empty string value. Key: " + model.AttrUserID)

// MemoryStore is an in-process Store used for local development and tests.
// It applies the same item checks DynamoDB does for this table: a non-empty
// string userId and well-formed numbers.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]model.Item
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string]model.Item),
	}
}

func (m *MemoryStore) Put(_ context.Context, item model.Item) error {
	key, err := itemKey(item)
	if err != nil {
		return err
	}
	if err := checkNumbers(item); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = cloneItem(item)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, userID string) (model.Item, error) {
	if userID == "" {
		return nil, ErrEmptyKey
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return cloneItem(m.items[userID]), nil
}

// Scan returns items ordered by userId.
func (m *MemoryStore) Scan(_ context.Context) ([]model.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys := make([]string, 0, len(m.items))
	for k := range m.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	items := make([]model.Item, 0, len(keys))
	for _, k := range keys {
		items = append(items, cloneItem(m.items[k]))
	}
	return items, nil
}

func (m *MemoryStore) Update(_ context.Context, userID string, fields model.Item) (model.Item, error) {
	if userID == "" {
		return nil, ErrEmptyKey
	}
	if _, ok := fields[model.AttrUserID]; ok {
		return nil, fmt.Errorf("cannot update attribute %s. This attribute is part of the key", model.AttrUserID)
	}
	if err := checkNumbers(fields); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	item := cloneItem(m.items[userID])
	if item == nil {
		item = model.Item{model.AttrUserID: &types.AttributeValueMemberS{Value: userID}}
	}
	for k, v := range fields {
		item[k] = v
	}
	m.items[userID] = item

	return cloneItem(item), nil
}

func (m *MemoryStore) Delete(_ context.Context, userID string) (model.Item, error) {
	if userID == "" {
		return nil, ErrEmptyKey
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.items[userID]
	if !ok {
		return nil, nil
	}
	delete(m.items, userID)
	return old, nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(context.Context) error {
	return nil
}

// Len reports how many items are stored.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

func itemKey(item model.Item) (string, error) {
	av, ok := item[model.AttrUserID]
	if !ok {
		return "", fmt.Errorf("one of the required keys was not given a value")
	}
	s, ok := av.(*types.AttributeValueMemberS)
	if !ok {
		return "", fmt.Errorf("type mismatch for key %s expected: S", model.AttrUserID)
	}
	if s.Value == "" {
		return "", ErrEmptyKey
	}
	return s.Value, nil
}

func checkNumbers(item model.Item) error {
	for name, av := range item {
		n, ok := av.(*types.AttributeValueMemberN)
		if !ok {
			continue
		}
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("the parameter cannot be converted to a numeric value: %s (attribute %s)", n.Value, name)
		}
	}
	return nil
}
