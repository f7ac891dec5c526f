package store

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps documents in process memory. Used for local runs and tests.
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string]map[string][]byte
	clock func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:  make(map[string]map[string][]byte),
		clock: time.Now,
	}
}

// WithClock replaces the source of ServerTime.
func (m *MemoryStore) WithClock(clock func() time.Time) *MemoryStore {
	m.clock = clock
	return m
}

func (m *MemoryStore) Get(ctx context.Context, collection, key string) (*Document, error) {
	if err := validateKey(collection, key); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	raw, ok := m.data[collection][key]
	if !ok {
		return nil, ErrNotFound
	}
	return &Document{ID: key, Data: append([]byte(nil), raw...)}, nil
}

func (m *MemoryStore) Set(ctx context.Context, collection, key string, doc Document) error {
	if err := validateKey(collection, key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	coll, ok := m.data[collection]
	if !ok {
		coll = make(map[string][]byte)
		m.data[collection] = coll
	}
	coll[key] = append([]byte(nil), doc.Data...)
	return nil
}

func (m *MemoryStore) List(ctx context.Context, collection string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	coll := m.data[collection]
	ids := make([]string, 0, len(coll))
	for id := range coll {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := make([]Document, 0, len(ids))
	for _, id := range ids {
		docs = append(docs, Document{ID: id, Data: append([]byte(nil), coll[id]...)})
	}
	return docs, nil
}

func (m *MemoryStore) ServerTime(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	return m.clock().UTC(), nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}
