package quiz

import (
	"context"
	"path"
	"sort"

	"github.com/arfaouiahmed1/stage/internal/db"
)

// memStore is an in-memory store with glob SCAN.
type memStore struct {
	data    map[string][]byte
	scanErr error
}

func newMemStore() *memStore {
	return &memStore{data: map[string][]byte{}}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) MGet(_ context.Context, keys []string) ([][]byte, error) {
	out := make([][]byte, len(keys))
	for i, k := range keys {
		out[i] = m.data[k]
	}
	return out, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	m.data[key] = value
	return nil
}

func (m *memStore) Exists(_ context.Context, key string) (bool, error) {
	_, ok := m.data[key]
	return ok, nil
}

func (m *memStore) Scan(_ context.Context, pattern string) ([]string, error) {
	if m.scanErr != nil {
		return nil, m.scanErr
	}
	var keys []string
	for k := range m.data {
		if ok, _ := path.Match(pattern, k); ok {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
