// Package reportstore keeps exported report artifacts. Keys are
// "<model id>/<file name>"; content is opaque bytes.
package reportstore

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

var ErrNotFound = errors.New("report artifact not found")

type Store interface {
	Put(ctx context.Context, modelID, name string, content []byte) error
	Get(ctx context.Context, modelID, name string) ([]byte, error)
	List(ctx context.Context, modelID string) ([]string, error)
}

// MemoryStore is the in-process backend used when no object storage is
// configured and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Put(_ context.Context, modelID, name string, content []byte) error {
	key, err := objectKey(modelID, name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), content...)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, modelID, name string) ([]byte, error) {
	key, err := objectKey(modelID, name)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.objects[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), content...), nil
}

func (s *MemoryStore) List(_ context.Context, modelID string) ([]string, error) {
	id := strings.TrimSpace(modelID)
	if id == "" {
		return nil, errors.New("model id is required")
	}
	prefix := id + "/"
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, 8)
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			names = append(names, strings.TrimPrefix(key, prefix))
		}
	}
	sort.Strings(names)
	return names, nil
}

func objectKey(modelID, name string) (string, error) {
	id := strings.TrimSpace(modelID)
	if id == "" {
		return "", errors.New("model id is required")
	}
	n := strings.TrimLeft(strings.TrimSpace(name), "/")
	if n == "" {
		return "", errors.New("artifact name is required")
	}
	return id + "/" + n, nil
}
