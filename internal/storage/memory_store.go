package storage

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore хранилище в памяти (тесты, demo)
type MemoryStore struct {
	mu     sync.RWMutex
	chunks map[ChunkKey][]byte
	closed bool
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{chunks: make(map[ChunkKey][]byte)}
}

func (s *MemoryStore) Load(ctx context.Context, key ChunkKey) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}
	data, ok := s.chunks[key]
	if !ok {
		return nil, ErrChunkNotFound
	}
	return slices.Clone(data), nil
}

func (s *MemoryStore) Save(ctx context.Context, key ChunkKey, data []byte) error {
	if err := key.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	s.chunks[key] = slices.Clone(data)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, key ChunkKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	delete(s.chunks, key)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, region string) ([]ChunkKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}
	keys := make([]ChunkKey, 0)
	for key := range s.chunks {
		if key.Region == region {
			keys = append(keys, key)
		}
	}
	sortKeys(keys)
	return keys, nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	s.closed = true
	s.chunks = nil
	s.mu.Unlock()
	return nil
}
