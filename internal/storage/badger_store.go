package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/dgraph-io/badger/v3"
)

const badgerPrefix = "chunk:"

// BadgerStore хранит чанки в BadgerDB под ключами chunk:<region>:<x>:<z>
type BadgerStore struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool
}

// NewBadgerStore открывает (или создаёт) базу в dataPath/chunks
func NewBadgerStore(dataPath string) (*BadgerStore, error) {
	dbPath := filepath.Join(dataPath, "chunks")
	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	return &BadgerStore{
		db:      db,
		dbPath:  dbPath,
		isReady: true,
	}, nil
}

// Path возвращает каталог базы
func (s *BadgerStore) Path() string { return s.dbPath }

func badgerKey(key ChunkKey) []byte {
	return []byte(badgerPrefix + key.String())
}

func (s *BadgerStore) Load(ctx context.Context, key ChunkKey) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return nil, ErrClosed
	}

	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(badgerKey(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrChunkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения чанка %s из BadgerDB: %w", key, err)
	}
	return data, nil
}

func (s *BadgerStore) Save(ctx context.Context, key ChunkKey, data []byte) error {
	if err := key.Validate(); err != nil {
		return err
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return ErrClosed
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(badgerKey(key), data)
	})
	if err != nil {
		return fmt.Errorf("ошибка сохранения чанка %s в BadgerDB: %w", key, err)
	}
	return nil
}

func (s *BadgerStore) Delete(ctx context.Context, key ChunkKey) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return ErrClosed
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(badgerKey(key))
	})
	if err != nil {
		return fmt.Errorf("ошибка удаления чанка %s из BadgerDB: %w", key, err)
	}
	return nil
}

// List проходит по префиксу chunk:<region>: только по ключам, без значений
func (s *BadgerStore) List(ctx context.Context, region string) ([]ChunkKey, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if !s.isReady {
		return nil, ErrClosed
	}

	prefix := []byte(badgerPrefix + region + ":")
	keys := make([]ChunkKey, 0)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			key, err := ParseKey(string(it.Item().Key()[len(badgerPrefix):]))
			if err != nil {
				return err
			}
			// Префикс "a:" совпадает и с регионом "a:b"
			if key.Region == region {
				keys = append(keys, key)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка обхода региона %s в BadgerDB: %w", region, err)
	}
	sortKeys(keys)
	return keys, nil
}

// Close закрывает базу
func (s *BadgerStore) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isReady {
		return nil
	}
	s.isReady = false
	return s.db.Close()
}
