package storage

import (
	"context"

	"github.com/annel0/nbtview/internal/eventbus"
	"github.com/annel0/nbtview/internal/logging"
)

// EventSource значение Envelope.Source для событий хранилища
const EventSource = "storage"

// PublishingStore публикует chunk.saved / chunk.deleted после успешной записи.
// Ошибка публикации не откатывает запись, а только логируется.
type PublishingStore struct {
	ChunkStore
	bus    eventbus.EventBus
	logger *logging.Logger
}

// WithEvents оборачивает store; при bus == nil возвращает store без изменений
func WithEvents(store ChunkStore, bus eventbus.EventBus) ChunkStore {
	if bus == nil {
		return store
	}
	return &PublishingStore{
		ChunkStore: store,
		bus:        bus,
		logger:     logging.GetStorageLogger(),
	}
}

func (s *PublishingStore) Save(ctx context.Context, key ChunkKey, data []byte) error {
	if err := s.ChunkStore.Save(ctx, key, data); err != nil {
		return err
	}
	s.publish(ctx, eventbus.ChunkSaved, key, len(data))
	return nil
}

func (s *PublishingStore) Delete(ctx context.Context, key ChunkKey) error {
	if err := s.ChunkStore.Delete(ctx, key); err != nil {
		return err
	}
	s.publish(ctx, eventbus.ChunkDeleted, key, 0)
	return nil
}

func (s *PublishingStore) publish(ctx context.Context, eventType string, key ChunkKey, size int) {
	env, err := eventbus.NewChunkEnvelope(EventSource, eventType, eventbus.ChunkEvent{
		Region: key.Region,
		X:      key.X,
		Z:      key.Z,
		Size:   size,
	})
	if err == nil {
		err = s.bus.Publish(ctx, env)
	}
	if err != nil {
		s.logger.Warn("не удалось опубликовать %s для %s: %v", eventType, key, err)
	}
}
