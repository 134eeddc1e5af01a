package app

import (
	"context"
	"fmt"

	"go.uber.org/multierr"

	"github.com/annel0/nbtview/internal/cache"
	"github.com/annel0/nbtview/internal/config"
	"github.com/annel0/nbtview/internal/eventbus"
	"github.com/annel0/nbtview/internal/logging"
	"github.com/annel0/nbtview/internal/storage"
	"github.com/annel0/nbtview/internal/world"
)

// MemoryBusCapacity размер буфера локальной шины событий
const MemoryBusCapacity = 256

// Stack собранные по конфигурации хранилище, кеш и шина событий.
//
// Слои хранилища снаружи внутрь: CachedStore (если кеш включён),
// PublishingStore, бэкенд из storage.Open.
type Stack struct {
	Config  *config.Config
	Store   storage.ChunkStore
	Backend storage.ChunkStore
	Cache   cache.BlobCache // nil, если кеш выключен
	Bus     eventbus.EventBus

	invalidator *cache.Invalidator
	logSub      eventbus.Subscription
	logger      *logging.Logger
}

// Open собирает стек. При ошибке всё уже открытое закрывается.
func Open(ctx context.Context, cfg *config.Config) (s *Stack, err error) {
	if cfg == nil {
		cfg = config.Default()
	}
	s = &Stack{Config: cfg, logger: logging.GetComponentLogger("app")}
	defer func() {
		if err != nil {
			err = multierr.Append(err, s.Close())
			s = nil
		}
	}()

	s.Backend, err = storage.Open(storage.Options{
		Driver:        cfg.Storage.Driver,
		Path:          cfg.Storage.Path,
		DSN:           cfg.Storage.DSN,
		MongoURI:      cfg.Storage.MongoURI,
		MongoDatabase: cfg.Storage.MongoDatabase,
	})
	if err != nil {
		return s, fmt.Errorf("storage: %w", err)
	}
	s.Store = s.Backend

	if cfg.EventBus.URL != "" {
		s.Bus, err = eventbus.NewJetStreamBus(cfg.EventBus.URL, cfg.EventBus.Stream, cfg.EventBus.RetentionDuration())
		if err != nil {
			return s, fmt.Errorf("eventbus: %w", err)
		}
	} else {
		s.Bus = eventbus.NewMemoryBus(MemoryBusCapacity)
	}
	s.Store = storage.WithEvents(s.Store, s.Bus)

	if s.logSub, err = eventbus.StartLoggingListener(ctx, s.Bus, nil); err != nil {
		return s, fmt.Errorf("eventbus listener: %w", err)
	}

	switch {
	case cfg.Cache.RedisAddr != "":
		s.Cache, err = cache.NewRedisCache(&cache.CacheConfig{
			RedisURL:      cfg.Cache.RedisAddr,
			RedisPassword: cfg.Cache.RedisPassword,
			RedisDB:       cfg.Cache.RedisDB,
			DefaultTTL:    cfg.Cache.TTL(),
		})
		if err != nil {
			return s, fmt.Errorf("cache: %w", err)
		}
	case cfg.Cache.TTL() > 0:
		s.Cache = cache.NewMemoryCache(cfg.Cache.TTL())
	}

	if s.Cache != nil {
		s.Store = cache.NewCachedStore(s.Store, s.Cache, cfg.Cache.TTL())
		if s.invalidator, err = cache.StartInvalidator(ctx, s.Bus, s.Cache); err != nil {
			return s, fmt.Errorf("cache invalidator: %w", err)
		}
	}

	s.logger.Info("стек собран: storage=%s cache=%t bus=%T", cfg.Storage.Driver, s.Cache != nil, s.Bus)
	return s, nil
}

// World возвращает фасад мира над регионом из конфигурации
func (s *Stack) World(opts ...world.Option) *world.RegionWorld {
	return s.RegionWorld(s.Config.World.Region, opts...)
}

// RegionWorld возвращает фасад мира над указанным регионом
func (s *Stack) RegionWorld(region string, opts ...world.Option) *world.RegionWorld {
	if s.Config.World.CanonicalOffsets {
		opts = append(opts, world.WithCanonicalOffsets())
	}
	return world.NewRegionWorld(storage.NewStoreRegion(region, s.Store, 0), opts...)
}

// Close останавливает подписки и закрывает хранилище, кеш и шину.
// Ошибки всех слоёв собираются вместе.
func (s *Stack) Close() error {
	if s.invalidator != nil {
		s.invalidator.Stop()
	}
	if s.logSub != nil {
		s.logSub.Unsubscribe()
	}

	var err error
	switch {
	case s.Store != nil:
		// CachedStore закрывает и кеш; остальные слои отдают Close бэкенду
		err = multierr.Append(err, s.Store.Close())
		if _, cached := s.Store.(*cache.CachedStore); !cached && s.Cache != nil {
			err = multierr.Append(err, s.Cache.Close())
		}
	case s.Cache != nil:
		err = multierr.Append(err, s.Cache.Close())
	}
	if s.Bus != nil {
		err = multierr.Append(err, s.Bus.Close())
	}
	return err
}
