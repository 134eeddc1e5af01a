package storage

import (
	"fmt"
	"strings"
)

// Options выбирает и настраивает бэкенд хранилища
type Options struct {
	Driver        string // memory | badger | mysql | sqlite | mongo
	Path          string // каталог BadgerDB
	DSN           string // DSN для mysql/sqlite
	MongoURI      string
	MongoDatabase string
}

// Open создаёт хранилище по имени драйвера
func Open(opts Options) (ChunkStore, error) {
	switch strings.ToLower(opts.Driver) {
	case "", "memory":
		return NewMemoryStore(), nil
	case "badger":
		path := opts.Path
		if path == "" {
			path = "data"
		}
		return NewBadgerStore(path)
	case "mysql", "mariadb":
		return NewSQLStore(DriverMySQL, opts.DSN)
	case "sqlite", "sqlite3":
		dsn := opts.DSN
		if dsn == "" {
			dsn = "nbtview.db"
		}
		return NewSQLStore(DriverSQLite, dsn)
	case "mongo", "mongodb":
		return NewMongoStore(MongoConfig{URI: opts.MongoURI, Database: opts.MongoDatabase})
	}
	return nil, fmt.Errorf("неизвестный драйвер хранилища %q", opts.Driver)
}
