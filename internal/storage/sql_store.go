package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
)

// Драйверы database/sql, поддерживаемые SQLStore
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

// SQLStore хранит чанки в таблице chunks (MariaDB/MySQL или SQLite).
// Обе СУБД понимают REPLACE INTO, поэтому запросы общие, различается только DDL.
type SQLStore struct {
	db     *sql.DB
	driver string
}

// NewSQLStore подключается к базе и создаёт таблицу, если её нет.
//
// dsn для mysql: user:pass@tcp(host:port)/dbname
// dsn для sqlite3: путь к файлу или ":memory:"
func NewSQLStore(driver, dsn string) (*SQLStore, error) {
	if driver != DriverMySQL && driver != DriverSQLite {
		return nil, fmt.Errorf("неподдерживаемый SQL драйвер %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// Каждое соединение с :memory:: отдельная база
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось проверить соединение с %s: %w", driver, err)
	}

	store := &SQLStore{db: db, driver: driver}
	if err := store.createTable(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось создать таблицу: %w", err)
	}
	return store, nil
}

// Driver возвращает имя драйвера
func (s *SQLStore) Driver() string { return s.driver }

func (s *SQLStore) createTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS chunks (
			region     VARCHAR(64) NOT NULL,
			x          INT         NOT NULL,
			z          INT         NOT NULL,
			data       MEDIUMBLOB  NOT NULL,
			updated_at TIMESTAMP   DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (region, x, z)
		) ENGINE=InnoDB
	`
	if s.driver == DriverSQLite {
		query = `
			CREATE TABLE IF NOT EXISTS chunks (
				region     TEXT    NOT NULL,
				x          INTEGER NOT NULL,
				z          INTEGER NOT NULL,
				data       BLOB    NOT NULL,
				updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
				PRIMARY KEY (region, x, z)
			)
		`
	}

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ошибка создания таблицы chunks: %w", err)
	}
	return nil
}

func (s *SQLStore) Load(ctx context.Context, key ChunkKey) ([]byte, error) {
	query := `SELECT data FROM chunks WHERE region = ? AND x = ? AND z = ?`

	var data []byte
	err := s.db.QueryRowContext(ctx, query, key.Region, key.X, key.Z).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrChunkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки чанка %s: %w", key, err)
	}
	return data, nil
}

func (s *SQLStore) Save(ctx context.Context, key ChunkKey, data []byte) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if data == nil {
		data = []byte{}
	}

	query := `REPLACE INTO chunks (region, x, z, data, updated_at) VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)`
	if _, err := s.db.ExecContext(ctx, query, key.Region, key.X, key.Z, data); err != nil {
		return fmt.Errorf("ошибка сохранения чанка %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Delete(ctx context.Context, key ChunkKey) error {
	query := `DELETE FROM chunks WHERE region = ? AND x = ? AND z = ?`
	if _, err := s.db.ExecContext(ctx, query, key.Region, key.X, key.Z); err != nil {
		return fmt.Errorf("ошибка удаления чанка %s: %w", key, err)
	}
	return nil
}

func (s *SQLStore) List(ctx context.Context, region string) ([]ChunkKey, error) {
	query := `SELECT x, z FROM chunks WHERE region = ? ORDER BY x, z`

	rows, err := s.db.QueryContext(ctx, query, region)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения списка чанков %s: %w", region, err)
	}
	defer rows.Close()

	keys := make([]ChunkKey, 0)
	for rows.Next() {
		key := ChunkKey{Region: region}
		if err := rows.Scan(&key.X, &key.Z); err != nil {
			return nil, fmt.Errorf("ошибка чтения строки: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения списка чанков %s: %w", region, err)
	}
	return keys, nil
}

// Close закрывает соединение с базой данных.
func (s *SQLStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
