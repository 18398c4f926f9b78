package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresStore keeps one row per collection in a key/value table. The
// version column backs the optimistic commit: an UPDATE that matches zero
// rows means another writer got there first.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresStore(host, port, user, password, dbname string, logger *zap.Logger) (*PostgresStore, error) {
	psqlInfo := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", psqlInfo)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	createTableQuery := `
	CREATE TABLE IF NOT EXISTS collections (
		key VARCHAR(64) PRIMARY KEY,
		data JSONB NOT NULL,
		version BIGINT NOT NULL DEFAULT 0
	);
	`

	if _, err := db.Exec(createTableQuery); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	logger.Info("Database connection established")
	return &PostgresStore{db: db, logger: logger}, nil
}

// NewPostgresStoreWithDB wraps an existing connection, used by tests.
func NewPostgresStoreWithDB(db *sql.DB, logger *zap.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

func (s *PostgresStore) Load(ctx context.Context, c Collection) (Snapshot, error) {
	var snap Snapshot
	err := s.db.QueryRowContext(ctx,
		"SELECT data, version FROM collections WHERE key = $1", string(c),
	).Scan(&snap.Data, &snap.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return Snapshot{Data: emptyCollection, Version: 0}, nil
	}
	if err != nil {
		return Snapshot{}, fmt.Errorf("failed to load collection %s: %w", c, err)
	}
	return snap, nil
}

func (s *PostgresStore) Commit(ctx context.Context, writes ...Write) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, w := range writes {
		if w.Version == 0 {
			// First write for this collection. The unique key makes a lost
			// race surface as a conflict, not a duplicate row.
			result, err := tx.ExecContext(ctx,
				"INSERT INTO collections (key, data, version) VALUES ($1, $2, 1) ON CONFLICT (key) DO NOTHING",
				string(w.Collection), w.Data,
			)
			if err != nil {
				return fmt.Errorf("failed to insert collection %s: %w", w.Collection, err)
			}
			rows, err := result.RowsAffected()
			if err != nil {
				return err
			}
			if rows == 0 {
				return ErrVersionConflict
			}
			continue
		}

		result, err := tx.ExecContext(ctx,
			"UPDATE collections SET data = $2, version = version + 1 WHERE key = $1 AND version = $3",
			string(w.Collection), w.Data, w.Version,
		)
		if err != nil {
			return fmt.Errorf("failed to update collection %s: %w", w.Collection, err)
		}
		rows, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrVersionConflict
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error { return s.db.Close() }
