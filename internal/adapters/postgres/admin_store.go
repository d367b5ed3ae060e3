package postgres

import (
	"RelayBot/internal/core/ports"
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

type adminStore struct {
	db  *DB
	log zerolog.Logger
}

var _ ports.AdminStore = (*adminStore)(nil)

// NewAdminStore returns an AdminStore backed by the admins table.
func NewAdminStore(db *DB, baseLogger *zerolog.Logger) ports.AdminStore {
	return &adminStore{
		db:  db,
		log: baseLogger.With().Str("component", "pg_admin_store").Logger(),
	}
}

// Load returns ids in the order they were added.
func (s *adminStore) Load(ctx context.Context) ([]int64, error) {
	rows, err := s.db.pool.Query(ctx, `SELECT telegram_id FROM admins ORDER BY position ASC`)
	if err != nil {
		s.log.Error().Err(err).Msg("Failed to query admins")
		return nil, fmt.Errorf("query admins: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("scan admins: %w", err)
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

// Save replaces the table contents in one transaction.
func (s *adminStore) Save(ctx context.Context, ids []int64) error {
	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM admins`); err != nil {
		return fmt.Errorf("clear admins: %w", err)
	}

	batch := &pgx.Batch{}
	for pos, id := range ids {
		batch.Queue(`INSERT INTO admins (telegram_id, position) VALUES ($1, $2)`, id, pos)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		s.log.Error().Err(err).Msg("Failed to insert admins")
		return fmt.Errorf("insert admins: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit admins: %w", err)
	}
	s.log.Info().Int("count", len(ids)).Msg("Admin list saved")
	return nil
}
