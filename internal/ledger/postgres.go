package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SnapshotStore receives the final account table of a finished run.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, runID uuid.UUID, accounts []AccountState) error
}

// PostgresSnapshotStore exports run results to PostgreSQL. Nothing is ever
// read back into an engine, so runs stay independent of each other.
type PostgresSnapshotStore struct {
	db *pgxpool.Pool
}

// NewPostgresSnapshotStore constructs a Postgres-backed snapshot exporter.
func NewPostgresSnapshotStore(db *pgxpool.Pool) *PostgresSnapshotStore {
	return &PostgresSnapshotStore{db: db}
}

// EnsureSchema creates the snapshot table when it is missing.
func (s *PostgresSnapshotStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `CREATE TABLE IF NOT EXISTS account_snapshots (
        id         UUID PRIMARY KEY,
        run_id     UUID NOT NULL,
        client_id  INTEGER NOT NULL,
        available  NUMERIC(20, 4) NOT NULL,
        held       NUMERIC(20, 4) NOT NULL,
        total      NUMERIC(20, 4) NOT NULL,
        locked     BOOLEAN NOT NULL,
        created_at TIMESTAMPTZ NOT NULL,
        UNIQUE (run_id, client_id)
    )`)
	return err
}

// SaveSnapshot writes every account of the run in a single transaction.
func (s *PostgresSnapshotStore) SaveSnapshot(ctx context.Context, runID uuid.UUID, accounts []AccountState) error {
	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) // nolint:errcheck

	createdAt := time.Now().UTC()
	batch := &pgx.Batch{}
	for _, acct := range accounts {
		batch.Queue(`INSERT INTO account_snapshots (id, run_id, client_id, available, held, total, locked, created_at)
            VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			uuid.New(), runID, int32(acct.Client),
			acct.Available.Decimal(), acct.Held.Decimal(), acct.Total.Decimal(),
			acct.Locked, createdAt)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert snapshot rows: %w", err)
	}

	return tx.Commit(ctx)
}
