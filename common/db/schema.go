package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS quote (
		quote_id    UUID PRIMARY KEY,
		session_id  TEXT NOT NULL,
		amount      BIGINT NOT NULL CHECK (amount >= 0),
		currency    CHAR(3) NOT NULL,
		total_nodes INTEGER NOT NULL CHECK (total_nodes >= 0),
		workflows   JSONB NOT NULL DEFAULT '[]'::jsonb,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS quote_session_id_idx ON quote (session_id, created_at DESC)`,
}

// EnsureSchema creates the tables the service needs when they are missing
func (db *DB) EnsureSchema(ctx context.Context) error {
	err := db.InTx(ctx, func(tx pgx.Tx) error {
		for _, stmt := range schema {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	db.log.Info("database schema ready", "statements", len(schema))
	return nil
}
