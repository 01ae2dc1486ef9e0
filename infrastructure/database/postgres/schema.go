package postgres

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// Migrations are applied in order, each one inside its own transaction
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS daily_statistics (
		id            VARCHAR(16) PRIMARY KEY,
		observed_at   TIMESTAMPTZ NOT NULL,
		stamp         VARCHAR(32) NOT NULL,
		brand         TEXT        NOT NULL,
		partition     TEXT        NOT NULL DEFAULT '',
		total_active  INTEGER     NOT NULL,
		new_ads       INTEGER     NOT NULL,
		multi_version INTEGER     NOT NULL,
		disappeared   INTEGER     NOT NULL,
		reappeared    INTEGER     NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_statistics_brand_observed_at
		ON daily_statistics (brand, observed_at DESC)`,
}

// Migrate creates the tables used by the statistics mirror
func Migrate(ctx context.Context, conn Conn) error {
	for i, stmt := range migrations {
		err := conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
			_, err := tx.ExecContext(ctx, stmt)
			return err
		})
		if err != nil {
			return errors.Wrapf(err, "migration %d failed", i+1)
		}
	}
	return nil
}
