package migrations

import (
	"context"
	"fmt"

	"uc-timelapse/internal/storage/postgres"
)

// RunPostgresMigrations applies every embedded Postgres migration.
// Each file runs as one multi-statement Exec; files must be idempotent.
func RunPostgresMigrations(ctx context.Context, pool *postgres.Pool) error {
	migs, err := Postgres()
	if err != nil {
		return err
	}
	for _, m := range migs {
		if _, err := pool.Exec(ctx, m.SQL); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.Name, err)
		}
	}
	return nil
}
