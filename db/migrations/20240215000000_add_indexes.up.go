package migrations

import (
	"context"

	"github.com/uptrace/bun"
)

// Indexes for the sweeper scans and the per-client outstanding count.
func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		if _, err := db.ExecContext(ctx, "CREATE INDEX IF NOT EXISTS invoices_client_key_idx ON invoices (client_key) WHERE paid = false"); err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, "CREATE INDEX IF NOT EXISTS invoices_expires_at_idx ON invoices (expires_at) WHERE paid = false"); err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx, "CREATE INDEX IF NOT EXISTS download_tokens_expires_at_idx ON download_tokens (expires_at)"); err != nil {
			return err
		}
		return nil
	}, nil)
}
