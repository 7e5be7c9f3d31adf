package matchmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	matchdb "github.com/Black-And-White-Club/volley-analyst/app/modules/match/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating rally_history table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.NewCreateTable().Model((*matchdb.RallyHistory)(nil)).IfNotExists().Exec(ctx); err != nil {
				return fmt.Errorf("failed to create rally_history table: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				CREATE INDEX IF NOT EXISTS idx_rally_history_match_id ON rally_history(match_id, recorded_at);
				CREATE INDEX IF NOT EXISTS idx_rally_history_match_label ON rally_history(match_label);
			`); err != nil {
				return fmt.Errorf("failed to create rally_history indices: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping rally_history table...")

		if _, err := db.NewDropTable().Model((*matchdb.RallyHistory)(nil)).IfExists().Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}
