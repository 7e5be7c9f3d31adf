package testutils

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	matchmigrations "github.com/Black-And-White-Club/volley-analyst/app/modules/match/infrastructure/repositories/migrations"
	rostermigrations "github.com/Black-And-White-Club/volley-analyst/app/modules/roster/infrastructure/repositories/migrations"
)

// RunMigrations applies the module migrations in dependency order, then the
// River schema.
func RunMigrations(ctx context.Context, db *bun.DB, connStr string) error {
	modules := []struct {
		name       string
		migrations *migrate.Migrations
	}{
		{"roster", rostermigrations.Migrations},
		{"match", matchmigrations.Migrations},
	}
	for _, m := range modules {
		if err := runModuleMigrations(ctx, db, m.migrations, m.name); err != nil {
			return err
		}
	}
	return runRiverMigrations(ctx, connStr)
}

func runModuleMigrations(ctx context.Context, db *bun.DB, migrations *migrate.Migrations, name string) error {
	migrator := migrate.NewMigrator(db, migrations,
		migrate.WithTableName("bun_migrations_"+name),
		migrate.WithLocksTableName("bun_migration_locks_"+name),
	)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to init %s migrations: %w", name, err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run %s migrations: %w", name, err)
	}
	return nil
}

func runRiverMigrations(ctx context.Context, connStr string) error {
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create river migrator: %w", err)
	}
	if _, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{}); err != nil {
		return fmt.Errorf("failed to run river migrations: %w", err)
	}
	return nil
}

// TruncateTables empties tables and restarts their identities.
func TruncateTables(ctx context.Context, db *bun.DB, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	query := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(tables, ", "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate %v: %w", tables, err)
	}
	return nil
}

// CleanRosterTables empties the roster tables.
func CleanRosterTables(ctx context.Context, db *bun.DB) error {
	return TruncateTables(ctx, db, "team_players", "teams")
}

// CleanMatchTables empties rally history and queued retries.
func CleanMatchTables(ctx context.Context, db *bun.DB) error {
	return TruncateTables(ctx, db, "rally_history", "river_job")
}
