//go:build integration

package testutils

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	rankingmigrations "github.com/Black-And-White-Club/chart-ladders/app/modules/ranking/infrastructure/repositories/migrations"
)

// rankingTables lists every ranking table; TRUNCATE ... CASCADE handles order.
var rankingTables = []string{
	"record_filters", "records", "players",
	"ladder_chart_tags", "ladders", "chart_tag_charts", "chart_tags",
	"filter_implications", "filters", "chart_type_filter_groups", "filter_groups",
	"charts", "chart_types", "chart_groups", "games",
}

func runMigrations(ctx context.Context, db *bun.DB) error {
	migrator := migrate.NewMigrator(db, rankingmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize migration tables: %w", err)
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("failed to run ranking migrations: %w", err)
	}
	if group.ID == 0 {
		log.Printf("No ranking migrations to run")
	} else {
		log.Printf("Ran ranking migrations group #%d", group.ID)
	}
	return nil
}

// TruncateTables truncates the given tables and restarts their sequences.
func TruncateTables(ctx context.Context, db *bun.DB, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}

	quoted := make([]string, len(tables))
	for i, table := range tables {
		quoted[i] = fmt.Sprintf(`"%s"`, table)
	}
	query := fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", strings.Join(quoted, ", "))
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to truncate tables %v: %w", tables, err)
	}
	return nil
}

// CleanRankingTables truncates every ranking table.
func CleanRankingTables(ctx context.Context, db *bun.DB) error {
	return TruncateTables(ctx, db, rankingTables...)
}
