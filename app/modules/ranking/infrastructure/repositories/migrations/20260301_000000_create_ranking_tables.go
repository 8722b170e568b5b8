package rankingmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating game, chart and filter tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS games (
					id BIGSERIAL PRIMARY KEY,
					name VARCHAR(100) NOT NULL,
					short_code VARCHAR(30) NOT NULL UNIQUE
				);

				CREATE TABLE IF NOT EXISTS chart_groups (
					id BIGSERIAL PRIMARY KEY,
					game_id BIGINT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
					name VARCHAR(100) NOT NULL,
					parent_id BIGINT REFERENCES chart_groups(id) ON DELETE SET NULL,
					order_in_parent INTEGER NOT NULL,
					show_charts_together BOOLEAN NOT NULL DEFAULT FALSE
				);
				CREATE INDEX IF NOT EXISTS idx_chart_groups_game_id ON chart_groups(game_id);
				CREATE INDEX IF NOT EXISTS idx_chart_groups_parent_id ON chart_groups(parent_id);

				CREATE TABLE IF NOT EXISTS chart_types (
					id BIGSERIAL PRIMARY KEY,
					game_id BIGINT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
					name VARCHAR(100) NOT NULL,
					format_spec JSONB NOT NULL DEFAULT '[{}]',
					order_ascending BOOLEAN NOT NULL
				);

				CREATE TABLE IF NOT EXISTS charts (
					id BIGSERIAL PRIMARY KEY,
					chart_group_id BIGINT NOT NULL REFERENCES chart_groups(id) ON DELETE CASCADE,
					chart_type_id BIGINT NOT NULL REFERENCES chart_types(id) ON DELETE RESTRICT,
					name VARCHAR(100) NOT NULL,
					order_in_group INTEGER NOT NULL
				);
				CREATE INDEX IF NOT EXISTS idx_charts_chart_group_id ON charts(chart_group_id);
			`); err != nil {
				return fmt.Errorf("failed to create chart tables: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS filter_groups (
					id BIGSERIAL PRIMARY KEY,
					game_id BIGINT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
					name VARCHAR(100) NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					kind VARCHAR(10) NOT NULL CHECK (kind IN ('select', 'numeric')),
					show_by_default BOOLEAN NOT NULL DEFAULT TRUE,
					order_in_game INTEGER NOT NULL
				);

				CREATE TABLE IF NOT EXISTS filters (
					id BIGSERIAL PRIMARY KEY,
					filter_group_id BIGINT NOT NULL REFERENCES filter_groups(id) ON DELETE CASCADE,
					name VARCHAR(100) NOT NULL,
					usage_type VARCHAR(10) NOT NULL CHECK (usage_type IN ('choosable', 'implied')),
					numeric_value BIGINT
				);
				CREATE INDEX IF NOT EXISTS idx_filters_filter_group_id ON filters(filter_group_id);

				CREATE TABLE IF NOT EXISTS filter_implications (
					from_filter_id BIGINT NOT NULL REFERENCES filters(id) ON DELETE CASCADE,
					to_filter_id BIGINT NOT NULL REFERENCES filters(id) ON DELETE CASCADE,
					PRIMARY KEY (from_filter_id, to_filter_id)
				);

				CREATE TABLE IF NOT EXISTS chart_type_filter_groups (
					id BIGSERIAL PRIMARY KEY,
					chart_type_id BIGINT NOT NULL REFERENCES chart_types(id) ON DELETE CASCADE,
					filter_group_id BIGINT NOT NULL REFERENCES filter_groups(id) ON DELETE CASCADE,
					order_in_chart_type INTEGER NOT NULL,
					CONSTRAINT uq_chart_type_filter_group_order
						UNIQUE (chart_type_id, order_in_chart_type) DEFERRABLE INITIALLY DEFERRED
				);
			`); err != nil {
				return fmt.Errorf("failed to create filter tables: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS chart_tags (
					id BIGSERIAL PRIMARY KEY,
					game_id BIGINT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
					name VARCHAR(100) NOT NULL,
					total_name VARCHAR(100) NOT NULL DEFAULT '',
					primary_chart_type_id BIGINT NOT NULL REFERENCES chart_types(id) ON DELETE RESTRICT
				);

				CREATE TABLE IF NOT EXISTS chart_tag_charts (
					chart_tag_id BIGINT NOT NULL REFERENCES chart_tags(id) ON DELETE CASCADE,
					chart_id BIGINT NOT NULL REFERENCES charts(id) ON DELETE CASCADE,
					PRIMARY KEY (chart_tag_id, chart_id)
				);

				CREATE TABLE IF NOT EXISTS ladders (
					id BIGSERIAL PRIMARY KEY,
					game_id BIGINT NOT NULL REFERENCES games(id) ON DELETE CASCADE,
					name VARCHAR(100) NOT NULL,
					chart_group_id BIGINT NOT NULL REFERENCES chart_groups(id) ON DELETE CASCADE,
					kind VARCHAR(10) NOT NULL CHECK (kind IN ('main', 'side')),
					order_in_game_and_kind INTEGER NOT NULL,
					filter_spec VARCHAR(200) NOT NULL DEFAULT '',
					CONSTRAINT uq_ladder_order
						UNIQUE (game_id, kind, order_in_game_and_kind) DEFERRABLE INITIALLY DEFERRED
				);

				CREATE TABLE IF NOT EXISTS ladder_chart_tags (
					id BIGSERIAL PRIMARY KEY,
					ladder_id BIGINT NOT NULL REFERENCES ladders(id) ON DELETE CASCADE,
					chart_tag_id BIGINT NOT NULL REFERENCES chart_tags(id) ON DELETE CASCADE,
					weight NUMERIC(4,3) NOT NULL CHECK (weight >= 0 AND weight <= 1),
					UNIQUE (ladder_id, chart_tag_id)
				);
			`); err != nil {
				return fmt.Errorf("failed to create ladder tables: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS players (
					id BIGSERIAL PRIMARY KEY,
					username VARCHAR(30) NOT NULL UNIQUE
				);

				CREATE TABLE IF NOT EXISTS records (
					id BIGSERIAL PRIMARY KEY,
					chart_id BIGINT NOT NULL REFERENCES charts(id) ON DELETE CASCADE,
					player_id BIGINT NOT NULL REFERENCES players(id) ON DELETE CASCADE,
					value BIGINT NOT NULL CHECK (value >= 0),
					date_achieved TIMESTAMPTZ NOT NULL,
					date_created TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
				CREATE INDEX IF NOT EXISTS idx_records_chart_id ON records(chart_id);
				CREATE INDEX IF NOT EXISTS idx_records_player_id ON records(player_id);

				CREATE TABLE IF NOT EXISTS record_filters (
					record_id BIGINT NOT NULL REFERENCES records(id) ON DELETE CASCADE,
					filter_id BIGINT NOT NULL REFERENCES filters(id) ON DELETE CASCADE,
					PRIMARY KEY (record_id, filter_id)
				);
			`); err != nil {
				return fmt.Errorf("failed to create record tables: %w", err)
			}

			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping game, chart and filter tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				DROP TABLE IF EXISTS record_filters;
				DROP TABLE IF EXISTS records;
				DROP TABLE IF EXISTS players;
				DROP TABLE IF EXISTS ladder_chart_tags;
				DROP TABLE IF EXISTS ladders;
				DROP TABLE IF EXISTS chart_tag_charts;
				DROP TABLE IF EXISTS chart_tags;
				DROP TABLE IF EXISTS chart_type_filter_groups;
				DROP TABLE IF EXISTS filter_implications;
				DROP TABLE IF EXISTS filters;
				DROP TABLE IF EXISTS filter_groups;
				DROP TABLE IF EXISTS charts;
				DROP TABLE IF EXISTS chart_types;
				DROP TABLE IF EXISTS chart_groups;
				DROP TABLE IF EXISTS games;
			`); err != nil {
				return fmt.Errorf("failed to drop ranking tables: %w", err)
			}
			return nil
		})
	})
}
