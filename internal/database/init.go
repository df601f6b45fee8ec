package database

import (
	"context"
	"fmt"

	"github.com/yourusername/gridiron-edge/internal/config"
)

// schemaStatements creates the core tables. Statements are idempotent
// so startup is safe against an already-initialized database.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS games (
		id                UUID PRIMARY KEY,
		season            INT NOT NULL,
		week              INT NOT NULL,
		game_type         TEXT NOT NULL DEFAULT 'REG',
		kickoff           TIMESTAMPTZ NOT NULL,
		home_team         TEXT NOT NULL,
		away_team         TEXT NOT NULL,
		home_score        INT,
		away_score        INT,
		spread_line       DOUBLE PRECISION,
		total_line        DOUBLE PRECISION,
		close_spread_line DOUBLE PRECISION,
		close_total_line  DOUBLE PRECISION,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (season, week, home_team, away_team)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_games_season_week ON games (season, week)`,

	`CREATE TABLE IF NOT EXISTS plays (
		id           BIGSERIAL PRIMARY KEY,
		game_id      UUID NOT NULL,
		season       INT NOT NULL,
		week         INT NOT NULL,
		offense_team TEXT NOT NULL,
		defense_team TEXT NOT NULL,
		down         INT,
		yards_gained INT NOT NULL DEFAULT 0,
		yardline     INT,
		epa          DOUBLE PRECISION,
		success      BOOLEAN NOT NULL DEFAULT FALSE,
		play_type    TEXT NOT NULL,
		touchdown    BOOLEAN NOT NULL DEFAULT FALSE,
		first_down   BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_plays_season_week_offense ON plays (season, week, offense_team)`,
	`CREATE INDEX IF NOT EXISTS idx_plays_game ON plays (game_id)`,

	`CREATE TABLE IF NOT EXISTS team_week_ratings (
		season           INT NOT NULL,
		week             INT NOT NULL,
		team             TEXT NOT NULL,
		side             TEXT NOT NULL,
		plays            INT NOT NULL,
		epa_per_play     DOUBLE PRECISION,
		success_rate     DOUBLE PRECISION,
		explosive_rate   DOUBLE PRECISION,
		yards_per_play   DOUBLE PRECISION,
		pass_epa         DOUBLE PRECISION,
		rush_epa         DOUBLE PRECISION,
		third_down_rate  DOUBLE PRECISION,
		red_zone_td_rate DOUBLE PRECISION,
		undefined_epa    INT NOT NULL DEFAULT 0,
		PRIMARY KEY (season, week, team, side)
	)`,

	`CREATE TABLE IF NOT EXISTS predictions (
		id                   UUID PRIMARY KEY,
		game_id              UUID NOT NULL REFERENCES games (id),
		season               INT NOT NULL,
		week                 INT NOT NULL,
		home_team            TEXT NOT NULL,
		away_team            TEXT NOT NULL,
		predicted_margin     DOUBLE PRECISION NOT NULL,
		predicted_total      DOUBLE PRECISION NOT NULL,
		predicted_home_score DOUBLE PRECISION NOT NULL,
		predicted_away_score DOUBLE PRECISION NOT NULL,
		home_win_probability DOUBLE PRECISION NOT NULL,
		model_spread         DOUBLE PRECISION NOT NULL,
		win_prob_model       TEXT NOT NULL,
		used_priors          BOOLEAN NOT NULL DEFAULT FALSE,
		inputs               JSONB,
		predicted_at         TIMESTAMPTZ NOT NULL,
		UNIQUE (game_id, predicted_at)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_predictions_season_week ON predictions (season, week)`,

	`CREATE TABLE IF NOT EXISTS backtest_results (
		prediction_id        UUID PRIMARY KEY REFERENCES predictions (id),
		game_id              UUID NOT NULL REFERENCES games (id),
		season               INT NOT NULL,
		week                 INT NOT NULL,
		home_team            TEXT NOT NULL,
		away_team            TEXT NOT NULL,
		predicted_margin     DOUBLE PRECISION NOT NULL,
		actual_margin        DOUBLE PRECISION NOT NULL,
		margin_error         DOUBLE PRECISION NOT NULL,
		signed_error         DOUBLE PRECISION NOT NULL,
		home_win_probability DOUBLE PRECISION NOT NULL,
		correct_winner       BOOLEAN,
		predicted_total      DOUBLE PRECISION NOT NULL,
		actual_total         DOUBLE PRECISION NOT NULL,
		vegas_total          DOUBLE PRECISION,
		total_edge           DOUBLE PRECISION,
		total_pick           TEXT NOT NULL DEFAULT '',
		total_covered        BOOLEAN,
		model_spread         DOUBLE PRECISION NOT NULL,
		vegas_spread         DOUBLE PRECISION,
		edge                 DOUBLE PRECISION,
		ats_pick             TEXT NOT NULL DEFAULT '',
		covered              BOOLEAN,
		clv                  DOUBLE PRECISION,
		used_priors          BOOLEAN NOT NULL DEFAULT FALSE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_backtest_results_season_week ON backtest_results (season, week)`,
}

// Initialize creates a database connection pool and ensures the schema
// exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema applies the idempotent schema statements
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
