package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// SchemaSQL creates the workouts content store. Safe to run repeatedly.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS workout (
	id             VARCHAR(64) PRIMARY KEY,
	started_at     TIMESTAMPTZ NOT NULL UNIQUE,
	title          VARCHAR(512) NOT NULL,
	activity_name  VARCHAR(64) NOT NULL,
	path_has_issue BOOLEAN NOT NULL DEFAULT FALSE,
	distance_m     DOUBLE PRECISION NOT NULL DEFAULT 0,
	total_ascent_m DOUBLE PRECISION NOT NULL DEFAULT 0,
	geo_json       JSONB NOT NULL,
	workout        JSONB NOT NULL,
	route          JSONB NOT NULL,
	activity_type  JSONB NOT NULL,
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_workout_activity_name ON workout (activity_name);
CREATE INDEX IF NOT EXISTS idx_workout_path_has_issue ON workout (path_has_issue);
`

func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	log.Debugln("db schema ensured")
	return nil
}
