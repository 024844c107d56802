package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/ridesmap/internal/config"
	"github.com/2beens/ridesmap/internal/db"
	"github.com/2beens/ridesmap/internal/logging"
	"github.com/2beens/ridesmap/internal/workouts"
	"github.com/2beens/ridesmap/pkg"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	out := flag.String("out", "", "output file, defaults to ndjson_path from the config")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      true,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "ridesmap-export",
	})

	outPath := *out
	if outPath == "" {
		outPath = cfg.NDJSONPath
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: os.Getenv("RIDESMAP_DB_PASS"),
	})
	if err != nil {
		log.Fatalf("new db pool: %s", err)
	}
	defer dbPool.Close()

	written, err := export(ctx, workouts.NewRepo(dbPool), outPath, cfg.NDJSONBatchSize)
	if err != nil {
		log.Fatalf("export: %s", err)
	}
	fmt.Printf("%d records written to %s\n", written, outPath)
}

// export writes the dataset into a temp file first, so the served file is never half written
func export(ctx context.Context, repo *workouts.Repo, outPath string, batchSize int) (int, error) {
	if err := pkg.EnsureDir(filepath.Dir(outPath)); err != nil {
		return 0, err
	}

	total, err := repo.Count(ctx, workouts.ListParams{OnlyValid: true})
	if err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(outPath), ".workouts-*.ndjson")
	if err != nil {
		return 0, err
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	w := bufio.NewWriter(tmp)
	written, err := workouts.StreamNDJSON(w, total, func(fn func([]*workouts.CustomWorkout) error) error {
		return repo.Batches(ctx, batchSize, true, func(batch []*workouts.CustomWorkout, _ int) error {
			return fn(batch)
		})
	})
	if err != nil {
		_ = tmp.Close()
		return 0, err
	}
	if err := w.Flush(); err != nil {
		_ = tmp.Close()
		return 0, err
	}
	if err := tmp.Close(); err != nil {
		return 0, err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return 0, err
	}

	if err := os.Rename(tmp.Name(), outPath); err != nil {
		return 0, err
	}
	return written, nil
}
