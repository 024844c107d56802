package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/ridesmap/internal/archive"
	"github.com/2beens/ridesmap/internal/config"
	"github.com/2beens/ridesmap/internal/db"
	"github.com/2beens/ridesmap/internal/logging"
	"github.com/2beens/ridesmap/internal/workouts"
	"github.com/2beens/ridesmap/pkg"
)

const (
	actionBackup  = "backup"
	actionList    = "list"
	actionDestroy = "destroy"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	credentialsFile := flag.String("gd-creds", pkg.EnvOrDefault("RIDESMAP_GD_CREDS", "./drive-credentials.json"), "google drive service account credentials json")
	action := flag.String("action", actionBackup, "what to do [backup | list | destroy]")
	from := flag.String("from", "", "back up this NDJSON file instead of exporting the stored records")
	shareWith := flag.String("share-with", "", "email that gets reader access to the backups")
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
		SentryServerName: "ridesmap-backup",
	})

	log.Println("starting workouts backup ...")

	credentials, err := os.ReadFile(*credentialsFile)
	if err != nil {
		log.Fatalf("unable to read google drive credentials file: %s", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	gd, err := archive.NewGoogleDrive(ctx, credentials)
	if err != nil {
		log.Fatalf("google drive: %s", err)
	}

	s, err := archive.NewBackupService(ctx, archive.NewBackupServiceParams{
		Store:      gd,
		FolderName: cfg.BackupsFolderName,
		ShareWith:  *shareWith,
	})
	if err != nil {
		log.Fatalf("failed to create google drive backup service: %s", err)
	}

	switch *action {
	case actionList:
		backups, err := s.List(ctx)
		if err != nil {
			log.Fatalln(err)
		}
		for _, b := range backups {
			fmt.Printf("%s\t%s\t%s\n", b.Id, b.Name, b.CreatedTime)
		}
		fmt.Printf("%d backups\n", len(backups))
	case actionDestroy:
		if err := s.Destroy(ctx); err != nil {
			log.Fatalln(err)
		}
	case actionBackup:
		dataset, err := loadDataset(ctx, cfg, *from)
		if err != nil {
			log.Fatalf("load dataset: %s", err)
		}
		file, err := s.DoBackup(ctx, time.Now(), dataset)
		if err != nil {
			log.Fatalf("%+v", err)
		}
		fmt.Printf("backup saved: %s (%s)\n", file.Name, file.Id)
	default:
		log.Fatalf("unknown action: %s", *action)
	}
}

func loadDataset(ctx context.Context, cfg *config.Config, from string) ([]byte, error) {
	if from != "" {
		return os.ReadFile(from)
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:     cfg.PostgresHost,
		DBPort:     cfg.PostgresPort,
		DBName:     cfg.PostgresDBName,
		DBUser:     cfg.PostgresUser,
		DBPassword: os.Getenv("RIDESMAP_DB_PASS"),
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}
	defer dbPool.Close()

	repo := workouts.NewRepo(dbPool)
	total, err := repo.Count(ctx, workouts.ListParams{OnlyValid: true})
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	written, err := workouts.StreamNDJSON(&buf, total, func(fn func([]*workouts.CustomWorkout) error) error {
		return repo.Batches(ctx, cfg.NDJSONBatchSize, true, func(batch []*workouts.CustomWorkout, _ int) error {
			return fn(batch)
		})
	})
	if err != nil {
		return nil, err
	}
	log.Debugf("dataset of %d records exported", written)

	return buf.Bytes(), nil
}
