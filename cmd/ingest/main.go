package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/2beens/ridesmap/internal/config"
	"github.com/2beens/ridesmap/internal/db"
	"github.com/2beens/ridesmap/internal/geo"
	"github.com/2beens/ridesmap/internal/logging"
	"github.com/2beens/ridesmap/internal/mapmyride"
	"github.com/2beens/ridesmap/internal/telemetry/metrics"
	"github.com/2beens/ridesmap/internal/telemetry/tracing"
	"github.com/2beens/ridesmap/internal/workouts"
	"github.com/2beens/ridesmap/pkg"
)

const (
	storeDB   = "db"
	storeFile = "file"
)

type store interface {
	GetExisting(ctx context.Context, id string) (*workouts.CustomWorkout, error)
	Upsert(ctx context.Context, w *workouts.CustomWorkout) error
}

func main() {
	fmt.Println("starting ingest ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	storeKind := flag.String("store", storeDB, "where to keep the records [db | file]")
	storeDir := flag.String("dir", "./data/workouts", "records directory, used with -store=file")
	dryRun := flag.Bool("dry-run", false, "fetch, convert and validate, but store nothing")
	importPath := flag.String("import", "", "import records from an NDJSON dataset instead of fetching them")
	noSimplify := flag.Bool("no-simplify", false, "keep every route point")
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
		SentryServerName: "ridesmap-ingest",
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	honeycombEnabled := os.Getenv("HONEYCOMB_ENABLED") == "true"
	otelShutdown, err := tracing.HoneycombSetup(honeycombEnabled, "ridesmap-ingest")
	if err != nil {
		log.Fatalf("tracing setup: %s", err)
	}
	defer otelShutdown()

	var (
		recordsStore store
		cache        *workouts.LayerCache
		dbPool       *pgxpool.Pool
	)
	metricsManager := metrics.NewManager("ridesmap", "ingest", prometheus.NewRegistry())

	switch *storeKind {
	case storeFile:
		fileRepo, err := workouts.NewFileRepo(*storeDir)
		if err != nil {
			log.Fatalf("file store: %s", err)
		}
		recordsStore = fileRepo
		log.Infof("storing records in: %s", *storeDir)
	case storeDB:
		dbPool, err = db.NewDBPool(ctx, db.NewDBPoolParams{
			DBHost:         cfg.PostgresHost,
			DBPort:         cfg.PostgresPort,
			DBName:         cfg.PostgresDBName,
			DBUser:         cfg.PostgresUser,
			DBPassword:     os.Getenv("RIDESMAP_DB_PASS"),
			TracingEnabled: honeycombEnabled,
		})
		if err != nil {
			log.Fatalf("new db pool: %s", err)
		}
		defer dbPool.Close()

		if err := db.EnsureSchema(ctx, dbPool); err != nil {
			log.Fatalf("ensure db schema: %s", err)
		}
		recordsStore = workouts.NewRepo(dbPool)

		rdb := redis.NewClient(&redis.Options{
			Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
			Password: os.Getenv("RIDESMAP_REDIS_PASS"),
		})
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Errorf("close redis client: %s", err)
			}
		}()
		cache = workouts.NewLayerCache(rdb, time.Duration(cfg.LayerCacheTTLSeconds)*time.Second, metricsManager)
	default:
		log.Fatalf("unknown store: %s", *storeKind)
	}

	if *importPath != "" {
		if err := importDataset(ctx, *importPath, cfg.NDJSONBatchSize, recordsStore, cache, *dryRun); err != nil {
			log.Fatalf("import %s: %s", *importPath, err)
		}
		return
	}

	secrets, err := pkg.RequiredEnv("MMR_CLIENT_ID", "MMR_AUTH_TOKEN", "MMR_USER_ID")
	if err != nil {
		log.Fatalln(err)
	}

	format, err := geo.ParseFormat(cfg.PathFormat)
	if err != nil {
		log.Fatalln(err)
	}
	loc, err := cfg.Location()
	if err != nil {
		log.Fatalln(err)
	}

	client := mapmyride.NewClient(mapmyride.NewClientParams{
		BaseURL:   cfg.MapMyRideAPIURL,
		ClientID:  secrets["MMR_CLIENT_ID"],
		AuthToken: secrets["MMR_AUTH_TOKEN"],
		HttpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   30 * time.Second,
		},
		RequestsPerSec:  cfg.MapMyRideRequestsPerSec,
		BreakerFailures: cfg.MapMyRideBreakerFailures,
		MetricsManager:  metricsManager,
	})

	params := workouts.IngestParams{
		Client:         client,
		Store:          recordsStore,
		MetricsManager: metricsManager,
		UserID:         secrets["MMR_USER_ID"],
		Location:       loc,
		Format:         format,
		Limits: geo.DistanceLimits{
			MaxRouteDistanceFt:    cfg.MaxRouteDistanceFt,
			MaxStartEndDistanceFt: cfg.MaxStartEndDistanceFt,
		},
		SimplifyTolerance: cfg.SimplifyTolerance,
		SimplifyDisabled:  cfg.SimplifyDisabled || *noSimplify,
		Concurrency:       cfg.IngestConcurrency,
		DryRun:            *dryRun,
	}
	// a typed nil would not be a nil interface
	if cache != nil {
		params.Cache = cache
	}

	ingester, err := workouts.NewIngester(params)
	if err != nil {
		log.Fatalln(err)
	}

	result, err := ingester.Run(ctx)
	if result != nil {
		fmt.Printf("%d workouts, %d processed, %d failed (%d flagged)\n", result.Total, result.Processed, result.Failed, result.Flagged)
		fmt.Println(result.SimplifiedSummary())
	}
	if err != nil {
		if errors.Is(err, workouts.ErrIngestFailed) {
			log.Errorln(err)
			os.Exit(1)
		}
		log.Fatalf("ingest: %s", err)
	}
}

func importDataset(
	ctx context.Context,
	path string,
	batchSize int,
	recordsStore store,
	cache *workouts.LayerCache,
	dryRun bool,
) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Warnf("close %s: %s", path, err)
		}
	}()

	read, err := workouts.ReadNDJSON(f, batchSize,
		func(meta workouts.NDJSONMeta) {
			log.Infof("importing dataset of %d records ...", meta.Total)
		},
		func(batch []*workouts.CustomWorkout) error {
			if dryRun {
				return nil
			}
			for _, w := range batch {
				if err := recordsStore.Upsert(ctx, w); err != nil {
					return fmt.Errorf("upsert %s: %w", w.ID, err)
				}
			}
			return nil
		},
	)
	if err != nil {
		return err
	}

	if !dryRun && read > 0 && cache != nil {
		if err := cache.Invalidate(ctx); err != nil {
			log.Errorf("invalidate layer cache: %s", err)
		}
	}

	log.Infof("imported %d records (dry run: %t)", read, dryRun)
	return nil
}
