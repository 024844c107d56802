package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/ridesmap/internal/config"
	"github.com/2beens/ridesmap/internal/db"
	"github.com/2beens/ridesmap/internal/logging"
	"github.com/2beens/ridesmap/internal/telemetry/metrics"
	"github.com/2beens/ridesmap/internal/workouts"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	limit := flag.Int("limit", 0, "delete at most this many records, 0 for all")
	yes := flag.Bool("yes", false, "do not ask for confirmation")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogToStdout:      true,
		LogLevel:         cfg.LogLevel,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "ridesmap-delete",
	})

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

	repo := workouts.NewRepo(dbPool)
	total, err := repo.Count(ctx, workouts.ListParams{})
	if err != nil {
		log.Fatalf("count workouts: %s", err)
	}
	if total == 0 {
		fmt.Println("no workouts stored, nothing to delete")
		return
	}

	if !*yes && !confirm(fmt.Sprintf("delete %s of %d workouts in [%s]?", limitText(*limit), total, cfg.Environment)) {
		fmt.Println("aborted")
		return
	}

	deleted, err := repo.DeleteAll(ctx, *limit)
	if err != nil {
		log.Fatalf("delete workouts: %s", err)
	}
	fmt.Printf("%d workouts deleted\n", deleted)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.RedisHost, cfg.RedisPort),
		Password: os.Getenv("RIDESMAP_REDIS_PASS"),
	})
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Errorf("close redis client: %s", err)
		}
	}()

	metricsManager := metrics.NewManager("ridesmap", "delete", prometheus.NewRegistry())
	cache := workouts.NewLayerCache(rdb, time.Duration(cfg.LayerCacheTTLSeconds)*time.Second, metricsManager)
	if err := cache.Invalidate(ctx); err != nil {
		log.Errorf("invalidate layer cache: %s", err)
	}
}

func limitText(limit int) string {
	if limit <= 0 {
		return "all"
	}
	return fmt.Sprintf("up to %d", limit)
}

func confirm(question string) bool {
	fmt.Printf("%s [y/N]: ", question)
	answer, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
