package internal

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/IBM/pgxpoolprometheus"
	"github.com/getsentry/sentry-go"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redis_rate/v9"
	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gorilla/mux/otelmux"

	"github.com/2beens/ridesmap/internal/config"
	"github.com/2beens/ridesmap/internal/db"
	"github.com/2beens/ridesmap/internal/mapview"
	"github.com/2beens/ridesmap/internal/middleware"
	"github.com/2beens/ridesmap/internal/telemetry/metrics"
	"github.com/2beens/ridesmap/internal/telemetry/tracing"
	"github.com/2beens/ridesmap/internal/workouts"
	"github.com/2beens/ridesmap/pkg"
)

type healthCheck func(ctx context.Context) error

type Server struct {
	httpServer        *http.Server
	metricsHttpServer *http.Server
	versionInfo       string
	adminTokenHash    string

	config   *config.Config
	location *time.Location
	dbPool   *pgxpool.Pool

	redisClient *redis.Client
	rateLimiter middleware.RequestRateLimiter

	workoutsRepo *workouts.Repo
	layerCache   *workouts.LayerCache
	statsCache   *workouts.StatsCache
	mapView      *mapview.Handler

	healthChecks map[string]healthCheck

	// metrics
	metricsManager *metrics.Manager
	promRegistry   *prometheus.Registry
	otelShutdown   func()
}

type NewServerParams struct {
	Config                  *config.Config
	VersionInfo             string
	MapTilerKey             string
	AdminTokenHash          string
	DBPassword              string
	RedisPassword           string
	HoneycombTracingEnabled bool
}

func NewServer(
	ctx context.Context,
	params NewServerParams,
) (*Server, error) {
	loc, err := params.Config.Location()
	if err != nil {
		return nil, err
	}

	mapView, err := mapview.NewHandler(mapview.NewHandlerParams{
		MapTilerKey: params.MapTilerKey,
		CenterLat:   params.Config.MapCenterLat,
		CenterLon:   params.Config.MapCenterLon,
		Zoom:        params.Config.MapZoom,
		Layers:      workouts.Layers,
	})
	if err != nil {
		return nil, fmt.Errorf("map view: %w", err)
	}

	if params.AdminTokenHash == "" {
		log.Warnln("admin token hash not set, admin routes will reject every request")
	}

	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         params.Config.PostgresHost,
		DBPort:         params.Config.PostgresPort,
		DBName:         params.Config.PostgresDBName,
		DBUser:         params.Config.PostgresUser,
		DBPassword:     params.DBPassword,
		TracingEnabled: params.HoneycombTracingEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("new db pool: %w", err)
	}

	if err := dbPool.Ping(ctx); err != nil {
		log.Warnf("failed to ping db: %s", err)
	} else if err := db.EnsureSchema(ctx, dbPool); err != nil {
		return nil, fmt.Errorf("ensure db schema: %w", err)
	}

	pgxpoolCollector := pgxpoolprometheus.NewCollector(
		dbPool,
		map[string]string{"db_name": params.Config.PostgresDBName},
	)
	promRegistry := metrics.SetupPrometheus(pgxpoolCollector)
	metricsManager := metrics.NewManager("ridesmap", "service", promRegistry)
	metricsManager.GaugeLifeSignal.Set(0)

	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(params.Config.RedisHost, params.Config.RedisPort),
		Password: params.RedisPassword,
		DB:       0,
	})

	rdbStatus := rdb.Ping(ctx)
	if err := rdbStatus.Err(); err != nil {
		log.Errorf("--> failed to ping redis: %s", err)
	} else {
		log.Debugf("redis ping: %s", rdbStatus.Val())
	}

	otelShutdown, err := tracing.HoneycombSetup(params.HoneycombTracingEnabled, "ridesmap-service")
	if err != nil {
		return nil, err
	}

	layerCache := workouts.NewLayerCache(
		rdb,
		time.Duration(params.Config.LayerCacheTTLSeconds)*time.Second,
		metricsManager,
	)

	s := &Server{
		config:         params.Config,
		location:       loc,
		versionInfo:    params.VersionInfo,
		adminTokenHash: params.AdminTokenHash,
		dbPool:         dbPool,
		redisClient:    rdb,
		rateLimiter:    redis_rate.NewLimiter(rdb),
		workoutsRepo:   workouts.NewRepo(dbPool),
		layerCache:     layerCache,
		statsCache: workouts.NewStatsCache(
			time.Duration(params.Config.StatsCacheTTLSeconds)*time.Second,
			layerCache,
			metricsManager,
		),
		mapView: mapView,
		healthChecks: map[string]healthCheck{
			"postgres": dbPool.Ping,
			"redis": func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			},
		},

		// telemetry
		metricsManager: metricsManager,
		promRegistry:   promRegistry,
		otelShutdown:   otelShutdown,
	}

	return s, nil
}

func (s *Server) routerSetup() (*mux.Router, error) {
	r := mux.NewRouter()
	r.Use(otelmux.Middleware("ridesmap-router"))

	workoutsHandler := workouts.NewHandler(workouts.NewHandlerParams{
		Repo:       s.workoutsRepo,
		LayerCache: s.layerCache,
		StatsCache: s.statsCache,
		DatasetCache: &workouts.DatasetCaches{
			Layers: s.layerCache,
			Stats:  s.statsCache,
		},
		Location:        s.location,
		NDJSONBatchSize: s.config.NDJSONBatchSize,
	})

	// admin routes are matched first, they share paths with the public ones
	adminRouter := r.NewRoute().Subrouter()
	adminRouter.HandleFunc("/workouts/{id}/issue", workoutsHandler.HandleSetPathIssue).Methods("PUT", "OPTIONS").Name("set-path-issue")
	adminRouter.HandleFunc("/workouts", workoutsHandler.HandleDeleteAll).Methods("DELETE", "OPTIONS").Name("delete-workouts")
	if s.config.AdminRateLimitPerMin > 0 {
		adminRouter.Use(middleware.RateLimit(s.rateLimiter, "admin", s.config.AdminRateLimitPerMin, s.metricsManager))
	}
	adminRouter.Use(middleware.NewAdminAuthMiddlewareHandler(s.adminTokenHash).AuthCheck())

	publicRouter := r.NewRoute().Subrouter()
	publicRouter.HandleFunc("/", s.mapView.HandleIndex).Methods("GET").Name("map")
	publicRouter.PathPrefix("/static/").HandlerFunc(s.mapView.HandleStatic).Methods("GET").Name("static")
	publicRouter.HandleFunc("/workouts.ndjson", workoutsHandler.HandleNDJSON).Methods("GET").Name("workouts-ndjson")
	publicRouter.HandleFunc("/workouts/batch/offset/{offset}/size/{size}", workoutsHandler.HandleBatch).Methods("GET").Name("workouts-batch")
	publicRouter.HandleFunc("/workouts/{id}", workoutsHandler.HandleGet).Methods("GET").Name("get-workout")
	publicRouter.HandleFunc("/layers", workoutsHandler.HandleLayers).Methods("GET").Name("layers")
	publicRouter.HandleFunc("/layers/{layer}/geojson", workoutsHandler.HandleLayerGeoJSON).Methods("GET").Name("layer-geojson")
	publicRouter.HandleFunc("/stats", workoutsHandler.HandleStats).Methods("GET").Name("stats")
	publicRouter.HandleFunc("/health", s.handleHealth).Methods("GET").Name("health")
	publicRouter.HandleFunc("/version", s.handleVersion).Methods("GET").Name("version")
	if s.config.PublicRateLimitPerMin > 0 {
		publicRouter.Use(middleware.RateLimit(s.rateLimiter, "public", s.config.PublicRateLimitPerMin, s.metricsManager))
	}

	r.Use(middleware.PanicRecovery(s.metricsManager))
	r.Use(middleware.LogRequest())
	r.Use(middleware.RequestMetrics(s.metricsManager))
	r.Use(middleware.Cors(s.config.AllowedOrigins))
	r.Use(middleware.DrainAndCloseRequest())

	return r, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := make(map[string]string, len(s.healthChecks))
	healthy := true
	for name, check := range s.healthChecks {
		if err := check(ctx); err != nil {
			log.Warnf("health check [%s]: %s", name, err)
			status[name] = err.Error()
			healthy = false
			continue
		}
		status[name] = "ok"
	}

	if !healthy {
		pkg.SendJsonResponse(w, http.StatusServiceUnavailable, status)
		return
	}
	pkg.SendJsonResponse(w, http.StatusOK, status)
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, s.versionInfo)
}

func (s *Server) Serve(host string, port int) {
	router, err := s.routerSetup()
	if err != nil {
		log.Fatalf("failed to setup router: %s", err)
	}

	ipAndPort := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Handler:      router,
		Addr:         ipAndPort,
		WriteTimeout: time.Minute,
		ReadTimeout:  time.Minute,
		ConnState:    s.connStateMetrics,
	}

	metricsRouter := mux.NewRouter()
	metricsRouter.Handle("/metrics", promhttp.HandlerFor(
		s.promRegistry,
		promhttp.HandlerOpts{Registry: s.promRegistry},
	))
	metricsAddr := net.JoinHostPort(s.config.PrometheusMetricsHost, s.config.PrometheusMetricsPort)
	s.metricsHttpServer = &http.Server{
		Addr:              metricsAddr,
		Handler:           metricsRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof(" > server listening on: [%s]", ipAndPort)
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("main service, listen and serve: %s", err)
		}
	}()

	go func() {
		log.Debugf(" > metrics listening on: [%s]", metricsAddr)
		err := s.metricsHttpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("metrics service, listen and serve: %s", err)
		}
	}()

	s.metricsManager.GaugeLifeSignal.Set(1)
}

func (s *Server) GracefulShutdown() {
	log.Debug("graceful shutdown initiated ...")

	s.metricsManager.GaugeLifeSignal.Set(0)

	s.otelShutdown()
	log.Trace("otel shut down ...")

	maxWaitDuration := time.Second * 15
	ctx, timeoutCancel := context.WithTimeout(context.Background(), maxWaitDuration)
	defer timeoutCancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown http server")
		}
		log.Warnln("server shut down")
	}

	if s.metricsHttpServer != nil {
		if err := s.metricsHttpServer.Shutdown(ctx); err != nil {
			log.Error(" >>> failed to gracefully shutdown metrics http server")
		}
		log.Warnln("metrics server shut down")
	}

	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			log.Errorf("failed to close redis client conn: %s", err)
		}
	}

	if s.dbPool != nil {
		log.Debugln("closing db pool ...")
		s.dbPool.Close() // blocking operation
		log.Debugln("db pool closed")
	}

	if ok := sentry.Flush(5 * time.Second); ok {
		log.Debugf("sentry flush ok: %t", ok)
	}
}

func (s *Server) connStateMetrics(_ net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.metricsManager.GaugeRequests.Add(1)
	case http.StateClosed:
		s.metricsManager.GaugeRequests.Add(-1)
	default:
		// do nothing
	}
}
