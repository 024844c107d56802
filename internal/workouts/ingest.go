package workouts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/2beens/ridesmap/internal/geo"
	"github.com/2beens/ridesmap/internal/mapmyride"
	"github.com/2beens/ridesmap/internal/telemetry/metrics"
	"github.com/2beens/ridesmap/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=ingest_mocks_test.go -package=workouts_test

var ErrIngestFailed = errors.New("one or more workouts errored")

type fitnessClient interface {
	GetWorkouts(ctx context.Context, userID string) ([]mapmyride.Workout, error)
	GetRoute(ctx context.Context, workout mapmyride.Workout) (*mapmyride.Route, error)
	GetActivityType(ctx context.Context, workout mapmyride.Workout) (*mapmyride.ActivityType, error)
	GetRoutePathData(ctx context.Context, route mapmyride.Route, format string) ([]byte, error)
}

type workoutsStore interface {
	GetExisting(ctx context.Context, id string) (*CustomWorkout, error)
	Upsert(ctx context.Context, w *CustomWorkout) error
}

type datasetCache interface {
	Invalidate(ctx context.Context) error
}

type IngestParams struct {
	Client            fitnessClient
	Store             workoutsStore
	Cache             datasetCache
	MetricsManager    *metrics.Manager
	UserID            string
	Location          *time.Location
	Format            geo.Format
	Limits            geo.DistanceLimits
	SimplifyTolerance float64
	SimplifyDisabled  bool
	Concurrency       int
	DryRun            bool
}

type IngestResult struct {
	RunID        string
	Total        int
	Processed    int
	Failed       int
	Flagged      int
	PointsBefore int
	PointsAfter  int
	Duration     time.Duration
}

func (r *IngestResult) PointsRemoved() int {
	return r.PointsBefore - r.PointsAfter
}

// SimplifiedSummary reports the points saved by simplification; the percentage is the change in size
func (r *IngestResult) SimplifiedSummary() string {
	percent := 0.0
	if r.PointsBefore > 0 {
		percent = float64(r.PointsAfter-r.PointsBefore) / float64(r.PointsBefore) * 100
	}
	return fmt.Sprintf("GeoJsons simplified by %d data points (%s%%)", r.PointsRemoved(), FormatRounded(percent, 0))
}

type Ingester struct {
	client            fitnessClient
	store             workoutsStore
	cache             datasetCache
	metricsManager    *metrics.Manager
	userID            string
	loc               *time.Location
	format            geo.Format
	limits            geo.DistanceLimits
	simplifyTolerance float64
	simplifyDisabled  bool
	concurrency       int
	dryRun            bool
}

func NewIngester(params IngestParams) (*Ingester, error) {
	if params.Client == nil || params.Store == nil {
		return nil, errors.New("ingester needs a fitness client and a store")
	}
	if params.UserID == "" {
		return nil, errors.New("ingester needs a user id")
	}

	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	format := params.Format
	if format == "" {
		format = geo.FormatGPX
	}
	limits := params.Limits
	if limits.MaxRouteDistanceFt <= 0 || limits.MaxStartEndDistanceFt <= 0 {
		limits = geo.DefaultDistanceLimits()
	}
	concurrency := params.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	metricsManager := params.MetricsManager
	if metricsManager == nil {
		metricsManager = metrics.NewTestManager()
	}

	return &Ingester{
		client:            params.Client,
		store:             params.Store,
		cache:             params.Cache,
		metricsManager:    metricsManager,
		userID:            params.UserID,
		loc:               loc,
		format:            format,
		limits:            limits,
		simplifyTolerance: params.SimplifyTolerance,
		simplifyDisabled:  params.SimplifyDisabled,
		concurrency:       concurrency,
		dryRun:            params.DryRun,
	}, nil
}

type workoutOutcome struct {
	flagged      bool
	pointsBefore int
	pointsAfter  int
}

// Run fetches every workout of the user and stores it with its converted path.
// Per-workout failures do not stop the run; they are combined into the returned error.
func (i *Ingester) Run(ctx context.Context) (_ *IngestResult, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "ingester.run")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	started := time.Now()
	result := &IngestResult{RunID: uuid.NewString()}
	span.SetAttributes(attribute.String("run-id", result.RunID))
	runLog := log.WithField("run", result.RunID)

	runLog.Println("getting workouts from mapmyride...")
	workouts, err := i.client.GetWorkouts(ctx, i.userID)
	if err != nil {
		return nil, fmt.Errorf("get workouts: %w", err)
	}
	result.Total = len(workouts)
	runLog.Printf("# workouts %d", len(workouts))

	var (
		mu      sync.Mutex
		errs    error
		eg, egc = errgroup.WithContext(ctx)
	)
	eg.SetLimit(i.concurrency)

	for _, workout := range workouts {
		eg.Go(func() error {
			outcome, err := i.processWorkout(egc, workout)

			mu.Lock()
			defer mu.Unlock()

			if outcome != nil {
				result.PointsBefore += outcome.pointsBefore
				result.PointsAfter += outcome.pointsAfter
				if outcome.flagged {
					result.Flagged++
					i.metricsManager.CounterWorkoutsFlagged.Inc()
				}
			}

			if err != nil {
				result.Failed++
				i.metricsManager.CounterWorkoutsFailed.Inc()
				runLog.Errorf(
					"Error for workout: %s (%s): %s",
					workout.Name, workout.StartDatetime.In(i.loc).Format("2006-01-02"), err,
				)
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", workout.Name, err))
				return nil
			}

			result.Processed++
			i.metricsManager.CounterWorkoutsIngested.Inc()
			return nil
		})
	}
	_ = eg.Wait()

	i.metricsManager.CounterSimplifiedPoints.Add(float64(result.PointsRemoved()))
	runLog.Println(result.SimplifiedSummary())

	if !i.dryRun && i.cache != nil && result.Processed+result.Flagged > 0 {
		if err := i.cache.Invalidate(ctx); err != nil {
			runLog.Errorf("invalidate dataset caches: %s", err)
		}
	}

	result.Duration = time.Since(started)
	i.metricsManager.HistIngestDuration.Observe(result.Duration.Seconds())
	span.SetAttributes(
		attribute.Int("processed", result.Processed),
		attribute.Int("failed", result.Failed),
		attribute.Int("flagged", result.Flagged),
	)
	runLog.Printf(
		"ingest done in %s: processed %d, failed %d, flagged %d",
		result.Duration, result.Processed, result.Failed, result.Flagged,
	)

	if errs != nil {
		return result, fmt.Errorf("%w: %w", ErrIngestFailed, errs)
	}
	return result, nil
}

func (i *Ingester) processWorkout(ctx context.Context, workout mapmyride.Workout) (*workoutOutcome, error) {
	route, err := i.client.GetRoute(ctx, workout)
	if err != nil {
		return nil, fmt.Errorf("get route: %w", err)
	}

	activityType, err := i.client.GetActivityType(ctx, workout)
	if err != nil {
		return nil, fmt.Errorf("get activity type: %w", err)
	}
	if !activityType.Name.IsKnown() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownActivityName, activityType.Name)
	}

	pathData, err := i.client.GetRoutePathData(ctx, *route, string(i.format))
	if err != nil {
		return nil, fmt.Errorf("get route path data: %w", err)
	}

	fc, err := geo.ConvertPathData(i.format, pathData)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", i.format, err)
	}
	points, err := geo.Points(fc)
	if err != nil {
		return nil, fmt.Errorf("convert %s: %w", i.format, err)
	}

	id := WorkoutID(workout.StartDatetime, i.loc)
	existing, err := i.store.GetExisting(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get existing %s: %w", id, err)
	}

	var pathErr error
	if NeedsValidation(existing, *route, workout) {
		pathErr = geo.ValidatePointsDistance(points, i.limits)
	}

	outcome := &workoutOutcome{flagged: pathErr != nil}
	geoJSON := fc
	if !i.simplifyDisabled {
		simplified, err := geo.Simplify(fc, i.simplifyTolerance)
		if err != nil {
			if pathErr != nil {
				return nil, pathErr
			}
			return nil, fmt.Errorf("simplify: %w", err)
		}
		geoJSON = simplified.Collection
		outcome.pointsBefore = simplified.PointsBefore
		outcome.pointsAfter = simplified.PointsAfter
	}

	record := NewCustomWorkout(i.loc, workout, *route, *activityType, geoJSON, pathErr != nil)
	if existing != nil {
		record.CreatedAt = existing.CreatedAt
	}
	if i.dryRun {
		log.Debugf("dry run, not storing %s (path has issue: %t)", record.ID, record.PathHasIssue)
	} else if err := i.store.Upsert(ctx, record); err != nil {
		return nil, fmt.Errorf("store %s: %w", record.ID, err)
	}

	if pathErr != nil {
		return outcome, fmt.Errorf("path of %s has issue: %w", record.ID, pathErr)
	}
	return outcome, nil
}
