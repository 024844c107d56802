package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paulmach/orb/geojson"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/ridesmap/internal/mapmyride"
	"github.com/2beens/ridesmap/internal/telemetry/tracing"
	"github.com/2beens/ridesmap/pkg"
)

const workoutColumns = `id, title, path_has_issue, geo_json, workout, route, activity_type, created_at, updated_at`

type ListParams struct {
	Offset    int
	Limit     int
	OnlyValid bool
	// Activities restricts the result to these activity names, all when empty
	Activities []string
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

// Upsert creates the record or replaces the one with the same id
func (r *Repo) Upsert(ctx context.Context, w *CustomWorkout) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", w.ID))

	if !w.Complete() {
		return fmt.Errorf("workout %s is incomplete", w.ID)
	}

	geoJSON, err := json.Marshal(w.GeoJSON)
	if err != nil {
		return fmt.Errorf("marshal geojson: %w", err)
	}
	workout, err := json.Marshal(w.Workout)
	if err != nil {
		return fmt.Errorf("marshal workout: %w", err)
	}
	route, err := json.Marshal(w.Route)
	if err != nil {
		return fmt.Errorf("marshal route: %w", err)
	}
	activityType, err := json.Marshal(w.ActivityType)
	if err != nil {
		return fmt.Errorf("marshal activity type: %w", err)
	}

	err = r.db.QueryRow(
		ctx,
		`
			INSERT INTO workout (
				id, started_at, title, activity_name, path_has_issue, distance_m, total_ascent_m,
				geo_json, workout, route, activity_type
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			ON CONFLICT (id) DO UPDATE SET
				started_at = EXCLUDED.started_at,
				title = EXCLUDED.title,
				activity_name = EXCLUDED.activity_name,
				path_has_issue = EXCLUDED.path_has_issue,
				distance_m = EXCLUDED.distance_m,
				total_ascent_m = EXCLUDED.total_ascent_m,
				geo_json = EXCLUDED.geo_json,
				workout = EXCLUDED.workout,
				route = EXCLUDED.route,
				activity_type = EXCLUDED.activity_type,
				updated_at = now()
			RETURNING created_at, updated_at;`,
		w.ID, w.StartedAt(), w.Title, string(w.ActivityName()), w.PathHasIssue,
		w.DistanceMeters(), w.TotalAscentMeters(),
		geoJSON, workout, route, activityType,
	).Scan(&w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrDuplicateStart
		}
		return err
	}

	return nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *CustomWorkout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id))

	rows, err := r.db.Query(ctx, `SELECT `+workoutColumns+` FROM workout WHERE id = $1;`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records, err := rows2workouts(rows)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrWorkoutNotFound
	}

	return records[0], nil
}

// GetExisting returns the stored record or nil when there is none
func (r *Repo) GetExisting(ctx context.Context, id string) (*CustomWorkout, error) {
	w, err := r.Get(ctx, id)
	if errors.Is(err, ErrWorkoutNotFound) {
		return nil, nil
	}
	return w, err
}

func (r *Repo) List(ctx context.Context, params ListParams) (_ []*CustomWorkout, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(
		attribute.Int("offset", params.Offset),
		attribute.Int("limit", params.Limit),
		attribute.Bool("only-valid", params.OnlyValid),
	)

	var limit any
	if params.Limit > 0 {
		limit = params.Limit
	}

	rows, err := r.db.Query(
		ctx,
		`
			SELECT `+workoutColumns+`
			FROM workout
			WHERE (NOT $1::boolean OR NOT path_has_issue)
				AND (cardinality($2::text[]) = 0 OR activity_name = ANY($2::text[]))
			ORDER BY started_at ASC
			LIMIT $3
			OFFSET $4;`,
		params.OnlyValid, activitiesArg(params.Activities), limit, params.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records, err := rows2workouts(rows)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("found-workouts", len(records)))

	return records, nil
}

func (r *Repo) Count(ctx context.Context, params ListParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var count int
	err = r.db.QueryRow(
		ctx,
		`
			SELECT COUNT(*) FROM workout
			WHERE (NOT $1::boolean OR NOT path_has_issue)
				AND (cardinality($2::text[]) = 0 OR activity_name = ANY($2::text[]));`,
		params.OnlyValid, activitiesArg(params.Activities),
	).Scan(&count)
	if err != nil {
		return -1, err
	}

	return count, nil
}

// Batches pages through the records with offset paging, calling fn with each batch and the total.
// It stops at an empty or short batch, or when fn fails.
func (r *Repo) Batches(ctx context.Context, size int, onlyValid bool, fn func(batch []*CustomWorkout, total int) error) error {
	if size <= 0 {
		size = DefaultNDJSONBatchSize
	}

	total, err := r.Count(ctx, ListParams{OnlyValid: onlyValid})
	if err != nil {
		return fmt.Errorf("count workouts: %w", err)
	}

	for offset := 0; ; offset += size {
		batch, err := r.List(ctx, ListParams{
			Offset:    offset,
			Limit:     size,
			OnlyValid: onlyValid,
		})
		if err != nil {
			return fmt.Errorf("list batch at offset %d: %w", offset, err)
		}
		if len(batch) == 0 {
			return nil
		}

		log.Tracef("workouts batch: offset %d, got %d of total %d", offset, len(batch), total)
		if err := fn(batch, total); err != nil {
			return err
		}

		if len(batch) < size {
			return nil
		}
	}
}

// ListByLayer returns the valid records of the layer's activities
func (r *Repo) ListByLayer(ctx context.Context, layer Layer) ([]*CustomWorkout, error) {
	return r.List(ctx, ListParams{
		OnlyValid:  true,
		Activities: layer.ActivityStrings(),
	})
}

// RouteDistances returns the route distances in meters of the valid records of the given activities
func (r *Repo) RouteDistances(ctx context.Context, activities []string) (_ []float64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.distances")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if len(activities) == 0 {
		return nil, nil
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT distance_m FROM workout WHERE NOT path_has_issue AND activity_name = ANY($1::text[]) ORDER BY started_at;`,
		activities,
	)
	if err != nil {
		return nil, err
	}

	return pgx.CollectRows(rows, pgx.RowTo[float64])
}

// CountByActivity counts the valid records per activity name
func (r *Repo) CountByActivity(ctx context.Context) (_ map[string]int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.countByActivity")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT activity_name, COUNT(*) FROM workout WHERE NOT path_has_issue GROUP BY activity_name;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var count int
		if err := rows.Scan(&name, &count); err != nil {
			return nil, err
		}
		counts[name] = count
	}

	return counts, rows.Err()
}

func (r *Repo) SetPathIssue(ctx context.Context, id string, hasIssue bool) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.setPathIssue")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("workout.id", id), attribute.Bool("path-has-issue", hasIssue))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE workout SET path_has_issue = $2, updated_at = now() WHERE id = $1;`,
		id, hasIssue,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrWorkoutNotFound
	}

	return nil
}

// DeleteAll deletes up to limit records, oldest first, or every record when limit is not positive
func (r *Repo) DeleteAll(ctx context.Context, limit int) (_ int64, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.workouts.deleteAll")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("limit", limit))

	var query string
	var args []any
	if limit > 0 {
		query = `DELETE FROM workout WHERE id IN (SELECT id FROM workout ORDER BY started_at LIMIT $1);`
		args = append(args, limit)
	} else {
		query = `DELETE FROM workout;`
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	log.Infof("deleted %d workouts", tag.RowsAffected())
	return tag.RowsAffected(), nil
}

func activitiesArg(activities []string) []string {
	if activities == nil {
		return []string{}
	}
	return activities
}

func rows2workouts(rows pgx.Rows) ([]*CustomWorkout, error) {
	var records []*CustomWorkout
	for rows.Next() {
		var (
			w                                     CustomWorkout
			geoJSON, workout, route, activityType []byte
		)
		if err := rows.Scan(
			&w.ID, &w.Title, &w.PathHasIssue,
			&geoJSON, &workout, &route, &activityType,
			&w.CreatedAt, &w.UpdatedAt,
		); err != nil {
			return nil, err
		}

		fc, err := geojson.UnmarshalFeatureCollection(geoJSON)
		if err != nil {
			return nil, fmt.Errorf("unmarshal geojson of %s: %w", w.ID, err)
		}
		w.GeoJSON = fc

		w.Workout = &mapmyride.Workout{}
		if err := json.Unmarshal(workout, w.Workout); err != nil {
			return nil, fmt.Errorf("unmarshal workout of %s: %w", w.ID, err)
		}
		w.Route = &mapmyride.Route{}
		if err := json.Unmarshal(route, w.Route); err != nil {
			return nil, fmt.Errorf("unmarshal route of %s: %w", w.ID, err)
		}
		w.ActivityType = &mapmyride.ActivityType{}
		if err := json.Unmarshal(activityType, w.ActivityType); err != nil {
			return nil, fmt.Errorf("unmarshal activity type of %s: %w", w.ID, err)
		}

		records = append(records, &w)
	}

	return records, rows.Err()
}
