package workouts

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/ridesmap/internal/geo"
	"github.com/2beens/ridesmap/internal/telemetry/tracing"
	"github.com/2beens/ridesmap/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=workouts_test

const maxBatchSize = 200

type workoutsRepo interface {
	Get(ctx context.Context, id string) (*CustomWorkout, error)
	List(ctx context.Context, params ListParams) ([]*CustomWorkout, error)
	Count(ctx context.Context, params ListParams) (int, error)
	Batches(ctx context.Context, size int, onlyValid bool, fn func(batch []*CustomWorkout, total int) error) error
	ListByLayer(ctx context.Context, layer Layer) ([]*CustomWorkout, error)
	RouteDistances(ctx context.Context, activities []string) ([]float64, error)
	CountByActivity(ctx context.Context) (map[string]int, error)
	SetPathIssue(ctx context.Context, id string, hasIssue bool) error
	DeleteAll(ctx context.Context, limit int) (int64, error)
}

type layerCache interface {
	Get(ctx context.Context, layerKey string) ([]byte, bool, error)
	Set(ctx context.Context, layerKey string, data []byte) error
}

type statsCache interface {
	Get(ctx context.Context, layers []Layer) (Stats, bool)
	Set(ctx context.Context, layers []Layer, stats Stats)
}

type BatchResponse struct {
	Items []*CustomWorkout `json:"items"`
	Total int              `json:"total"`
}

type LayerInfo struct {
	Layer
	Count int `json:"count"`
}

type SetPathIssueRequest struct {
	PathHasIssue *bool `json:"pathHasIssue"`
}

type DeleteAllResponse struct {
	Deleted int64 `json:"deleted"`
}

type NewHandlerParams struct {
	Repo            workoutsRepo
	LayerCache      layerCache
	StatsCache      statsCache
	DatasetCache    datasetCache
	Location        *time.Location
	NDJSONBatchSize int
}

type Handler struct {
	repo            workoutsRepo
	layerCache      layerCache
	statsCache      statsCache
	datasetCache    datasetCache
	loc             *time.Location
	ndjsonBatchSize int
}

func NewHandler(params NewHandlerParams) *Handler {
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	batchSize := params.NDJSONBatchSize
	if batchSize <= 0 {
		batchSize = DefaultNDJSONBatchSize
	}

	return &Handler{
		repo:            params.Repo,
		layerCache:      params.LayerCache,
		statsCache:      params.StatsCache,
		datasetCache:    params.DatasetCache,
		loc:             loc,
		ndjsonBatchSize: batchSize,
	}
}

// HandleNDJSON streams the public dataset: a meta line with the total, then one record per line
func (handler *Handler) HandleNDJSON(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.ndjson")
	defer span.End()

	total, err := handler.repo.Count(ctx, ListParams{OnlyValid: true})
	if err != nil {
		log.Errorf("ndjson: count workouts: %s", err)
		http.Error(w, "failed to get workouts", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", pkg.ContentType.NDJSON)
	w.WriteHeader(http.StatusOK)

	written, err := StreamNDJSON(w, total, func(fn func(batch []*CustomWorkout) error) error {
		return handler.repo.Batches(ctx, handler.ndjsonBatchSize, true, func(batch []*CustomWorkout, _ int) error {
			return fn(batch)
		})
	})
	if err != nil {
		// headers are out, the client sees a truncated stream
		log.Errorf("ndjson: stream interrupted after %d records: %s", written, err)
		return
	}

	log.Tracef("ndjson: streamed %d of %d workouts", written, total)
}

func (handler *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.batch")
	defer span.End()

	vars := mux.Vars(r)
	offset, err := strconv.Atoi(vars["offset"])
	if err != nil || offset < 0 {
		http.Error(w, "error, invalid offset", http.StatusBadRequest)
		return
	}
	size, err := strconv.Atoi(vars["size"])
	if err != nil || size <= 0 {
		http.Error(w, "error, invalid size", http.StatusBadRequest)
		return
	}
	if size > maxBatchSize {
		size = maxBatchSize
	}

	total, err := handler.repo.Count(ctx, ListParams{OnlyValid: true})
	if err != nil {
		log.Errorf("batch: count workouts: %s", err)
		http.Error(w, "failed to get workouts", http.StatusInternalServerError)
		return
	}

	items, err := handler.repo.List(ctx, ListParams{
		Offset:    offset,
		Limit:     size,
		OnlyValid: true,
	})
	if err != nil {
		log.Errorf("batch: list workouts offset %d size %d: %s", offset, size, err)
		http.Error(w, "failed to get workouts", http.StatusInternalServerError)
		return
	}

	items = PublicRecords(items)
	pkg.SendJsonResponse(w, http.StatusOK, BatchResponse{Items: items, Total: total})
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.get")
	defer span.End()

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	workout, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to get workout %s: %s", id, err)
		http.Error(w, "failed to get workout", http.StatusInternalServerError)
		return
	}
	if !workout.Public() {
		http.Error(w, "workout not found", http.StatusNotFound)
		return
	}

	pkg.SendJsonResponse(w, http.StatusOK, workout)
}

func (handler *Handler) HandleLayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.layers")
	defer span.End()

	counts, err := handler.repo.CountByActivity(ctx)
	if err != nil {
		log.Errorf("layers: count by activity: %s", err)
		http.Error(w, "failed to get layers", http.StatusInternalServerError)
		return
	}

	infos := make([]LayerInfo, 0, len(Layers))
	for _, l := range Layers {
		info := LayerInfo{Layer: l}
		for _, a := range l.ActivityStrings() {
			info.Count += counts[a]
		}
		infos = append(infos, info)
	}

	pkg.SendJsonResponse(w, http.StatusOK, infos)
}

func (handler *Handler) HandleLayerGeoJSON(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.layerGeoJSON")
	defer span.End()

	layer, ok := LayerByKey(mux.Vars(r)["layer"])
	if !ok {
		http.Error(w, "layer not found", http.StatusNotFound)
		return
	}

	if handler.layerCache != nil {
		cached, found, err := handler.layerCache.Get(ctx, layer.Key)
		if err != nil {
			log.Errorf("layer %s: get from cache: %s", layer.Key, err)
		} else if found {
			pkg.WriteResponseBytes(w, pkg.ContentType.GeoJSON, cached, http.StatusOK)
			return
		}
	}

	records, err := handler.repo.ListByLayer(ctx, layer)
	if err != nil {
		log.Errorf("layer %s: list workouts: %s", layer.Key, err)
		http.Error(w, "failed to get layer", http.StatusInternalServerError)
		return
	}

	fc := LayerFeatureCollection(layer, records, handler.loc)
	data, err := json.Marshal(fc)
	if err != nil {
		log.Errorf("layer %s: marshal geojson: %s", layer.Key, err)
		http.Error(w, "failed to get layer", http.StatusInternalServerError)
		return
	}

	if handler.layerCache != nil {
		if err := handler.layerCache.Set(ctx, layer.Key, data); err != nil {
			log.Errorf("layer %s: set cache: %s", layer.Key, err)
		}
	}

	pkg.WriteResponseBytes(w, pkg.ContentType.GeoJSON, data, http.StatusOK)
}

func (handler *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.stats")
	defer span.End()

	layers, err := ParseLayerKeys(pkg.SplitCSV(r.URL.Query().Get("layers")))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(layers) == 0 {
		pkg.SendJsonResponse(w, http.StatusOK, ComputeStats(nil))
		return
	}

	if handler.statsCache != nil {
		if stats, ok := handler.statsCache.Get(ctx, layers); ok {
			pkg.SendJsonResponse(w, http.StatusOK, stats)
			return
		}
	}

	distances, err := handler.repo.RouteDistances(ctx, ActivitiesOf(layers))
	if err != nil {
		log.Errorf("stats: route distances: %s", err)
		http.Error(w, "failed to get stats", http.StatusInternalServerError)
		return
	}

	stats := ComputeStats(distances)
	if handler.statsCache != nil {
		handler.statsCache.Set(ctx, layers, stats)
	}

	pkg.SendJsonResponse(w, http.StatusOK, stats)
}

func (handler *Handler) HandleSetPathIssue(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.setPathIssue")
	defer span.End()

	id := mux.Vars(r)["id"]
	if id == "" {
		http.Error(w, "error, id empty", http.StatusBadRequest)
		return
	}

	var req SetPathIssueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PathHasIssue == nil {
		http.Error(w, "error, pathHasIssue missing", http.StatusBadRequest)
		return
	}

	if err := handler.repo.SetPathIssue(ctx, id, *req.PathHasIssue); err != nil {
		if errors.Is(err, ErrWorkoutNotFound) {
			http.Error(w, "workout not found", http.StatusNotFound)
			return
		}
		log.Errorf("failed to set path issue of %s: %s", id, err)
		http.Error(w, "failed to update workout", http.StatusInternalServerError)
		return
	}

	handler.invalidate(ctx)
	log.Infof("workout %s path has issue set to %t", id, *req.PathHasIssue)
	pkg.SendJsonResponse(w, http.StatusOK, map[string]any{"id": id, "pathHasIssue": *req.PathHasIssue})
}

func (handler *Handler) HandleDeleteAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.workouts.deleteAll")
	defer span.End()

	limit := 0
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		l, err := strconv.Atoi(limitStr)
		if err != nil || l < 0 {
			http.Error(w, "error, invalid limit", http.StatusBadRequest)
			return
		}
		limit = l
	}

	deleted, err := handler.repo.DeleteAll(ctx, limit)
	if err != nil {
		log.Errorf("failed to delete workouts: %s", err)
		http.Error(w, "failed to delete workouts", http.StatusInternalServerError)
		return
	}

	handler.invalidate(ctx)
	pkg.SendJsonResponse(w, http.StatusOK, DeleteAllResponse{Deleted: deleted})
}

func (handler *Handler) invalidate(ctx context.Context) {
	if handler.datasetCache == nil {
		return
	}
	if err := handler.datasetCache.Invalidate(ctx); err != nil {
		log.Errorf("invalidate dataset caches: %s", err)
	}
}

// LayerFeatureCollection flattens the line features of the records into one collection.
// Point features are left out; each feature carries the record's display properties.
func LayerFeatureCollection(layer Layer, records []*CustomWorkout, loc *time.Location) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, record := range PublicRecords(records) {
		tooltip := NewTooltip(record, loc)
		for _, f := range geo.LineFeatures(record.GeoJSON) {
			feature := geojson.NewFeature(orb.Clone(f.Geometry))
			feature.ID = record.ID
			feature.Properties = geojson.Properties{
				"id":          record.ID,
				"title":       record.Title,
				"layer":       layer.Key,
				"activity":    string(record.ActivityName()),
				"startedAt":   record.StartedAt().In(loc).Format(time.RFC3339),
				"distanceMi":  Round(record.DistanceMeters()*MetersToMiles, 1),
				"ascentFt":    Round(record.TotalAscentMeters()*MetersToFeet, 0),
				"tooltip":     tooltip.HTML(),
				"tooltipDate": tooltip.Date,
			}
			fc.Append(feature)
		}
	}
	return fc
}
