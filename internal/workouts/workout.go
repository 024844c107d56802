package workouts

import (
	"errors"
	"strings"
	"time"

	"github.com/paulmach/orb/geojson"

	"github.com/2beens/ridesmap/internal/mapmyride"
)

var (
	ErrWorkoutNotFound     = errors.New("workout not found")
	ErrDuplicateStart      = errors.New("a workout with the same start time already exists")
	ErrUnknownActivityName = errors.New("unknown activity name")
)

// goodNoteMarker in a route description or workout notes marks the path as manually verified
const goodNoteMarker = "GOOD"

// CustomWorkout is the persisted record: a workout with its route, activity type and converted geometry
type CustomWorkout struct {
	ID           string                     `json:"id"`
	Title        string                     `json:"title"`
	PathHasIssue bool                       `json:"pathHasIssue"`
	GeoJSON      *geojson.FeatureCollection `json:"geoJson"`
	Workout      *mapmyride.Workout         `json:"workout"`
	Route        *mapmyride.Route           `json:"route"`
	ActivityType *mapmyride.ActivityType    `json:"activityType"`
	CreatedAt    time.Time                  `json:"createdAt,omitzero"`
	UpdatedAt    time.Time                  `json:"updatedAt,omitzero"`
}

// WorkoutID derives the record id from the start time in the user timezone
func WorkoutID(start time.Time, loc *time.Location) string {
	return "workout-" + start.In(loc).Format("2006-01-02-15-04-05")
}

func Title(start time.Time, loc *time.Location, name string) string {
	return start.In(loc).Format("2006-01-02") + " " + name
}

func NewCustomWorkout(
	loc *time.Location,
	workout mapmyride.Workout,
	route mapmyride.Route,
	activityType mapmyride.ActivityType,
	geoJSON *geojson.FeatureCollection,
	pathHasIssue bool,
) *CustomWorkout {
	w := workout.Stripped()
	r := route.Stripped()
	at := activityType.Stripped()

	return &CustomWorkout{
		ID:           WorkoutID(workout.StartDatetime, loc),
		Title:        Title(workout.StartDatetime, loc, workout.Name),
		PathHasIssue: pathHasIssue,
		GeoJSON:      geoJSON,
		Workout:      &w,
		Route:        &r,
		ActivityType: &at,
	}
}

// HasGoodNote reports whether the route description or the workout notes carry the GOOD marker
func HasGoodNote(route mapmyride.Route, workout mapmyride.Workout) bool {
	return strings.Contains(route.Description, goodNoteMarker) || strings.Contains(workout.Notes, goodNoteMarker)
}

// NeedsValidation decides whether the path distance checks run for a freshly fetched workout
func NeedsValidation(existing *CustomWorkout, route mapmyride.Route, workout mapmyride.Workout) bool {
	if existing == nil {
		return !HasGoodNote(route, workout)
	}
	return existing.PathHasIssue
}

func (w *CustomWorkout) StartedAt() time.Time {
	if w.Workout == nil {
		return time.Time{}
	}
	return w.Workout.StartDatetime
}

func (w *CustomWorkout) ActivityName() mapmyride.ActivityName {
	if w.ActivityType == nil {
		return ""
	}
	return w.ActivityType.Name
}

// DistanceMeters is the route distance
func (w *CustomWorkout) DistanceMeters() float64 {
	if w.Route == nil {
		return 0
	}
	return w.Route.Distance
}

func (w *CustomWorkout) TotalAscentMeters() float64 {
	if w.Route == nil {
		return 0
	}
	return w.Route.TotalAscent
}

// Complete reports whether every part needed to render the record is present
func (w *CustomWorkout) Complete() bool {
	return w.GeoJSON != nil && w.Workout != nil && w.Route != nil && w.ActivityType != nil
}

// Public reports whether the record may appear in the public dataset
func (w *CustomWorkout) Public() bool {
	return !w.PathHasIssue && w.Complete()
}
