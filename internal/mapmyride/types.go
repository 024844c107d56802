package mapmyride

import "time"

type Link struct {
	Href string `json:"href"`
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Links maps a relation name to its links, as in the API's _links object
type Links map[string][]Link

// First returns the first link of the relation
func (l Links) First(rel string) (Link, bool) {
	links := l[rel]
	if len(links) == 0 || links[0].Href == "" {
		return Link{}, false
	}
	return links[0], true
}

// Named returns the relation's link with the given name
func (l Links) Named(rel, name string) (Link, bool) {
	for _, link := range l[rel] {
		if link.Name == name && link.Href != "" {
			return link, true
		}
	}
	return Link{}, false
}

type ActivityName string

const (
	ActivityBikeRide ActivityName = "Bike Ride"
	ActivityWalk     ActivityName = "Walk"
	ActivityRun      ActivityName = "Run"
)

var KnownActivityNames = []ActivityName{ActivityBikeRide, ActivityWalk, ActivityRun}

func (n ActivityName) IsKnown() bool {
	for _, known := range KnownActivityNames {
		if n == known {
			return true
		}
	}
	return false
}

type Aggregates struct {
	DistanceTotal        float64  `json:"distance_total"`
	MetabolicEnergyTotal float64  `json:"metabolic_energy_total"`
	ActiveTimeTotal      float64  `json:"active_time_total"`
	ElapsedTimeTotal     float64  `json:"elapsed_time_total"`
	StepsTotal           float64  `json:"steps_total"`
	HeartrateMin         *float64 `json:"heartrate_min,omitempty"`
	HeartrateMax         *float64 `json:"heartrate_max,omitempty"`
	HeartrateAvg         *float64 `json:"heartrate_avg,omitempty"`
	SpeedMin             *float64 `json:"speed_min,omitempty"`
	SpeedMax             *float64 `json:"speed_max,omitempty"`
	SpeedAvg             float64  `json:"speed_avg"`
	CadenceMin           *float64 `json:"cadence_min,omitempty"`
	CadenceMax           *float64 `json:"cadence_max,omitempty"`
	CadenceAvg           *float64 `json:"cadence_avg,omitempty"`
	PowerMin             *float64 `json:"power_min,omitempty"`
	PowerMax             *float64 `json:"power_max,omitempty"`
	PowerAvg             *float64 `json:"power_avg,omitempty"`
}

type Workout struct {
	Name                string         `json:"name"`
	StartDatetime       time.Time      `json:"start_datetime"`
	StartLocaleTimezone string         `json:"start_locale_timezone"`
	CreatedDatetime     time.Time      `json:"created_datetime"`
	UpdatedDatetime     time.Time      `json:"updated_datetime"`
	ReferenceKey        string         `json:"reference_key"`
	Source              string         `json:"source"`
	Attachments         map[string]any `json:"attachments,omitempty"`
	Sharing             map[string]any `json:"sharing,omitempty"`
	Notes               string         `json:"notes"`
	Aggregates          Aggregates     `json:"aggregates"`
	HasTimeSeries       bool           `json:"has_time_series"`
	TimeSeries          map[string]any `json:"time_series,omitempty"`
	ActivityType        string         `json:"activity_type,omitempty"`
	Links               Links          `json:"_links,omitempty"`
}

// Stripped drops links, time series, sharing and attachments
func (w Workout) Stripped() Workout {
	w.Links = nil
	w.TimeSeries = nil
	w.Sharing = nil
	w.Attachments = nil
	return w
}

type GeoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

type Route struct {
	City             string    `json:"city"`
	Country          string    `json:"country"`
	State            string    `json:"state"`
	StartingLocation GeoPoint  `json:"starting_location"`
	StartPointType   string    `json:"start_point_type"`
	PostalCode       string    `json:"postal_code"`
	Distance         float64   `json:"distance"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	DataSource       string    `json:"data_source"`
	Images           string    `json:"images,omitempty"`
	CreatedDatetime  time.Time `json:"created_datetime"`
	UpdatedDatetime  time.Time `json:"updated_datetime"`
	Points           *string   `json:"points"`
	Climbs           *string   `json:"climbs"`
	TotalAscent      float64   `json:"total_ascent"`
	TotalDescent     float64   `json:"total_descent"`
	MinElevation     float64   `json:"min_elevation"`
	MaxElevation     float64   `json:"max_elevation"`
	Links            Links     `json:"_links,omitempty"`
}

func (r Route) Stripped() Route {
	r.Links = nil
	return r
}

type MetsSpeed struct {
	Speed float64 `json:"speed"`
	Mets  float64 `json:"mets"`
}

type ActivityType struct {
	Name          ActivityName `json:"name"`
	ShortName     string       `json:"short_name"`
	LocationAware bool         `json:"location_aware"`
	ImportOnly    bool         `json:"import_only"`
	Mets          float64      `json:"mets"`
	MetsSpeed     []MetsSpeed  `json:"mets_speed,omitempty"`
	Links         Links        `json:"_links,omitempty"`
}

func (a ActivityType) Stripped() ActivityType {
	a.Links = nil
	a.MetsSpeed = nil
	return a
}
