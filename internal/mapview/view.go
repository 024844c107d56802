package mapview

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/2beens/ridesmap/internal/workouts"
	"github.com/2beens/ridesmap/pkg"
)

//go:embed assets/index.html.tmpl assets/static
var assets embed.FS

var ErrMissingMapTilerKey = errors.New("missing MapTiler API key")

const (
	BaseLayerDefault   = "default"
	BaseLayerSatellite = "satellite"

	DefaultCenterLat = 39.7327258
	DefaultCenterLon = -104.9851469
	DefaultZoom      = 13

	pageTitle = "My Bike Rides"
)

type TileLayer struct {
	Key         string       `json:"key"`
	Name        string       `json:"name"`
	URL         string       `json:"url"`
	TileSize    int          `json:"tileSize,omitempty"`
	ZoomOffset  int          `json:"zoomOffset,omitempty"`
	MinZoom     int          `json:"minZoom,omitempty"`
	MaxZoom     int          `json:"maxZoom,omitempty"`
	Subdomains  []string     `json:"subdomains,omitempty"`
	Opacity     float64      `json:"opacity,omitempty"`
	ClassName   string       `json:"className,omitempty"`
	Attribution string       `json:"attribution,omitempty"`
	RouteStyles *RouteStyles `json:"routeStyles,omitempty"`
}

type RouteLayer struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	GeoJSONURL string `json:"geoJsonUrl"`
}

// PageConfig is handed to the page script as JSON
type PageConfig struct {
	Center          [2]float64   `json:"center"`
	Zoom            int          `json:"zoom"`
	ZoomControl     bool         `json:"zoomControl"`
	BaseLayers      []TileLayer  `json:"baseLayers"`
	Overlays        []TileLayer  `json:"overlays"`
	RouteLayers     []RouteLayer `json:"routeLayers"`
	StatsURL        string       `json:"statsUrl"`
	HoverLineWeight int          `json:"hoverLineWeight"`
	ArrowPixelSize  int          `json:"arrowPixelSize"`
	ArrowRepeat     int          `json:"arrowRepeat"`
	EmptyMessage    string       `json:"emptyMessage"`
}

type NewHandlerParams struct {
	MapTilerKey string
	CenterLat   float64
	CenterLon   float64
	Zoom        int
	Layers      []workouts.Layer
}

type Handler struct {
	page   []byte
	static http.Handler
}

func baseLayers(mapTilerKey string) []TileLayer {
	def := PaletteFor(BaseLayerDefault).Styles()
	sat := PaletteFor(BaseLayerSatellite).Styles()
	return []TileLayer{
		{
			Key:         BaseLayerDefault,
			Name:        "Default",
			URL:         "https://api.maptiler.com/maps/streets-v2-dark/{z}/{x}/{y}.png?key=" + mapTilerKey,
			TileSize:    512,
			ZoomOffset:  -1,
			MinZoom:     1,
			Attribution: `&copy; <a href="https://www.maptiler.com/copyright/">MapTiler</a> &copy; OpenStreetMap contributors`,
			RouteStyles: &def,
		},
		{
			Key:         BaseLayerSatellite,
			Name:        "Satellite",
			URL:         "https://api.maptiler.com/maps/hybrid/{z}/{x}/{y}.jpg?key=" + mapTilerKey,
			TileSize:    512,
			ZoomOffset:  -1,
			MinZoom:     1,
			Attribution: `&copy; <a href="https://www.maptiler.com/copyright/">MapTiler</a> &copy; OpenStreetMap contributors`,
			RouteStyles: &sat,
		},
	}
}

var bikeTrails = TileLayer{
	Key:        "bike-trails",
	Name:       "Bike Trails",
	URL:        "https://{s}.google.com/vt/lyrs=bike&x={x}&y={y}&z={z}",
	Subdomains: []string{"mt0", "mt1", "mt2", "mt3"},
	Opacity:    0.5,
	MaxZoom:    20,
	ClassName:  "bike-trails",
}

func NewPageConfig(params NewHandlerParams) (*PageConfig, error) {
	if params.MapTilerKey == "" {
		return nil, ErrMissingMapTilerKey
	}

	cfg := &PageConfig{
		Center:          [2]float64{params.CenterLat, params.CenterLon},
		Zoom:            params.Zoom,
		BaseLayers:      baseLayers(params.MapTilerKey),
		Overlays:        []TileLayer{bikeTrails},
		StatsURL:        "/stats",
		HoverLineWeight: HoverLineWeight,
		ArrowPixelSize:  ArrowPixelSize,
		ArrowRepeat:     ArrowRepeat,
		EmptyMessage:    workouts.NoLayersSelectedMessage,
	}
	if cfg.Center == [2]float64{} {
		cfg.Center = [2]float64{DefaultCenterLat, DefaultCenterLon}
	}
	if cfg.Zoom <= 0 {
		cfg.Zoom = DefaultZoom
	}

	layers := params.Layers
	if len(layers) == 0 {
		layers = workouts.Layers
	}
	for _, l := range layers {
		cfg.RouteLayers = append(cfg.RouteLayers, RouteLayer{
			Key:        l.Key,
			Name:       l.Name,
			GeoJSONURL: fmt.Sprintf("/layers/%s/geojson", l.Key),
		})
	}

	return cfg, nil
}

// NewHandler renders the page once; a missing MapTiler key is an error
func NewHandler(params NewHandlerParams) (*Handler, error) {
	cfg, err := NewPageConfig(params)
	if err != nil {
		return nil, err
	}

	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("marshal page config: %w", err)
	}

	tmpl, err := template.ParseFS(assets, "assets/index.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse page template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct {
		Title  string
		Config template.JS
	}{
		Title:  pageTitle,
		Config: template.JS(cfgJSON),
	}); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}

	staticFS, err := fs.Sub(assets, "assets/static")
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	log.Debugf("map page rendered: %d route layers", len(cfg.RouteLayers))

	return &Handler{
		page:   buf.Bytes(),
		static: http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))),
	}, nil
}

func (h *Handler) HandleIndex(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteResponseBytes(w, pkg.ContentType.HTML, h.page, http.StatusOK)
}

func (h *Handler) HandleStatic(w http.ResponseWriter, r *http.Request) {
	h.static.ServeHTTP(w, r)
}
