package geo

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type kmlPlacemark struct {
	Name          string       `xml:"name"`
	Description   string       `xml:"description"`
	When          string       `xml:"TimeStamp>when"`
	Point         *kmlCoords   `xml:"Point"`
	LineString    *kmlCoords   `xml:"LineString"`
	Track         *kmlTrack    `xml:"Track"`
	MultiGeometry *kmlMultiGeo `xml:"MultiGeometry"`
}

type kmlCoords struct {
	Coordinates string `xml:"coordinates"`
}

type kmlMultiGeo struct {
	Points      []kmlCoords `xml:"Point"`
	LineStrings []kmlCoords `xml:"LineString"`
}

// gx:Track, matched by local name
type kmlTrack struct {
	When   []string `xml:"when"`
	Coords []string `xml:"coord"`
}

type kmlReader struct {
	index int
}

// tuple parses "lon,lat[,alt]"
func (r *kmlReader) tuple(s string, sep string) (orb.Point, error) {
	i := r.index
	r.index++

	parts := strings.Split(strings.TrimSpace(s), sep)
	if len(parts) < 2 {
		return orb.Point{}, fmt.Errorf("invalid coordinates at point %d", i)
	}

	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if lonErr != nil || latErr != nil {
		return orb.Point{}, fmt.Errorf("invalid coordinates at point %d", i)
	}

	return newPoint(i, lon, lat)
}

func (r *kmlReader) coordinates(raw string) (orb.LineString, error) {
	fields := strings.Fields(raw)
	line := make(orb.LineString, 0, len(fields))
	for _, f := range fields {
		pt, err := r.tuple(f, ",")
		if err != nil {
			return nil, err
		}
		line = append(line, pt)
	}
	return line, nil
}

func (r *kmlReader) placemark(pm kmlPlacemark) (*geojson.Feature, error) {
	var f *geojson.Feature

	switch {
	case pm.LineString != nil:
		line, err := r.coordinates(pm.LineString.Coordinates)
		if err != nil {
			return nil, err
		}
		if len(line) == 0 {
			return nil, nil
		}
		f = geojson.NewFeature(line)

	case pm.Track != nil:
		line := make(orb.LineString, 0, len(pm.Track.Coords))
		for _, c := range pm.Track.Coords {
			// gx:coord is space separated
			pt, err := r.tuple(strings.Join(strings.Fields(c), " "), " ")
			if err != nil {
				return nil, err
			}
			line = append(line, pt)
		}
		if len(line) == 0 {
			return nil, nil
		}
		f = geojson.NewFeature(line)
		if len(pm.Track.When) == len(line) {
			f.Properties["coordTimes"] = pm.Track.When
		}

	case pm.MultiGeometry != nil:
		var lines orb.MultiLineString
		for _, ls := range pm.MultiGeometry.LineStrings {
			line, err := r.coordinates(ls.Coordinates)
			if err != nil {
				return nil, err
			}
			if len(line) > 0 {
				lines = append(lines, line)
			}
		}

		var points orb.MultiPoint
		for _, p := range pm.MultiGeometry.Points {
			pts, err := r.coordinates(p.Coordinates)
			if err != nil {
				return nil, err
			}
			points = append(points, pts...)
		}

		switch {
		case len(lines) == 1:
			f = geojson.NewFeature(lines[0])
		case len(lines) > 1:
			f = geojson.NewFeature(lines)
		case len(points) > 0:
			f = geojson.NewFeature(points)
		default:
			return nil, nil
		}

	case pm.Point != nil:
		pts, err := r.coordinates(pm.Point.Coordinates)
		if err != nil {
			return nil, err
		}
		if len(pts) == 0 {
			return nil, nil
		}
		f = geojson.NewFeature(pts[0])

	default:
		return nil, nil
	}

	setIfPresent(f.Properties, "name", pm.Name)
	setIfPresent(f.Properties, "description", pm.Description)
	setIfPresent(f.Properties, "timestamp", pm.When)

	return f, nil
}

// KMLToGeoJSON converts every Placemark of a KML document, at any folder depth, into a feature
func KMLToGeoJSON(r io.Reader) (*geojson.FeatureCollection, error) {
	decoder := xml.NewDecoder(r)
	reader := &kmlReader{}
	fc := geojson.NewFeatureCollection()

	sawRoot := false
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode kml: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		if !sawRoot {
			if start.Name.Local != "kml" {
				return nil, fmt.Errorf("decode kml: unexpected root element <%s>", start.Name.Local)
			}
			sawRoot = true
			continue
		}

		if start.Name.Local != "Placemark" {
			continue
		}

		var pm kmlPlacemark
		if err := decoder.DecodeElement(&pm, &start); err != nil {
			return nil, fmt.Errorf("decode kml placemark: %w", err)
		}

		f, err := reader.placemark(pm)
		if err != nil {
			return nil, err
		}
		if f != nil {
			fc.Append(f)
		}
	}

	if !sawRoot {
		return nil, errors.New("decode kml: empty document")
	}

	return fc, nil
}
