// Package geo converts route path data into GeoJSON and validates and
// simplifies the resulting point sequences.
//
// Coordinates are kept in GeoJSON order, [lon, lat].
package geo

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var (
	ErrNotEnoughPoints        = errors.New("not enough points")
	ErrUnexpectedFeatureCount = errors.New("expected exactly one line feature")
	ErrUnsupportedFormat      = errors.New("unsupported path format")
)

type Format string

const (
	FormatGPX Format = "gpx"
	FormatKML Format = "kml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatGPX, FormatKML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
	}
}

// ConvertPathData converts raw route path data in the given format into a FeatureCollection
func ConvertPathData(format Format, data []byte) (*geojson.FeatureCollection, error) {
	switch format {
	case FormatGPX:
		return GPXToGeoJSON(strings.NewReader(string(data)))
	case FormatKML:
		return KMLToGeoJSON(strings.NewReader(string(data)))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// newPoint rejects non-finite and out of range coordinates
func newPoint(i int, lon, lat float64) (orb.Point, error) {
	if math.IsNaN(lon) || math.IsNaN(lat) || math.IsInf(lon, 0) || math.IsInf(lat, 0) ||
		lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return orb.Point{}, fmt.Errorf("invalid coordinates at point %d", i)
	}
	return orb.Point{lon, lat}, nil
}

func isLine(g orb.Geometry) bool {
	switch g.(type) {
	case orb.LineString, orb.MultiLineString:
		return true
	}
	return false
}

// LineFeatures returns the features carrying a LineString or MultiLineString geometry
func LineFeatures(fc *geojson.FeatureCollection) []*geojson.Feature {
	if fc == nil {
		return nil
	}

	var lines []*geojson.Feature
	for _, f := range fc.Features {
		if f != nil && isLine(f.Geometry) {
			lines = append(lines, f)
		}
	}
	return lines
}

// Points returns the point sequence of the collection's single line feature.
// Segments of a MultiLineString are joined in order.
func Points(fc *geojson.FeatureCollection) (orb.LineString, error) {
	lines := LineFeatures(fc)
	if len(lines) != 1 {
		return nil, fmt.Errorf("%w, got %d", ErrUnexpectedFeatureCount, len(lines))
	}

	var points orb.LineString
	switch g := lines[0].Geometry.(type) {
	case orb.LineString:
		points = g
	case orb.MultiLineString:
		for _, segment := range g {
			points = append(points, segment...)
		}
	}

	if len(points) < 2 {
		return nil, fmt.Errorf("%w: line has %d", ErrNotEnoughPoints, len(points))
	}

	return points, nil
}

// CountPoints returns the number of points of all line features in the collection
func CountPoints(fc *geojson.FeatureCollection) int {
	count := 0
	for _, f := range LineFeatures(fc) {
		switch g := f.Geometry.(type) {
		case orb.LineString:
			count += len(g)
		case orb.MultiLineString:
			for _, segment := range g {
				count += len(segment)
			}
		}
	}
	return count
}
