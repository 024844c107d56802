package geo

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type gpxDoc struct {
	XMLName   xml.Name   `xml:"gpx"`
	Metadata  gpxMeta    `xml:"metadata"`
	Tracks    []gpxTrack `xml:"trk"`
	Routes    []gpxRoute `xml:"rte"`
	Waypoints []gpxPoint `xml:"wpt"`
}

type gpxMeta struct {
	Name string `xml:"name"`
	Time string `xml:"time"`
}

type gpxTrack struct {
	Name     string       `xml:"name"`
	Desc     string       `xml:"desc"`
	Type     string       `xml:"type"`
	Segments []gpxSegment `xml:"trkseg"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxRoute struct {
	Name   string     `xml:"name"`
	Desc   string     `xml:"desc"`
	Points []gpxPoint `xml:"rtept"`
}

type gpxPoint struct {
	Lat  string `xml:"lat,attr"`
	Lon  string `xml:"lon,attr"`
	Time string `xml:"time"`
	Name string `xml:"name"`
}

// gpxReader parses points keeping a running index for error messages
type gpxReader struct {
	index int
}

func (r *gpxReader) point(p gpxPoint) (orb.Point, error) {
	i := r.index
	r.index++

	lat, latErr := strconv.ParseFloat(strings.TrimSpace(p.Lat), 64)
	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(p.Lon), 64)
	if latErr != nil || lonErr != nil {
		return orb.Point{}, fmt.Errorf("invalid coordinates at point %d", i)
	}

	return newPoint(i, lon, lat)
}

// line parses the points and returns them along with their timestamps,
// times is nil unless every point carries one
func (r *gpxReader) line(points []gpxPoint) (orb.LineString, []string, error) {
	line := make(orb.LineString, 0, len(points))
	times := make([]string, 0, len(points))
	for _, p := range points {
		pt, err := r.point(p)
		if err != nil {
			return nil, nil, err
		}
		line = append(line, pt)
		if t := strings.TrimSpace(p.Time); t != "" {
			times = append(times, t)
		}
	}

	if len(times) != len(line) {
		times = nil
	}
	return line, times, nil
}

// GPXToGeoJSON converts a GPX document into a FeatureCollection.
// Tracks come first, then routes, then waypoints.
func GPXToGeoJSON(r io.Reader) (*geojson.FeatureCollection, error) {
	var doc gpxDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode gpx: %w", err)
	}

	reader := &gpxReader{}
	fc := geojson.NewFeatureCollection()

	for _, trk := range doc.Tracks {
		var segments orb.MultiLineString
		var segmentTimes [][]string
		for _, seg := range trk.Segments {
			line, times, err := reader.line(seg.Points)
			if err != nil {
				return nil, err
			}
			if len(line) == 0 {
				continue
			}
			segments = append(segments, line)
			segmentTimes = append(segmentTimes, times)
		}
		if len(segments) == 0 {
			continue
		}

		var f *geojson.Feature
		if len(segments) == 1 {
			f = geojson.NewFeature(segments[0])
			if segmentTimes[0] != nil {
				f.Properties["coordTimes"] = segmentTimes[0]
			}
		} else {
			f = geojson.NewFeature(segments)
			if allPresent(segmentTimes) {
				f.Properties["coordTimes"] = segmentTimes
			}
		}

		f.Properties["_gpxType"] = "trk"
		setIfPresent(f.Properties, "name", trk.Name)
		setIfPresent(f.Properties, "desc", trk.Desc)
		setIfPresent(f.Properties, "type", trk.Type)
		setIfPresent(f.Properties, "time", doc.Metadata.Time)
		fc.Append(f)
	}

	for _, rte := range doc.Routes {
		line, times, err := reader.line(rte.Points)
		if err != nil {
			return nil, err
		}
		if len(line) == 0 {
			continue
		}

		f := geojson.NewFeature(line)
		f.Properties["_gpxType"] = "rte"
		setIfPresent(f.Properties, "name", rte.Name)
		setIfPresent(f.Properties, "desc", rte.Desc)
		if times != nil {
			f.Properties["coordTimes"] = times
		}
		fc.Append(f)
	}

	for _, wpt := range doc.Waypoints {
		pt, err := reader.point(wpt)
		if err != nil {
			return nil, err
		}

		f := geojson.NewFeature(pt)
		setIfPresent(f.Properties, "name", wpt.Name)
		setIfPresent(f.Properties, "time", wpt.Time)
		fc.Append(f)
	}

	return fc, nil
}

func setIfPresent(props geojson.Properties, key, val string) {
	if val = strings.TrimSpace(val); val != "" {
		props[key] = val
	}
}

func allPresent(times [][]string) bool {
	for _, t := range times {
		if t == nil {
			return false
		}
	}
	return true
}
