package geo

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGPXToGeoJSON(t *testing.T) {
	f, err := os.Open("testdata/ride.gpx")
	require.NoError(t, err)
	defer f.Close()

	fc, err := GPXToGeoJSON(f)
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)

	feature := fc.Features[0]
	line, ok := feature.Geometry.(orb.LineString)
	require.True(t, ok)
	require.Len(t, line, 8)

	// [lon, lat]
	assert.Equal(t, orb.Point{-104.9851, 39.7327}, line[0])
	assert.Equal(t, orb.Point{-104.9846, 39.7327}, line[7])

	assert.Equal(t, "Morning Ride", feature.Properties["name"])
	assert.Equal(t, "trk", feature.Properties["_gpxType"])
	assert.Equal(t, "2025-07-05T13:04:11Z", feature.Properties["time"])
	times, ok := feature.Properties["coordTimes"].([]string)
	require.True(t, ok)
	assert.Len(t, times, 8)
	assert.Equal(t, "2025-07-05T13:05:21Z", times[7])

	// serializes as standard GeoJSON
	fcJson, err := json.Marshal(fc)
	require.NoError(t, err)
	assert.Contains(t, string(fcJson), `"type":"FeatureCollection"`)
	assert.Contains(t, string(fcJson), `"type":"LineString"`)
	assert.Contains(t, string(fcJson), `[-104.9851,39.7327]`)

	decoded, err := geojson.UnmarshalFeatureCollection(fcJson)
	require.NoError(t, err)
	assert.Equal(t, line, decoded.Features[0].Geometry)
}

func TestGPXToGeoJSON_MultipleSegmentsRoutesAndWaypoints(t *testing.T) {
	gpx := `<gpx xmlns="http://www.topografix.com/GPX/1/1">
  <wpt lat="39.7" lon="-104.9"><name>Coffee</name></wpt>
  <trk>
    <trkseg>
      <trkpt lat="39.70" lon="-104.90"/>
      <trkpt lat="39.71" lon="-104.90"/>
    </trkseg>
    <trkseg></trkseg>
    <trkseg>
      <trkpt lat="39.72" lon="-104.90"/>
      <trkpt lat="39.73" lon="-104.90"/>
    </trkseg>
  </trk>
  <rte>
    <name>Planned</name>
    <rtept lat="39.70" lon="-104.91"/>
    <rtept lat="39.71" lon="-104.91"/>
  </rte>
</gpx>`

	fc, err := GPXToGeoJSON(strings.NewReader(gpx))
	require.NoError(t, err)
	require.Len(t, fc.Features, 3)

	multi, ok := fc.Features[0].Geometry.(orb.MultiLineString)
	require.True(t, ok)
	assert.Len(t, multi, 2)
	assert.NotContains(t, fc.Features[0].Properties, "coordTimes")

	rte, ok := fc.Features[1].Geometry.(orb.LineString)
	require.True(t, ok)
	assert.Len(t, rte, 2)
	assert.Equal(t, "Planned", fc.Features[1].Properties["name"])
	assert.Equal(t, "rte", fc.Features[1].Properties["_gpxType"])

	wpt, ok := fc.Features[2].Geometry.(orb.Point)
	require.True(t, ok)
	assert.Equal(t, orb.Point{-104.9, 39.7}, wpt)
	assert.Equal(t, "Coffee", fc.Features[2].Properties["name"])

	assert.Len(t, LineFeatures(fc), 2)
	assert.Equal(t, 6, CountPoints(fc))
}

func TestGPXToGeoJSON_InvalidCoordinates(t *testing.T) {
	gpx := `<gpx><trk><trkseg>
      <trkpt lat="39.70" lon="-104.90"/>
      <trkpt lat="39.71" lon="-104.90"/>
      <trkpt lat="" lon="-104.90"/>
    </trkseg></trk></gpx>`

	fc, err := GPXToGeoJSON(strings.NewReader(gpx))
	require.EqualError(t, err, "invalid coordinates at point 2")
	assert.Nil(t, fc)
}

func TestGPXToGeoJSON_NonFiniteAndOutOfRange(t *testing.T) {
	for _, tc := range []struct {
		name string
		lat  string
		lon  string
	}{
		{name: "nan lat", lat: "NaN", lon: "-104.9"},
		{name: "inf lon", lat: "39.7", lon: "Inf"},
		{name: "plus inf lat", lat: "+Inf", lon: "-104.9"},
		{name: "lat above 90", lat: "90.5", lon: "-104.9"},
		{name: "lon below -180", lat: "39.7", lon: "-180.1"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			gpx := `<gpx><trk><trkseg>
      <trkpt lat="39.70" lon="-104.90"/>
      <trkpt lat="` + tc.lat + `" lon="` + tc.lon + `"/>
    </trkseg></trk></gpx>`

			fc, err := GPXToGeoJSON(strings.NewReader(gpx))
			require.EqualError(t, err, "invalid coordinates at point 1")
			assert.Nil(t, fc)
		})
	}

	// the bounds themselves are valid
	fc, err := GPXToGeoJSON(strings.NewReader(`<gpx><trk><trkseg>
      <trkpt lat="-90" lon="-180"/>
      <trkpt lat="90" lon="180"/>
    </trkseg></trk></gpx>`))
	require.NoError(t, err)
	assert.Equal(t, 2, CountPoints(fc))
}

func TestGPXToGeoJSON_Malformed(t *testing.T) {
	fc, err := GPXToGeoJSON(strings.NewReader("<gpx><trk>"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode gpx")
	assert.Nil(t, fc)
}
