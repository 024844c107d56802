package geo

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/simplify"
)

// DefaultSimplifyTolerance is in degrees
const DefaultSimplifyTolerance = 0.0000001

type SimplifyResult struct {
	Collection   *geojson.FeatureCollection
	PointsBefore int
	PointsAfter  int
}

func (r SimplifyResult) PointsRemoved() int {
	return r.PointsBefore - r.PointsAfter
}

// Simplify runs Douglas-Peucker over the collection's single line feature.
// The input collection is left untouched; non-line features are copied as they are.
func Simplify(fc *geojson.FeatureCollection, tolerance float64) (*SimplifyResult, error) {
	if _, err := Points(fc); err != nil {
		return nil, fmt.Errorf("before simplify: %w", err)
	}
	if tolerance <= 0 {
		tolerance = DefaultSimplifyTolerance
	}

	simplifier := simplify.DouglasPeucker(tolerance)

	out := geojson.NewFeatureCollection()
	out.BBox = fc.BBox
	for k, v := range fc.ExtraMembers {
		if out.ExtraMembers == nil {
			out.ExtraMembers = geojson.Properties{}
		}
		out.ExtraMembers[k] = v
	}

	for _, f := range fc.Features {
		geometry := orb.Clone(f.Geometry)
		if isLine(geometry) {
			geometry = simplifier.Simplify(geometry)
		}

		nf := geojson.NewFeature(geometry)
		nf.ID = f.ID
		nf.Properties = f.Properties.Clone()
		if isLine(geometry) {
			// timestamps no longer line up with the remaining points
			delete(nf.Properties, "coordTimes")
		}
		out.Append(nf)
	}

	if n := len(LineFeatures(out)); n != 1 {
		return nil, fmt.Errorf("after simplify: %w, got %d", ErrUnexpectedFeatureCount, n)
	}

	return &SimplifyResult{
		Collection:   out,
		PointsBefore: CountPoints(fc),
		PointsAfter:  CountPoints(out),
	}, nil
}
