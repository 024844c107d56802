package geo

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Flat-earth approximation, good enough for consecutive GPS samples
const (
	FeetPerDegreeLat          = 364000
	FeetPerDegreeLonAtEquator = 365000
)

const (
	DefaultMaxRouteDistanceFt    = 500
	DefaultMaxStartEndDistanceFt = 1000
)

type DistanceLimits struct {
	MaxRouteDistanceFt    float64
	MaxStartEndDistanceFt float64
}

func DefaultDistanceLimits() DistanceLimits {
	return DistanceLimits{
		MaxRouteDistanceFt:    DefaultMaxRouteDistanceFt,
		MaxStartEndDistanceFt: DefaultMaxStartEndDistanceFt,
	}
}

// ValidationError is returned when a route path fails a distance check
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// DistanceFeet returns the flat distance between two points in feet
func DistanceFeet(a, b orb.Point) float64 {
	avgLatRad := (a.Lat() + b.Lat()) / 2 * math.Pi / 180
	latFeet := (b.Lat() - a.Lat()) * FeetPerDegreeLat
	lonFeet := (b.Lon() - a.Lon()) * FeetPerDegreeLonAtEquator * math.Cos(avgLatRad)
	return math.Hypot(latFeet, lonFeet)
}

// MaxDistanceFeet finds the largest gap between consecutive points.
// The index is the one of the second point of the pair, -1 if all points coincide.
func MaxDistanceFeet(points orb.LineString) (maxDistance float64, maxIndex int, err error) {
	if len(points) < 2 {
		return 0, -1, fmt.Errorf("%w: got %d", ErrNotEnoughPoints, len(points))
	}

	maxIndex = -1
	for i := 1; i < len(points); i++ {
		if d := DistanceFeet(points[i-1], points[i]); d > maxDistance {
			maxDistance = d
			maxIndex = i
		}
	}

	return maxDistance, maxIndex, nil
}

// ValidatePointsDistance checks the start/end distance first, then the largest consecutive gap
func ValidatePointsDistance(points orb.LineString, limits DistanceLimits) error {
	if len(points) < 2 {
		return fmt.Errorf("%w: got %d", ErrNotEnoughPoints, len(points))
	}

	startEnd := DistanceFeet(points[0], points[len(points)-1])
	if startEnd > limits.MaxStartEndDistanceFt {
		return &ValidationError{
			Msg: fmt.Sprintf(
				"Start and End points are %.0f feet apart, exceeding limit of %g.",
				startEnd, limits.MaxStartEndDistanceFt,
			),
		}
	}

	maxDistance, maxIndex, err := MaxDistanceFeet(points)
	if err != nil {
		return err
	}
	if maxDistance > limits.MaxRouteDistanceFt {
		return &ValidationError{
			Msg: fmt.Sprintf(
				"Points %d and %d (out of %d) are %.0f feet apart, exceeding limit of %g.",
				maxIndex-1, maxIndex, len(points), maxDistance, limits.MaxRouteDistanceFt,
			),
		}
	}

	return nil
}
