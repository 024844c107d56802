package workouts

import (
	"math"
	"strconv"
)

const (
	MetersToMiles = 0.000621371
	MetersToFeet  = 3.28084

	NoLayersSelectedMessage = "No data layers selected! Select some!"
)

type Stats struct {
	NumRoutes          int     `json:"numRoutes"`
	TotalDistanceMiles float64 `json:"totalDistanceMiles"`
	LongestRouteMiles  float64 `json:"longestRouteMiles"`
	Empty              bool    `json:"empty"`
	Message            string  `json:"message,omitempty"`
}

// Round rounds v to the given number of decimal places
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// FormatRounded renders v rounded to places without trailing zeros
func FormatRounded(v float64, places int) string {
	return strconv.FormatFloat(Round(v, places), 'f', -1, 64)
}

// ComputeStats aggregates route distances given in meters
func ComputeStats(distancesMeters []float64) Stats {
	if len(distancesMeters) == 0 {
		return Stats{Empty: true, Message: NoLayersSelectedMessage}
	}

	var total, longest float64
	for _, d := range distancesMeters {
		total += d
		if d > longest {
			longest = d
		}
	}

	return Stats{
		NumRoutes:          len(distancesMeters),
		TotalDistanceMiles: Round(total*MetersToMiles, 1),
		LongestRouteMiles:  Round(longest*MetersToMiles, 1),
	}
}

func ComputeRecordStats(records []*CustomWorkout) Stats {
	distances := make([]float64, 0, len(records))
	for _, r := range records {
		distances = append(distances, r.DistanceMeters())
	}
	return ComputeStats(distances)
}
