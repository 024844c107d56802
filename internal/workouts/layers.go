package workouts

import (
	"fmt"
	"strings"

	"github.com/2beens/ridesmap/internal/mapmyride"
)

// Layer is a display category grouping activity names
type Layer struct {
	Key        string                   `json:"key"`
	Name       string                   `json:"name"`
	Activities []mapmyride.ActivityName `json:"activities"`
}

var Layers = []Layer{
	{
		Key:        "bike",
		Name:       "Bike Records",
		Activities: []mapmyride.ActivityName{mapmyride.ActivityBikeRide},
	},
	{
		Key:        "walk",
		Name:       "Walk Records",
		Activities: []mapmyride.ActivityName{mapmyride.ActivityRun, mapmyride.ActivityWalk},
	},
}

func (l Layer) ActivityStrings() []string {
	names := make([]string, 0, len(l.Activities))
	for _, a := range l.Activities {
		names = append(names, string(a))
	}
	return names
}

func (l Layer) Contains(name mapmyride.ActivityName) bool {
	for _, a := range l.Activities {
		if a == name {
			return true
		}
	}
	return false
}

func LayerFor(name mapmyride.ActivityName) (Layer, bool) {
	for _, l := range Layers {
		if l.Contains(name) {
			return l, true
		}
	}
	return Layer{}, false
}

func LayerByKey(key string) (Layer, bool) {
	for _, l := range Layers {
		if l.Key == key {
			return l, true
		}
	}
	return Layer{}, false
}

// ParseLayerKeys parses a comma separated list of layer keys, dropping duplicates
func ParseLayerKeys(keys []string) ([]Layer, error) {
	var layers []Layer
	seen := make(map[string]bool)
	for _, key := range keys {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" || seen[key] {
			continue
		}
		l, ok := LayerByKey(key)
		if !ok {
			return nil, fmt.Errorf("unknown layer: %s", key)
		}
		seen[key] = true
		layers = append(layers, l)
	}
	return layers, nil
}

// ActivitiesOf returns the activity names of all the given layers
func ActivitiesOf(layers []Layer) []string {
	var names []string
	for _, l := range layers {
		names = append(names, l.ActivityStrings()...)
	}
	return names
}
