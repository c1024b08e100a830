package domain

import (
	"encoding/json"
	"fmt"
	"math"
)

const (
	metersPerMile  = 1609.344
	secondsPerHour = 3600.0
)

// Represents a resolved driving route between two points.
// Path is ordered from start to end and is nil when only a summary was requested.
type Route struct {
	Path          []GeoPoint
	DistanceMiles float64
	DurationHours float64
}

func (r Route) HasPath() bool { return len(r.Path) >= 2 }

// MetersToMiles converts and rounds to two decimals.
func MetersToMiles(m float64) float64 { return round2(m / metersPerMile) }

// SecondsToHours converts and rounds to two decimals.
func SecondsToHours(s float64) float64 { return round2(s / secondsPerHour) }

func round2(v float64) float64 { return math.Round(v*100) / 100 }

// EncodePath renders a path as a JSON array of [lat, lng] pairs.
// This is the only textual form a path takes outside memory.
func EncodePath(path []GeoPoint) (string, error) {
	pairs := make([][2]float64, 0, len(path))
	for _, p := range path {
		pairs = append(pairs, p.LatLngPair())
	}

	b, err := json.Marshal(pairs)
	if err != nil {
		return "", fmt.Errorf("encode path: %w", err)
	}
	return string(b), nil
}

// DecodePath parses the output of EncodePath.
func DecodePath(s string) ([]GeoPoint, error) {
	var pairs [][2]float64
	if err := json.Unmarshal([]byte(s), &pairs); err != nil {
		return nil, fmt.Errorf("decode path: %w", err)
	}

	path := make([]GeoPoint, 0, len(pairs))
	for i, pr := range pairs {
		p, err := NewGeoPoint(pr[0], pr[1])
		if err != nil {
			return nil, fmt.Errorf("decode path: point %d: %w", i, err)
		}
		path = append(path, p)
	}
	return path, nil
}
