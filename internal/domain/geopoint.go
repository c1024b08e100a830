package domain

import (
	"fmt"
	"math"

	"github.com/golang/geo/s2"
)

// Immutable geographic coordinates (latitude, longitude) in degrees.
type GeoPoint struct {
	Lat float64
	Lng float64
}

// NewGeoPoint validates the pair before returning it.
func NewGeoPoint(lat, lng float64) (GeoPoint, error) {
	p := GeoPoint{Lat: lat, Lng: lng}
	if !p.Valid() {
		return GeoPoint{}, fmt.Errorf("invalid coordinates lat=%v lng=%v", lat, lng)
	}
	return p, nil
}

// Valid reports whether both values are finite and inside the WGS84 ranges.
func (p GeoPoint) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.LatLng().IsValid()
}

func (p GeoPoint) LatLng() s2.LatLng { return s2.LatLngFromDegrees(p.Lat, p.Lng) }

// Return the point as [lat, lng], the order used by map clients.
func (p GeoPoint) LatLngPair() [2]float64 { return [2]float64{p.Lat, p.Lng} }

// Return the point as [lng, lat] for GeoJSON and OSRM compatibility.
func (p GeoPoint) LngLatPair() [2]float64 { return [2]float64{p.Lng, p.Lat} }

// Key renders the point with fixed precision for use in cache keys.
func (p GeoPoint) Key() string { return fmt.Sprintf("%.6f,%.6f", p.Lat, p.Lng) }
