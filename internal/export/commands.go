package export

import (
	"commute-route-service/internal/domain"

	"github.com/golang/geo/s2"
)

const DefaultZoom = 13

const (
	ActionFlyTo     = "flyTo"
	ActionShowRoute = "showRoute"
	ActionFitBounds = "fitBounds"
)

// MapCommand is a message to the map view. Which fields are set depends on Action:
//
//	{"action":"flyTo","lat":..,"lng":..,"zoom":..}
//	{"action":"showRoute","route":[[lat,lng],...]}
//	{"action":"showRoute","start":[lat,lng],"end":[lat,lng]}
//	{"action":"fitBounds","points":[[lat,lng],...]}
type MapCommand struct {
	Action string       `json:"action"`
	Lat    *float64     `json:"lat,omitempty"`
	Lng    *float64     `json:"lng,omitempty"`
	Zoom   int          `json:"zoom,omitempty"`
	Route  [][2]float64 `json:"route,omitempty"`
	Start  *[2]float64  `json:"start,omitempty"`
	End    *[2]float64  `json:"end,omitempty"`
	Points [][2]float64 `json:"points,omitempty"`
}

func FlyTo(p domain.GeoPoint, zoom int) MapCommand {
	lat, lng := p.Lat, p.Lng
	return MapCommand{Action: ActionFlyTo, Lat: &lat, Lng: &lng, Zoom: zoom}
}

// ShowRoute draws the resolved path, or a straight segment between the
// endpoints when there is none. ok is false when neither is available.
func ShowRoute(r domain.CommuteRecord) (MapCommand, bool) {
	if len(r.RoutePath) >= 2 {
		return MapCommand{Action: ActionShowRoute, Route: pairs(r.RoutePath)}, true
	}
	if r.Start == nil || r.End == nil {
		return MapCommand{}, false
	}
	s, e := r.Start.LatLngPair(), r.End.LatLngPair()
	return MapCommand{Action: ActionShowRoute, Start: &s, End: &e}, true
}

func FitBounds(points []domain.GeoPoint) MapCommand {
	return MapCommand{Action: ActionFitBounds, Points: pairs(points)}
}

// Overview fits the map to the bounding box of points, given as its
// south-west and north-east corners. ok is false for no points.
func Overview(points []domain.GeoPoint) (MapCommand, bool) {
	rect := s2.EmptyRect()
	for _, p := range points {
		rect = rect.AddPoint(p.LatLng())
	}
	if rect.IsEmpty() {
		return MapCommand{}, false
	}

	lo, hi := rect.Lo(), rect.Hi()
	return FitBounds([]domain.GeoPoint{
		{Lat: lo.Lat.Degrees(), Lng: lo.Lng.Degrees()},
		{Lat: hi.Lat.Degrees(), Lng: hi.Lng.Degrees()},
	}), true
}

// EmployeePoints returns every resolved employee coordinate in dataset order.
func EmployeePoints(ds *domain.EmployeeDataset) []domain.GeoPoint {
	var out []domain.GeoPoint
	for _, r := range ds.Records {
		if r.Coordinate != nil {
			out = append(out, *r.Coordinate)
		}
	}
	return out
}

// CommutePoints returns every resolved commute endpoint in dataset order.
func CommutePoints(ds *domain.CommuteDataset) []domain.GeoPoint {
	var out []domain.GeoPoint
	for _, r := range ds.Records {
		if r.Start != nil {
			out = append(out, *r.Start)
		}
		if r.End != nil {
			out = append(out, *r.End)
		}
	}
	return out
}
