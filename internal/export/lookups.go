package export

import "commute-route-service/internal/domain"

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RouteCoords is what the dashboard needs to draw one commute.
// Start and End are [lat, lng]; Route is nil when no path was resolved.
type RouteCoords struct {
	Start *[2]float64  `json:"start"`
	End   *[2]float64  `json:"end"`
	Route [][2]float64 `json:"route"`
}

// EmployeeCoords maps employee number to coordinates for every geocoded
// employee. Later rows overwrite earlier ones, so an employee whose last row
// has no coordinate is absent, matching EmployeeDataset.Lookup.
func EmployeeCoords(ds *domain.EmployeeDataset) map[int]LatLng {
	out := make(map[int]LatLng, len(ds.Records))
	for _, r := range ds.Records {
		if r.Coordinate == nil {
			delete(out, r.EmployeeNumber)
			continue
		}
		out[r.EmployeeNumber] = LatLng{Lat: r.Coordinate.Lat, Lng: r.Coordinate.Lng}
	}
	return out
}

// CommuteCoords maps employee number to endpoints and route for every commute.
func CommuteCoords(ds *domain.CommuteDataset) map[int]RouteCoords {
	out := make(map[int]RouteCoords, len(ds.Records))
	for _, r := range ds.Records {
		out[r.EmployeeNumber] = routeCoords(r)
	}
	return out
}

func routeCoords(r domain.CommuteRecord) RouteCoords {
	var rc RouteCoords
	if r.Start != nil {
		s := r.Start.LatLngPair()
		rc.Start = &s
	}
	if r.End != nil {
		e := r.End.LatLngPair()
		rc.End = &e
	}
	if len(r.RoutePath) > 0 {
		rc.Route = pairs(r.RoutePath)
	}
	return rc
}

func pairs(path []domain.GeoPoint) [][2]float64 {
	out := make([][2]float64, 0, len(path))
	for _, p := range path {
		out = append(out, p.LatLngPair())
	}
	return out
}
