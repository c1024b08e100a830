package export

import (
	"commute-route-service/internal/domain"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// CommutesFeatureCollection builds one LineString feature per commute that has
// a route path. Coordinates are [lng, lat]; absent summaries are null.
func CommutesFeatureCollection(ds *domain.CommuteDataset) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range ds.Records {
		if len(r.RoutePath) < 2 {
			continue
		}

		line := make(orb.LineString, 0, len(r.RoutePath))
		for _, p := range r.RoutePath {
			line = append(line, orb.Point(p.LngLatPair()))
		}

		f := geojson.NewFeature(line)
		f.Properties["employee_number"] = r.EmployeeNumber
		f.Properties["start_postcode"] = r.StartPostcode
		f.Properties["end_postcode"] = r.EndPostcode
		f.Properties["distance_miles"] = nullable(r.DistanceMiles)
		f.Properties["duration_hours"] = nullable(r.DurationHours)
		fc.Append(f)
	}
	return fc
}

func nullable(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// CommutesGeoJSON is the encoded CommutesFeatureCollection.
func CommutesGeoJSON(ds *domain.CommuteDataset) ([]byte, error) {
	b, err := CommutesFeatureCollection(ds).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("marshal geojson: %w", err)
	}
	return b, nil
}
