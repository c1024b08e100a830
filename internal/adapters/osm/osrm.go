package osm

import (
	"commute-route-service/internal/domain"
	"commute-route-service/internal/platform/obs"
	"commute-route-service/internal/ports"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry *struct {
			Type        string       `json:"type"`
			Coordinates [][2]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// OSRMRouteProvider implements ports.RouteProvider for one OSRM /route/v1 endpoint.
// It never retries; fallback across endpoints is the caller's job.
type OSRMRouteProvider struct {
	client
	name    string
	baseURL string
	profile string
}

func NewOSRMRouteProvider(name, baseURL string, timeout time.Duration) (*OSRMRouteProvider, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("osrm base url is empty")
	}

	return &OSRMRouteProvider{
		client:  client{session: &http.Client{Timeout: timeout}},
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: "driving",
	}, nil
}

func (o *OSRMRouteProvider) Name() string { return o.name }

func formatCoord(p domain.GeoPoint) string {
	return strconv.FormatFloat(p.Lng, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lat, 'f', -1, 64)
}

// Route requests the fastest driving route. With geometry, the full path is
// returned converted from the wire's [lon, lat] order.
func (o *OSRMRouteProvider) Route(
	ctx context.Context,
	start domain.GeoPoint,
	end domain.GeoPoint,
	geometry bool,
) (_ ports.RouteLeg, err error) {
	defer obs.Time(ctx, "osrm.Route."+o.name)(&err)

	endpoint := fmt.Sprintf("%s/route/v1/%s/%s;%s", o.baseURL, o.profile, formatCoord(start), formatCoord(end))

	req, err := o.newRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		return ports.RouteLeg{}, fmt.Errorf("osrm route request: %w", err)
	}
	q := req.URL.Query()
	if geometry {
		q.Set("overview", "full")
	} else {
		q.Set("overview", "false")
	}
	q.Set("geometries", "geojson")
	req.URL.RawQuery = q.Encode()

	resp, err := o.do(req)
	if err != nil {
		return ports.RouteLeg{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.RouteLeg{}, fmt.Errorf("decode route response: %w", err)
	}

	if len(decoded.Routes) == 0 {
		return ports.RouteLeg{}, fmt.Errorf("no routes returned (code=%q)", decoded.Code)
	}
	best := decoded.Routes[0]

	leg := ports.RouteLeg{
		DistanceMeters:  best.Distance,
		DurationSeconds: best.Duration,
	}

	if geometry {
		if best.Geometry == nil || len(best.Geometry.Coordinates) < 2 {
			return ports.RouteLeg{}, errors.New("route geometry has fewer than 2 points")
		}

		path := make([]domain.GeoPoint, 0, len(best.Geometry.Coordinates))
		for i, c := range best.Geometry.Coordinates {
			p, err := domain.NewGeoPoint(c[1], c[0])
			if err != nil {
				return ports.RouteLeg{}, fmt.Errorf("route geometry point %d: %w", i, err)
			}
			path = append(path, p)
		}
		leg.Geometry = path
	}

	return leg, nil
}
