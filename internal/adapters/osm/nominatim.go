package osm

import (
	"commute-route-service/internal/domain"
	"commute-route-service/internal/platform/obs"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
)

type searchResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// NominatimGeocoder implements ports.Geocoder against a Nominatim /search endpoint.
// Every query is qualified with a fixed country so short postcodes resolve
// inside the expected region.
type NominatimGeocoder struct {
	client
	baseURL string
	country string
}

func NewNominatimGeocoder(baseURL, country, userAgent string, timeout time.Duration) (*NominatimGeocoder, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("nominatim base url is empty")
	}
	if strings.TrimSpace(userAgent) == "" {
		return nil, errors.New("nominatim user agent is empty")
	}

	return &NominatimGeocoder{
		client: client{
			session:   &http.Client{Timeout: timeout},
			userAgent: userAgent,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		country: strings.TrimSpace(country),
	}, nil
}

// Geocode issues exactly one search request for query.
func (n *NominatimGeocoder) Geocode(ctx context.Context, query string) (_ domain.GeoPoint, err error) {
	defer obs.Time(ctx, "nominatim.Geocode")(&err)

	text := strings.TrimSpace(query)
	if text == "" {
		return domain.GeoPoint{}, domain.ErrGeocodeNotFound
	}
	if n.country != "" {
		text = text + ", " + n.country
	}

	req, err := n.newRequest(ctx, http.MethodGet, n.baseURL+"/search")
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("geocode %q: %w: %v", query, domain.ErrGeocodeUnavailable, err)
	}
	q := req.URL.Query()
	q.Set("q", text)
	q.Set("format", "jsonv2")
	q.Set("limit", "1")
	req.URL.RawQuery = q.Encode()

	resp, err := n.do(req)
	if err != nil {
		if isTimeout(err) {
			return domain.GeoPoint{}, fmt.Errorf("geocode %q: %w", query, domain.ErrGeocodeTimeout)
		}
		return domain.GeoPoint{}, fmt.Errorf("geocode %q: %w: %v", query, domain.ErrGeocodeUnavailable, err)
	}
	defer resp.Body.Close()

	var decoded []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		if isTimeout(err) {
			return domain.GeoPoint{}, fmt.Errorf("geocode %q: %w", query, domain.ErrGeocodeTimeout)
		}
		return domain.GeoPoint{}, fmt.Errorf("geocode %q: decode response: %w: %v", query, domain.ErrGeocodeUnavailable, err)
	}

	if len(decoded) == 0 {
		return domain.GeoPoint{}, fmt.Errorf("geocode %q: %w", query, domain.ErrGeocodeNotFound)
	}

	lat, errLat := strconv.ParseFloat(decoded[0].Lat, 64)
	lng, errLng := strconv.ParseFloat(decoded[0].Lon, 64)
	if errLat != nil || errLng != nil {
		return domain.GeoPoint{}, fmt.Errorf("geocode %q: invalid coordinate format: %w", query, domain.ErrGeocodeNotFound)
	}

	p, err := domain.NewGeoPoint(lat, lng)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("geocode %q: %v: %w", query, err, domain.ErrGeocodeNotFound)
	}

	return p, nil
}
