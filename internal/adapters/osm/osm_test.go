package osm

import (
	"commute-route-service/internal/domain"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNominatimGeocodeFound(t *testing.T) {
	var gotQuery, gotAgent string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %q, want /search", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("q")
		gotAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat":"51.5014","lon":"-0.1419","display_name":"Buckingham Palace"}]`))
	}))
	defer srv.Close()

	g, err := NewNominatimGeocoder(srv.URL, "UK", "commute-test/1.0", time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p, err := g.Geocode(context.Background(), "SW1A 1AA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Lat != 51.5014 || p.Lng != -0.1419 {
		t.Fatalf("point = %+v", p)
	}
	if gotQuery != "SW1A 1AA, UK" {
		t.Fatalf("query = %q, want country qualifier", gotQuery)
	}
	if gotAgent != "commute-test/1.0" {
		t.Fatalf("user agent = %q", gotAgent)
	}
}

func TestNominatimGeocodeNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	g, _ := NewNominatimGeocoder(srv.URL, "UK", "commute-test/1.0", time.Second)
	_, err := g.Geocode(context.Background(), "INVALIDXYZ")
	if !errors.Is(err, domain.ErrGeocodeNotFound) {
		t.Fatalf("err = %v, want ErrGeocodeNotFound", err)
	}
}

func TestNominatimGeocodeTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	g, _ := NewNominatimGeocoder(srv.URL, "UK", "commute-test/1.0", 50*time.Millisecond)
	_, err := g.Geocode(context.Background(), "EC1A 1BB")
	if !errors.Is(err, domain.ErrGeocodeTimeout) {
		t.Fatalf("err = %v, want ErrGeocodeTimeout", err)
	}
}

func TestNominatimGeocodeServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g, _ := NewNominatimGeocoder(srv.URL, "UK", "commute-test/1.0", time.Second)
	_, err := g.Geocode(context.Background(), "EC1A 1BB")
	if !errors.Is(err, domain.ErrGeocodeUnavailable) {
		t.Fatalf("err = %v, want ErrGeocodeUnavailable", err)
	}
}

func TestOSRMRouteGeometry(t *testing.T) {
	var gotPath, gotOverview string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotOverview = r.URL.Query().Get("overview")
		w.Write([]byte(`{"code":"Ok","routes":[{"distance":5000,"duration":1000,
			"geometry":{"type":"LineString","coordinates":[[-0.0977,51.5201],[-0.12,51.51],[-0.1419,51.5014]]}}]}`))
	}))
	defer srv.Close()

	p, _ := NewOSRMRouteProvider("local", srv.URL, time.Second)
	start := domain.GeoPoint{Lat: 51.5201, Lng: -0.0977}
	end := domain.GeoPoint{Lat: 51.5014, Lng: -0.1419}

	leg, err := p.Route(context.Background(), start, end, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotPath != "/route/v1/driving/-0.0977,51.5201;-0.1419,51.5014" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotOverview != "full" {
		t.Fatalf("overview = %q, want full", gotOverview)
	}
	if len(leg.Geometry) != 3 {
		t.Fatalf("geometry length = %d, want 3", len(leg.Geometry))
	}
	if leg.Geometry[0] != start || leg.Geometry[2] != end {
		t.Fatalf("geometry not converted to lat/lng: %v", leg.Geometry)
	}
	if leg.DistanceMeters != 5000 || leg.DurationSeconds != 1000 {
		t.Fatalf("metrics = %+v", leg)
	}
}

func TestOSRMRouteSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("overview") != "false" {
			t.Errorf("overview = %q, want false", r.URL.Query().Get("overview"))
		}
		w.Write([]byte(`{"code":"Ok","routes":[{"distance":16093.44,"duration":5400}]}`))
	}))
	defer srv.Close()

	p, _ := NewOSRMRouteProvider("public", srv.URL, time.Second)
	leg, err := p.Route(context.Background(), domain.GeoPoint{Lat: 51, Lng: 0}, domain.GeoPoint{Lat: 52, Lng: 0}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if leg.Geometry != nil {
		t.Fatalf("summary leg should carry no geometry")
	}
	if leg.DistanceMeters != 16093.44 {
		t.Fatalf("distance = %v", leg.DistanceMeters)
	}
}

func TestOSRMRouteFailures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"code":"NoRoute"}`, http.StatusBadRequest)
		},
		"empty routes": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"code":"Ok","routes":[]}`))
		},
		"short geometry": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"code":"Ok","routes":[{"distance":1,"duration":1,"geometry":{"type":"LineString","coordinates":[[0,51]]}}]}`))
		},
		"bad json": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		},
	}

	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			p, _ := NewOSRMRouteProvider("local", srv.URL, time.Second)
			_, err := p.Route(context.Background(), domain.GeoPoint{Lat: 51, Lng: 0}, domain.GeoPoint{Lat: 52, Lng: 0}, true)
			if err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestOSRMRouteStatusErrorCarriesCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "busy", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p, _ := NewOSRMRouteProvider("public", srv.URL, time.Second)
	_, err := p.Route(context.Background(), domain.GeoPoint{Lat: 51, Lng: 0}, domain.GeoPoint{Lat: 52, Lng: 0}, false)

	var he *httpStatusError
	if !errors.As(err, &he) || he.Code != http.StatusTooManyRequests {
		t.Fatalf("err = %v, want httpStatusError 429", err)
	}
	if !strings.Contains(he.Body, "busy") {
		t.Fatalf("body = %q", he.Body)
	}
}
