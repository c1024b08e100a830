package services

import (
	"commute-route-service/internal/domain"
	"commute-route-service/internal/platform/obs"
	"commute-route-service/internal/tabular"
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 6

var (
	EmployeeColumns = []string{"employee_number", "postcode"}
	CommuteColumns  = []string{"employee_number", "start_postcode", "end_postcode"}
)

type employeeRow struct {
	EmployeeNumber string `csv:"employee_number"`
	Postcode       string `csv:"postcode"`
}

type commuteRow struct {
	EmployeeNumber string `csv:"employee_number"`
	StartPostcode  string `csv:"start_postcode"`
	EndPostcode    string `csv:"end_postcode"`
}

// Builder turns uploaded tables into enriched datasets.
//
// Distinct postcodes, then distinct start/end pairs, are resolved by a bounded
// worker group; records are assembled afterwards in input order. A failed
// lookup degrades its rows to null fields and never fails the batch.
type Builder struct {
	coords      *CoordinateResolver
	routes      *RouteResolver
	concurrency int
	now         func() time.Time
}

func NewBuilder(coords *CoordinateResolver, routes *RouteResolver, concurrency int) *Builder {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	return &Builder{
		coords:      coords,
		routes:      routes,
		concurrency: concurrency,
		now:         time.Now,
	}
}

// BuildEmployees geocodes an employee table. A missing required column is
// returned as *domain.MissingColumnError before any lookup is made.
func (b *Builder) BuildEmployees(ctx context.Context, t tabular.Table) (_ *domain.EmployeeDataset, err error) {
	if err := t.Require(EmployeeColumns...); err != nil {
		return nil, fmt.Errorf("build employees: %w", err)
	}

	var rows []employeeRow
	if err := t.Decode(&rows); err != nil {
		return nil, fmt.Errorf("build employees: %w", err)
	}

	// A started batch runs to completion even if the caller goes away.
	ctx = context.WithoutCancel(ctx)
	defer obs.Time(ctx, "build.employees")(&err)

	records := make([]domain.EmployeeRecord, 0, len(rows))
	for i, row := range rows {
		num, ok := parseEmployeeNumber(row.EmployeeNumber)
		if !ok {
			obs.Logf(ctx, "op=build.employees row=%d skipped: invalid employee_number %q", i+1, row.EmployeeNumber)
			continue
		}
		records = append(records, domain.EmployeeRecord{
			EmployeeNumber: num,
			Postcode:       strings.TrimSpace(row.Postcode),
		})
	}

	postcodes := make([]string, 0, len(records))
	for _, r := range records {
		postcodes = append(postcodes, r.Postcode)
	}
	points := b.resolvePostcodes(ctx, postcodes)

	for i := range records {
		records[i].Coordinate = points[NormalizePostcode(records[i].Postcode)]
		if records[i].Coordinate == nil {
			obs.Logf(ctx, "op=build.employees employee_number=%d postcode=%q degraded=coordinate",
				records[i].EmployeeNumber, records[i].Postcode)
		}
	}

	return domain.NewEmployeeDataset(records, b.now()), nil
}

// BuildCommutes geocodes both ends of every commute and resolves a driving
// route for each distinct pair of resolved endpoints.
func (b *Builder) BuildCommutes(ctx context.Context, t tabular.Table) (_ *domain.CommuteDataset, err error) {
	if err := t.Require(CommuteColumns...); err != nil {
		return nil, fmt.Errorf("build commutes: %w", err)
	}

	var rows []commuteRow
	if err := t.Decode(&rows); err != nil {
		return nil, fmt.Errorf("build commutes: %w", err)
	}

	ctx = context.WithoutCancel(ctx)
	defer obs.Time(ctx, "build.commutes")(&err)

	records := make([]domain.CommuteRecord, 0, len(rows))
	for i, row := range rows {
		num, ok := parseEmployeeNumber(row.EmployeeNumber)
		if !ok {
			obs.Logf(ctx, "op=build.commutes row=%d skipped: invalid employee_number %q", i+1, row.EmployeeNumber)
			continue
		}
		records = append(records, domain.CommuteRecord{
			EmployeeNumber: num,
			StartPostcode:  strings.TrimSpace(row.StartPostcode),
			EndPostcode:    strings.TrimSpace(row.EndPostcode),
		})
	}

	postcodes := make([]string, 0, 2*len(records))
	for _, r := range records {
		postcodes = append(postcodes, r.StartPostcode, r.EndPostcode)
	}
	points := b.resolvePostcodes(ctx, postcodes)

	for i := range records {
		records[i].Start = points[NormalizePostcode(records[i].StartPostcode)]
		records[i].End = points[NormalizePostcode(records[i].EndPostcode)]
	}

	routes := b.resolveRoutes(ctx, records)

	for i := range records {
		r := &records[i]
		if r.Start == nil || r.End == nil {
			obs.Logf(ctx, "op=build.commutes employee_number=%d start=%q end=%q degraded=coordinates",
				r.EmployeeNumber, r.StartPostcode, r.EndPostcode)
			continue
		}
		route, ok := routes[pairKey(*r.Start, *r.End)]
		if !ok {
			obs.Logf(ctx, "op=build.commutes employee_number=%d degraded=route", r.EmployeeNumber)
			continue
		}
		r.ApplyRoute(route)
	}

	return domain.NewCommuteDataset(records, b.now()), nil
}

// resolvePostcodes looks up each distinct normalized postcode once and returns
// the results keyed by normalized postcode. Failures map to nil.
func (b *Builder) resolvePostcodes(ctx context.Context, postcodes []string) map[string]*domain.GeoPoint {
	keys := make([]string, 0, len(postcodes))
	seen := make(map[string]struct{}, len(postcodes))
	for _, p := range postcodes {
		k := NormalizePostcode(p)
		if k == "" {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}

	results := make([]*domain.GeoPoint, len(keys))
	b.forEach(len(keys), func(i int) {
		results[i] = b.coords.Resolve(ctx, keys[i])
	})

	out := make(map[string]*domain.GeoPoint, len(keys))
	for i, k := range keys {
		out[k] = results[i]
	}
	return out
}

func pairKey(start, end domain.GeoPoint) string { return start.Key() + ";" + end.Key() }

// resolveRoutes resolves every distinct pair of geocoded endpoints once.
// Pairs whose route is unavailable are absent from the result.
func (b *Builder) resolveRoutes(ctx context.Context, records []domain.CommuteRecord) map[string]domain.Route {
	type pair struct {
		key        string
		start, end domain.GeoPoint
	}

	pairs := make([]pair, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.Start == nil || r.End == nil {
			continue
		}
		k := pairKey(*r.Start, *r.End)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		pairs = append(pairs, pair{key: k, start: *r.Start, end: *r.End})
	}

	type result struct {
		route domain.Route
		ok    bool
	}
	results := make([]result, len(pairs))
	b.forEach(len(pairs), func(i int) {
		p := pairs[i]
		route, err := b.routes.Resolve(ctx, &p.start, &p.end, Detail{Geometry: true})
		if err != nil {
			obs.Logf(ctx, "op=build.routes pair=%s err=%v", p.key, err)
			return
		}
		results[i] = result{route: route, ok: true}
	})

	out := make(map[string]domain.Route, len(pairs))
	for i, p := range pairs {
		if results[i].ok {
			out[p.key] = results[i].route
		}
	}
	return out
}

// forEach runs fn(0..n-1) with at most b.concurrency calls in flight.
func (b *Builder) forEach(n int, fn func(i int)) {
	var g errgroup.Group
	g.SetLimit(b.concurrency)
	for i := 0; i < n; i++ {
		g.Go(func() error {
			fn(i)
			return nil
		})
	}
	_ = g.Wait()
}

// parseEmployeeNumber accepts integers and integral floats such as "7.0",
// which spreadsheets produce for numeric columns.
func parseEmployeeNumber(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
