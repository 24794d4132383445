package services

import (
	"context"
	"errors"
	"fleet-route-service/internal/domain"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func truckStop(name, address string) domain.DeliveryStop {
	return domain.DeliveryStop{
		Address:     address,
		Pincode:     "110001",
		Region:      "Delhi",
		Weight:      decimal.NewFromInt(10),
		Priority:    "A",
		VehicleType: domain.VehicleTruck,
		VehicleName: name,
	}
}

func readyFleet() *fakeFleet {
	return &fakeFleet{
		warehouse: &domain.Warehouse{Address: "Okhla Phase III", State: "Delhi"},
		stops:     []domain.DeliveryStop{truckStop("V1", "Connaught Place")},
	}
}

func TestRequestRoutePreconditions(t *testing.T) {
	cases := []struct {
		name  string
		fleet *fakeFleet
		vt    string
		vn    string
		want  error
	}{
		{"missing type", readyFleet(), "", "V1", domain.ErrMissingSelection},
		{"missing name", readyFleet(), "truck", " ", domain.ErrMissingSelection},
		{"unknown type", readyFleet(), "blimp", "V1", domain.ErrValidation},
		{"no warehouse", &fakeFleet{stops: readyFleet().stops}, "truck", "V1", domain.ErrNoWarehouse},
		{"no stops", readyFleet(), "truck", "V2", domain.ErrNoStopsAssigned},
		{"stops under other type", readyFleet(), "van", "V1", domain.ErrNoStopsAssigned},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			opt := &fakeOptimizer{}
			p := NewRoutePipeline(c.fleet, opt, &fakeRenderer{}, time.Second)

			_, err := p.RequestRoute(context.Background(), c.vt, c.vn)
			assert.ErrorIs(t, err, c.want)
			assert.Zero(t, opt.Calls(), "no optimizer call may be issued")
		})
	}
}

func TestRequestRouteRendersTwoPointRoute(t *testing.T) {
	fleet := readyFleet()
	opt := &fakeOptimizer{routes: domain.OptimizedRoutes{
		"V1": {
			Route:      []domain.Coordinates{{Lat: 28.6, Lon: 77.2}, {Lat: 28.7, Lon: 77.3}},
			DistanceKm: 12.5,
		},
	}}
	renderer := &fakeRenderer{}
	p := NewRoutePipeline(fleet, opt, renderer, time.Second)

	res, err := p.RequestRoute(context.Background(), "truck", "V1")
	require.NoError(t, err)
	assert.Equal(t, 12.5, res.Route.DistanceKm)

	require.Len(t, opt.requests, 1)
	assert.Equal(t, *fleet.warehouse, opt.requests[0].Warehouse)
	assert.Len(t, opt.requests[0].Stops, 1)

	require.Len(t, renderer.routes, 1)
	got := renderer.routes[0]
	want := domain.DrivingRouteRequest{
		Label:       "V1",
		Origin:      domain.Coordinates{Lat: 28.6, Lon: 77.2},
		Destination: domain.Coordinates{Lat: 28.7, Lon: 77.3},
		Waypoints:   []domain.Waypoint{},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("render request mismatch (-want +got):\n%s", diff)
	}
}

func TestRequestRouteEmptyRoute(t *testing.T) {
	opt := &fakeOptimizer{routes: domain.OptimizedRoutes{}}
	renderer := &fakeRenderer{}
	p := NewRoutePipeline(readyFleet(), opt, renderer, time.Second)

	_, err := p.RequestRoute(context.Background(), "truck", "V1")
	assert.ErrorIs(t, err, domain.ErrEmptyRoute)
	assert.Empty(t, renderer.routes)
}

func TestRequestRouteOptimizerErrors(t *testing.T) {
	for _, kind := range []error{domain.ErrRemote, domain.ErrApplication} {
		opt := &fakeOptimizer{err: errors.Join(kind, errors.New("boom"))}
		renderer := &fakeRenderer{}
		p := NewRoutePipeline(readyFleet(), opt, renderer, time.Second)

		_, err := p.RequestRoute(context.Background(), "truck", "V1")
		assert.ErrorIs(t, err, kind)
		assert.Empty(t, renderer.routes)
		assert.Equal(t, 1, opt.Calls(), "requests are never retried")
	}
}

func TestRequestRouteRenderFailure(t *testing.T) {
	opt := &fakeOptimizer{routes: domain.OptimizedRoutes{
		"V1": {Route: []domain.Coordinates{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}},
	}}
	renderer := &fakeRenderer{err: errors.New("ZERO_RESULTS")}
	p := NewRoutePipeline(readyFleet(), opt, renderer, time.Second)

	_, err := p.RequestRoute(context.Background(), "truck", "V1")
	assert.ErrorIs(t, err, domain.ErrRenderFailed)
	assert.ErrorContains(t, err, "ZERO_RESULTS")
}

func TestRequestRouteTimesOut(t *testing.T) {
	opt := &fakeOptimizer{gate: make(chan struct{})}
	p := NewRoutePipeline(readyFleet(), opt, &fakeRenderer{}, 20*time.Millisecond)

	_, err := p.RequestRoute(context.Background(), "truck", "V1")
	assert.ErrorIs(t, err, domain.ErrRemote)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRequestRouteSupersededBySecondRequest(t *testing.T) {
	gate := make(chan struct{})
	opt := &fakeOptimizer{
		gate: gate,
		routes: domain.OptimizedRoutes{
			"V1": {Route: []domain.Coordinates{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}},
		},
	}
	renderer := &fakeRenderer{}
	p := NewRoutePipeline(readyFleet(), opt, renderer, 5*time.Second)

	firstErr := make(chan error, 1)
	go func() {
		_, err := p.RequestRoute(context.Background(), "truck", "V1")
		firstErr <- err
	}()

	require.Eventually(t, func() bool { return opt.Calls() == 1 }, time.Second, 5*time.Millisecond)

	secondErr := make(chan error, 1)
	go func() {
		_, err := p.RequestRoute(context.Background(), "truck", "V1")
		secondErr <- err
	}()

	// The first request is cancelled as soon as the second one registers.
	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, domain.ErrSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("first request was not superseded")
	}

	require.Eventually(t, func() bool { return opt.Calls() == 2 }, time.Second, 5*time.Millisecond)
	close(gate)

	require.NoError(t, <-secondErr)
	assert.Len(t, renderer.routes, 1, "only the newest request renders")
}

func TestRenderRoute(t *testing.T) {
	t.Run("one point is not a route", func(t *testing.T) {
		renderer := &fakeRenderer{}
		p := NewRoutePipeline(readyFleet(), &fakeOptimizer{}, renderer, time.Second)

		_, err := p.RenderRoute(context.Background(), "V1", []domain.Coordinates{{Lat: 1, Lon: 1}})
		assert.ErrorIs(t, err, domain.ErrInsufficientPoints)
		assert.Empty(t, renderer.routes, "renderer must not be invoked")
	})

	t.Run("interior points become stopovers in order", func(t *testing.T) {
		renderer := &fakeRenderer{}
		p := NewRoutePipeline(readyFleet(), &fakeOptimizer{}, renderer, time.Second)

		route := []domain.Coordinates{{Lat: 0, Lon: 0}, {Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}, {Lat: 0, Lon: 0}}
		dirs, err := p.RenderRoute(context.Background(), "V1", route)
		require.NoError(t, err)
		assert.Equal(t, route, dirs.Path)

		require.Len(t, renderer.routes, 1)
		req := renderer.routes[0]
		assert.Equal(t, route[0], req.Origin)
		assert.Equal(t, route[3], req.Destination)
		assert.Equal(t, []domain.Waypoint{
			{Location: route[1], Stopover: true},
			{Location: route[2], Stopover: true},
		}, req.Waypoints)
	})
}

type optimizerFunc func(ctx context.Context, req domain.RouteRequest) (domain.OptimizedRoutes, error)

func (f optimizerFunc) OptimizeRoute(ctx context.Context, req domain.RouteRequest) (domain.OptimizedRoutes, error) {
	return f(ctx, req)
}

func TestRequestRouteSupersededBeforeRouteLookup(t *testing.T) {
	release := make(chan struct{})
	var calls atomic.Int32
	// The first call ignores cancellation and answers without the vehicle.
	opt := optimizerFunc(func(ctx context.Context, _ domain.RouteRequest) (domain.OptimizedRoutes, error) {
		if calls.Add(1) == 1 {
			<-release
			return domain.OptimizedRoutes{}, nil
		}
		return domain.OptimizedRoutes{
			"V1": {Route: []domain.Coordinates{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}},
		}, nil
	})
	p := NewRoutePipeline(readyFleet(), opt, &fakeRenderer{}, 5*time.Second)

	firstErr := make(chan error, 1)
	go func() {
		_, err := p.RequestRoute(context.Background(), "truck", "V1")
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	_, err := p.RequestRoute(context.Background(), "truck", "V1")
	require.NoError(t, err)

	close(release)
	err = <-firstErr
	assert.ErrorIs(t, err, domain.ErrSuperseded)
	assert.NotErrorIs(t, err, domain.ErrEmptyRoute)
}

func TestCancelAllStopsInflightRequests(t *testing.T) {
	opt := &fakeOptimizer{
		gate: make(chan struct{}),
		routes: domain.OptimizedRoutes{
			"V1": {Route: []domain.Coordinates{{Lat: 1, Lon: 1}, {Lat: 2, Lon: 2}}},
		},
	}
	renderer := &fakeRenderer{}
	p := NewRoutePipeline(readyFleet(), opt, renderer, 5*time.Second)

	errc := make(chan error, 1)
	go func() {
		_, err := p.RequestRoute(context.Background(), "truck", "V1")
		errc <- err
	}()
	require.Eventually(t, func() bool { return opt.Calls() == 1 }, time.Second, 5*time.Millisecond)

	p.CancelAll()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, domain.ErrSuperseded)
	case <-time.After(2 * time.Second):
		t.Fatal("request survived CancelAll")
	}
	assert.Empty(t, renderer.routes)

	// The pipeline stays usable afterwards.
	close(opt.gate)
	_, err := p.RequestRoute(context.Background(), "truck", "V1")
	require.NoError(t, err)
	assert.Len(t, renderer.routes, 1)
}

func TestBeginRefusesStaleEpoch(t *testing.T) {
	p := NewRoutePipeline(readyFleet(), &fakeOptimizer{}, &fakeRenderer{}, time.Second)

	epoch := p.currentEpoch()
	p.CancelAll()

	_, _, ok := p.begin(context.Background(), "truck|V1", epoch)
	assert.False(t, ok)

	_, _, ok = p.begin(context.Background(), "truck|V1", p.currentEpoch())
	assert.True(t, ok)
}
