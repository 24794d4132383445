package mapview

import (
	"context"
	"errors"
	"fleet-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubDirections struct {
	err    error
	points [][]domain.Coordinates
}

func (s *stubDirections) Directions(_ context.Context, points []domain.Coordinates) (domain.DrivingDirections, error) {
	s.points = append(s.points, points)
	if s.err != nil {
		return domain.DrivingDirections{}, s.err
	}
	return domain.DrivingDirections{Path: points, DistanceMeters: 1234}, nil
}

func twoPointRoute(label string) domain.DrivingRouteRequest {
	return domain.DrivingRouteRequest{
		Label:       label,
		Origin:      domain.Coordinates{Lat: 1, Lon: 1},
		Destination: domain.Coordinates{Lat: 2, Lon: 2},
	}
}

func TestCanvasLayersAreIndependent(t *testing.T) {
	ctx := context.Background()
	c := NewCanvas(&stubDirections{})

	require.NoError(t, c.RenderMarker(ctx, domain.Marker{ID: "a", Title: "A"}))
	_, err := c.RenderDrivingRoute(ctx, twoPointRoute("V1"))
	require.NoError(t, err)
	require.NoError(t, c.RenderMarker(ctx, domain.Marker{ID: "b", Title: "B"}))

	snap := c.Snapshot()
	assert.EqualValues(t, 3, snap.Version)
	assert.Len(t, snap.Markers, 2)
	require.NotNil(t, snap.Route)
	assert.Equal(t, "V1", snap.Route.Label)
	assert.Equal(t, 1234.0, snap.Route.Directions.DistanceMeters)
}

func TestCanvasMarkerReplacedByID(t *testing.T) {
	ctx := context.Background()
	c := NewCanvas(nil)

	require.NoError(t, c.RenderMarker(ctx, domain.Marker{ID: "warehouse", Title: "old"}))
	require.NoError(t, c.RenderMarker(ctx, domain.Marker{ID: "x", Title: "x"}))
	require.NoError(t, c.RenderMarker(ctx, domain.Marker{ID: "warehouse", Title: "new"}))

	markers := c.Snapshot().Markers
	require.Len(t, markers, 2)
	assert.Equal(t, "new", markers[0].Title, "replacement keeps the original position")

	assert.Error(t, c.RenderMarker(ctx, domain.Marker{ID: " "}))
}

func TestCanvasRouteReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	c := NewCanvas(&stubDirections{})

	_, err := c.RenderDrivingRoute(ctx, twoPointRoute("V1"))
	require.NoError(t, err)
	_, err = c.RenderDrivingRoute(ctx, twoPointRoute("V2"))
	require.NoError(t, err)

	assert.Equal(t, "V2", c.Snapshot().Route.Label)
}

func TestCanvasDirectionsFailureKeepsRoute(t *testing.T) {
	ctx := context.Background()
	dirs := &stubDirections{}
	c := NewCanvas(dirs)

	_, err := c.RenderDrivingRoute(ctx, twoPointRoute("V1"))
	require.NoError(t, err)

	dirs.err = errors.New("unroutable")
	_, err = c.RenderDrivingRoute(ctx, twoPointRoute("V2"))
	assert.ErrorContains(t, err, "unroutable")
	assert.Equal(t, "V1", c.Snapshot().Route.Label)

	_, err = NewCanvas(nil).RenderDrivingRoute(ctx, twoPointRoute("V1"))
	assert.Error(t, err)
}

func TestCanvasCancelledRenderDoesNotCommit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCanvas(&stubDirections{})
	_, err := c.RenderDrivingRoute(ctx, twoPointRoute("V1"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, c.Snapshot().Route)
}

func TestCanvasPassesPointsInDrivingOrder(t *testing.T) {
	dirs := &stubDirections{}
	c := NewCanvas(dirs)

	req := twoPointRoute("V1")
	req.Waypoints = []domain.Waypoint{{Location: domain.Coordinates{Lat: 5, Lon: 5}, Stopover: true}}
	_, err := c.RenderDrivingRoute(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, dirs.points, 1)
	assert.Equal(t, []domain.Coordinates{req.Origin, {Lat: 5, Lon: 5}, req.Destination}, dirs.points[0])
}

func TestCanvasOnChangeAndClear(t *testing.T) {
	ctx := context.Background()
	c := NewCanvas(&stubDirections{})

	var got []Snapshot
	c.OnChange(func(s Snapshot) { got = append(got, s) })

	require.NoError(t, c.RenderMarker(ctx, domain.Marker{ID: "a"}))
	_, err := c.RenderDrivingRoute(ctx, twoPointRoute("V1"))
	require.NoError(t, err)
	c.Clear()

	require.Len(t, got, 3)
	assert.EqualValues(t, 1, got[0].Version)
	assert.Nil(t, got[0].Route)
	assert.NotNil(t, got[1].Route)
	assert.Empty(t, got[2].Markers)
	assert.Nil(t, got[2].Route)
	assert.Equal(t, got[2], c.Snapshot())
}
