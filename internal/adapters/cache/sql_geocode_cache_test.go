package cache

import (
	"context"
	"database/sql"
	"fleet-route-service/internal/domain"
	"os"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openLazyPG returns a handle that never connects unless a query runs.
func openLazyPG(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("pgx", "postgres://nobody@127.0.0.1:1/none?connect_timeout=1")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLGeocodeCacheNilDB(t *testing.T) {
	c := NewSQLGeocodeCache(nil)
	_, err := c.GetMany(context.Background(), []string{"A"})
	assert.Error(t, err)
	assert.Error(t, c.PutMany(context.Background(), map[string]domain.Coordinates{"A": {}}))
}

func TestSQLGeocodeCacheEmptyInputSkipsDB(t *testing.T) {
	c := NewSQLGeocodeCache(openLazyPG(t))
	ctx := context.Background()

	got, err := c.GetMany(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = c.GetMany(ctx, []string{"", "   "})
	require.NoError(t, err)
	assert.Empty(t, got)

	assert.NoError(t, c.PutMany(ctx, nil))
}

func TestSQLGeocodeCacheRejectsEmptyKeyBeforeDB(t *testing.T) {
	c := NewSQLGeocodeCache(openLazyPG(t))
	err := c.PutMany(context.Background(), map[string]domain.Coordinates{
		"Connaught Place": {Lon: 77.22, Lat: 28.63},
		" ":               {},
	})
	assert.ErrorContains(t, err, "empty address key")
}

func TestGeocodeColumnsSorted(t *testing.T) {
	addrs, lons, lats, err := geocodeColumns(map[string]domain.Coordinates{
		"b": {Lon: 2, Lat: 20},
		"a": {Lon: 1, Lat: 10},
		"c": {Lon: 3, Lat: 30},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, addrs)
	assert.Equal(t, []float64{1, 2, 3}, lons)
	assert.Equal(t, []float64{10, 20, 30}, lats)
}

// Runs against a real server when GEOCODE_CACHE_TEST_POSTGRES_URL is set.
func TestSQLGeocodeCachePostgres(t *testing.T) {
	url := os.Getenv("GEOCODE_CACHE_TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("GEOCODE_CACHE_TEST_POSTGRES_URL not set")
	}

	db, err := sql.Open("pgx", url)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, InitSchema(ctx, db))
	_, err = db.ExecContext(ctx, `DELETE FROM geocode_cache WHERE address IN ('test:A', 'test:B')`)
	require.NoError(t, err)

	c := NewSQLGeocodeCache(db)
	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{
		"test:A": {Lon: 1, Lat: 1},
		"test:B": {Lon: 2, Lat: 2},
	}))
	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{"test:A": {Lon: 5, Lat: 6}}))

	got, err := c.GetMany(ctx, []string{"test:A", "test:B", "test:missing"})
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.Coordinates{
		"test:A": {Lon: 5, Lat: 6},
		"test:B": {Lon: 2, Lat: 2},
	}, got)
}
