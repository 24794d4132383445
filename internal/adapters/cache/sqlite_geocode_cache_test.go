package cache

import (
	"context"
	"database/sql"
	"fleet-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, InitSchema(context.Background(), db))
	return db
}

func TestSqliteGeocodeCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewSqliteGeocodeCache(openTestDB(t))

	got, err := c.GetMany(ctx, []string{"Connaught Place, Delhi"})
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{
		"Connaught Place, Delhi": {Lon: 77.22, Lat: 28.63},
		"India Gate, Delhi":      {Lon: 77.23, Lat: 28.61},
	}))

	got, err = c.GetMany(ctx, []string{"Connaught Place, Delhi", "", "Connaught Place, Delhi", "Unknown"})
	require.NoError(t, err)
	assert.Equal(t, map[string]domain.Coordinates{
		"Connaught Place, Delhi": {Lon: 77.22, Lat: 28.63},
	}, got)
}

func TestSqliteGeocodeCacheReplaces(t *testing.T) {
	ctx := context.Background()
	c := NewSqliteGeocodeCache(openTestDB(t))

	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{"A": {Lon: 1, Lat: 1}}))
	require.NoError(t, c.PutMany(ctx, map[string]domain.Coordinates{"A": {Lon: 2, Lat: 3}}))

	got, err := c.GetMany(ctx, []string{"A"})
	require.NoError(t, err)
	assert.Equal(t, domain.Coordinates{Lon: 2, Lat: 3}, got["A"])
}

func TestSqliteGeocodeCacheRejectsEmptyKey(t *testing.T) {
	c := NewSqliteGeocodeCache(openTestDB(t))
	err := c.PutMany(context.Background(), map[string]domain.Coordinates{"  ": {}})
	assert.Error(t, err)
}

func TestGeocodeCacheNilDB(t *testing.T) {
	_, err := NewSqliteGeocodeCache(nil).GetMany(context.Background(), []string{"A"})
	assert.Error(t, err)
	_, err = NewSQLGeocodeCache(nil).GetMany(context.Background(), []string{"A"})
	assert.Error(t, err)
	assert.Error(t, InitSchema(context.Background(), nil))
}
