package cache

import (
	"context"
	"database/sql"
	"errors"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/platform/obs"
	"fmt"
	"sort"
	"strings"
)

// SQLGeocodeCache is a Postgres-backed cache mapping addresses to coordinates.
// It expects the pgx stdlib driver, which binds Go slices as Postgres arrays.
type SQLGeocodeCache struct {
	DB *sql.DB
}

func NewSQLGeocodeCache(db *sql.DB) *SQLGeocodeCache {
	return &SQLGeocodeCache{DB: db}
}

const selectGeocodesPG = `
SELECT address, lon, lat
FROM geocode_cache
WHERE address = ANY($1::text[]);
`

// One round trip for the whole batch. Keys are unique, so no row is touched twice.
const upsertGeocodesPG = `
INSERT INTO geocode_cache (address, lon, lat)
SELECT * FROM unnest($1::text[], $2::float8[], $3::float8[])
ON CONFLICT (address) DO UPDATE
SET lon = EXCLUDED.lon,
    lat = EXCLUDED.lat;
`

func (s *SQLGeocodeCache) GetMany(
	ctx context.Context,
	addresses []string,
) (_ map[string]domain.Coordinates, err error) {
	defer obs.Time(ctx, "geocode.postgres.GetMany")(&err)

	if s.DB == nil {
		return nil, errors.New("geocode cache: db is nil")
	}

	uniq := uniqueAddresses(addresses)
	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	rows, err := s.DB.QueryContext(ctx, selectGeocodesPG, uniq)
	if err != nil {
		return nil, fmt.Errorf("geocode cache: select %d addresses: %w", len(uniq), err)
	}
	defer rows.Close()

	out := make(map[string]domain.Coordinates, len(uniq))
	for rows.Next() {
		var (
			addr     string
			lon, lat float64
		)
		if err := rows.Scan(&addr, &lon, &lat); err != nil {
			return nil, fmt.Errorf("geocode cache: scan: %w", err)
		}
		out[addr] = domain.Coordinates{Lon: lon, Lat: lat}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("geocode cache: rows: %w", err)
	}

	return out, nil
}

// PutMany upserts every entry in a single statement. Keys are written in
// sorted order so concurrent batches lock rows in the same order.
func (s *SQLGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) (err error) {
	defer obs.Time(ctx, "geocode.postgres.PutMany")(&err)

	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}
	if len(results) == 0 {
		return nil
	}

	addrs, lons, lats, err := geocodeColumns(results)
	if err != nil {
		return err
	}

	if _, err := s.DB.ExecContext(ctx, upsertGeocodesPG, addrs, lons, lats); err != nil {
		return fmt.Errorf("geocode cache: upsert %d addresses: %w", len(addrs), err)
	}
	return nil
}

// geocodeColumns splits results into parallel columns ordered by address.
func geocodeColumns(results map[string]domain.Coordinates) ([]string, []float64, []float64, error) {
	addrs := make([]string, 0, len(results))
	for addr := range results {
		if strings.TrimSpace(addr) == "" {
			return nil, nil, nil, errors.New("geocode cache: empty address key")
		}
		addrs = append(addrs, addr)
	}
	sort.Strings(addrs)

	lons := make([]float64, len(addrs))
	lats := make([]float64, len(addrs))
	for i, addr := range addrs {
		lons[i] = results[addr].Lon
		lats[i] = results[addr].Lat
	}
	return addrs, lons, lats, nil
}
