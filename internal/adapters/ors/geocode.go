package ors

import (
	"context"
	"encoding/json"
	"fleet-route-service/internal/domain"
	"fleet-route-service/internal/platform/obs"
	"fleet-route-service/internal/ports"
	"fmt"
	"log"
	"net/http"
)

type geocodeResponse struct {
	Features []struct {
		Geometry struct {
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Geocoder resolves addresses with /geocode/search behind an optional
// persistent cache. Cache failures are logged and never fail a lookup.
type Geocoder struct {
	client  *Client
	cache   ports.GeocodeCache
	country string
}

// NewGeocoder builds a geocoder. country, when set, restricts results with
// boundary.country (ISO 3166-1 alpha-2).
func NewGeocoder(client *Client, cache ports.GeocodeCache, country string) *Geocoder {
	return &Geocoder{client: client, cache: cache, country: country}
}

func (g *Geocoder) Geocode(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	defer obs.Time(ctx, "ors.Geocode")(&err)

	norm := normalize(address)
	if norm == "" {
		return domain.Coordinates{}, fmt.Errorf("geocode: %w: empty address", domain.ErrGeocodeFailure)
	}

	if g.cache != nil {
		hits, err := g.cache.GetMany(ctx, []string{norm})
		if err != nil {
			log.Printf("geocode cache read failed: address=%q err=%v", norm, err)
		} else if c, ok := hits[norm]; ok {
			return c, nil
		}
	}

	c, err := g.fetch(ctx, norm)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("geocode %q: %w: %w", norm, domain.ErrGeocodeFailure, err)
	}

	if g.cache != nil {
		if err := g.cache.PutMany(ctx, map[string]domain.Coordinates{norm: c}); err != nil {
			log.Printf("geocode cache write failed: %v", err)
		}
	}

	return c, nil
}

func (g *Geocoder) fetch(ctx context.Context, text string) (domain.Coordinates, error) {
	endpoint := g.client.baseURL + "/geocode/search"

	resp, err := g.client.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := g.client.newRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", text)
		q.Set("size", "1")
		if g.country != "" {
			q.Set("boundary.country", g.country)
		}
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("decode geocode response: %w", err)
	}

	if len(decoded.Features) == 0 {
		return domain.Coordinates{}, fmt.Errorf("no geocode results for %q", text)
	}

	coords := decoded.Features[0].Geometry.Coordinates
	if len(coords) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid coordinate format for %q", text)
	}

	return domain.Coordinates{Lon: coords[0], Lat: coords[1]}, nil
}
