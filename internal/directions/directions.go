// Package directions fetches travel legs between consecutive activities
// from the external routing service. Legs are cached in-process: the same
// (origin, destination, mode) triple repeats across generation runs for a
// popular destination.
package directions

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-resty/resty/v2"
	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/twpayne/go-polyline"

	"github.com/Tooltu-deve/Travel-App-sub003/internal/model"
)

const (
	legCacheTTL     = 15 * time.Minute
	legCacheCleanup = 30 * time.Minute
)

// Client talks to one directions endpoint.
type Client struct {
	http  *resty.Client
	cache *gocache.Cache
	log   zerolog.Logger
}

// New builds a Client for the given base URL.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	return &Client{
		http:  resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		cache: gocache.New(legCacheTTL, legCacheCleanup),
		log:   log,
	}
}

type routeRequest struct {
	Origin      model.LatLng `json:"origin"`
	Destination model.LatLng `json:"destination"`
	Mode        string       `json:"mode"`
}

type routeResponse struct {
	DurationSeconds int         `json:"durationSeconds"`
	EncodedPolyline string      `json:"encodedPolyline"`
	Geometry        [][]float64 `json:"geometry"`
}

// RouteLeg returns duration and path geometry for one leg. When the
// upstream sends raw coordinates instead of an encoded polyline, the
// coordinates are encoded here so stored plans carry a uniform shape.
func (c *Client) RouteLeg(ctx context.Context, from, to model.LatLng, mode string) (*model.RouteLeg, error) {
	key := legKey(from, to, mode)
	if v, ok := c.cache.Get(key); ok {
		leg := v.(model.RouteLeg)
		return &leg, nil
	}

	var body routeResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(&routeRequest{Origin: from, Destination: to, Mode: mode}).
		SetResult(&body).
		Post("/v1/route")
	if err != nil {
		return nil, fmt.Errorf("directions request: %w", err)
	}
	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("directions status %d", resp.StatusCode())
	}

	encoded := body.EncodedPolyline
	if encoded == "" && len(body.Geometry) > 0 {
		encoded = string(polyline.EncodeCoords(body.Geometry))
	}

	leg := model.RouteLeg{
		DurationMinutes: int(math.Round(float64(body.DurationSeconds) / 60)),
		EncodedPolyline: encoded,
	}
	c.cache.SetDefault(key, leg)
	return &leg, nil
}

// HealthPing implements health.HealthPinger.
func (c *Client) HealthPing(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/v1/health")
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("directions health status %d", resp.StatusCode())
	}
	return nil
}

func legKey(from, to model.LatLng, mode string) string {
	return fmt.Sprintf("%.5f,%.5f|%.5f,%.5f|%s", from.Lat, from.Lng, to.Lat, to.Lng, mode)
}
