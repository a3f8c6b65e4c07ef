// Package optimizer calls the external route-optimization service and
// converts its response into a canonical plan. The upstream is treated as
// unreliable: calls run through a circuit breaker and every failure mode
// surfaces as model.ErrOptimizer.
package optimizer

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"

	"github.com/Tooltu-deve/Travel-App-sub003/internal/model"
	"github.com/Tooltu-deve/Travel-App-sub003/internal/planner"
)

// Request is the payload sent to the optimizer.
type Request struct {
	Destination   string       `json:"destination"`
	DurationDays  int          `json:"durationDays"`
	StartLocation model.LatLng `json:"startLocation"`
	StartDateTime *time.Time   `json:"startDateTime,omitempty"`
	POIPerDay     int          `json:"poiPerDay"`
	TravelMode    string       `json:"travelMode"`
	Candidates    []model.POI  `json:"candidates"`
}

// Client talks to one optimizer endpoint.
type Client struct {
	http    *resty.Client
	breaker *gobreaker.CircuitBreaker
	log     zerolog.Logger
}

// New builds a Client for the given base URL.
func New(baseURL string, timeout time.Duration, log zerolog.Logger) *Client {
	settings := gobreaker.Settings{
		Name:    "optimizer",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state change")
		},
	}
	return &Client{
		http:    resty.New().SetBaseURL(baseURL).SetTimeout(timeout),
		breaker: gobreaker.NewCircuitBreaker(settings),
		log:     log,
	}
}

// OptimizeRoute submits candidates and constraints and returns the
// normalized plan. Transport errors, non-200 responses, open breaker, and
// unusable response bodies all wrap model.ErrOptimizer.
func (c *Client) OptimizeRoute(ctx context.Context, req Request) (*model.Plan, error) {
	body, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.http.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(&req).
			Post("/v1/optimize")
		if err != nil {
			return nil, err
		}
		if resp.StatusCode() != 200 {
			return nil, fmt.Errorf("status %d: %s", resp.StatusCode(), truncate(resp.String(), 200))
		}
		return resp.Body(), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrOptimizer, err)
	}

	plan, err := planner.Normalize(body.([]byte))
	if err != nil {
		return nil, fmt.Errorf("%w: unusable response: %v", model.ErrOptimizer, err)
	}
	return plan, nil
}

// HealthPing implements health.HealthPinger.
func (c *Client) HealthPing(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Get("/v1/health")
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("optimizer health status %d", resp.StatusCode())
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
