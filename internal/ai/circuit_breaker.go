package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

type CircuitBreakerImprover struct {
	improver Improver
	cb       *gobreaker.CircuitBreaker
}

func NewCircuitBreaker(i Improver) *CircuitBreakerImprover {

	settings := gobreaker.Settings{
		Name:        "oracle",
		MaxRequests: 3,
		Interval:    0,
		Timeout:     30 * time.Second,
	}

	return &CircuitBreakerImprover{
		improver: i,
		cb:       gobreaker.NewCircuitBreaker(settings),
	}
}

func (c *CircuitBreakerImprover) Improve(
	ctx context.Context,
	r ImproveRequest,
) (ImproveResponse, error) {

	out, err := c.cb.Execute(func() (interface{}, error) {
		return c.improver.Improve(ctx, r)
	})

	if err != nil {
		return ImproveResponse{}, err
	}

	resp, ok := out.(ImproveResponse)
	if !ok {
		return ImproveResponse{}, fmt.Errorf("unexpected circuit breaker response type")
	}

	return resp, nil
}
