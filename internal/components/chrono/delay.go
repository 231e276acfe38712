package chrono

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/time/rate"
)

// DelayAPI paces consecutive requests made against the same host.
type DelayAPI interface {
	// Wait blocks until the next request may be made, it returns early
	// with ctx.Err() if the context is cancelled.
	Wait(ctx context.Context) error
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RandomDelay waits a duration drawn uniformly from [min, max].
//
// It is not safe for concurrent use.
type RandomDelay struct {
	min  time.Duration
	max  time.Duration
	rand *rand.Rand
}

func NewRandomDelay(min, max time.Duration, seed int64) (RandomDelay, error) {
	if min < 0 {
		return RandomDelay{}, fmt.Errorf("random delay: min (%s) cannot be negative", min)
	}
	if max < min {
		return RandomDelay{}, fmt.Errorf("random delay: max (%s) is less than min (%s)", max, min)
	}
	return RandomDelay{
		min:  min,
		max:  max,
		rand: rand.New(rand.NewSource(seed)),
	}, nil
}

// Next draws the next delay.
func (d RandomDelay) Next() time.Duration {
	return d.min + time.Duration(d.rand.Int63n(int64(d.max-d.min)+1))
}

func (d RandomDelay) Wait(ctx context.Context) error {
	return sleep(ctx, d.Next())
}

// LimiterDelay paces requests with a token bucket of size 1, so the first
// request goes through immediately.
type LimiterDelay struct {
	limiter *rate.Limiter
}

func NewLimiterDelay(perSecond float64) (LimiterDelay, error) {
	if perSecond <= 0 {
		return LimiterDelay{}, fmt.Errorf("limiter delay: requests per second must be positive, got %v", perSecond)
	}
	return LimiterDelay{limiter: rate.NewLimiter(rate.Limit(perSecond), 1)}, nil
}

func (d LimiterDelay) Wait(ctx context.Context) error {
	return d.limiter.Wait(ctx)
}

// NoDelay never waits.
type NoDelay struct{}

func (NoDelay) Wait(ctx context.Context) error {
	return ctx.Err()
}
