// Package failover keeps one logical model call alive across quota exhaustion
// and transient unavailability by rotating through regions and, once every
// region has failed, backing off exponentially before sweeping again.
package failover

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"

	"deduction-ocr/api/internal/ocr"
)

// ErrRetriesExhausted is returned once every region has failed in every
// backoff round. It wraps the last retryable error.
var ErrRetriesExhausted = errors.New("all retries exhausted")

const (
	DefaultMaxRetries = 3
	DefaultJitterMin  = 500 * time.Millisecond
	DefaultJitterMax  = time.Second
)

// Invoker performs a single model call in one region.
type Invoker interface {
	Invoke(ctx context.Context, region string, req ocr.Request) (ocr.Output, error)
}

// Timer is how the controller waits. It has the same shape as retry.Timer so
// one fake drives both the region jitter and the backoff rounds in tests.
type Timer interface {
	After(time.Duration) <-chan time.Time
}

type realTimer struct{}

func (realTimer) After(d time.Duration) <-chan time.Time { return time.After(d) }

type Options struct {
	Regions    []string
	MaxRetries int
	JitterMin  time.Duration
	JitterMax  time.Duration
	Timer      Timer
	// Rand returns a value in [0, 1). Defaults to math/rand/v2.
	Rand func() float64
	Log  *zap.SugaredLogger
}

// Controller owns the rotation cursor for one logical request. It is not safe
// for concurrent use; build one per request and share it between that
// request's calls so later pages start from the region that last worked.
type Controller struct {
	invoker    Invoker
	rot        *Rotation
	maxRetries int
	jitterMin  time.Duration
	jitterMax  time.Duration
	timer      Timer
	rand       func() float64
	log        *zap.SugaredLogger

	attempts int
}

func New(invoker Invoker, opts Options) *Controller {
	regions := opts.Regions
	if len(regions) == 0 {
		regions = DefaultRegions
	}
	c := &Controller{
		invoker:    invoker,
		rot:        NewRotation(regions),
		maxRetries: opts.MaxRetries,
		jitterMin:  opts.JitterMin,
		jitterMax:  opts.JitterMax,
		timer:      opts.Timer,
		rand:       opts.Rand,
		log:        opts.Log,
	}
	if c.maxRetries < 0 {
		c.maxRetries = 0
	}
	if c.jitterMin == 0 && c.jitterMax == 0 {
		c.jitterMin, c.jitterMax = DefaultJitterMin, DefaultJitterMax
	}
	if c.jitterMax < c.jitterMin {
		c.jitterMax = c.jitterMin
	}
	if c.timer == nil {
		c.timer = realTimer{}
	}
	if c.rand == nil {
		c.rand = rand.Float64
	}
	if c.log == nil {
		c.log = zap.NewNop().Sugar()
	}
	return c
}

// Region returns the region the next attempt will use.
func (c *Controller) Region() string { return c.rot.Current() }

// Attempts returns how many model calls this controller has made so far.
func (c *Controller) Attempts() int { return c.attempts }

// Call runs req until it succeeds, hits a non-retryable error, or exhausts
// regions × (1 + MaxRetries) attempts.
func (c *Controller) Call(ctx context.Context, req ocr.Request) (ocr.Output, error) {
	sweeps := 0
	rounds := 0

	out, err := retry.DoWithData(
		func() (ocr.Output, error) {
			sweeps++
			return c.sweep(ctx, req, sweeps == 1)
		},
		retry.Context(ctx),
		retry.Attempts(uint(c.maxRetries)+1),
		retry.RetryIf(IsRetryable),
		retry.DelayType(func(_ uint, _ error, _ *retry.Config) time.Duration {
			d := c.backoff(rounds)
			rounds++
			c.log.Warnw("all regions exhausted, backing off",
				"retry", rounds,
				"max_retries", c.maxRetries,
				"delay", d.Round(100*time.Millisecond).String(),
			)
			return d
		}),
		retry.LastErrorOnly(true),
		retry.WithTimer(c.timer),
	)
	if err != nil {
		if IsRetryable(err) {
			c.log.Errorw("all retries exhausted",
				"attempts", c.attempts,
				"regions", c.rot.Len(),
				"max_retries", c.maxRetries,
				"error", err,
			)
			return ocr.Output{}, fmt.Errorf("%w: %w", ErrRetriesExhausted, err)
		}
		return ocr.Output{}, err
	}
	return out, nil
}

// sweep tries every region once, starting at the cursor. The first sweep of a
// call spreads attempts with a short jitter and only resets the cursor if it
// had to move; later sweeps reset on any success.
func (c *Controller) sweep(ctx context.Context, req ocr.Request, first bool) (ocr.Output, error) {
	var lastErr error
	moved := false

	for i := 0; i < c.rot.Len(); i++ {
		if first {
			if err := c.sleep(ctx, c.jitter()); err != nil {
				return ocr.Output{}, err
			}
		}

		region := c.rot.Current()
		c.attempts++
		out, err := c.invoker.Invoke(ctx, region, req)
		if err == nil {
			if moved || !first {
				c.log.Infow("region recovered, resetting rotation",
					"region", region, "attempt", c.attempts, "reset_to", c.rot.regions[0])
				c.rot.Reset()
			}
			return out, nil
		}

		reason := Classify(err)
		if reason == ReasonNone {
			return ocr.Output{}, err
		}
		next := c.rot.Advance()
		c.log.Warnw("switching region",
			"region", region,
			"next_region", next,
			"reason", string(reason),
			"attempt", c.attempts,
			"error", err,
		)
		moved = true
		lastErr = err
	}
	return ocr.Output{}, lastErr
}

// backoff is 2^round seconds plus up to one second of jitter.
func (c *Controller) backoff(round int) time.Duration {
	base := time.Duration(1<<uint(round)) * time.Second
	return base + time.Duration(c.rand()*float64(time.Second))
}

func (c *Controller) jitter() time.Duration {
	span := c.jitterMax - c.jitterMin
	return c.jitterMin + time.Duration(c.rand()*float64(span))
}

func (c *Controller) sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-c.timer.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
