package githubapi

import (
	"context"
	"errors"
	"time"

	"github.com/contribsync/contribsync/pkg/logger"
	"github.com/sirupsen/logrus"
)

// transientQueryRetryDelay is the fixed wait between transient query retries
const transientQueryRetryDelay = time.Second

// transientQueryMaxRetries bounds transient-query retries inside the
// executor; past it the error surfaces and the calling kind decides.
// Rate-limit classes have no ceiling: the remote budget always replenishes,
// and aborting a long historical backfill costs more than waiting.
const transientQueryMaxRetries = 5

// Executor runs one logical remote call, absorbing throttling and transient
// errors by waiting and retrying, and propagating fatal ones untouched.
type Executor struct {
	sleep func(time.Duration)
	now   func() time.Time
}

// NewExecutor creates an executor with real clocks
func NewExecutor() *Executor {
	return &Executor{
		sleep: time.Sleep,
		now:   time.Now,
	}
}

// Execute invokes fn until it succeeds or fails fatally. fn may issue a
// single request or a whole cursor-paginated sequence; a retry restarts it
// from the beginning.
func (e *Executor) Execute(ctx context.Context, fn func() error) error {
	transientRetries := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}

		switch class := Classify(err); class {
		case RateLimitPrimary:
			wait := retryAfterOf(err)
			e.logWait(class, wait)
			e.sleep(wait)

		case RateLimitSecondary:
			wait := resetDelayOf(err, e.now())
			e.logWait(class, wait)
			e.sleep(wait)

		case TransientQueryError:
			transientRetries++
			if transientRetries > transientQueryMaxRetries {
				return err
			}
			e.logWait(class, transientQueryRetryDelay)
			e.sleep(transientQueryRetryDelay)

		default:
			// Forbidden and unclassified errors are not retryable
			return err
		}
	}
}

func (e *Executor) logWait(class ErrorClass, wait time.Duration) {
	logger.WithFields(logrus.Fields{
		"class": class.String(),
		"wait":  wait.String(),
	}).Warn("Remote request throttled, waiting before retry")
}

func retryAfterOf(err error) time.Duration {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.RetryAfter()
	}
	return 0
}

func resetDelayOf(err error, now time.Time) time.Duration {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.ResetDelay(now)
	}
	return 0
}
