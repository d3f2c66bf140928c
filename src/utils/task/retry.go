package task

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Implement operation retrying
type Retry struct {
	ctx            context.Context
	maxElapsedTime time.Duration
	maxInterval    time.Duration
	onError        func(err error) error
}

func NewRetry() *Retry {
	return new(Retry)
}

func (self *Retry) WithMaxElapsedTime(maxElapsedTime time.Duration) *Retry {
	self.maxElapsedTime = maxElapsedTime
	return self
}

func (self *Retry) WithMaxInterval(maxInterval time.Duration) *Retry {
	self.maxInterval = maxInterval
	return self
}

func (self *Retry) WithContext(ctx context.Context) *Retry {
	self.ctx = ctx
	return self
}

// Callback may wrap the error with backoff.Permanent to stop retrying
func (self *Retry) WithOnError(v func(err error) error) *Retry {
	self.onError = v
	return self
}

func (self *Retry) Run(f func() error) error {
	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = self.maxElapsedTime
	b.MaxInterval = self.maxInterval

	op := f
	if self.onError != nil {
		op = func() error {
			err := f()
			if err != nil {
				return self.onError(err)
			}
			return nil
		}
	}

	return backoff.Retry(op, backoff.WithContext(b, self.ctx))
}
