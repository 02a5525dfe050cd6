package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/fleetlog/duty-status/internal/core/domain"
)

type options struct {
	now func() time.Time
}

// Option tunes a service constructor.
type Option func(*options)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// storageErr wraps err as a domain.StorageError unless it already carries a
// domain meaning.
func storageErr(op string, err error) error {
	switch {
	case errors.Is(err, domain.ErrStorage),
		errors.Is(err, domain.ErrOperatorNotFound),
		errors.Is(err, domain.ErrOperatorExists),
		errors.Is(err, domain.ErrInvalidArgument):
		return fmt.Errorf("%s: %w", op, err)
	default:
		return domain.NewStorageError(op, err)
	}
}
