package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// IDGenerator returns a fresh id that is unique within a store
type IDGenerator func() string

// NewUUID is the default IDGenerator
func NewUUID() string {
	return uuid.NewString()
}

type options struct {
	newID IDGenerator
	now   func() time.Time
	log   *logrus.Entry
}

// Option configures a store
type Option func(*options)

// WithIDGenerator replaces the UUID generator used for new records
func WithIDGenerator(gen IDGenerator) Option {
	return func(o *options) {
		if gen != nil {
			o.newID = gen
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger sets the logger the store writes to
func WithLogger(log *logrus.Entry) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

func buildOptions(component string, opts []Option) options {
	o := options{
		newID: NewUUID,
		now:   time.Now,
		log:   logrus.WithField("component", component),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
