package service

import (
	"crypto/rand"
	"io"
	"time"

	"github.com/darmiel/checkin/internal/core"
)

type options struct {
	now    core.Clock
	random io.Reader
	ttl    time.Duration

	observer core.Observer
}

func defaultOptions() options {
	return options{
		now:    time.Now,
		random: rand.Reader,
		ttl:    core.TokenTTL,

		observer: nopObserver{},
	}
}

// Option configures a TokenIssuer or TokenValidator.
type Option func(*options)

// WithClock replaces the time source.
func WithClock(now core.Clock) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithRandom replaces the secure random source. Only meant for tests that
// simulate a failing source; production code must use crypto/rand.
func WithRandom(r io.Reader) Option {
	return func(o *options) {
		o.random = r
	}
}

// WithTTL overrides the token validity window. The server always runs with
// core.TokenTTL; this only exists so tests can shorten the window.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.ttl = ttl
		}
	}
}

// WithObserver reports issued tokens and validation outcomes to observer.
func WithObserver(observer core.Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}

type nopObserver struct{}

func (nopObserver) TokenIssued()                {}
func (nopObserver) TokenValidated(core.Outcome) {}
func (nopObserver) RecordFailed()               {}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
