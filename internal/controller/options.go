package controller

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/diogo/ragchat/internal/models"
)

// DefaultNoticeTTL is how long an upload or indexing notice stays visible
const DefaultNoticeTTL = 3 * time.Second

type options struct {
	ctx          context.Context
	noticeTTL    time.Duration
	now          func() time.Time
	timeFormat   func(time.Time) string
	greeting     string
	fallbackText string
	logger       zerolog.Logger
	onFailure    func(Operation, error)
	afterFunc    func(time.Duration, func()) *time.Timer
}

func defaultOptions() options {
	return options{
		ctx:          context.Background(),
		noticeTTL:    DefaultNoticeTTL,
		now:          time.Now,
		timeFormat:   models.FormatTimestamp,
		greeting:     models.DefaultGreeting,
		fallbackText: models.FallbackAnswer,
		logger:       zerolog.Nop(),
		afterFunc:    time.AfterFunc,
	}
}

// Option configures a Controller
type Option func(*options)

// WithNoticeTTL sets the delay before the notice slot clears itself
func WithNoticeTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.noticeTTL = d
		}
	}
}

// WithClock replaces the time source used to stamp messages
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithTimeFormat sets how message timestamps are rendered
func WithTimeFormat(format func(time.Time) string) Option {
	return func(o *options) {
		if format != nil {
			o.timeFormat = format
		}
	}
}

// WithGreeting sets the assistant message the conversation starts with
func WithGreeting(text string) Option {
	return func(o *options) {
		if text != "" {
			o.greeting = text
		}
	}
}

// WithFallbackText sets the assistant reply used when an ask fails
func WithFallbackText(text string) Option {
	return func(o *options) {
		if text != "" {
			o.fallbackText = text
		}
	}
}

// WithLogger sets the logger failures are reported to
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithFailureHandler registers a callback invoked, outside the state lock,
// with every collaborator error the controller absorbs
func WithFailureHandler(fn func(Operation, error)) Option {
	return func(o *options) {
		o.onFailure = fn
	}
}

// WithContext sets the parent context of every collaborator call
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}
