package contractmodel

import "go.uber.org/zap"

// Options configures Verify and TestModel. Mock and TestProxy take their own
// MockOption / ProxyOption values instead. There is
// deliberately no file, environment-variable, or CLI-flag path into this
// struct (spec.md §6 "No file formats, wire protocols, CLI, environment
// variables, or persisted state") — every knob is a functional option
// applied in Go source at the call site.
type Options struct {
	Gen       GenOptions
	NumTests  int
	ZapLogger *zap.Logger
}

// Option configures Options.
type Option func(*Options)

// DefaultOptions returns the spec's documented defaults: 100 generated
// traces per Check, each up to GenOptions' default max length.
func DefaultOptions() Options {
	return Options{
		Gen:      DefaultGenOptions(),
		NumTests: 100,
	}
}

// WithMaxLength bounds generated trace length.
func WithMaxLength(n int) Option {
	return func(o *Options) { o.Gen.MaxLength = n }
}

// WithSeed fixes the base seed every generated trace derives from, for
// reproducible runs.
func WithSeed(seed int64) Option {
	return func(o *Options) { o.Gen.Seed = seed }
}

// WithRetryBudget bounds such_that retries during argument generation.
func WithRetryBudget(n int) Option {
	return func(o *Options) { o.Gen.RetryBudget = n }
}

// WithNumTests sets how many traces Check generates before concluding the
// property holds.
func WithNumTests(n int) Option {
	return func(o *Options) { o.NumTests = n }
}

// WithZapLogger attaches a base zap.Logger; components log to it tagged
// with their own category (internal/clog). Omitting this option leaves
// logging a no-op.
func WithZapLogger(l *zap.Logger) Option {
	return func(o *Options) { o.ZapLogger = l }
}

func resolveOptions(opts []Option) Options {
	cfg := DefaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
