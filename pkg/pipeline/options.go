package pipeline

func defaultOptions() *Options {
	return &Options{
		sink:    NoopSink(),
		wrapper: func(_ Stage, run func() error) error { return run() },
	}
}

type Options struct {
	sink    Sink
	wrapper Wrapper
}

func (o *Options) apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type Option func(*Options)

// Wrapper runs around every stage, e.g. to show a spinner or log timings.
// It must call run exactly once and return its error.
type Wrapper func(stage Stage, run func() error) error

func WithDiagnosticSink(sink Sink) Option {
	return func(o *Options) {
		if sink != nil {
			o.sink = sink
		}
	}
}

func WithWrapper(w Wrapper) Option {
	return func(o *Options) {
		if w != nil {
			o.wrapper = w
		}
	}
}
