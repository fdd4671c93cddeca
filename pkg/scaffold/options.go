package scaffold

func defaultOptions() *options {
	return &options{
		force:  false,
		onFile: func(FileEvent) {},
	}
}

type options struct {
	force  bool
	onFile func(FileEvent)
}

func (o *options) apply(opts ...Option) *options {
	for _, opt := range opts {
		opt(o)
	}

	return o
}

type Option func(o *options)

// WithForce allows replacing any existing file, not only those matching the manifest's overwrite list.
func WithForce(force bool) Option {
	return func(o *options) {
		o.force = force
	}
}

// WithOnFile is called after each file is written.
func WithOnFile(fn func(FileEvent)) Option {
	return func(o *options) {
		if fn != nil {
			o.onFile = fn
		}
	}
}
