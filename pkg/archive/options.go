package archive

import (
	"net/http"
	"time"

	"github.com/olimci/create-creatif/pkg/version"
)

func defaultOptions() *Options {
	return &Options{
		userAgent:    version.UserAgent(),
		timeout:      5 * time.Minute,
		retries:      0,
		retryWaitMin: 500 * time.Millisecond,
		retryWaitMax: 5 * time.Second,
	}
}

type Options struct {
	httpClient   *http.Client
	userAgent    string
	timeout      time.Duration
	retries      int
	retryWaitMin time.Duration
	retryWaitMax time.Duration
}

func (o *Options) apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type Option func(*Options)

// WithHTTPClient replaces the underlying HTTP client. Its Timeout is left alone.
func WithHTTPClient(c *http.Client) Option {
	return func(o *Options) {
		o.httpClient = c
	}
}

func WithUserAgent(ua string) Option {
	return func(o *Options) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

// WithTimeout bounds the whole download. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(o *Options) {
		o.timeout = d
	}
}

// WithRetries sets how many times a failed request is retried.
func WithRetries(n int) Option {
	return func(o *Options) {
		if n >= 0 {
			o.retries = n
		}
	}
}

func WithRetryWait(min, max time.Duration) Option {
	return func(o *Options) {
		o.retryWaitMin = min
		o.retryWaitMax = max
	}
}
