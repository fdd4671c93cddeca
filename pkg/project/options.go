package project

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/olimci/create-creatif/pkg/pipeline"
)

const MaxProjectNameLength = 200

var ErrInvalidProjectName = errors.New("invalid project name")

// Options are the user's answers for one run.
type Options struct {
	// AppDirectory is the directory to create, relative to the base directory.
	// Empty scaffolds into the base directory itself.
	AppDirectory      string
	ProjectName       string
	HasStarterProject bool
	Force             bool
}

// ResolveProjectName falls back to the app directory, then to the base directory's name.
func (o Options) ResolveProjectName(baseDir string) string {
	if name := strings.TrimSpace(o.ProjectName); name != "" {
		return name
	}
	if dir := strings.TrimSpace(o.AppDirectory); dir != "" {
		return dir
	}
	return filepath.Base(filepath.Clean(baseDir))
}

// ValidateProjectName checks the length limits on a resolved name.
func ValidateProjectName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 1 || n > MaxProjectNameLength {
		return fmt.Errorf("%w: must have between 1 and %d characters (got %d)", ErrInvalidProjectName, MaxProjectNameLength, n)
	}
	return nil
}

func defaultOptions() *creatorOptions {
	return &creatorOptions{
		sink: pipeline.NoopSink(),
	}
}

type creatorOptions struct {
	baseDir    string
	httpClient *http.Client
	sink       pipeline.Sink
	wrapper    pipeline.Wrapper
	rand       io.Reader
	bcryptCost int
}

func (o *creatorOptions) apply(opts ...Option) *creatorOptions {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type Option func(*creatorOptions)

// WithBaseDir sets the directory app directories are resolved against. Defaults to the process working directory.
func WithBaseDir(dir string) Option {
	return func(o *creatorOptions) {
		o.baseDir = dir
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *creatorOptions) {
		o.httpClient = c
	}
}

func WithDiagnosticSink(sink pipeline.Sink) Option {
	return func(o *creatorOptions) {
		if sink != nil {
			o.sink = sink
		}
	}
}

func WithWrapper(w pipeline.Wrapper) Option {
	return func(o *creatorOptions) {
		o.wrapper = w
	}
}

// WithRand sets the randomness source for the database secret.
func WithRand(r io.Reader) Option {
	return func(o *creatorOptions) {
		o.rand = r
	}
}

func WithBcryptCost(cost int) Option {
	return func(o *creatorOptions) {
		o.bcryptCost = cost
	}
}
