package pipeline

import (
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Level is the severity of a diagnostic.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

var levelNames = []string{"debug", "info", "warning", "error"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelError {
		return "unknown"
	}
	return levelNames[l]
}

// ParseLevel accepts the level names plus the "warn" and "err" short forms.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "warn":
		name = "warning"
	case "err":
		name = "error"
	}

	if i := slices.Index(levelNames, name); i >= 0 {
		return Level(i), nil
	}
	return LevelDebug, fmt.Errorf("unknown level %q (want one of %s)", s, strings.Join(levelNames, ", "))
}

// Diagnostic is a single message reported by a stage.
type Diagnostic struct {
	Level   Level
	StageID string
	Source  string // file path, URL or env key
	Message string
	Err     error
}

func (d Diagnostic) Error() string {
	parts := make([]string, 0, 3)
	if d.Source != "" {
		parts = append(parts, d.Source)
	}
	parts = append(parts, d.Message)
	if d.Err != nil {
		parts = append(parts, d.Err.Error())
	}

	prefix := "[" + d.Level.String() + "]"
	if d.StageID != "" {
		prefix = "[" + d.Level.String() + " " + d.StageID + "]"
	}
	return prefix + " " + strings.Join(parts, ": ")
}

func (d Diagnostic) Unwrap() error {
	return d.Err
}

// Sink receives diagnostics as stages report them.
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a plain function to a Sink.
type SinkFunc func(Diagnostic)

func (f SinkFunc) Report(d Diagnostic) {
	f(d)
}

// NoopSink drops everything.
func NoopSink() Sink {
	return SinkFunc(func(Diagnostic) {})
}

// Collector keeps every diagnostic at or above its minimum level. It is safe for concurrent use.
type Collector struct {
	mu          sync.RWMutex
	diagnostics []Diagnostic
	minLevel    Level
	onReport    func(Diagnostic)
}

type CollectorOption func(*Collector)

func WithMinLevel(level Level) CollectorOption {
	return func(c *Collector) {
		c.minLevel = level
	}
}

// WithOnReport streams each kept diagnostic to fn. fn runs outside the collector's lock.
func WithOnReport(fn func(Diagnostic)) CollectorOption {
	return func(c *Collector) {
		c.onReport = fn
	}
}

func NewCollector(opts ...CollectorOption) *Collector {
	c := &Collector{minLevel: LevelDebug}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Collector) Report(d Diagnostic) {
	if d.Level < c.minLevel {
		return
	}

	c.mu.Lock()
	c.diagnostics = append(c.diagnostics, d)
	c.mu.Unlock()

	if c.onReport != nil {
		c.onReport(d)
	}
}

// Diagnostics returns a copy of everything collected, in report order.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.diagnostics)
}

// Filter returns the collected diagnostics keep accepts, in report order.
func (c *Collector) Filter(keep func(Diagnostic) bool) []Diagnostic {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []Diagnostic
	for _, d := range c.diagnostics {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

// AtLevel returns the diagnostics at or above level.
func (c *Collector) AtLevel(level Level) []Diagnostic {
	return c.Filter(func(d Diagnostic) bool { return d.Level >= level })
}

func (c *Collector) ForStage(id string) []Diagnostic {
	return c.Filter(func(d Diagnostic) bool { return d.StageID == id })
}

func (c *Collector) HasLevel(level Level) bool {
	return len(c.AtLevel(level)) > 0
}

func (c *Collector) Counts() map[Level]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	counts := make(map[Level]int)
	for _, d := range c.diagnostics {
		counts[d.Level]++
	}
	return counts
}

// Summary lists the counts from most to least severe, e.g. "1 warning, 5 info".
func (c *Collector) Summary() string {
	counts := c.Counts()
	if len(counts) == 0 {
		return "no diagnostics"
	}

	var parts []string
	for level := LevelError; level >= LevelDebug; level-- {
		n := counts[level]
		if n == 0 {
			continue
		}

		name := level.String()
		if n > 1 && (level == LevelWarning || level == LevelError) {
			name += "s"
		}
		parts = append(parts, fmt.Sprintf("%d %s", n, name))
	}
	return strings.Join(parts, ", ")
}
