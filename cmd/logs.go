package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/olimci/create-creatif/pkg/pipeline"
)

type logOutputStyle int

const (
	logOutputPlain logOutputStyle = iota
	logOutputRich
)

// logPrinter writes diagnostics one per line, colored when out is a terminal.
type logPrinter struct {
	out io.Writer
	mu  sync.Mutex

	levels map[pipeline.Level]lipgloss.Style
	stage  lipgloss.Style
	source lipgloss.Style
}

func newLogPrinter(style logOutputStyle, out io.Writer) *logPrinter {
	p := &logPrinter{out: out}

	if style != logOutputRich || !isTerminal(out) {
		return p
	}

	colors := catppuccinMocha()
	p.levels = map[pipeline.Level]lipgloss.Style{
		pipeline.LevelDebug:   lipgloss.NewStyle().Foreground(colors.overlay),
		pipeline.LevelInfo:    lipgloss.NewStyle().Foreground(colors.blue),
		pipeline.LevelWarning: lipgloss.NewStyle().Foreground(colors.yellow).Bold(true),
		pipeline.LevelError:   lipgloss.NewStyle().Foreground(colors.red).Bold(true),
	}
	p.stage = lipgloss.NewStyle().Foreground(colors.muted)
	p.source = lipgloss.NewStyle().Foreground(colors.text)
	return p
}

func isTerminal(w any) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *logPrinter) Print(d pipeline.Diagnostic) {
	line := formatLogPlain(d)
	if level, ok := p.levels[d.Level]; ok {
		line = formatLog(d, level.Render, p.stage.Render, p.source.Render)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, line)
}

func formatLogPlain(d pipeline.Diagnostic) string {
	plain := func(s ...string) string { return strings.Join(s, " ") }
	return formatLog(d, plain, plain, plain)
}

// formatLog renders "level [stage]: source: message: err", leaving out empty parts.
func formatLog(d pipeline.Diagnostic, level, stage, source func(...string) string) string {
	var b strings.Builder

	b.WriteString(level(d.Level.String()))
	if d.StageID != "" {
		b.WriteString(" " + stage("["+d.StageID+"]"))
	}
	b.WriteString(": ")

	if d.Source != "" {
		b.WriteString(source(d.Source) + ": ")
	}

	b.WriteString(d.Message)
	if d.Err != nil {
		b.WriteString(": " + d.Err.Error())
	}

	return b.String()
}
