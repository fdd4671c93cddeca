package cmd

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/olimci/create-creatif/pkg/pipeline"
)

// stageUI runs each stage behind a spinner and prints warnings once the stage is done.
type stageUI struct {
	out     io.Writer
	cancel  context.CancelFunc
	printer *logPrinter
	styles  uiStyles
	animate bool

	mu      sync.Mutex
	running bool
	pending []pipeline.Diagnostic
}

func newStageUI(out io.Writer, cancel context.CancelFunc, printer *logPrinter) *stageUI {
	return &stageUI{
		out:     out,
		cancel:  cancel,
		printer: printer,
		styles:  newStyles(),
		animate: isTerminal(out),
	}
}

// Report is a pipeline.WithOnReport callback.
func (u *stageUI) Report(d pipeline.Diagnostic) {
	if d.Level < pipeline.LevelWarning {
		return
	}

	u.mu.Lock()
	if u.running {
		u.pending = append(u.pending, d)
		u.mu.Unlock()
		return
	}
	u.mu.Unlock()

	u.printer.Print(d)
}

// Wrap is a pipeline.Wrapper.
func (u *stageUI) Wrap(stage pipeline.Stage, run func() error) error {
	u.mu.Lock()
	u.running = true
	u.mu.Unlock()

	start := time.Now()
	var err error
	if u.animate {
		err = u.spin(stage.Title, run)
	} else {
		err = run()
	}
	elapsed := time.Since(start).Truncate(time.Millisecond)

	u.mu.Lock()
	u.running = false
	pending := u.pending
	u.pending = nil
	u.mu.Unlock()

	mark := u.styles.success.Render("✓")
	if err != nil {
		mark = u.styles.failure.Render("✗")
	}
	fmt.Fprintf(u.out, "%s %s %s\n", mark, stage.Title, u.styles.muted.Render(elapsed.String()))

	for _, d := range pending {
		u.printer.Print(d)
	}

	return err
}

func (u *stageUI) spin(title string, run func() error) error {
	p := tea.NewProgram(newSpinnerModel(title, u.styles, u.cancel), tea.WithOutput(u.out))

	errc := make(chan error, 1)
	go func() {
		err := run()
		errc <- err
		p.Send(stageDoneMsg{})
	}()

	// A spinner failure only loses the animation.
	_, _ = p.Run()

	return <-errc
}

type stageDoneMsg struct{}

type spinnerModel struct {
	spinner  spinner.Model
	title    string
	cancel   context.CancelFunc
	stopping bool
	done     bool
}

func newSpinnerModel(title string, styles uiStyles, cancel context.CancelFunc) *spinnerModel {
	return &spinnerModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(styles.spinner),
		),
		title:  title,
		cancel: cancel,
	}
}

func (m *spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stageDoneMsg:
		m.done = true
		return m, tea.Quit
	case tea.KeyMsg:
		// raw mode turns ctrl+c into a key press, the stage itself stops through the context
		if msg.String() == "ctrl+c" && !m.stopping {
			m.stopping = true
			m.cancel()
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *spinnerModel) View() string {
	if m.done {
		return ""
	}

	title := m.title
	if m.stopping {
		title = "Cancelling, cleaning up"
	}
	return m.spinner.View() + " " + title
}
