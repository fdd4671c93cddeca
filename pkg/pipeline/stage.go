package pipeline

import (
	"context"
	"fmt"
)

// StageContext is handed to every stage function.
type StageContext struct {
	Ctx     context.Context
	StageID string // The ID of the stage, for diagnostic attribution

	sink Sink
}

func (sc *StageContext) report(level Level, source, message string, err error) {
	sc.sink.Report(Diagnostic{
		Level:   level,
		StageID: sc.StageID,
		Source:  source,
		Message: message,
		Err:     err,
	})
}

// Debug reports a debug-level diagnostic.
func (sc *StageContext) Debug(source, message string) {
	sc.report(LevelDebug, source, message, nil)
}

func (sc *StageContext) Debugf(source, format string, args ...any) {
	sc.Debug(source, fmt.Sprintf(format, args...))
}

// Info reports an info-level diagnostic.
func (sc *StageContext) Info(source, message string) {
	sc.report(LevelInfo, source, message, nil)
}

func (sc *StageContext) Infof(source, format string, args ...any) {
	sc.Info(source, fmt.Sprintf(format, args...))
}

// Warn reports a warning. The stage carries on.
func (sc *StageContext) Warn(source, message string, err error) {
	sc.report(LevelWarning, source, message, err)
}

func (sc *StageContext) Warnf(source, format string, args ...any) {
	sc.Warn(source, fmt.Sprintf(format, args...), nil)
}

// Error reports an error diagnostic and returns it as an error for the stage to return.
func (sc *StageContext) Error(source, message string, err error) error {
	sc.report(LevelError, source, message, err)

	if err != nil {
		return fmt.Errorf("%s: %s: %w", source, message, err)
	}
	return fmt.Errorf("%s: %s", source, message)
}

func (sc *StageContext) Errorf(source, format string, args ...any) error {
	return sc.Error(source, fmt.Sprintf(format, args...), nil)
}

type Stage struct {
	ID    string
	Title string // Shown to the user while the stage runs
	Func  func(*StageContext) error
}

func StageFunc(id, title string, fn func(*StageContext) error) Stage {
	if title == "" {
		title = id
	}

	return Stage{
		ID:    id,
		Title: title,
		Func:  fn,
	}
}
