package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/olimci/create-creatif/pkg/utils/set"
)

var (
	ErrDuplicateStage = errors.New("duplicate stage")
	ErrStageFailed    = errors.New("stage failed")
)

// StageResult records how a single stage went.
type StageResult struct {
	ID       string
	Title    string
	Duration time.Duration
	Err      error
}

type Report struct {
	Stages []StageResult
}

// Failed returns the failing stage, or nil if every stage that ran succeeded.
func (r *Report) Failed() *StageResult {
	if r == nil {
		return nil
	}
	for i := range r.Stages {
		if r.Stages[i].Err != nil {
			return &r.Stages[i]
		}
	}
	return nil
}

func (r *Report) Duration() time.Duration {
	var total time.Duration
	if r == nil {
		return total
	}
	for _, s := range r.Stages {
		total += s.Duration
	}
	return total
}

// Run executes stages in order and stops at the first failure.
// The returned report lists every stage that was started.
func Run(ctx context.Context, stages []Stage, opts ...Option) (*Report, error) {
	o := defaultOptions().apply(opts...)

	seen := set.New[string]()
	for _, stage := range stages {
		if seen.Has(stage.ID) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateStage, stage.ID)
		}
		seen.Add(stage.ID)
	}

	report := &Report{Stages: make([]StageResult, 0, len(stages))}

	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("%w (%s): %w", ErrStageFailed, stage.ID, err)
		}

		sc := &StageContext{
			Ctx:     ctx,
			StageID: stage.ID,
			sink:    o.sink,
		}

		start := time.Now()
		err := o.wrapper(stage, func() error {
			return stage.Func(sc)
		})

		report.Stages = append(report.Stages, StageResult{
			ID:       stage.ID,
			Title:    stage.Title,
			Duration: time.Since(start),
			Err:      err,
		})

		if err != nil {
			return report, fmt.Errorf("%w (%s): %w", ErrStageFailed, stage.ID, err)
		}
	}

	return report, nil
}
