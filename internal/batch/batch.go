// Package batch analyzes many resumes concurrently against a shared engine.
package batch

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/resume-analyzer/internal/analyzer"
	"github.com/spigell/resume-analyzer/internal/logger"
)

// Analyzer is the engine the runner calls into.
type Analyzer interface {
	Analyze(text, position string) (*analyzer.Result, error)
}

// Job is one resume to analyze. Source names it in logs and output.
type Job struct {
	Source   string
	Text     string
	Position string
}

// Outcome pairs a job with its result or error. Exactly one of Result and
// Err is set for a job that ran.
type Outcome struct {
	Source   string           `json:"source"`
	Result   *analyzer.Result `json:"result,omitempty"`
	Err      error            `json:"-"`
	Error    string           `json:"error,omitempty"`
	Duration time.Duration    `json:"-"`
}

// Run analyzes jobs with at most workers in flight and returns one outcome
// per job in input order. Per-job failures are kept in the outcome. The
// returned error is non-nil only when ctx is cancelled; outcomes of jobs
// that never started carry that error.
func Run(ctx context.Context, engine Analyzer, jobs []Job, workers int, log *zap.Logger) ([]Outcome, error) {
	log = logger.OrNop(log)
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	outcomes := make([]Outcome, len(jobs))
	for i, job := range jobs {
		outcomes[i].Source = job.Source
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		if err := gCtx.Err(); err != nil {
			markSkipped(outcomes[i:], err)
			break
		}

		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				setErr(&outcomes[i], err)
				return nil
			}

			start := time.Now()
			result, err := engine.Analyze(job.Text, job.Position)
			outcomes[i].Duration = time.Since(start)

			fields := logger.RequestFields("", job.Source, job.Position)
			if err != nil {
				setErr(&outcomes[i], err)
				log.Warn("analysis failed", append(fields, zap.Error(err))...)
				return nil
			}

			outcomes[i].Result = result
			log.Debug("analysis completed",
				append(fields, zap.Int("score", result.Score), zap.Duration("duration", outcomes[i].Duration))...,
			)
			return nil
		})
	}

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		for i := range outcomes {
			if outcomes[i].Result == nil && outcomes[i].Err == nil {
				setErr(&outcomes[i], err)
			}
		}
		return outcomes, err
	}

	return outcomes, nil
}

func setErr(o *Outcome, err error) {
	o.Err = err
	o.Error = err.Error()
}

func markSkipped(outcomes []Outcome, err error) {
	for i := range outcomes {
		setErr(&outcomes[i], err)
	}
}

// Failed counts outcomes with an error.
func Failed(outcomes []Outcome) int {
	n := 0
	for _, o := range outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}
