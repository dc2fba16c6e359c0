package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Runner is what the scheduler triggers.
type Runner interface {
	Run(ctx context.Context) error
}

type Job struct {
	cron    *cron.Cron
	runner  Runner
	timeout time.Duration
}

// NewJob schedules runner on a standard five-field cron spec evaluated
// in loc.
func NewJob(schedule string, loc *time.Location, runner Runner, timeout time.Duration) (*Job, error) {
	j := &Job{
		cron:    cron.New(cron.WithLocation(loc)),
		runner:  runner,
		timeout: timeout,
	}
	if _, err := j.cron.AddFunc(schedule, j.tick); err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", schedule, err)
	}
	return j, nil
}

func (j *Job) Start() {
	j.cron.Start()
}

// Stop prevents new runs and returns a context that is done once the
// running one, if any, has finished.
func (j *Job) Stop() context.Context {
	return j.cron.Stop()
}

func (j *Job) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	// Run logs per-recipient failures itself.
	_ = j.runner.Run(ctx)
}
