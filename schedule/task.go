package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

var ErrInvalidJob = errors.New("schedule: invalid job")

type Scheduler struct {
	// Tick is how often due jobs are looked for.
	Tick   time.Duration
	Logger *slog.Logger

	jobs    []*Job
	mu      sync.RWMutex
	running sync.WaitGroup
}

func NewScheduler(logger *slog.Logger) *Scheduler {
	return &Scheduler{
		Tick:   time.Second,
		Logger: logger,
		jobs:   make([]*Job, 0),
	}
}

func (scheduler *Scheduler) AddJob(job *Job) error {
	scheduler.mu.Lock()
	defer scheduler.mu.Unlock()

	if err := scheduler.validateJob(job); err != nil {
		return err
	}

	scheduler.jobs = append(scheduler.jobs, job)
	return nil
}

func (scheduler *Scheduler) validateJob(job *Job) error {
	if job.interval <= 0 {
		return fmt.Errorf("%w: interval must be greater than 0", ErrInvalidJob)
	}
	if len(job.tasks) == 0 {
		return fmt.Errorf("%w: job must have at least one task", ErrInvalidJob)
	}
	if job.nextExecuteAt.IsZero() {
		job.nextExecuteAt = time.Now().Add(job.interval)
	}
	return nil
}

type Job struct {
	tasks             []Task
	interval          time.Duration
	nextExecuteAt     time.Time
	previousExecuteAt time.Time
	name              string
	timeout           time.Duration
	running           bool
	mu                sync.RWMutex
}

func NewJob(name string) *Job {
	return &Job{
		name:  name,
		tasks: make([]Task, 0),
	}
}

func (job *Job) WithTasks(tasks ...Task) *Job {
	job.tasks = tasks
	return job
}

func (job *Job) WithInterval(interval time.Duration) *Job {
	job.interval = interval
	return job
}

func (job *Job) WithExecuteAt(executeAt time.Time) *Job {
	job.nextExecuteAt = executeAt
	return job
}

// WithTimeout bounds the context each task runs with.
func (job *Job) WithTimeout(timeout time.Duration) *Job {
	job.timeout = timeout
	return job
}

func (job *Job) Name() string {
	return job.name
}

// PreviousExecuteAt is the time the job last became due.
func (job *Job) PreviousExecuteAt() time.Time {
	job.mu.RLock()
	defer job.mu.RUnlock()
	return job.previousExecuteAt
}

type Task func(ctx context.Context) error

// Run executes due jobs until ctx ends, then waits for running jobs.
func (scheduler *Scheduler) Run(ctx context.Context) error {
	ticker := time.NewTicker(scheduler.Tick)
	defer ticker.Stop()
	defer scheduler.running.Wait()

	for {
		select {
		case now := <-ticker.C:
			scheduler.mu.RLock()
			jobs := make([]*Job, len(scheduler.jobs))
			copy(jobs, scheduler.jobs)
			scheduler.mu.RUnlock()

			for _, job := range jobs {
				if job.claim(now) {
					scheduler.running.Add(1)
					go scheduler.executeJob(ctx, job, now)
				}
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// claim marks job as running when it is due and not still running.
func (job *Job) claim(now time.Time) bool {
	job.mu.Lock()
	defer job.mu.Unlock()

	if job.running || job.nextExecuteAt.After(now) {
		return false
	}
	job.running = true
	return true
}

func (job *Job) updateNextExecution(now time.Time) {
	job.mu.Lock()
	defer job.mu.Unlock()
	job.running = false
	job.previousExecuteAt = now
	job.nextExecuteAt = now.Add(job.interval)
}

func (scheduler *Scheduler) executeJob(ctx context.Context, job *Job, now time.Time) {
	defer scheduler.running.Done()
	defer job.updateNextExecution(now)

	for _, task := range job.tasks {
		if err := scheduler.executeTask(ctx, task, job.timeout); err != nil {
			scheduler.Logger.WarnContext(ctx, "task execution failed", "job", job.name, "error", err)
		}
	}
}

func (scheduler *Scheduler) executeTask(ctx context.Context, task Task, timeout time.Duration) (err error) {
	defer func() {
		if recover := recover(); recover != nil {
			err = fmt.Errorf("task panic: %v", recover)
		}
	}()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return task(ctx)
}
