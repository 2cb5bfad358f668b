// Package background runs recurring maintenance tasks on their own
// goroutines, with per-run timeouts, panic recovery and prometheus
// instrumentation.
package background

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"storefront-builder-backend/pkg/logger"
)

// Task is a named piece of maintenance work executed on a fixed interval.
type Task struct {
	Name       string
	Interval   time.Duration
	Timeout    time.Duration
	RunOnStart bool
	Run        func(ctx context.Context) error
}

var (
	ErrRunnerStarted  = errors.New("runner already started")
	ErrDuplicateTask  = errors.New("task already registered")
	errTaskIncomplete = errors.New("task needs a name, an interval and a runner")
)

type Runner struct {
	mu      sync.Mutex
	tasks   []Task
	started bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var (
	metricsOnce         sync.Once
	taskRunsTotal       *prometheus.CounterVec
	taskDurationSeconds *prometheus.HistogramVec
	taskLastSuccess     *prometheus.GaugeVec
)

func initMetrics() {
	metricsOnce.Do(func() {
		taskRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront_builder",
			Subsystem: "maintenance",
			Name:      "task_runs_total",
			Help:      "Total maintenance task executions",
		}, []string{"task", "status"})

		taskDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "storefront_builder",
			Subsystem: "maintenance",
			Name:      "task_duration_seconds",
			Help:      "Duration of maintenance task executions",
			Buckets:   prometheus.DefBuckets,
		}, []string{"task"})

		taskLastSuccess = promauto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "storefront_builder",
			Subsystem: "maintenance",
			Name:      "task_last_success_timestamp",
			Help:      "Unix timestamp of the last successful execution per task",
		}, []string{"task"})
	})
}

func NewRunner() *Runner {
	initMetrics()
	return &Runner{}
}

// Register adds a task; tasks must be registered before Start.
func (r *Runner) Register(task Task) error {
	if task.Name == "" || task.Interval <= 0 || task.Run == nil {
		return errTaskIncomplete
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return ErrRunnerStarted
	}
	for _, existing := range r.tasks {
		if existing.Name == task.Name {
			return fmt.Errorf("%w: %q", ErrDuplicateTask, task.Name)
		}
	}

	r.tasks = append(r.tasks, task)
	return nil
}

// Start launches one goroutine per registered task. Calling Start twice is a
// no-op.
func (r *Runner) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return
	}
	r.ctx, r.cancel = context.WithCancel(ctx)
	r.started = true

	for _, task := range r.tasks {
		r.wg.Add(1)
		go r.loop(task)
	}
}

func (r *Runner) loop(task Task) {
	defer r.wg.Done()

	if task.RunOnStart {
		r.execute(task)
	}

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			r.execute(task)
		}
	}
}

func (r *Runner) execute(task Task) {
	start := time.Now()
	status := "success"

	ctx := r.ctx
	if task.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, task.Timeout)
		defer cancel()
	}

	defer func() {
		taskDurationSeconds.WithLabelValues(task.Name).Observe(time.Since(start).Seconds())
		taskRunsTotal.WithLabelValues(task.Name, status).Inc()
		if status == "success" {
			taskLastSuccess.WithLabelValues(task.Name).Set(float64(time.Now().Unix()))
		}
	}()

	defer func() {
		if rec := recover(); rec != nil {
			status = "failure"
			logger.Error(fmt.Errorf("panic: %v", rec), "Maintenance task panicked", map[string]interface{}{
				"task": task.Name,
			})
		}
	}()

	if err := task.Run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			status = "canceled"
			return
		}
		status = "failure"
		logger.Error(err, "Maintenance task failed", map[string]interface{}{"task": task.Name})
		return
	}

	logger.Debug("Maintenance task completed", map[string]interface{}{"task": task.Name})
}

// Shutdown stops the tick loops and waits for in-flight runs, honoring the
// context deadline.
func (r *Runner) Shutdown(ctx context.Context) error {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return nil
	}
	cancel := r.cancel
	r.mu.Unlock()

	cancel()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
