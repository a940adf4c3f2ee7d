// Package jobs runs named background tasks on an interval.
//
// Each job is registered with a Config. Start launches one loop per enabled
// job with an interval: the job runs immediately and then on every tick until
// Stop. Jobs without an interval only run through Trigger.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Result is the outcome of one run
type Result struct {
	// Affected counts the records the run touched
	Affected int `json:"affected"`
	// Errors are non-fatal problems hit during the run
	Errors []string `json:"errors,omitempty"`
}

// Job is a unit of background work
type Job interface {
	Name() string
	Run(ctx context.Context) (Result, error)
}

// Func adapts a function to Job
type Func struct {
	name string
	fn   func(ctx context.Context) (Result, error)
}

// NewFunc returns a Job called name that runs fn
func NewFunc(name string, fn func(ctx context.Context) (Result, error)) Func {
	return Func{name: name, fn: fn}
}

// Name implements Job.
func (f Func) Name() string { return f.name }

// Run implements Job.
func (f Func) Run(ctx context.Context) (Result, error) { return f.fn(ctx) }

// Config controls how a registered job is scheduled
type Config struct {
	Enabled bool
	// Interval between runs. Zero means manual trigger only.
	Interval time.Duration
}

// Info describes a registered job
type Info struct {
	Name      string        `json:"name"`
	Enabled   bool          `json:"enabled"`
	Interval  time.Duration `json:"interval"`
	LastRun   time.Time     `json:"last_run,omitempty"`
	LastError string        `json:"last_error,omitempty"`
	Runs      int           `json:"runs"`
}

type entry struct {
	job     Job
	cfg     Config
	lastRun time.Time
	lastErr string
	runs    int
}

// Registry owns the registered jobs and their loops
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	logger  *slog.Logger
	now     func() time.Time
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewRegistry creates an empty registry. A nil logger uses slog.Default.
func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{
		entries: make(map[string]*entry),
		logger:  logger,
		now:     time.Now,
	}
}

// Register adds job under its name
func (r *Registry) Register(job Job, cfg Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := job.Name()
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}
	r.entries[name] = &entry{job: job, cfg: cfg}
	r.logger.Debug("registered job", "job", name, "enabled", cfg.Enabled, "interval", cfg.Interval)
	return nil
}

// Start launches a loop for every enabled job that has an interval. The
// loops stop when ctx is cancelled or Stop is called.
func (r *Registry) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx, r.cancel = context.WithCancel(ctx)
	for name, e := range r.entries {
		if !e.cfg.Enabled || e.cfg.Interval <= 0 {
			continue
		}
		r.wg.Add(1)
		go r.loop(ctx, name, e)
	}
}

// Stop cancels the loops and waits for running jobs to return
func (r *Registry) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	r.wg.Wait()
}

// Trigger runs the named job once, outside its schedule
func (r *Registry) Trigger(ctx context.Context, name string) (Result, error) {
	r.mu.RLock()
	e, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		return Result{}, fmt.Errorf("job %s not found", name)
	}
	if !e.cfg.Enabled {
		return Result{}, fmt.Errorf("job %s is disabled", name)
	}
	return r.run(ctx, name, e)
}

// List returns the registered jobs sorted by name
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.entries))
	for name, e := range r.entries {
		infos = append(infos, Info{
			Name:      name,
			Enabled:   e.cfg.Enabled,
			Interval:  e.cfg.Interval,
			LastRun:   e.lastRun,
			LastError: e.lastErr,
			Runs:      e.runs,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

func (r *Registry) loop(ctx context.Context, name string, e *entry) {
	defer r.wg.Done()

	if _, err := r.run(ctx, name, e); err != nil && ctx.Err() == nil {
		r.logger.Warn("initial job run failed", "job", name, "error", err)
	}

	ticker := time.NewTicker(e.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Debug("stopping job loop", "job", name)
			return
		case <-ticker.C:
			if _, err := r.run(ctx, name, e); err != nil && ctx.Err() == nil {
				r.logger.Warn("job run failed", "job", name, "error", err)
			}
		}
	}
}

func (r *Registry) run(ctx context.Context, name string, e *entry) (Result, error) {
	start := r.now()
	res, err := e.job.Run(ctx)

	r.mu.Lock()
	e.lastRun = start
	e.runs++
	e.lastErr = ""
	if err != nil {
		e.lastErr = err.Error()
	}
	r.mu.Unlock()

	if err != nil {
		return res, fmt.Errorf("run %s: %w", name, err)
	}
	r.logger.Info("job complete", "job", name, "affected", res.Affected,
		"errors", len(res.Errors), "duration", r.now().Sub(start))
	return res, nil
}
