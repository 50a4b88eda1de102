// Package jobmgr tracks named background jobs and one-shot timers with
// cancellation and in-memory bookkeeping. The bot uses it for deferred
// cleanup work: deleting self-expiring messages and disabling interactive
// UI after its lifetime ends.
//
// Typical usage:
//
//	jm := jobmgr.NewManager(func(msg string) {
//	    log.Println("[DEBUG] job:", msg)
//	})
//
//	_ = jm.After("cleanup:"+msgID, 10*time.Second, func() {
//	    // delete the message
//	})
//
//	// later, if the message is gone already...
//	_ = jm.Stop("cleanup:" + msgID)
//
// The package is intentionally minimal: no retry logic, no worker pools, no
// persistence. Jobs run in separate goroutines and remove themselves on
// completion.
package jobmgr

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Job represents one running unit of work. Jobs are added and removed by
// Manager automatically.
type Job struct {
	Name   string
	Cancel context.CancelFunc
}

// StatusReporter receives lifecycle events for jobs. Example messages:
//
//	running:cleanup:123
//	error:cleanup:123:channel gone
//	done:cleanup:123
type StatusReporter func(string)

// Manager starts, stops and tracks named jobs. Safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	jobs     map[string]*Job
	Reporter StatusReporter
}

// NewManager creates a Manager. The reporter callback may be nil.
func NewManager(reporter StatusReporter) *Manager {
	return &Manager{
		jobs:     make(map[string]*Job),
		Reporter: reporter,
	}
}

// StartAsync runs a job in its own goroutine and returns immediately. A
// second job under an already-running name is refused. The job is removed
// automatically when the runner returns.
func (m *Manager) StartAsync(name string, runner func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(context.Background())
	job := &Job{Name: name, Cancel: cancel}

	m.mu.Lock()
	if _, exists := m.jobs[name]; exists {
		m.mu.Unlock()
		cancel()
		return fmt.Errorf("job %q is already running", name)
	}
	m.jobs[name] = job
	m.mu.Unlock()

	go func() {
		m.report("running:" + name)

		if err := runner(ctx); err != nil {
			m.report("error:" + name + ":" + err.Error())
		} else {
			m.report("done:" + name)
		}

		m.mu.Lock()
		delete(m.jobs, name)
		m.mu.Unlock()
	}()

	return nil
}

// After schedules fn to run once after d, unless the job is stopped first.
// The timer occupies the name until it fires or is cancelled.
func (m *Manager) After(name string, d time.Duration, fn func()) error {
	return m.StartAsync(name, func(ctx context.Context) error {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			fn()
			return nil
		}
	})
}

// Stop cancels a running job by name. Stopping a name that is not running
// is an error so callers notice stale bookkeeping.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("job %q not running", name)
	}
	job.Cancel()
	delete(m.jobs, name)
	return nil
}

// StopAll cancels every running job.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, job := range m.jobs {
		job.Cancel()
		delete(m.jobs, name)
	}
}

// Running returns the sorted list of active job names.
func (m *Manager) Running() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for name := range m.jobs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (m *Manager) report(s string) {
	if m.Reporter != nil {
		m.Reporter(s)
	}
}
