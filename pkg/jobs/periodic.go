package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is one run of a periodic job.
type Task func(ctx context.Context) error

// Periodic runs a task on a fixed interval in a single goroutine. Runs never
// overlap; a slow run delays the next tick.
type Periodic struct {
	name     string
	interval time.Duration
	task     Task
	logger   *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	started bool
}

// NewPeriodic builds a stopped runner. A non-positive interval defaults to one minute.
func NewPeriodic(name string, interval time.Duration, task Task, logger *zap.Logger) *Periodic {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Periodic{name: name, interval: interval, task: task, logger: logger}
}

// Start launches the loop. Safe to call once; later calls are ignored.
func (p *Periodic) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return
	}
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	p.started = true
	go p.loop(ctx)
	p.logger.Sugar().Infow("periodic job started", "job", p.name, "interval", p.interval)
}

// Stop cancels the loop and waits for an in-flight run to return.
func (p *Periodic) Stop() {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return
	}
	p.cancel()
	done := p.done
	p.started = false
	p.mu.Unlock()
	<-done
	p.logger.Sugar().Infow("periodic job stopped", "job", p.name)
}

func (p *Periodic) loop(ctx context.Context) {
	defer close(p.done)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := p.task(ctx); err != nil && ctx.Err() == nil {
				p.logger.Sugar().Warnw("periodic job failed", "job", p.name, "error", err)
			}
		}
	}
}
