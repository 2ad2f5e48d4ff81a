// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package schedule drives processing passes, either once or on a fixed interval.
package schedule

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/filexor/pkg/operation"
	"github.com/walteh/filexor/pkg/status"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// ErrAlreadyRunning is returned by Start while another Start is in progress.
var ErrAlreadyRunning = errors.Base("scheduler is already running")

// 🚦 State is where the scheduler is in its lifecycle
type State int32

const (
	Idle State = iota
	Waiting
	Running
	Terminated
)

// String returns a string representation of State
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Waiting:
		return "waiting"
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// 🔔 Notifier wakes a waiting scheduler before its interval elapses.
// Run blocks until ctx is done and must never block on wake.
type Notifier interface {
	Run(ctx context.Context, wake chan<- struct{}) error
}

// 🔧 Options configures a Scheduler
type Options struct {
	// Operation is run once per pass
	Operation operation.Operation
	// Single runs exactly one pass and returns
	Single bool
	// Interval separates the end of one pass from the start of the next
	Interval time.Duration
	// Notifier optionally starts passes early in continuous mode
	Notifier Notifier
	// OnReport is called after every pass
	OnReport func(*status.Report)
}

// ⏰ Scheduler runs passes one at a time. In continuous mode the interval
// is re-armed only after a pass returns, so passes never overlap.
type Scheduler struct {
	opts  Options
	sem   *semaphore.Weighted
	state atomic.Int32

	mu     sync.Mutex
	last   *status.Report
	passes int
}

// 🏭 New creates a scheduler
func New(opts Options) (*Scheduler, error) {
	if opts.Operation == nil {
		return nil, errors.Errorf("operation is required")
	}
	if !opts.Single && opts.Interval <= 0 {
		return nil, errors.Errorf("interval must be positive, got %s", opts.Interval)
	}
	return &Scheduler{
		opts: opts,
		sem:  semaphore.NewWeighted(1),
	}, nil
}

// State returns the current lifecycle state
func (s *Scheduler) State() State {
	return State(s.state.Load())
}

// LastReport returns the report of the most recent pass, or nil
func (s *Scheduler) LastReport() *status.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Passes returns the number of passes run so far
func (s *Scheduler) Passes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.passes
}

func (s *Scheduler) setState(st State) {
	s.state.Store(int32(st))
}

// 🏃 Start runs until the single pass completes or ctx is cancelled.
// Cancellation while waiting returns at once; cancellation during a pass
// returns after that pass. Per-file failures never make Start fail.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.sem.TryAcquire(1) {
		return ErrAlreadyRunning
	}
	defer s.sem.Release(1)
	defer s.setState(Terminated)

	if s.opts.Single {
		s.runPass(ctx)
		return nil
	}

	return s.runContinuous(ctx)
}

// 🔄 runContinuous runs the wait loop next to the optional notifier
func (s *Scheduler) runContinuous(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	wake := make(chan struct{}, 1)
	g, gctx := errgroup.WithContext(ctx)

	if s.opts.Notifier != nil {
		g.Go(func() error {
			if err := s.opts.Notifier.Run(gctx, wake); err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Msg("notifier stopped, polling only")
			}
			return nil
		})
	}

	g.Go(func() error {
		// the notifier lives only as long as the loop
		defer cancel()
		s.loop(gctx, wake)
		return nil
	})

	return g.Wait()
}

func (s *Scheduler) loop(ctx context.Context, wake <-chan struct{}) {
	timer := time.NewTimer(s.opts.Interval)
	defer timer.Stop()

	for {
		s.setState(Waiting)
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		case <-wake:
			timer.Stop()
		}

		s.runPass(ctx)

		if ctx.Err() != nil {
			return
		}
		timer.Reset(s.opts.Interval)
	}
}

// 📄 runPass runs the operation to completion
func (s *Scheduler) runPass(ctx context.Context) {
	s.setState(Running)

	report, err := s.opts.Operation.Execute(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("running pass")
	}

	s.mu.Lock()
	s.passes++
	if report != nil {
		s.last = report
	}
	s.mu.Unlock()

	if s.opts.OnReport != nil && report != nil {
		s.opts.OnReport(report)
	}
}
