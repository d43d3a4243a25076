package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/tcpping/internal/probe"
	"github.com/hamed0406/tcpping/internal/resolve"
	"github.com/hamed0406/tcpping/internal/stats"
)

// Sink receives every probe outcome as it happens, before any aggregation.
type Sink interface {
	Record(probe.Outcome)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(probe.Outcome)

func (f SinkFunc) Record(out probe.Outcome) { f(out) }

// Scheduler drives Count probes per address at Interval cadence. Addresses
// run concurrently, one worker each; within an address probes run strictly
// one at a time in sequence order.
type Scheduler struct {
	Logger   *zap.Logger
	Prober   probe.Prober
	Sink     Sink
	Count    int
	Interval time.Duration

	clk clock.Clock
}

func New(logger *zap.Logger, prober probe.Prober, sink Sink, count int, interval time.Duration) *Scheduler {
	if count < 1 {
		count = 1
	}
	if interval < 0 {
		interval = 0
	}
	return &Scheduler{
		Logger:   logger,
		Prober:   prober,
		Sink:     sink,
		Count:    count,
		Interval: interval,
		clk:      clock.New(),
	}
}

// WithClock swaps the pacing clock; tests use a mock.
func (s *Scheduler) WithClock(c clock.Clock) *Scheduler {
	s.clk = c
	return s
}

// Run probes every address and returns one AddressStats per address. When
// ctx is cancelled mid-run, each entry covers the probes actually issued up
// to that point. The returned error aggregates per-address worker failures;
// a failing worker never aborts its siblings.
func (s *Scheduler) Run(ctx context.Context, addrs []resolve.Address) (map[resolve.Address]stats.AddressStats, error) {
	results := make([]stats.AddressStats, len(addrs))
	errs := make([]error, len(addrs))

	var wg sync.WaitGroup
	for i, addr := range addrs {
		i, addr := i, addr
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = s.runAddress(ctx, addr)
		}()
	}
	wg.Wait()

	out := make(map[resolve.Address]stats.AddressStats, len(addrs))
	var err error
	for i, addr := range addrs {
		out[addr] = results[i]
		err = multierr.Append(err, errs[i])
	}
	return out, err
}

func (s *Scheduler) runAddress(ctx context.Context, addr resolve.Address) (st stats.AddressStats, err error) {
	// An unexpected panic kills this address's run only. The whole address is
	// then reported as zero probes completed; its siblings are untouched.
	var outcomes []probe.Outcome
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("probe worker for %s: %v", addr, r)
			s.Logger.Error("probe_worker_panic",
				zap.String("address", addr.IP),
				zap.Any("panic", r),
			)
			outcomes = nil
		}
		st = stats.Summarize(addr, outcomes)
	}()

	for seq := 0; seq < s.Count; seq++ {
		if ctx.Err() != nil {
			break
		}

		start := s.clk.Now()
		out := s.Prober.Probe(ctx, addr, seq)
		if ctx.Err() != nil && !out.Success {
			// In-flight probe abandoned by shutdown, not a measured failure.
			break
		}

		outcomes = append(outcomes, out)
		s.Sink.Record(out)
		s.Logger.Debug("probe_result",
			zap.String("address", addr.IP),
			zap.String("family", string(addr.Family)),
			zap.Int("seq", out.Seq),
			zap.Bool("success", out.Success),
			zap.Duration("elapsed", out.Elapsed),
			zap.String("reason", out.Class.String()),
		)

		if seq == s.Count-1 {
			break
		}
		// Sleep only the remainder of the interval; a probe that already
		// consumed it starts the next one immediately.
		if rest := s.Interval - s.clk.Since(start); rest > 0 {
			t := s.clk.Timer(rest)
			select {
			case <-ctx.Done():
				t.Stop()
				return
			case <-t.C:
			}
		}
	}
	return
}
