package upload

import (
	"context"
	"math/rand/v2"
	"time"
)

// Backend moves a file and reports progress as percentage increments.
// The channel is closed when the transfer ends or ctx is cancelled.
type Backend interface {
	Transfer(ctx context.Context, f File) <-chan int
}

// Simulated stands in for a storage backend: every Interval it reports a
// random increment in [MinStep, MaxStep] until 100% has been reported.
type Simulated struct {
	Interval time.Duration
	MinStep  int
	MaxStep  int
}

func (s Simulated) Transfer(ctx context.Context, _ File) <-chan int {
	ch := make(chan int)
	go func() {
		defer close(ch)
		ticker := time.NewTicker(s.Interval)
		defer ticker.Stop()

		sent := 0
		for sent < 100 {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			step := s.step()
			select {
			case ch <- step:
				sent += step
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func (s Simulated) step() int {
	lo, hi := s.MinStep, s.MaxStep
	if lo < 1 {
		lo = 1
	}
	if hi < lo {
		hi = lo
	}
	return lo + rand.IntN(hi-lo+1)
}

// Fixed replays its increments back to back with no delay. It is used when
// upload.tick_interval is zero and by tests that need a deterministic run.
type Fixed []int

func (s Fixed) Transfer(ctx context.Context, _ File) <-chan int {
	ch := make(chan int)
	go func() {
		defer close(ch)
		for _, step := range s {
			select {
			case ch <- step:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}
