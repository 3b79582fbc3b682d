package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/i474232898/nordic-weather/internal/weather"
)

type countingProber struct {
	calls atomic.Int32
}

func (p *countingProber) Probe(context.Context) weather.UpstreamStatus {
	p.calls.Add(1)
	return weather.UpstreamStatus{Reachable: p.calls.Load()%2 == 0}
}

func TestSchedulerRunsProbe(t *testing.T) {
	p := &countingProber{}
	s := New(p, 20*time.Millisecond, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for p.calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("probe ran %d times, want at least 2", p.calls.Load())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestSchedulerDisabledWithoutInterval(t *testing.T) {
	p := &countingProber{}
	s := New(p, 0, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Stop()

	time.Sleep(30 * time.Millisecond)
	if n := p.calls.Load(); n != 0 {
		t.Fatalf("probe ran %d times with interval disabled", n)
	}
}
