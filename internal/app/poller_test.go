package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/five82/cinesearch/internal/logging"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 64; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type scriptedChecker struct {
	mu    sync.Mutex
	errs  []error
	calls int
}

func (s *scriptedChecker) Health(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.calls
	s.calls++
	if i < len(s.errs) {
		return s.errs[i]
	}
	return nil
}

func TestStartHealthPoller_ReportsEachCheck(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	down := errors.New("connection refused")
	checker := &scriptedChecker{errs: []error{nil, down}}
	results := make(chan error, 8)

	StartHealthPoller(ctx, checker, 5*time.Millisecond, logging.Discard(), func(err error) {
		results <- err
	})

	want := []error{nil, down, nil}
	for i, w := range want {
		select {
		case got := <-results:
			if got != w {
				t.Fatalf("report %d = %v, want %v", i, got, w)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for report %d", i)
		}
	}
}

func TestStartHealthPoller_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	checker := &scriptedChecker{}
	reports := make(chan error, 64)

	StartHealthPoller(ctx, checker, time.Millisecond, logging.Discard(), func(err error) {
		reports <- err
	})
	<-reports
	cancel()

	// Drain anything already in flight, then make sure nothing else arrives.
	time.Sleep(20 * time.Millisecond)
	for len(reports) > 0 {
		<-reports
	}
	select {
	case err := <-reports:
		t.Fatalf("unexpected report after cancel: %v", err)
	case <-time.After(30 * time.Millisecond):
	}
}
