package telemetry

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// fakeClock advances by step on every reading.
func fakeClock(step time.Duration) func() time.Time {
	var mu sync.Mutex
	now := time.Date(2024, 3, 31, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(step)
		return now
	}
}

func TestNoOpCollector(t *testing.T) {
	collector := noOpCollector{}

	timer := collector.Start("test")
	timer.Child("child").End()
	timer.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)

	if buf.Len() != 0 {
		t.Errorf("no-op collector should produce no output, got: %s", buf.String())
	}
}

func TestFromContextReturnsNoOpWhenMissing(t *testing.T) {
	collector := FromContext(context.Background())
	if _, ok := collector.(noOpCollector); !ok {
		t.Errorf("FromContext should return noOpCollector when none present, got: %T", collector)
	}

	// StartTimer must be safe without a collector
	ctx, timer := StartTimer(context.Background(), "analyze")
	_, child := StartTimer(ctx, "engine.validate")
	child.End()
	timer.End()
}

func TestWithCollector(t *testing.T) {
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)

	retrieved, ok := FromContext(ctx).(*TimingCollector)
	if !ok || retrieved != collector {
		t.Error("FromContext should return the same collector that was added")
	}
}

func TestStartTimerNestsThroughContext(t *testing.T) {
	collector := NewTimingCollector()
	collector.now = fakeClock(time.Millisecond)
	ctx := WithCollector(context.Background(), collector)

	ctx, root := StartTimer(ctx, "analyze acme 2024-03")
	_, validate := StartTimer(ctx, "engine.validate")
	validate.End()
	scoreCtx, score := StartTimer(ctx, "engine.score")
	_, kurgan := StartTimer(scoreCtx, "kurgan")
	kurgan.End()
	score.End()
	root.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)

	want := strings.Join([]string{
		"analyze acme 2024-03: 7ms",
		"├─ engine.validate: 1ms",
		"└─ engine.score: 3ms",
		"   └─ kurgan: 1ms",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("unexpected report:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestTimingCollectorMultipleRoots(t *testing.T) {
	collector := NewTimingCollector()
	collector.now = fakeClock(2 * time.Millisecond)

	collector.Start("client a").End()
	collector.Start("client b").End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)

	out := buf.String()
	if !strings.Contains(out, "client a: 2ms") || !strings.Contains(out, "client b: 2ms") {
		t.Errorf("both roots should be reported, got: %s", out)
	}
	if got := collector.Total(); got != 4*time.Millisecond {
		t.Errorf("Total() = %v, want 4ms", got)
	}
}

func TestTimerEndIsIdempotent(t *testing.T) {
	collector := NewTimingCollector()
	collector.now = fakeClock(time.Millisecond)

	timer := collector.Start("op")
	timer.End()
	timer.End()

	if got := collector.Total(); got != time.Millisecond {
		t.Errorf("second End() should not move the end time, got %v", got)
	}
}

func TestTimingCollectorConcurrentChildren(t *testing.T) {
	collector := NewTimingCollector()
	ctx := WithCollector(context.Background(), collector)
	ctx, root := StartTimer(ctx, "batch")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, timer := StartTimer(ctx, "analyze")
			timer.End()
		}()
	}
	wg.Wait()
	root.End()

	var buf bytes.Buffer
	collector.Report(&buf, nil)

	if got := strings.Count(buf.String(), "analyze"); got != 16 {
		t.Errorf("expected 16 child timers, got %d", got)
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0ms"},
		{12 * time.Millisecond, "12ms"},
		{999 * time.Millisecond, "999ms"},
		{1500 * time.Millisecond, "1.50s"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
