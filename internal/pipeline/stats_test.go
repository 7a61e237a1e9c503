package pipeline

import (
	"testing"
	"time"
)

func TestProcessingStats_EmptySnapshot(t *testing.T) {
	s := NewProcessingStats(time.Hour)
	snap := s.Snapshot()
	if snap.Count != 0 || snap.P50Ms != 0 || snap.MaxMs != 0 {
		t.Errorf("expected zero snapshot, got %+v", snap)
	}
}

func TestProcessingStats_Aggregates(t *testing.T) {
	s := NewProcessingStats(time.Hour)
	for _, ms := range []int64{10, 20, 30, 40, 50} {
		s.Record(ms)
	}

	snap := s.Snapshot()
	if snap.Count != 5 {
		t.Fatalf("expected 5 samples, got %d", snap.Count)
	}
	if snap.MinMs != 10 || snap.MaxMs != 50 {
		t.Errorf("expected min 10 max 50, got %d/%d", snap.MinMs, snap.MaxMs)
	}
	if snap.AvgMs != 30 {
		t.Errorf("expected avg 30, got %g", snap.AvgMs)
	}
	if snap.P50Ms != 30 {
		t.Errorf("expected p50 30, got %g", snap.P50Ms)
	}
	if snap.P99Ms < snap.P50Ms {
		t.Errorf("p99 %g below p50 %g", snap.P99Ms, snap.P50Ms)
	}
}

func TestProcessingStats_NegativeClampedToZero(t *testing.T) {
	s := NewProcessingStats(time.Hour)
	s.Record(-5)
	if snap := s.Snapshot(); snap.MinMs != 0 {
		t.Errorf("expected negative sample clamped to 0, got %d", snap.MinMs)
	}
}

func TestProcessingStats_WindowPrunes(t *testing.T) {
	s := NewProcessingStats(10 * time.Millisecond)
	s.Record(100)
	time.Sleep(25 * time.Millisecond)
	s.Record(200)

	snap := s.Snapshot()
	if snap.Count != 1 || snap.MaxMs != 200 {
		t.Errorf("expected only the fresh sample, got %+v", snap)
	}
}
