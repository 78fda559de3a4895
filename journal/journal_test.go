package journal

import (
	"path/filepath"
	"testing"
	"time"
)

func openTest(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndRecent(t *testing.T) {
	j := openTest(t)

	ts := time.UnixMilli(1000)
	j.now = func() time.Time {
		ts = ts.Add(time.Second)
		return ts
	}

	j.RecordRelease(42, 0.8)
	j.RecordReceive(99, 0.5)
	j.RecordSync()

	events, err := j.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	// Newest first.
	if events[0].Kind != KindSync {
		t.Errorf("events[0].Kind = %q, want sync", events[0].Kind)
	}
	if events[2].Kind != KindRelease || events[2].Seed != 42 || events[2].Energy != 0.8 {
		t.Errorf("release event = %+v", events[2])
	}
	if events[1].Kind != KindReceive || events[1].Seed != 99 {
		t.Errorf("receive event = %+v", events[1])
	}
}

func TestRecentLimit(t *testing.T) {
	j := openTest(t)
	for i := 0; i < 5; i++ {
		j.RecordRelease(uint32(i), 1)
	}
	events, err := j.Recent(2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 2 {
		t.Errorf("got %d events, want 2", len(events))
	}
}

func TestCountByKind(t *testing.T) {
	j := openTest(t)
	j.RecordRelease(1, 1)
	j.RecordRelease(2, 1)
	j.RecordReceive(3, 0.5)

	counts, err := j.CountByKind()
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if counts[KindRelease] != 2 || counts[KindReceive] != 1 || counts[KindSync] != 0 {
		t.Errorf("counts = %v", counts)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j1, err := Open(path)
	if err != nil {
		t.Fatalf("first open: %v", err)
	}
	j1.RecordRelease(7, 0.9)
	j1.Close()

	j2, err := Open(path)
	if err != nil {
		t.Fatalf("second open: %v", err)
	}
	defer j2.Close()

	events, err := j2.Recent(10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(events) != 1 || events[0].Seed != 7 {
		t.Errorf("persisted events = %+v", events)
	}
}
