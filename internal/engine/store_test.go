package engine

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewStore(dbPath)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func makeEvent(id, instance, action string, at time.Time) *Event {
	return &Event{
		ID:        id,
		Instance:  instance,
		Action:    action,
		Detail:    map[string]string{"k": "v"},
		Duration:  1500 * time.Millisecond,
		CreatedAt: at,
	}
}

func TestNewStoreBadPath(t *testing.T) {
	_, err := NewStore("/nonexistent/dir/test.db")
	if err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestNewStoreReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewStore(dbPath)
	if err != nil {
		t.Fatal(err)
	}
	s.RecordEvent(makeEvent("e1", "demo", ActionCreate, time.Now()))
	s.Close()

	s, err = NewStore(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	events, err := s.ListEvents("demo", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 {
		t.Errorf("events after reopen = %d, want 1", len(events))
	}
}

func TestRecordAndListEvents(t *testing.T) {
	s := newTestStore(t)
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	s.RecordEvent(makeEvent("e1", "demo", ActionCreate, base))
	s.RecordEvent(makeEvent("e2", "demo", ActionLaunch, base.Add(500*time.Millisecond)))
	s.RecordEvent(makeEvent("e3", "other", ActionCreate, base.Add(time.Second)))

	events, err := s.ListEvents("demo", 0)
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len = %d, want 2", len(events))
	}
	if events[0].ID != "e2" || events[1].ID != "e1" {
		t.Errorf("order = %s, %s; want e2, e1", events[0].ID, events[1].ID)
	}
	got := events[0]
	if got.Action != ActionLaunch {
		t.Errorf("Action = %q", got.Action)
	}
	if got.Detail["k"] != "v" {
		t.Errorf("Detail = %v", got.Detail)
	}
	if got.Duration != 1500*time.Millisecond {
		t.Errorf("Duration = %v", got.Duration)
	}
	if !got.CreatedAt.Equal(base.Add(500 * time.Millisecond)) {
		t.Errorf("CreatedAt = %v", got.CreatedAt)
	}
	if !got.OK() {
		t.Error("event without error should be OK")
	}

	all, err := s.ListEvents("", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || all[0].ID != "e3" {
		t.Errorf("all = %d events, first %s", len(all), all[0].ID)
	}
}

func TestListEventsLimit(t *testing.T) {
	s := newTestStore(t)
	base := time.Now()
	for i := 0; i < 5; i++ {
		s.RecordEvent(makeEvent(fmt.Sprintf("e%d", i), "demo", ActionLaunch, base.Add(time.Duration(i)*time.Second)))
	}
	events, err := s.ListEvents("demo", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 || events[0].ID != "e4" {
		t.Errorf("limited list = %d events", len(events))
	}
}

func TestRecordEventWithError(t *testing.T) {
	s := newTestStore(t)
	ev := makeEvent("e1", "demo", ActionSync, time.Now())
	ev.Detail = nil
	ev.Error = "sync clone: path policy violation"
	if err := s.RecordEvent(ev); err != nil {
		t.Fatal(err)
	}
	events, _ := s.ListEvents("demo", 0)
	if len(events) != 1 || events[0].OK() || events[0].Error != ev.Error {
		t.Errorf("events = %+v", events)
	}
	if events[0].Detail != nil {
		t.Errorf("Detail = %v, want nil", events[0].Detail)
	}
}

func TestDeleteEvents(t *testing.T) {
	s := newTestStore(t)
	s.RecordEvent(makeEvent("e1", "demo", ActionCreate, time.Now()))
	s.RecordEvent(makeEvent("e2", "other", ActionCreate, time.Now()))

	n, err := s.DeleteEvents("demo")
	if err != nil || n != 1 {
		t.Fatalf("DeleteEvents = %d, %v", n, err)
	}
	if events, _ := s.ListEvents("", 0); len(events) != 1 {
		t.Errorf("remaining = %d, want 1", len(events))
	}
}
