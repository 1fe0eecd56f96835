package store

import (
	"testing"
	"time"
)

var base = time.Date(2025, 12, 5, 18, 0, 0, 0, time.UTC)

func TestEventRepository_RecordAndRecent(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	seq := []string{"shaka", "peace_sign", "closed_fist"}
	for i, name := range seq {
		e := &Event{
			Gesture:    name,
			Emoji:      "x",
			Action:     "act_" + name,
			Confidence: 0.85,
			IsNew:      i%2 == 0,
			OccurredAt: base.Add(time.Duration(i) * time.Second),
		}
		if err := repo.Record(e); err != nil {
			t.Fatalf("Record(%s) error = %v", name, err)
		}
		if e.ID == "" {
			t.Error("Record should assign an ID")
		}
	}

	events, err := repo.Recent(2)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}

	if events[0].Gesture != "closed_fist" || events[1].Gesture != "peace_sign" {
		t.Errorf("expected newest first, got %s, %s", events[0].Gesture, events[1].Gesture)
	}
	if !events[0].IsNew || events[1].IsNew {
		t.Error("is_new flag did not round-trip")
	}
	if events[0].Action != "act_closed_fist" {
		t.Errorf("action = %q", events[0].Action)
	}
	if !events[0].OccurredAt.Equal(base.Add(2 * time.Second)) {
		t.Errorf("occurred_at = %v", events[0].OccurredAt)
	}

	all, err := repo.Recent(0)
	if err != nil {
		t.Fatalf("Recent(0) error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected whole log, got %d", len(all))
	}
}

func TestEventRepository_SameMillisecondKeepsInsertOrder(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	repo.Record(&Event{Gesture: "wave", OccurredAt: base})
	repo.Record(&Event{Gesture: "vulcan_sign", OccurredAt: base})

	events, err := repo.Recent(1)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(events) != 1 || events[0].Gesture != "vulcan_sign" {
		t.Errorf("expected the later insert first, got %+v", events)
	}
}

func TestEventRepository_CountByGesture(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	for _, name := range []string{"wave", "wave", "shaka", "wave"} {
		if err := repo.Record(&Event{Gesture: name, OccurredAt: base}); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	counts, err := repo.CountByGesture()
	if err != nil {
		t.Fatalf("CountByGesture() error = %v", err)
	}
	if counts["wave"] != 3 || counts["shaka"] != 1 || len(counts) != 2 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestEventRepository_Prune(t *testing.T) {
	s := newTestStore(t)
	repo := s.Events()

	repo.Record(&Event{Gesture: "old", OccurredAt: base.Add(-48 * time.Hour)})
	repo.Record(&Event{Gesture: "new", OccurredAt: base})

	n, err := repo.Prune(base.Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 pruned, got %d", n)
	}

	events, _ := repo.Recent(0)
	if len(events) != 1 || events[0].Gesture != "new" {
		t.Errorf("unexpected remaining events: %+v", events)
	}
}
