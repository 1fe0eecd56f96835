package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Event is a confirmed gesture as recorded in the log.
type Event struct {
	ID         string    `json:"id"`
	Gesture    string    `json:"gesture"`
	Emoji      string    `json:"emoji"`
	Action     string    `json:"action"`
	Confidence float64   `json:"confidence"`
	IsNew      bool      `json:"is_new"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventRepository appends to and queries the event log.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Record appends e to the log, assigning an ID when e.ID is empty.
// Timestamps are kept at millisecond precision.
func (r *EventRepository) Record(e *Event) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now()
	}

	_, err := r.db.Exec(
		`INSERT INTO events (id, gesture, emoji, action, confidence, is_new, occurred_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Gesture, e.Emoji, e.Action, e.Confidence, e.IsNew, e.OccurredAt.UnixMilli(),
	)
	return err
}

// Recent returns up to limit events, newest first. A non-positive limit
// returns the whole log.
func (r *EventRepository) Recent(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := r.db.Query(
		`SELECT id, gesture, emoji, action, confidence, is_new, occurred_at
		 FROM events ORDER BY occurred_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		var isNew int
		var occurredMs int64

		if err := rows.Scan(&e.ID, &e.Gesture, &e.Emoji, &e.Action, &e.Confidence, &isNew, &occurredMs); err != nil {
			return nil, err
		}

		e.IsNew = isNew != 0
		e.OccurredAt = time.UnixMilli(occurredMs)
		events = append(events, e)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return events, nil
}

// CountByGesture returns how many events each gesture has produced.
func (r *EventRepository) CountByGesture() (map[string]int, error) {
	rows, err := r.db.Query(`SELECT gesture, COUNT(*) FROM events GROUP BY gesture`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var n int
		if err := rows.Scan(&name, &n); err != nil {
			return nil, err
		}
		counts[name] = n
	}

	return counts, rows.Err()
}

// Prune deletes events older than before and returns how many were removed.
func (r *EventRepository) Prune(before time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM events WHERE occurred_at < ?`, before.UnixMilli())
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
