// Package catalog persists microlensing events and their conversion
// history in SQLite.
package catalog

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// ErrNotFound reports a lookup for an event the catalog does not hold.
var ErrNotFound = errors.New("event not found")

type Catalog struct {
	*sql.DB
}

// Open opens (creating if needed) the catalog at path. The baseline schema
// is applied inline so a fresh file is immediately usable; migrations
// manage everything beyond the baseline.
func Open(path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL UNIQUE,
			ra         TEXT,
			dec        TEXT,
			payload    TEXT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE TABLE IF NOT EXISTS conversions (
			id             TEXT PRIMARY KEY,
			event          TEXT NOT NULL,
			source_package TEXT NOT NULL,
			target_package TEXT NOT NULL,
			observer       TEXT,
			origin         TEXT,
			input          TEXT NOT NULL,
			output         TEXT NOT NULL,
			created_at     TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize catalog schema: %w", err)
	}

	return &Catalog{db}, nil
}

// Event is a stored microlensing event: sky coordinates plus the raw
// package payload it was registered with.
type Event struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	RA        string         `json:"ra"`
	Dec       string         `json:"dec"`
	Payload   map[string]any `json:"payload"`
	CreatedAt string         `json:"created_at"`
	UpdatedAt string         `json:"updated_at"`
}

// Conversion is one recorded adapter conversion for an event.
type Conversion struct {
	ID            string         `json:"id"`
	Event         string         `json:"event"`
	SourcePackage string         `json:"source_package"`
	TargetPackage string         `json:"target_package"`
	Observer      string         `json:"observer"`
	Origin        string         `json:"origin"`
	Input         map[string]any `json:"input"`
	Output        map[string]any `json:"output"`
	CreatedAt     string         `json:"created_at"`
}

// SaveEvent inserts or updates an event by name.
func (c *Catalog) SaveEvent(ev Event) error {
	payload, err := json.Marshal(ev.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode event payload: %w", err)
	}

	_, err = c.Exec(`
		INSERT INTO events (name, ra, dec, payload)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			ra         = excluded.ra,
			dec        = excluded.dec,
			payload    = excluded.payload,
			updated_at = CURRENT_TIMESTAMP
	`, ev.Name, ev.RA, ev.Dec, string(payload))
	if err != nil {
		return fmt.Errorf("failed to save event %q: %w", ev.Name, err)
	}
	return nil
}

// Event fetches one event by name.
func (c *Catalog) Event(name string) (*Event, error) {
	row := c.QueryRow(`
		SELECT id, name, ra, dec, payload, created_at, updated_at
		FROM events WHERE name = ?
	`, name)

	ev, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load event %q: %w", name, err)
	}
	return ev, nil
}

// ListEvents returns every stored event ordered by name.
func (c *Catalog) ListEvents() ([]Event, error) {
	rows, err := c.Query(`
		SELECT id, name, ra, dec, payload, created_at, updated_at
		FROM events ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		events = append(events, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*Event, error) {
	var ev Event
	var payload string
	if err := row.Scan(&ev.ID, &ev.Name, &ev.RA, &ev.Dec, &payload, &ev.CreatedAt, &ev.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(payload), &ev.Payload); err != nil {
		return nil, fmt.Errorf("corrupt payload for event %q: %w", ev.Name, err)
	}
	return &ev, nil
}

// RecordConversion stores one conversion record, assigning a UUID when the
// record has none, and returns the ID.
func (c *Catalog) RecordConversion(rec Conversion) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	input, err := json.Marshal(rec.Input)
	if err != nil {
		return "", fmt.Errorf("failed to encode conversion input: %w", err)
	}
	output, err := json.Marshal(rec.Output)
	if err != nil {
		return "", fmt.Errorf("failed to encode conversion output: %w", err)
	}

	_, err = c.Exec(`
		INSERT INTO conversions (id, event, source_package, target_package, observer, origin, input, output)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Event, rec.SourcePackage, rec.TargetPackage, rec.Observer, rec.Origin,
		string(input), string(output))
	if err != nil {
		return "", fmt.Errorf("failed to record conversion for %q: %w", rec.Event, err)
	}
	return rec.ID, nil
}

// Conversions returns an event's recorded conversions, newest first.
func (c *Catalog) Conversions(event string) ([]Conversion, error) {
	rows, err := c.Query(`
		SELECT id, event, source_package, target_package, observer, origin, input, output, created_at
		FROM conversions WHERE event = ?
		ORDER BY created_at DESC, id
	`, event)
	if err != nil {
		return nil, fmt.Errorf("failed to query conversions: %w", err)
	}
	defer rows.Close()

	var records []Conversion
	for rows.Next() {
		var rec Conversion
		var input, output string
		if err := rows.Scan(&rec.ID, &rec.Event, &rec.SourcePackage, &rec.TargetPackage,
			&rec.Observer, &rec.Origin, &input, &output, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversion row: %w", err)
		}
		if err := json.Unmarshal([]byte(input), &rec.Input); err != nil {
			return nil, fmt.Errorf("corrupt input for conversion %s: %w", rec.ID, err)
		}
		if err := json.Unmarshal([]byte(output), &rec.Output); err != nil {
			return nil, fmt.Errorf("corrupt output for conversion %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
