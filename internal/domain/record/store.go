package record

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/matiasleandrokruk/servicedesk/internal/infra/eventbus"
)

// Config parameterizes a Store over one record kind.
type Config struct {
	// Kind names the record kind (e.g. "article", "system", "ticket").
	Kind string

	// IDField is the record field holding the identifier ("id" or "name").
	IDField string

	// TimestampField is refreshed on every update ("updated_at",
	// "last_check"). Empty disables the refresh.
	TimestampField string

	// NotesField names the append-only sub-list: updates to it append a
	// {timestamp, content} entry instead of overwriting. Empty disables it.
	NotesField string

	// AllocateID assigns identifiers at insert time. Nil means records carry
	// externally fixed identifiers in IDField.
	AllocateID func() string
}

// Store is an insertion-ordered collection of records of one kind, backed by
// the process-lifetime SQLite database. Identifiers are never reassigned to a
// different logical record within a process lifetime.
type Store struct {
	db  *sql.DB
	cfg Config
	bus eventbus.EventBus
}

// New creates a Store for the given record kind.
func New(db *sql.DB, cfg Config) *Store {
	return &Store{db: db, cfg: cfg}
}

// NewWithBus creates a Store that publishes ChangeEvents after mutations.
func NewWithBus(db *sql.DB, cfg Config, bus eventbus.EventBus) *Store {
	return &Store{db: db, cfg: cfg, bus: bus}
}

// Kind returns the configured record kind.
func (s *Store) Kind() string {
	return s.cfg.Kind
}

// Get returns the record with the given identifier.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	var doc string
	row := s.db.QueryRowContext(ctx,
		`SELECT doc FROM record WHERE id = ? AND kind = ?`, id, s.cfg.Kind)
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s %s: %w", s.cfg.Kind, id, ErrNotFound)
		}
		return nil, fmt.Errorf("get %s %s: %w", s.cfg.Kind, id, err)
	}
	return decodeDoc(doc)
}

// List returns records whose fields equal every given filter value, in
// collection insertion order. Fields omitted from filters are unconstrained;
// a nil or empty filters map returns the whole collection.
func (s *Store) List(ctx context.Context, filters map[string]string) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc FROM record WHERE kind = ? ORDER BY seq`, s.cfg.Kind)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.cfg.Kind, err)
	}
	defer rows.Close()

	out := make([]Record, 0)
	for rows.Next() {
		var doc string
		if scanErr := rows.Scan(&doc); scanErr != nil {
			return nil, fmt.Errorf("list %s scan: %w", s.cfg.Kind, scanErr)
		}
		rec, decErr := decodeDoc(doc)
		if decErr != nil {
			return nil, fmt.Errorf("list %s: %w", s.cfg.Kind, decErr)
		}
		if matchesFilters(rec, filters) {
			out = append(out, rec)
		}
	}
	return out, rows.Err()
}

// Insert stores a new record and returns its identifier. When the store has
// an allocator, the identifier is assigned here and written into IDField;
// otherwise the record must already carry one. A duplicate identifier is an
// invariant violation, reported as ErrDuplicateID.
func (s *Store) Insert(ctx context.Context, rec Record) (string, error) {
	var id string
	if s.cfg.AllocateID != nil {
		id = s.cfg.AllocateID()
		rec[s.cfg.IDField] = id
	} else {
		id = rec.String(s.cfg.IDField)
	}
	return s.insert(ctx, id, rec)
}

// InsertWithID stores a record under the identifier it already carries,
// bypassing the allocator. Used for seed data with fixed identifiers.
func (s *Store) InsertWithID(ctx context.Context, rec Record) (string, error) {
	return s.insert(ctx, rec.String(s.cfg.IDField), rec)
}

func (s *Store) insert(ctx context.Context, id string, rec Record) (string, error) {
	if id == "" {
		return "", fmt.Errorf("insert %s: missing identifier field %q", s.cfg.Kind, s.cfg.IDField)
	}

	doc, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("insert %s %s: encode: %w", s.cfg.Kind, id, err)
	}

	// seq is assigned in the same statement, so insertion order holds even
	// if a future design runs handlers concurrently.
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO record (id, kind, seq, doc)
		VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM record), ?)
	`, id, s.cfg.Kind, string(doc))
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return "", fmt.Errorf("insert %s %s: %w", s.cfg.Kind, id, ErrDuplicateID)
		}
		return "", fmt.Errorf("insert %s %s: %w", s.cfg.Kind, id, err)
	}

	s.publish(ChangeTypeCreated, id)
	return id, nil
}

// Update applies the given fields to the record: each field is a full
// overwrite, except the configured notes field, which appends a
// {timestamp, content} entry. The timestamp field is always refreshed.
// Returns the updated record.
func (s *Store) Update(ctx context.Context, id string, fields map[string]any) (Record, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("update %s %s: begin: %w", s.cfg.Kind, id, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var doc string
	row := tx.QueryRowContext(ctx,
		`SELECT doc FROM record WHERE id = ? AND kind = ?`, id, s.cfg.Kind)
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s %s: %w", s.cfg.Kind, id, ErrNotFound)
		}
		return nil, fmt.Errorf("update %s %s: %w", s.cfg.Kind, id, err)
	}

	rec, err := decodeDoc(doc)
	if err != nil {
		return nil, fmt.Errorf("update %s %s: %w", s.cfg.Kind, id, err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	for field, value := range fields {
		if field == s.cfg.NotesField && s.cfg.NotesField != "" {
			rec[field] = appendNote(rec[field], value, now)
			continue
		}
		rec[field] = value
	}
	if s.cfg.TimestampField != "" {
		rec[s.cfg.TimestampField] = now
	}

	updated, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("update %s %s: encode: %w", s.cfg.Kind, id, err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE record SET doc = ? WHERE id = ? AND kind = ?`,
		string(updated), id, s.cfg.Kind); err != nil {
		return nil, fmt.Errorf("update %s %s: %w", s.cfg.Kind, id, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("update %s %s: commit: %w", s.cfg.Kind, id, err)
	}

	s.publish(ChangeTypeUpdated, id)
	return rec, nil
}

// Increment adds one to a numeric field. The read-modify-write happens inside
// a single SQL statement, so no update is lost even under concurrent calls.
func (s *Store) Increment(ctx context.Context, id, field string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE record
		SET doc = json_set(doc, ?, COALESCE(json_extract(doc, ?), 0) + 1)
		WHERE id = ? AND kind = ?
	`, "$."+field, "$."+field, id, s.cfg.Kind)
	if err != nil {
		return fmt.Errorf("increment %s %s.%s: %w", s.cfg.Kind, id, field, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment %s %s.%s: %w", s.cfg.Kind, id, field, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %s: %w", s.cfg.Kind, id, ErrNotFound)
	}

	s.publish(ChangeTypeIncremented, id)
	return nil
}

func (s *Store) publish(ct ChangeType, id string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(TopicForChangeType(ct), ChangeEvent{
		Kind:       s.cfg.Kind,
		RecordID:   id,
		ChangeType: ct,
		OccurredAt: time.Now(),
	})
}

// appendNote appends a {timestamp, content} entry to the existing notes list.
// The previous entries are never rewritten.
func appendNote(existing, content any, timestamp string) []any {
	notes, _ := existing.([]any)
	return append(notes, map[string]any{
		"timestamp": timestamp,
		"content":   content,
	})
}

// matchesFilters reports whether every filter field equals the record's
// string value for that field.
func matchesFilters(rec Record, filters map[string]string) bool {
	for field, want := range filters {
		if rec.String(field) != want {
			return false
		}
	}
	return true
}

func decodeDoc(doc string) (Record, error) {
	var rec Record
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return rec, nil
}
