package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/matiasleandrokruk/servicedesk/internal/infra/eventbus"
	"github.com/matiasleandrokruk/servicedesk/internal/infra/sqlite"
)

func openStoreTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sqlite.NewMemoryDB()
	if err != nil {
		t.Fatalf("sqlite.NewMemoryDB failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func ticketConfig() Config {
	counter := 1005
	return Config{
		Kind:           "ticket",
		IDField:        "id",
		TimestampField: "updated_at",
		NotesField:     "notes",
		AllocateID: func() string {
			id := fmt.Sprintf("T-%d", counter)
			counter++
			return id
		},
	}
}

func articleConfig() Config {
	return Config{
		Kind:           "article",
		IDField:        "id",
		TimestampField: "updated_at",
	}
}

func TestStore_InsertAndGet_RoundTrip(t *testing.T) {
	t.Parallel()

	db := openStoreTestDB(t)
	store := New(db, articleConfig())
	ctx := context.Background()

	id, err := store.Insert(ctx, Record{
		"id":       "KB-001",
		"title":    "How to Reset Windows Password",
		"category": "Security",
		"tags":     []string{"password", "windows"},
		"views":    1250,
	})
	if err != nil {
		t.Fatalf("Insert returned error: %v", err)
	}
	if id != "KB-001" {
		t.Fatalf("Insert id = %q; want KB-001", id)
	}

	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.String("title") != "How to Reset Windows Password" {
		t.Errorf("title = %q; want original title", got.String("title"))
	}
	if got.Number("views") != 1250 {
		t.Errorf("views = %v; want 1250", got.Number("views"))
	}
	if tags := got.Strings("tags"); len(tags) != 2 || tags[0] != "password" {
		t.Errorf("tags = %v; want [password windows]", tags)
	}
}

func TestStore_Get_NotFound(t *testing.T) {
	t.Parallel()

	db := openStoreTestDB(t)
	store := New(db, articleConfig())

	_, err := store.Get(context.Background(), "KB-999")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get error = %v; want ErrNotFound", err)
	}
}

func TestStore_Insert_AllocatorAssignsSequentialIDs(t *testing.T) {
	t.Parallel()

	db := openStoreTestDB(t)
	store := New(db, ticketConfig())
	ctx := context.Background()

	first, err := store.Insert(ctx, Record{"title": "a"})
	if err != nil {
		t.Fatalf("first Insert error: %v", err)
	}
	second, err := store.Insert(ctx, Record{"title": "b"})
	if err != nil {
		t.Fatalf("second Insert error: %v", err)
	}

	if first != "T-1005" || second != "T-1006" {
		t.Errorf("allocated ids = %q, %q; want T-1005, T-1006", first, second)
	}

	rec, err := store.Get(ctx, second)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if rec.String("id") != second {
		t.Errorf("stored id field = %q; want %q", rec.String("id"), second)
	}
}

func TestStore_Insert_DuplicateIDIsInvariantViolation(t *testing.T) {
	t.Parallel()

	db := openStoreTestDB(t)
	store := New(db, articleConfig())
	ctx := context.Background()

	if _, err := store.Insert(ctx, Record{"id": "KB-001", "title": "x"}); err != nil {
		t.Fatalf("first Insert error: %v", err)
	}

	_, err := store.Insert(ctx, Record{"id": "KB-001", "title": "y"})
	if !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("second Insert error = %v; want ErrDuplicateID", err)
	}
}

func TestStore_Insert_MissingIDWithoutAllocator(t *testing.T) {
	t.Parallel()

	db := openStoreTestDB(t)
	store := New(db, articleConfig())

	if _, err := store.Insert(context.Background(), Record{"title": "x"}); err == nil {
		t.Fatal("Insert without id succeeded; want error")
	}
}

func TestStore_List_PreservesInsertionOrder(t *testing.T) {
	t.Parallel()

	db := openStoreTestDB(t)
	store := New(db, articleConfig())
	ctx := context.Background()

	ids := []string{"KB-003", "KB-001", "KB-002"}
	for _, id := range ids {
		if _, err := store.Insert(ctx, Record{"id": id}); err != nil {
			t.Fatalf("Insert %s error: %v", id, err)
		}
	}

	recs, err := store.List(ctx, nil)
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("List returned %d records; want 3", len(recs))
	}
	for i, id := range ids {
		if recs[i].String("id") != id {
			t.Errorf("List[%d] = %q; want %q (insertion order)", i, recs[i].String("id"), id)
		}
	}
}

func TestStore_List_AppliesEqualityFilters(t *testing.T) {
	t.Parallel()

	db := openStoreTestDB(t)
	store := New(db, ticketConfig())
	ctx := context.Background()

	seed := []Record{
		{"title": "a", "status": "open", "priority": "high"},
		{"title": "b", "status": "resolved", "priority": "high"},
		{"title": "c", "status": "open", "priority": "low"},
	}
	for _, rec := range seed {
		if _, err := store.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert error: %v", err)
		}
	}

	recs, err := store.List(ctx, map[string]string{"status": "open", "priority": "high"})
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(recs) != 1 || recs[0].String("title") != "a" {
		t.Fatalf("filtered List = %v; want only ticket 'a'", recs)
	}
}

func TestStore_Update_PartialOverwriteAndTimestamp(t *testing.T) {
	t.Parallel()

	db := openStoreTestDB(t)
	store := New(db, ticketConfig())
	ctx := context.Background()

	id, err := store.Insert(ctx, Record{
		"title":      "Laptop won't boot",
		"status":     "open",
		"priority":   "high",
		"updated_at": "2025-10-05T10:30:00Z",
	})
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}

	updated, err := store.Update(ctx, id, map[string]any{"status": "in_progress"})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}

	if updated.String("status") != "in_progress" {
		t.Errorf("status = %q; want in_progress", updated.String("status"))
	}
	// Untouched fields survive a partial update.
	if updated.String("title") != "Laptop won't boot" {
		t.Errorf("title = %q; want unchanged", updated.String("title"))
	}
	ts := updated.String("updated_at")
	if ts == "2025-10-05T10:30:00Z" {
		t.Error("updated_at was not refreshed")
	}
	if _, err := time.Parse(time.RFC3339, ts); err != nil {
		t.Errorf("updated_at %q is not RFC3339: %v", ts, err)
	}
}

func TestStore_Update_NotesAppendInCallOrder(t *testing.T) {
	t.Parallel()

	db := openStoreTestDB(t)
	store := New(db, ticketConfig())
	ctx := context.Background()

	id, err := store.Insert(ctx, Record{"title": "x"})
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}

	if _, err := store.Update(ctx, id, map[string]any{"notes": "first note"}); err != nil {
		t.Fatalf("first Update error: %v", err)
	}
	updated, err := store.Update(ctx, id, map[string]any{"notes": "second note"})
	if err != nil {
		t.Fatalf("second Update error: %v", err)
	}

	notes, ok := updated["notes"].([]any)
	if !ok || len(notes) != 2 {
		t.Fatalf("notes = %v; want two appended entries", updated["notes"])
	}

	for i, want := range []string{"first note", "second note"} {
		entry, ok := notes[i].(map[string]any)
		if !ok {
			t.Fatalf("notes[%d] = %T; want map entry", i, notes[i])
		}
		if entry["content"] != want {
			t.Errorf("notes[%d].content = %v; want %q", i, entry["content"], want)
		}
		if _, ok := entry["timestamp"].(string); !ok {
			t.Errorf("notes[%d] has no timestamp", i)
		}
	}
}

func TestStore_Update_NotFound(t *testing.T) {
	t.Parallel()

	db := openStoreTestDB(t)
	store := New(db, ticketConfig())

	_, err := store.Update(context.Background(), "T-9999", map[string]any{"status": "closed"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Update error = %v; want ErrNotFound", err)
	}
}

func TestStore_Increment_NTimesAddsExactlyN(t *testing.T) {
	t.Parallel()

	db := openStoreTestDB(t)
	store := New(db, articleConfig())
	ctx := context.Background()

	id, err := store.Insert(ctx, Record{"id": "KB-001", "views": 1250})
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}

	const n = 25
	for i := 0; i < n; i++ {
		if err := store.Increment(ctx, id, "views"); err != nil {
			t.Fatalf("Increment %d error: %v", i, err)
		}
	}

	rec, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got := rec.Number("views"); got != 1250+n {
		t.Errorf("views = %v; want %d", got, 1250+n)
	}
}

func TestStore_Increment_MissingFieldStartsAtZero(t *testing.T) {
	t.Parallel()

	db := openStoreTestDB(t)
	store := New(db, articleConfig())
	ctx := context.Background()

	id, err := store.Insert(ctx, Record{"id": "KB-001"})
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if err := store.Increment(ctx, id, "views"); err != nil {
		t.Fatalf("Increment error: %v", err)
	}

	rec, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got := rec.Number("views"); got != 1 {
		t.Errorf("views = %v; want 1", got)
	}
}

func TestStore_Increment_NotFound(t *testing.T) {
	t.Parallel()

	db := openStoreTestDB(t)
	store := New(db, articleConfig())

	err := store.Increment(context.Background(), "KB-999", "views")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Increment error = %v; want ErrNotFound", err)
	}
}

func TestStore_Mutations_PublishChangeEvents(t *testing.T) {
	t.Parallel()

	db := openStoreTestDB(t)
	bus := eventbus.New()
	created := bus.Subscribe(TopicForChangeType(ChangeTypeCreated))
	updated := bus.Subscribe(TopicForChangeType(ChangeTypeUpdated))

	store := NewWithBus(db, ticketConfig(), bus)
	ctx := context.Background()

	id, err := store.Insert(ctx, Record{"title": "x"})
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if _, err := store.Update(ctx, id, map[string]any{"status": "closed"}); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	select {
	case evt := <-created:
		ce, ok := evt.Payload.(ChangeEvent)
		if !ok || ce.RecordID != id || ce.Kind != "ticket" {
			t.Errorf("created event payload = %v; want ChangeEvent for %s", evt.Payload, id)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("no created event published")
	}

	select {
	case evt := <-updated:
		ce, ok := evt.Payload.(ChangeEvent)
		if !ok || ce.ChangeType != ChangeTypeUpdated {
			t.Errorf("updated event payload = %v; want updated ChangeEvent", evt.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("no updated event published")
	}
}
