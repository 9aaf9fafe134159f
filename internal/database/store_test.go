package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/hayasedb/chatarchive/internal/database"
)

func setupTestStore(t *testing.T) database.Store {
	t.Helper()

	db, err := database.NewDB(":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.CloseDB(db) })

	return database.NewStore(db, nil)
}

func testMessage(group, content, tag string) *database.ArchivedMessage {
	return &database.ArchivedMessage{
		Tag:        tag,
		GroupID:    group,
		SenderID:   "1001",
		SenderName: "Alice",
		Content:    content,
		Timestamp:  time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func mustInsert(t *testing.T, store database.Store, msg *database.ArchivedMessage) {
	t.Helper()
	if err := store.Insert(context.Background(), msg); err != nil {
		t.Fatalf("Insert(%q) returned error: %v", msg.Content, err)
	}
}

func TestInsert(t *testing.T) {
	t.Parallel()
	store := setupTestStore(t)

	msg := testMessage("g1", "hello", "greeting")
	mustInsert(t, store, msg)

	if msg.ID == 0 {
		t.Error("Insert should fill in the assigned id")
	}
	if msg.CreatedAt.IsZero() {
		t.Error("Insert should stamp created_at")
	}

	second := testMessage("g1", "world", "")
	mustInsert(t, store, second)
	if second.ID <= msg.ID {
		t.Errorf("ids should increase: %d then %d", msg.ID, second.ID)
	}

	records, err := store.Query(context.Background(), database.Filter{GroupID: "g1"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Query returned %d records, want 2", len(records))
	}
	got := records[0]
	if got.Tag != "greeting" || got.SenderID != "1001" || got.SenderName != "Alice" || got.Content != "hello" {
		t.Errorf("round-tripped record = %+v", got)
	}
	if !got.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("timestamp = %v, want %v", got.Timestamp, msg.Timestamp)
	}
}

func TestInsertValidation(t *testing.T) {
	t.Parallel()
	store := setupTestStore(t)
	ts := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		msg  *database.ArchivedMessage
	}{
		{"nil message", nil},
		{"missing group", &database.ArchivedMessage{Content: "x", Timestamp: ts}},
		{"missing content", &database.ArchivedMessage{GroupID: "g1", Timestamp: ts}},
		{"zero timestamp", &database.ArchivedMessage{GroupID: "g1", Content: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if err := store.Insert(context.Background(), tt.msg); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestQueryFilters(t *testing.T) {
	t.Parallel()
	store := setupTestStore(t)

	a := testMessage("g1", "alpha", "first")
	b := testMessage("g1", "beta", "")
	c := testMessage("g2", "gamma", "first")
	mustInsert(t, store, a)
	mustInsert(t, store, b)
	mustInsert(t, store, c)

	tests := []struct {
		name    string
		filter  database.Filter
		wantIDs []uint64
	}{
		{"all records", database.Filter{}, []uint64{a.ID, b.ID, c.ID}},
		{"by group", database.Filter{GroupID: "g1"}, []uint64{a.ID, b.ID}},
		{"by id", database.Filter{ID: b.ID}, []uint64{b.ID}},
		{"by tag", database.Filter{Tag: "first"}, []uint64{a.ID, c.ID}},
		{"group and tag", database.Filter{GroupID: "g1", Tag: "first"}, []uint64{a.ID}},
		{"id in wrong group", database.Filter{GroupID: "g2", ID: a.ID}, nil},
		{"unknown tag", database.Filter{Tag: "nope"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			records, err := store.Query(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("Query returned error: %v", err)
			}
			var ids []uint64
			for _, r := range records {
				ids = append(ids, r.ID)
			}
			if len(ids) != len(tt.wantIDs) {
				t.Fatalf("Query returned ids %v, want %v", ids, tt.wantIDs)
			}
			for i, id := range ids {
				if id != tt.wantIDs[i] {
					t.Errorf("Query returned ids %v, want %v", ids, tt.wantIDs)
					break
				}
			}
		})
	}
}

func TestDeleteMatching(t *testing.T) {
	t.Parallel()
	store := setupTestStore(t)

	a := testMessage("g1", "alpha", "")
	b := testMessage("g1", "beta", "")
	c := testMessage("g2", "gamma", "")
	mustInsert(t, store, a)
	mustInsert(t, store, b)
	mustInsert(t, store, c)

	count, err := store.DeleteMatching(context.Background(), database.Filter{ID: a.ID})
	if err != nil {
		t.Fatalf("DeleteMatching(id) returned error: %v", err)
	}
	if count != 1 {
		t.Errorf("DeleteMatching(id) removed %d rows, want 1", count)
	}

	count, err = store.DeleteMatching(context.Background(), database.Filter{GroupID: "g1"})
	if err != nil {
		t.Fatalf("DeleteMatching(group) returned error: %v", err)
	}
	if count != 1 {
		t.Errorf("DeleteMatching(group) removed %d rows, want 1", count)
	}

	count, err = store.DeleteMatching(context.Background(), database.Filter{})
	if err != nil {
		t.Fatalf("DeleteMatching(all) returned error: %v", err)
	}
	if count != 1 {
		t.Errorf("DeleteMatching(all) removed %d rows, want 1", count)
	}

	records, err := store.Query(context.Background(), database.Filter{})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("%d records remain after full delete", len(records))
	}
}

func TestRunMaintenance(t *testing.T) {
	t.Parallel()
	store := setupTestStore(t)

	mustInsert(t, store, testMessage("g1", "before vacuum", ""))
	if err := store.RunMaintenance(context.Background()); err != nil {
		t.Fatalf("RunMaintenance returned error: %v", err)
	}

	records, err := store.Query(context.Background(), database.Filter{GroupID: "g1"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("VACUUM should not drop data, %d records remain", len(records))
	}
}

func TestExtractDBNameFromPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"bot.db", "bot.db"},
		{"file:bot.db", "bot.db"},
		{"file:bot.db?cache=shared", "bot.db"},
		{"data/my%20bot.db", "data/my bot.db"},
	}

	for _, tt := range tests {
		if got := database.ExtractDBNameFromPath(tt.in); got != tt.want {
			t.Errorf("ExtractDBNameFromPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
