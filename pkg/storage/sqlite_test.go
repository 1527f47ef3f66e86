package storage

import (
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/vuminh/eduai-server/pkg/domain"
)

func newStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := NewSQLite(filepath.Join(t.TempDir(), "eduai.db"))
	if err != nil {
		t.Fatalf("NewSQLite() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	ts := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)
	sessions := []domain.ChatSession{
		{
			ID:    "s1",
			Title: "What is a fraction?",
			Messages: []domain.Message{
				{
					ID:        "m1",
					Role:      domain.MessageRoleAssistant,
					Content:   "Hi! I'm EduAI and I'm ready to help you with Mathematics.",
					Timestamp: ts,
				},
				{
					ID:        "m2",
					Role:      domain.MessageRoleUser,
					Content:   "What is a fraction?",
					Timestamp: ts.Add(time.Minute),
					Image:     "aGk=",
					Sources: []domain.GroundingSource{
						{Title: "Fractions", URI: "https://example.com/fractions"},
					},
				},
			},
			SubjectID:  "math",
			Level:      domain.LevelPrimary,
			LastUpdate: ts.Add(time.Minute),
		},
	}

	if err := store.Save(ctx, sessions); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got := store.Load(ctx)
	if !reflect.DeepEqual(got, sessions) {
		t.Fatalf("Load() = %+v, want %+v", got, sessions)
	}
}

func TestSaveOverwritesPreviousBlob(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	first := []domain.ChatSession{{ID: "s1", LastUpdate: time.Unix(100, 0).UTC()}}
	second := []domain.ChatSession{{ID: "s2", LastUpdate: time.Unix(200, 0).UTC()}}

	if err := store.Save(ctx, first); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := store.Save(ctx, second); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got := store.Load(ctx)
	if len(got) != 1 || got[0].ID != "s2" {
		t.Fatalf("Load() = %+v, want [s2]", got)
	}
}

func TestOpenAppliesWALJournalMode(t *testing.T) {
	store := newStore(t)

	var mode string
	if err := store.db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("querying journal_mode: %v", err)
	}
	if !strings.EqualFold(mode, "wal") {
		t.Fatalf("journal_mode = %q, want wal", mode)
	}

	var timeout int
	if err := store.db.QueryRow("PRAGMA busy_timeout").Scan(&timeout); err != nil {
		t.Fatalf("querying busy_timeout: %v", err)
	}
	if timeout != 5000 {
		t.Fatalf("busy_timeout = %d, want 5000", timeout)
	}
}

func TestLoadEmptyDatabase(t *testing.T) {
	store := newStore(t)

	if got := store.Load(context.Background()); got != nil {
		t.Fatalf("Load() = %+v, want nil", got)
	}
}

func TestLoadCorruptBlobStartsEmpty(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx,
		`INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, ?)`,
		sessionsKey, "{not json", time.Now().Unix())
	if err != nil {
		t.Fatalf("inserting corrupt blob: %v", err)
	}

	if got := store.Load(ctx); got != nil {
		t.Fatalf("Load() = %+v, want nil", got)
	}
}

func TestDecodeSessionsBadTimestamp(t *testing.T) {
	raw := []byte(`[{"id":"s1","lastUpdate":"not-a-time","messages":[]}]`)
	if _, err := decodeSessions(raw); err == nil {
		t.Fatal("decodeSessions() error = nil, want parse error")
	}
}
