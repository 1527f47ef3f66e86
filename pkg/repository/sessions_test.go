package repository

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/vuminh/eduai-server/pkg/domain"
)

func newSession(id string) domain.ChatSession {
	return domain.ChatSession{
		ID:        id,
		Title:     "About Mathematics",
		SubjectID: "math",
		Level:     domain.LevelPrimary,
	}
}

func TestInsertFrontActivatesAndOrders(t *testing.T) {
	r := NewSessionRepository()
	r.InsertFront(newSession("a"))
	r.InsertFront(newSession("b"))

	list := r.List()
	if len(list) != 2 || list[0].ID != "b" || list[1].ID != "a" {
		t.Fatalf("List() order = %v, want [b a]", []string{list[0].ID, list[1].ID})
	}
	if got := r.ActiveID(); got != "b" {
		t.Fatalf("ActiveID() = %q, want %q", got, "b")
	}
}

func TestAppendMessageKeepsHistory(t *testing.T) {
	r := NewSessionRepository()
	r.InsertFront(newSession("a"))

	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, content := range []string{"first", "second"} {
		msg := domain.Message{
			ID:        content,
			Role:      domain.MessageRoleUser,
			Content:   content,
			Timestamp: ts.Add(time.Duration(i) * time.Minute),
		}
		if _, err := r.AppendMessage("a", msg); err != nil {
			t.Fatalf("AppendMessage() error = %v", err)
		}
	}

	s, ok := r.GetByID("a")
	if !ok {
		t.Fatal("GetByID() ok = false")
	}
	if len(s.Messages) != 2 {
		t.Fatalf("len(Messages) = %d, want 2", len(s.Messages))
	}
	if s.Messages[0].Content != "first" || s.Messages[1].Content != "second" {
		t.Fatalf("messages reordered: %v", s.Messages)
	}
	if !s.LastUpdate.Equal(ts.Add(time.Minute)) {
		t.Fatalf("LastUpdate = %v, want %v", s.LastUpdate, ts.Add(time.Minute))
	}
}

func TestAppendMessageTitleFromUserContent(t *testing.T) {
	tests := []struct {
		name    string
		role    string
		content string
		want    string
	}{
		{"short user message", domain.MessageRoleUser, "What is a fraction?", "What is a fraction?"},
		{"long user message", domain.MessageRoleUser, strings.Repeat("x", 30), strings.Repeat("x", 20) + "..."},
		{"assistant message keeps title", domain.MessageRoleAssistant, "A fraction is a part of a whole.", "About Mathematics"},
		{"blank user message keeps title", domain.MessageRoleUser, "   ", "About Mathematics"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewSessionRepository()
			r.InsertFront(newSession("a"))

			s, err := r.AppendMessage("a", domain.Message{Role: tt.role, Content: tt.content})
			if err != nil {
				t.Fatalf("AppendMessage() error = %v", err)
			}
			if s.Title != tt.want {
				t.Fatalf("Title = %q, want %q", s.Title, tt.want)
			}
		})
	}
}

func TestAppendMessageUnknownSession(t *testing.T) {
	r := NewSessionRepository()
	if _, err := r.AppendMessage("missing", domain.Message{}); err != domain.ErrNotFound {
		t.Fatalf("AppendMessage() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteActiveFallsBackToFirst(t *testing.T) {
	r := NewSessionRepository()
	r.InsertFront(newSession("a"))
	r.InsertFront(newSession("b")) // active

	if !r.Delete("b") {
		t.Fatal("Delete() = false, want true")
	}
	if got := r.ActiveID(); got != "a" {
		t.Fatalf("ActiveID() = %q, want %q", got, "a")
	}

	if !r.Delete("a") {
		t.Fatal("Delete() = false, want true")
	}
	if got := r.ActiveID(); got != "" {
		t.Fatalf("ActiveID() = %q, want empty", got)
	}
}

func TestDeleteUnknownSession(t *testing.T) {
	r := NewSessionRepository()
	r.InsertFront(newSession("a"))

	if r.Delete("missing") {
		t.Fatal("Delete() = true, want false")
	}
	if got := r.ActiveID(); got != "a" {
		t.Fatalf("ActiveID() = %q, want %q", got, "a")
	}
}

func TestFindByPair(t *testing.T) {
	r := NewSessionRepository()
	r.InsertFront(newSession("a"))

	if _, ok := r.FindByPair("math", domain.LevelPrimary); !ok {
		t.Fatal("FindByPair() ok = false, want true")
	}
	if _, ok := r.FindByPair("math", domain.LevelSecondary); ok {
		t.Fatal("FindByPair() ok = true for wrong level")
	}
	if _, ok := r.FindByPair("science", domain.LevelPrimary); ok {
		t.Fatal("FindByPair() ok = true for wrong subject")
	}
}

func TestInsertFrontIfAbsentReusesPair(t *testing.T) {
	r := NewSessionRepository()

	first, created := r.InsertFrontIfAbsent(newSession("a"))
	if !created || first.ID != "a" {
		t.Fatalf("first insert = (%q, %v), want (a, true)", first.ID, created)
	}

	second, created := r.InsertFrontIfAbsent(newSession("b"))
	if created {
		t.Fatal("second insert created a duplicate for the same pair")
	}
	if second.ID != "a" {
		t.Fatalf("second insert returned %q, want the existing session a", second.ID)
	}

	if list := r.List(); len(list) != 1 {
		t.Fatalf("len(List()) = %d, want 1", len(list))
	}
	if got := r.ActiveID(); got != "a" {
		t.Fatalf("ActiveID() = %q, want %q", got, "a")
	}
}

func TestInsertFrontIfAbsentConcurrent(t *testing.T) {
	r := NewSessionRepository()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.InsertFrontIfAbsent(newSession(fmt.Sprintf("s%d", i)))
		}(i)
	}
	wg.Wait()

	if list := r.List(); len(list) != 1 {
		t.Fatalf("len(List()) = %d, want 1 session for one pair", len(list))
	}
}

func TestResetClearsActive(t *testing.T) {
	r := NewSessionRepository()
	r.InsertFront(newSession("a"))

	r.Reset([]domain.ChatSession{newSession("b")})
	if got := r.ActiveID(); got != "" {
		t.Fatalf("ActiveID() = %q, want empty", got)
	}
	if list := r.List(); len(list) != 1 || list[0].ID != "b" {
		t.Fatalf("List() = %v, want [b]", list)
	}
}
