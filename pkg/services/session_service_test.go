package services

import (
	"context"
	"sync"
	"testing"

	"github.com/samber/lo"

	"github.com/vuminh/eduai-server/pkg/domain"
	"github.com/vuminh/eduai-server/pkg/repository"
)

type fakeStore struct {
	mu       sync.Mutex
	sessions []domain.ChatSession
	saves    int
	saveErr  error
}

func (f *fakeStore) Load(_ context.Context) []domain.ChatSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sessions
}

func (f *fakeStore) Save(_ context.Context, sessions []domain.ChatSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.sessions = sessions
	return nil
}

func (f *fakeStore) saveCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves
}

type fakeCatalog struct{}

func (fakeCatalog) SubjectByID(id string) (domain.Subject, bool) {
	return lo.Find([]domain.Subject{
		{ID: "math", Name: "Mathematics"},
		{ID: "science", Name: "Science"},
	}, func(s domain.Subject) bool { return s.ID == id })
}

func newSessionServiceForTest(store *fakeStore) *sessionService {
	return NewSessionService(repository.NewSessionRepository(), store, fakeCatalog{})
}

func TestCreateSeedsGreetingAndActivates(t *testing.T) {
	svc := newSessionServiceForTest(&fakeStore{})

	session, err := svc.Create(context.Background(), "math", domain.LevelPrimary)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if len(session.Messages) != 1 {
		t.Fatalf("len(Messages) = %d, want 1", len(session.Messages))
	}
	greeting := session.Messages[0]
	if greeting.Role != domain.MessageRoleAssistant {
		t.Fatalf("greeting role = %q, want assistant", greeting.Role)
	}
	if got := svc.ActiveID(); got != session.ID {
		t.Fatalf("ActiveID() = %q, want %q", got, session.ID)
	}
}

func TestCreateValidatesSubjectAndLevel(t *testing.T) {
	svc := newSessionServiceForTest(&fakeStore{})
	ctx := context.Background()

	if _, err := svc.Create(ctx, "history", domain.LevelPrimary); err != domain.ErrInvalidSubject {
		t.Fatalf("Create() error = %v, want ErrInvalidSubject", err)
	}
	if _, err := svc.Create(ctx, "math", domain.Level("college")); err != domain.ErrInvalidLevel {
		t.Fatalf("Create() error = %v, want ErrInvalidLevel", err)
	}
}

func TestSelectOrCreateIsIdempotent(t *testing.T) {
	svc := newSessionServiceForTest(&fakeStore{})
	ctx := context.Background()

	first, err := svc.SelectOrCreate(ctx, "math", domain.LevelPrimary)
	if err != nil {
		t.Fatalf("SelectOrCreate() error = %v", err)
	}
	second, err := svc.SelectOrCreate(ctx, "math", domain.LevelPrimary)
	if err != nil {
		t.Fatalf("SelectOrCreate() error = %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("second SelectOrCreate() id = %q, want %q", second.ID, first.ID)
	}

	other, err := svc.SelectOrCreate(ctx, "math", domain.LevelSecondary)
	if err != nil {
		t.Fatalf("SelectOrCreate() error = %v", err)
	}
	if other.ID == first.ID {
		t.Fatal("different level reused the same session")
	}
}

func TestSelectOrCreateConcurrent(t *testing.T) {
	svc := newSessionServiceForTest(&fakeStore{})
	ctx := context.Background()

	ids := make([]string, 8)
	var wg sync.WaitGroup
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			session, err := svc.SelectOrCreate(ctx, "math", domain.LevelPrimary)
			if err != nil {
				t.Errorf("SelectOrCreate() error = %v", err)
				return
			}
			ids[i] = session.ID
		}(i)
	}
	wg.Wait()

	if got := len(svc.List()); got != 1 {
		t.Fatalf("len(List()) = %d, want 1 session for one pair", got)
	}
	for i := 1; i < len(ids); i++ {
		if ids[i] != ids[0] {
			t.Fatalf("ids[%d] = %q, want %q", i, ids[i], ids[0])
		}
	}
}

func TestSelectOrCreateValidation(t *testing.T) {
	svc := newSessionServiceForTest(&fakeStore{})
	ctx := context.Background()

	if _, err := svc.SelectOrCreate(ctx, "history", domain.LevelPrimary); err != domain.ErrInvalidSubject {
		t.Fatalf("SelectOrCreate() error = %v, want ErrInvalidSubject", err)
	}
	if _, err := svc.SelectOrCreate(ctx, "math", domain.Level("college")); err != domain.ErrInvalidLevel {
		t.Fatalf("SelectOrCreate() error = %v, want ErrInvalidLevel", err)
	}
}

func TestDeleteOnlySessionClearsActive(t *testing.T) {
	svc := newSessionServiceForTest(&fakeStore{})
	ctx := context.Background()

	session, err := svc.Create(ctx, "math", domain.LevelPrimary)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(ctx, session.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if got := svc.ActiveID(); got != "" {
		t.Fatalf("ActiveID() = %q, want empty", got)
	}
	if err := svc.Delete(ctx, session.ID); err != domain.ErrNotFound {
		t.Fatalf("Delete() error = %v, want ErrNotFound", err)
	}
}

func TestMutationsPersist(t *testing.T) {
	store := &fakeStore{}
	svc := newSessionServiceForTest(store)
	ctx := context.Background()

	session, err := svc.Create(ctx, "math", domain.LevelPrimary)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Append(ctx, session.ID, domain.Message{ID: "m", Role: domain.MessageRoleUser, Content: "hi"}); err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if err := svc.Delete(ctx, session.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if got := store.saveCount(); got != 3 {
		t.Fatalf("saveCount() = %d, want 3", got)
	}
}

func TestRestoreLoadsPersistedSessions(t *testing.T) {
	store := &fakeStore{sessions: []domain.ChatSession{{ID: "s1", SubjectID: "math", Level: domain.LevelPrimary}}}
	svc := newSessionServiceForTest(store)

	svc.Restore(context.Background())

	if _, ok := svc.Get("s1"); !ok {
		t.Fatal("Get() ok = false after Restore")
	}
	if got := svc.ActiveID(); got != "" {
		t.Fatalf("ActiveID() = %q, want empty after restore", got)
	}
}
