package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vuminh/eduai-server/pkg/domain"
	"github.com/vuminh/eduai-server/pkg/logger"
	"github.com/vuminh/eduai-server/pkg/repository"
)

type SessionPersistence interface {
	Load(ctx context.Context) []domain.ChatSession
	Save(ctx context.Context, sessions []domain.ChatSession) error
}

type SubjectCatalog interface {
	SubjectByID(id string) (domain.Subject, bool)
}

// sessionService owns every session-list mutation: it applies the change to
// the in-memory store and then rewrites the persisted blob, keeping the
// store itself storage-agnostic.
type sessionService struct {
	repo    *repository.SessionRepository
	store   SessionPersistence
	catalog SubjectCatalog
}

func NewSessionService(
	repo *repository.SessionRepository,
	store SessionPersistence,
	catalog SubjectCatalog,
) *sessionService {
	return &sessionService{
		repo:    repo,
		store:   store,
		catalog: catalog,
	}
}

// Restore loads the persisted session list into the store. Corruption has
// already been resolved to an empty list by the persistence adapter.
func (s *sessionService) Restore(ctx context.Context) {
	sessions := s.store.Load(ctx)
	s.repo.Reset(sessions)
	slog.InfoContext(ctx, "Restored chat sessions", "count", len(sessions))
}

func (s *sessionService) List() []domain.ChatSession {
	return s.repo.List()
}

func (s *sessionService) Get(id string) (domain.ChatSession, bool) {
	return s.repo.GetByID(id)
}

func (s *sessionService) ActiveID() string {
	return s.repo.ActiveID()
}

// Create starts a fresh session for a (subject, level) pair, seeded with the
// assistant greeting, and activates it.
func (s *sessionService) Create(ctx context.Context, subjectID string, level domain.Level) (domain.ChatSession, error) {
	subject, ok := s.catalog.SubjectByID(subjectID)
	if !ok {
		return domain.ChatSession{}, domain.ErrInvalidSubject
	}
	if !level.Valid() {
		return domain.ChatSession{}, domain.ErrInvalidLevel
	}

	session := newSession(subject, level)
	s.repo.InsertFront(session)
	s.persist(ctx)
	return session, nil
}

// SelectOrCreate activates the existing session for the pair, or creates one.
// Calling it twice yields the same session id, even from concurrent callers:
// the find-or-insert is one repository critical section.
func (s *sessionService) SelectOrCreate(ctx context.Context, subjectID string, level domain.Level) (domain.ChatSession, error) {
	subject, ok := s.catalog.SubjectByID(subjectID)
	if !ok {
		return domain.ChatSession{}, domain.ErrInvalidSubject
	}
	if !level.Valid() {
		return domain.ChatSession{}, domain.ErrInvalidLevel
	}

	session, created := s.repo.InsertFrontIfAbsent(newSession(subject, level))
	if created {
		s.persist(ctx)
	}
	return session, nil
}

func newSession(subject domain.Subject, level domain.Level) domain.ChatSession {
	now := now()
	return domain.ChatSession{
		ID:    uuid.NewString(),
		Title: fmt.Sprintf("About %s (%s)", subject.Name, now.Format("2006-01-02")),
		Messages: []domain.Message{
			{
				ID:        uuid.NewString(),
				Role:      domain.MessageRoleAssistant,
				Content:   fmt.Sprintf("Hi! I'm EduAI and I'm ready to help you with %s. You can send questions as text, photos or voice notes!", subject.Name),
				Timestamp: now,
			},
		},
		SubjectID:  subject.ID,
		Level:      level,
		LastUpdate: now,
	}
}

// Select activates an existing session.
func (s *sessionService) Select(id string) (domain.ChatSession, error) {
	session, ok := s.repo.GetByID(id)
	if !ok {
		return domain.ChatSession{}, domain.ErrNotFound
	}
	s.repo.SetActive(id)
	return session, nil
}

func (s *sessionService) Delete(ctx context.Context, id string) error {
	if !s.repo.Delete(id) {
		return domain.ErrNotFound
	}
	s.persist(ctx)
	return nil
}

// Append adds a message to a session and persists the updated list.
func (s *sessionService) Append(ctx context.Context, sessionID string, msg domain.Message) (domain.ChatSession, error) {
	session, err := s.repo.AppendMessage(sessionID, msg)
	if err != nil {
		return domain.ChatSession{}, err
	}
	s.persist(ctx)
	return session, nil
}

// persist rewrites the whole list. A write failure is logged, not surfaced:
// the in-memory state stays authoritative for the running process.
func (s *sessionService) persist(ctx context.Context) {
	if err := s.store.Save(ctx, s.repo.List()); err != nil {
		slog.ErrorContext(ctx, "Persisting chat sessions", logger.Err(err))
	}
}

// now returns wall time at the precision the persisted form can represent.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
