package repository

import (
	"strings"
	"sync"

	"github.com/samber/lo"

	"github.com/vuminh/eduai-server/pkg/domain"
)

const titleLimit = 20

// SessionRepository holds the ordered session list, newest first, and tracks
// which session is active. It is a pure in-memory structure; persistence is
// the caller's concern.
type SessionRepository struct {
	mu       sync.RWMutex
	sessions []domain.ChatSession
	activeID string
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{}
}

// Reset replaces the whole list, typically with the persisted state loaded
// at startup. The active session is cleared.
func (r *SessionRepository) Reset(sessions []domain.ChatSession) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions = append([]domain.ChatSession(nil), sessions...)
	r.activeID = ""
}

func (r *SessionRepository) List() []domain.ChatSession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]domain.ChatSession(nil), r.sessions...)
}

func (r *SessionRepository) GetByID(id string) (domain.ChatSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Find(r.sessions, func(s domain.ChatSession) bool { return s.ID == id })
}

// FindByPair returns the most recent session for a (subject, level) pair.
func (r *SessionRepository) FindByPair(subjectID string, level domain.Level) (domain.ChatSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return lo.Find(r.sessions, func(s domain.ChatSession) bool {
		return s.SubjectID == subjectID && s.Level == level
	})
}

// InsertFront adds a new session at the head of the list and activates it.
func (r *SessionRepository) InsertFront(session domain.ChatSession) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions = append([]domain.ChatSession{session}, r.sessions...)
	r.activeID = session.ID
}

// InsertFrontIfAbsent activates the existing session for the candidate's
// (subject, level) pair, or inserts the candidate at the head and activates
// it. One critical section, so concurrent callers cannot create duplicates
// for the same pair. Reports whether the candidate was inserted.
func (r *SessionRepository) InsertFrontIfAbsent(candidate domain.ChatSession) (domain.ChatSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := lo.Find(r.sessions, func(s domain.ChatSession) bool {
		return s.SubjectID == candidate.SubjectID && s.Level == candidate.Level
	})
	if ok {
		r.activeID = existing.ID
		return existing, false
	}

	r.sessions = append([]domain.ChatSession{candidate}, r.sessions...)
	r.activeID = candidate.ID
	return candidate, true
}

func (r *SessionRepository) ActiveID() string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.activeID
}

func (r *SessionRepository) SetActive(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !lo.ContainsBy(r.sessions, func(s domain.ChatSession) bool { return s.ID == id }) {
		return false
	}
	r.activeID = id
	return true
}

// Delete removes a session. When the active session is deleted the first
// remaining session becomes active, or none when the list is empty.
func (r *SessionRepository) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := len(r.sessions)
	r.sessions = lo.Reject(r.sessions, func(s domain.ChatSession, _ int) bool { return s.ID == id })
	if len(r.sessions) == before {
		return false
	}

	if r.activeID == id {
		r.activeID = ""
		if len(r.sessions) > 0 {
			r.activeID = r.sessions[0].ID
		}
	}
	return true
}

// AppendMessage appends to a session, refreshes its last-update timestamp
// and derives the title from user content. Messages are append-only.
func (r *SessionRepository) AppendMessage(id string, msg domain.Message) (domain.ChatSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.sessions {
		if r.sessions[i].ID != id {
			continue
		}
		s := &r.sessions[i]
		s.Messages = append(s.Messages, msg)
		s.LastUpdate = msg.Timestamp
		if msg.Role == domain.MessageRoleUser && strings.TrimSpace(msg.Content) != "" {
			s.Title = truncateTitle(msg.Content)
		}
		return *s, nil
	}
	return domain.ChatSession{}, domain.ErrNotFound
}

func truncateTitle(content string) string {
	runes := []rune(content)
	return lo.Ternary(len(runes) > titleLimit, string(runes[:titleLimit])+"...", content)
}
