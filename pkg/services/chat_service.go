package services

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/vuminh/eduai-server/pkg/domain"
	"github.com/vuminh/eduai-server/pkg/logger"
	"github.com/vuminh/eduai-server/pkg/monitoring"
	"github.com/vuminh/eduai-server/pkg/openai"
)

// historyLimit is how many trailing messages accompany a chat request.
const historyLimit = 6

type ChatCompleter interface {
	GenerateReply(ctx context.Context, req openai.ChatRequest) (*openai.ChatResult, error)
}

// chatService is the message pipeline: optimistic user append, one external
// completion call, assistant append. One request may be in flight per
// session at a time.
type chatService struct {
	sessions *sessionService
	catalog  SubjectCatalog
	client   ChatCompleter

	mu       sync.Mutex
	inFlight map[string]bool
}

func NewChatService(
	sessions *sessionService,
	catalog SubjectCatalog,
	client ChatCompleter,
) *chatService {
	return &chatService{
		sessions: sessions,
		catalog:  catalog,
		client:   client,
		inFlight: make(map[string]bool),
	}
}

// Send runs the pipeline for one user message. On completion failure the
// user's message stays appended (no rollback, no assistant reply) so the
// student can simply send again.
func (c *chatService) Send(ctx context.Context, sessionID, content, imageB64 string) (domain.ChatSession, error) {
	if strings.TrimSpace(content) == "" && imageB64 == "" {
		return domain.ChatSession{}, domain.ErrEmptyMessage
	}

	session, ok := c.sessions.Get(sessionID)
	if !ok {
		return domain.ChatSession{}, domain.ErrNotFound
	}

	if !c.acquire(sessionID) {
		return domain.ChatSession{}, domain.ErrChatBusy
	}
	defer c.release(sessionID)

	userMsg := domain.Message{
		ID:        uuid.NewString(),
		Role:      domain.MessageRoleUser,
		Content:   lo.Ternary(strings.TrimSpace(content) != "", content, domain.ImagePlaceholder),
		Image:     imageB64,
		Timestamp: now(),
	}

	session, err := c.sessions.Append(ctx, sessionID, userMsg)
	if err != nil {
		return domain.ChatSession{}, err
	}

	subjectName := session.SubjectID
	if subject, ok := c.catalog.SubjectByID(session.SubjectID); ok {
		subjectName = subject.Name
	}

	slog.InfoContext(ctx, "Calling chat completion",
		"sessionID", sessionID,
		"level", session.Level,
		"historyLen", len(trimHistory(session.Messages)),
		"hasImage", imageB64 != "",
	)

	result, err := c.client.GenerateReply(ctx, openai.ChatRequest{
		Text:     userMsg.Content,
		ImageB64: imageB64,
		Subject:  subjectName,
		Level:    session.Level,
		History:  trimHistory(session.Messages),
	})
	if err != nil {
		monitoring.ChatRequests.WithLabelValues("error").Inc()
		slog.WarnContext(ctx, "Chat completion failed, keeping user message", logger.Err(err))
		return session, err
	}

	assistantMsg := domain.Message{
		ID:        uuid.NewString(),
		Role:      domain.MessageRoleAssistant,
		Content:   result.Text,
		Timestamp: now(),
		Sources:   result.Sources,
	}

	session, err = c.sessions.Append(ctx, sessionID, assistantMsg)
	if err != nil {
		return domain.ChatSession{}, err
	}

	monitoring.ChatRequests.WithLabelValues("ok").Inc()
	return session, nil
}

// InFlight reports whether a request is pending for the session.
func (c *chatService) InFlight(sessionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.inFlight[sessionID]
}

func (c *chatService) acquire(sessionID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight[sessionID] {
		return false
	}
	c.inFlight[sessionID] = true
	return true
}

func (c *chatService) release(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.inFlight, sessionID)
}

func trimHistory(messages []domain.Message) []openai.HistoryMessage {
	if len(messages) > historyLimit {
		messages = messages[len(messages)-historyLimit:]
	}
	return lo.Map(messages, func(m domain.Message, _ int) openai.HistoryMessage {
		return openai.HistoryMessage{Role: m.Role, Content: m.Content}
	})
}
