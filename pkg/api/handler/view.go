package handler

import (
	"time"

	"github.com/russross/blackfriday"
	"github.com/samber/lo"

	"github.com/vuminh/eduai-server/pkg/domain"
)

type sessionView struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	SubjectID  string        `json:"subjectId"`
	Level      domain.Level  `json:"level"`
	LastUpdate time.Time     `json:"lastUpdate"`
	Messages   []messageView `json:"messages"`
}

type messageView struct {
	ID          string                   `json:"id"`
	Role        string                   `json:"role"`
	Content     string                   `json:"content"`
	ContentHTML string                   `json:"contentHtml,omitempty"`
	Timestamp   time.Time                `json:"timestamp"`
	Image       string                   `json:"image,omitempty"`
	Sources     []domain.GroundingSource `json:"sources,omitempty"`
}

func toSessionView(s domain.ChatSession) sessionView {
	return sessionView{
		ID:         s.ID,
		Title:      s.Title,
		SubjectID:  s.SubjectID,
		Level:      s.Level,
		LastUpdate: s.LastUpdate,
		Messages:   lo.Map(s.Messages, func(m domain.Message, _ int) messageView { return toMessageView(m) }),
	}
}

// toMessageView renders assistant markdown to HTML so the client can show
// formatted replies without its own markdown pipeline.
func toMessageView(m domain.Message) messageView {
	v := messageView{
		ID:        m.ID,
		Role:      m.Role,
		Content:   m.Content,
		Timestamp: m.Timestamp,
		Image:     m.Image,
		Sources:   m.Sources,
	}
	if m.Role == domain.MessageRoleAssistant {
		v.ContentHTML = string(blackfriday.MarkdownCommon([]byte(m.Content)))
	}
	return v
}
