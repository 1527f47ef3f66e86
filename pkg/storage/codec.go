package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/samber/lo"

	"github.com/vuminh/eduai-server/pkg/domain"
)

// Timestamps are stored as RFC 3339 text, so the blob stays readable and
// round-trips to second precision.
const timeLayout = time.RFC3339

type storedSession struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Messages   []storedMessage `json:"messages"`
	SubjectID  string          `json:"subjectId"`
	Level      string          `json:"level"`
	LastUpdate string          `json:"lastUpdate"`
}

type storedMessage struct {
	ID        string                   `json:"id"`
	Role      string                   `json:"role"`
	Content   string                   `json:"content"`
	Timestamp string                   `json:"timestamp"`
	Image     string                   `json:"image,omitempty"`
	Sources   []domain.GroundingSource `json:"groundingSources,omitempty"`
}

func encodeSessions(sessions []domain.ChatSession) ([]byte, error) {
	stored := lo.Map(sessions, func(s domain.ChatSession, _ int) storedSession {
		return storedSession{
			ID:         s.ID,
			Title:      s.Title,
			SubjectID:  s.SubjectID,
			Level:      string(s.Level),
			LastUpdate: s.LastUpdate.UTC().Format(timeLayout),
			Messages: lo.Map(s.Messages, func(m domain.Message, _ int) storedMessage {
				return storedMessage{
					ID:        m.ID,
					Role:      m.Role,
					Content:   m.Content,
					Timestamp: m.Timestamp.UTC().Format(timeLayout),
					Image:     m.Image,
					Sources:   m.Sources,
				}
			}),
		}
	})
	return json.Marshal(stored)
}

func decodeSessions(raw []byte) ([]domain.ChatSession, error) {
	var stored []storedSession
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("unmarshaling session blob: %w", err)
	}

	sessions := make([]domain.ChatSession, 0, len(stored))
	for _, s := range stored {
		lastUpdate, err := time.Parse(timeLayout, s.LastUpdate)
		if err != nil {
			return nil, fmt.Errorf("parsing session %q lastUpdate: %w", s.ID, err)
		}

		messages := make([]domain.Message, 0, len(s.Messages))
		for _, m := range s.Messages {
			ts, err := time.Parse(timeLayout, m.Timestamp)
			if err != nil {
				return nil, fmt.Errorf("parsing message %q timestamp: %w", m.ID, err)
			}
			messages = append(messages, domain.Message{
				ID:        m.ID,
				Role:      m.Role,
				Content:   m.Content,
				Timestamp: ts,
				Image:     m.Image,
				Sources:   m.Sources,
			})
		}

		sessions = append(sessions, domain.ChatSession{
			ID:         s.ID,
			Title:      s.Title,
			Messages:   messages,
			SubjectID:  s.SubjectID,
			Level:      domain.Level(s.Level),
			LastUpdate: lastUpdate,
		})
	}
	return sessions, nil
}
