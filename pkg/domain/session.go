package domain

import "time"

type ChatSession struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Messages   []Message `json:"messages"`
	SubjectID  string    `json:"subjectId"`
	Level      Level     `json:"level"`
	LastUpdate time.Time `json:"lastUpdate"`
}

type Message struct {
	ID        string            `json:"id"`
	Role      string            `json:"role"`
	Content   string            `json:"content"`
	Timestamp time.Time         `json:"timestamp"`
	Image     string            `json:"image,omitempty"`
	Sources   []GroundingSource `json:"groundingSources,omitempty"`
}

const (
	MessageRoleUser      = "user"
	MessageRoleAssistant = "assistant"
)

// GroundingSource is a citation returned alongside a generated answer.
type GroundingSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

const (
	ImagePlaceholder = "[Homework image]"
	VoicePlaceholder = "🎤 [Voice message]"
)
