package domain

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrEmptyMessage   = errors.New("message has no content")
	ErrChatBusy       = errors.New("a request is already in flight for this session")
	ErrNoMicAccess    = errors.New("microphone access denied")
	ErrRecorderState  = errors.New("recorder is not in a valid state for this action")
	ErrEmptyTopic     = errors.New("quiz topic is empty")
	ErrQuizState      = errors.New("quiz is not in a valid state for this action")
	ErrInvalidLevel   = errors.New("unknown education level")
	ErrInvalidSubject = errors.New("unknown subject")
)
