package services

import (
	"context"
	"log/slog"
	"sync"

	"github.com/vuminh/eduai-server/pkg/audio"
	"github.com/vuminh/eduai-server/pkg/domain"
	"github.com/vuminh/eduai-server/pkg/logger"
	"github.com/vuminh/eduai-server/pkg/monitoring"
)

type SpeechSynthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

type AudioOutput interface {
	Play(ctx context.Context, samples []float32, sampleRate int) error
}

// speechService reads a message aloud. The speaking flag is per message id:
// a second request for the same id is suppressed while the first plays, but
// different ids may overlap (matching the original guard).
type speechService struct {
	synth SpeechSynthesizer
	out   AudioOutput

	mu       sync.Mutex
	speaking map[string]bool
}

func NewSpeechService(synth SpeechSynthesizer, out AudioOutput) *speechService {
	return &speechService{
		synth:    synth,
		out:      out,
		speaking: make(map[string]bool),
	}
}

// Speak synthesizes and plays the text for a message. Failures and empty
// payloads silently reset the speaking flag; nothing here is fatal to the
// caller.
func (s *speechService) Speak(ctx context.Context, messageID, text string) error {
	if messageID == "" || text == "" {
		return domain.ErrEmptyMessage
	}

	s.mu.Lock()
	if s.speaking[messageID] {
		s.mu.Unlock()
		return nil
	}
	s.speaking[messageID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.speaking, messageID)
		s.mu.Unlock()
	}()

	pcm, err := s.synth.Synthesize(ctx, text)
	if err != nil {
		monitoring.SpeechSyntheses.WithLabelValues("error").Inc()
		slog.WarnContext(ctx, "Speech synthesis failed", "messageID", messageID, logger.Err(err))
		return nil
	}
	if len(pcm) == 0 {
		slog.DebugContext(ctx, "Speech synthesis returned no audio", "messageID", messageID)
		return nil
	}

	samples, err := audio.DecodePCM16(pcm)
	if err != nil {
		slog.WarnContext(ctx, "Discarding undecodable speech payload", "messageID", messageID, logger.Err(err))
		return nil
	}

	if err := s.out.Play(ctx, samples, audio.SampleRate); err != nil {
		slog.WarnContext(ctx, "Audio playback failed", "messageID", messageID, logger.Err(err))
		return nil
	}

	monitoring.SpeechSyntheses.WithLabelValues("ok").Inc()
	return nil
}

// IsSpeaking reports whether playback for a message is in progress.
func (s *speechService) IsSpeaking(messageID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.speaking[messageID]
}
