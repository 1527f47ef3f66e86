package openai

import (
	"context"
	"fmt"
	"io"

	"github.com/sashabaranov/go-openai"
)

type speechClient struct {
	api   *openai.Client
	model openai.SpeechModel
	voice openai.SpeechVoice
}

func NewSpeechClient(token, model, voice string) (*speechClient, error) {
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}
	return &speechClient{
		api:   openai.NewClient(token),
		model: openai.SpeechModel(model),
		voice: openai.SpeechVoice(voice),
	}, nil
}

// Synthesize returns raw 16-bit LE mono PCM at 24 kHz for the given text.
func (c *speechClient) Synthesize(ctx context.Context, text string) ([]byte, error) {
	resp, err := c.api.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          c.model,
		Input:          "Read the following passage expressively and clearly: " + text,
		Voice:          c.voice,
		ResponseFormat: openai.SpeechResponseFormatPcm,
	})
	if err != nil {
		return nil, fmt.Errorf("creating speech: %w", err)
	}
	defer resp.Close()

	pcm, err := io.ReadAll(resp)
	if err != nil {
		return nil, fmt.Errorf("reading speech payload: %w", err)
	}
	return pcm, nil
}
