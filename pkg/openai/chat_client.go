package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/vuminh/eduai-server/pkg/domain"
)

const chatCompletionsURL = "https://api.openai.com/v1/chat/completions"

// HistoryMessage is one role-tagged entry of the trimmed conversation
// context sent with a chat request.
type HistoryMessage struct {
	Role    string
	Content string
}

// ChatRequest carries everything a tutoring reply needs: the new message,
// an optional homework image, the trimmed history and the subject/level pair
// that selects the response register.
type ChatRequest struct {
	Text     string
	ImageB64 string
	Subject  string
	Level    domain.Level
	History  []HistoryMessage
}

// ChatResult is the assistant reply plus any web grounding citations.
type ChatResult struct {
	Text    string
	Sources []domain.GroundingSource
}

type chatClient struct {
	token string
	model string
	hc    *http.Client
}

func NewChatClient(token, model string) (*chatClient, error) {
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}
	return &chatClient{
		token: token,
		model: model,
		hc:    &http.Client{},
	}, nil
}

func (c *chatClient) GenerateReply(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	apiReq := c.buildRequest(req)

	resp, err := c.send(ctx, apiReq)
	if err != nil {
		return nil, fmt.Errorf("sending chat request: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	msg := resp.Choices[0].Message
	if msg.Content == "" {
		return nil, fmt.Errorf("empty completion content")
	}

	result := &ChatResult{Text: msg.Content}
	for _, a := range msg.Annotations {
		if a.Type != "url_citation" || a.URLCitation == nil || a.URLCitation.URL == "" {
			continue
		}
		title := a.URLCitation.Title
		if title == "" {
			title = "Reference"
		}
		result.Sources = append(result.Sources, domain.GroundingSource{Title: title, URI: a.URLCitation.URL})
	}
	return result, nil
}

func (c *chatClient) buildRequest(req ChatRequest) *chatCompletionsRequest {
	messages := []chatMessage{{Role: "system", Content: systemInstruction(req.Subject, req.Level)}}

	for _, h := range req.History {
		messages = append(messages, chatMessage{Role: h.Role, Content: h.Content})
	}

	messages = append(messages, chatMessage{
		Role:    "user",
		Content: userContent(req.Text, req.ImageB64),
	})

	return &chatCompletionsRequest{
		Model:            c.model,
		Messages:         messages,
		MaxTokens:        4096,
		WebSearchOptions: &webSearchOptions{},
	}
}

func userContent(text, imageB64 string) any {
	if imageB64 == "" {
		return text
	}

	url := imageB64
	if !strings.HasPrefix(url, "data:") {
		url = "data:image/jpeg;base64," + url
	}

	parts := []contentPart{}
	if text != "" {
		parts = append(parts, contentPart{Type: "text", Text: text})
	}
	return append(parts, contentPart{Type: "image_url", ImageURL: &imageURL{URL: url}})
}

func systemInstruction(subject string, level domain.Level) string {
	return fmt.Sprintf(`You are EduAI, a smart, dedicated and friendly tutoring assistant for school students.
Current education level: %s.
Current subject: %s.

YOUR TASKS:
1. If the student sends a photo of an exercise, analyze the problem in the image and explain the solution step by step. Do NOT just give the final answer; teach the student how to think.
2. %s

Always prioritize accuracy. Use web search for up-to-date information when needed. Answer in a modern, encouraging teaching style.`,
		level, subject, level.Register())
}

func (c *chatClient) send(ctx context.Context, request *chatCompletionsRequest) (*chatCompletionsResponse, error) {
	jsonData, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, chatCompletionsURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("creating HTTP request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("unexpected status code: %d, response: %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResponse chatCompletionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResponse); err != nil {
		return nil, fmt.Errorf("decoding response data: %w", err)
	}

	return &chatResponse, nil
}
