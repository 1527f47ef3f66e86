package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"github.com/vuminh/eduai-server/pkg/domain"
	"github.com/vuminh/eduai-server/pkg/logger"
)

// QuestionCount is the fixed size of a generated quiz.
const QuestionCount = 3

type quizClient struct {
	api   *openai.Client
	model string
}

func NewQuizClient(token, model string) (*quizClient, error) {
	if token == "" {
		return nil, fmt.Errorf("token is empty")
	}
	return &quizClient{
		api:   openai.NewClient(token),
		model: model,
	}, nil
}

// GenerateQuiz requests a structured quiz for a topic. A malformed model
// response is logged and resolved to an empty list, never an error; only
// transport failures surface as errors.
func (c *quizClient) GenerateQuiz(ctx context.Context, topic string, level domain.Level) ([]domain.QuizQuestion, error) {
	prompt := fmt.Sprintf(`Create %d multiple-choice questions about the topic %q suitable for a student at the %s level.
Each question has 4 options with exactly one correct answer.
Provide a detailed explanation for the correct answer.`, QuestionCount, topic, level)

	schema := quizSchema()
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "quiz",
				Schema: &schema,
				Strict: true,
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating quiz completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		slog.WarnContext(ctx, "Quiz response has no choices")
		return nil, nil
	}

	questions, err := parseQuiz([]byte(resp.Choices[0].Message.Content))
	if err != nil {
		slog.WarnContext(ctx, "Discarding malformed quiz payload", logger.Err(err))
		return nil, nil
	}
	return questions, nil
}

func quizSchema() jsonschema.Definition {
	return jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"questions": {
				Type: jsonschema.Array,
				Items: &jsonschema.Definition{
					Type: jsonschema.Object,
					Properties: map[string]jsonschema.Definition{
						"question": {Type: jsonschema.String},
						"options": {
							Type:  jsonschema.Array,
							Items: &jsonschema.Definition{Type: jsonschema.String},
						},
						"correctAnswer": {
							Type:        jsonschema.Integer,
							Description: "Index of the correct option (0-3)",
						},
						"explanation": {Type: jsonschema.String},
					},
					Required: []string{"question", "options", "correctAnswer", "explanation"},
				},
			},
		},
		Required: []string{"questions"},
	}
}

// parseQuiz validates the structured payload: exactly 3 questions, 4 options
// each and an in-range answer index. Anything else counts as malformed.
func parseQuiz(raw []byte) ([]domain.QuizQuestion, error) {
	var payload struct {
		Questions []domain.QuizQuestion `json:"questions"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("unmarshaling quiz payload: %w", err)
	}

	if len(payload.Questions) != QuestionCount {
		return nil, fmt.Errorf("expected %d questions, got %d", QuestionCount, len(payload.Questions))
	}
	for i, q := range payload.Questions {
		if q.Question == "" {
			return nil, fmt.Errorf("question %d has no text", i)
		}
		if len(q.Options) != domain.QuizOptionCount {
			return nil, fmt.Errorf("question %d has %d options", i, len(q.Options))
		}
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= domain.QuizOptionCount {
			return nil, fmt.Errorf("question %d has answer index %d out of range", i, q.CorrectAnswer)
		}
	}
	return payload.Questions, nil
}
