package services

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/vuminh/eduai-server/pkg/domain"
	"github.com/vuminh/eduai-server/pkg/logger"
	"github.com/vuminh/eduai-server/pkg/monitoring"
)

type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, topic string, level domain.Level) ([]domain.QuizQuestion, error)
}

type QuizState string

const (
	QuizStateSetup      QuizState = "setup"
	QuizStateLoading    QuizState = "loading"
	QuizStateInProgress QuizState = "in-progress"
	QuizStateFinished   QuizState = "finished"
)

// QuizSnapshot is the runner's full observable state, enough for a client
// to render any screen of the quiz flow.
type QuizSnapshot struct {
	State     QuizState             `json:"state"`
	Topic     string                `json:"topic"`
	Level     domain.Level          `json:"level"`
	Questions []domain.QuizQuestion `json:"questions,omitempty"`
	Index     int                   `json:"index"`
	Score     int                   `json:"score"`
	Answered  bool                  `json:"answered"`
	Selected  int                   `json:"selected"`
}

// quizService runs one quiz at a time: setup -> loading -> in-progress ->
// finished, with an answered flag guarding the score per question. A failed
// or malformed generation falls back to setup, never a partial quiz.
type quizService struct {
	gen QuizGenerator

	mu        sync.Mutex
	state     QuizState
	topic     string
	level     domain.Level
	questions []domain.QuizQuestion
	index     int
	score     int
	answered  bool
	selected  int
}

func NewQuizService(gen QuizGenerator) *quizService {
	return &quizService{
		gen:      gen,
		state:    QuizStateSetup,
		selected: -1,
	}
}

func (q *quizService) Snapshot() QuizSnapshot {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.snapshotLocked()
}

// Start requests questions for a topic. The loading flag doubles as the
// in-flight guard: a second Start while loading is rejected.
func (q *quizService) Start(ctx context.Context, topic string, level domain.Level) (QuizSnapshot, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return q.Snapshot(), domain.ErrEmptyTopic
	}
	if !level.Valid() {
		return q.Snapshot(), domain.ErrInvalidLevel
	}

	q.mu.Lock()
	if q.state == QuizStateLoading {
		defer q.mu.Unlock()
		return q.snapshotLocked(), domain.ErrQuizState
	}
	q.state = QuizStateLoading
	q.topic = topic
	q.level = level
	q.questions = nil
	q.index = 0
	q.score = 0
	q.answered = false
	q.selected = -1
	q.mu.Unlock()

	questions, err := q.gen.GenerateQuiz(ctx, topic, level)
	if err != nil {
		slog.WarnContext(ctx, "Quiz generation failed", "topic", topic, logger.Err(err))
		monitoring.QuizGenerations.WithLabelValues("error").Inc()
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if len(questions) == 0 {
		q.state = QuizStateSetup
		return q.snapshotLocked(), nil
	}

	monitoring.QuizGenerations.WithLabelValues("ok").Inc()
	q.questions = questions
	q.state = QuizStateInProgress
	return q.snapshotLocked(), nil
}

// Answer records the chosen option. Answering again changes nothing: the
// score counts only the first answer per question.
func (q *quizService) Answer(idx int) (QuizSnapshot, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.state != QuizStateInProgress {
		return q.snapshotLocked(), domain.ErrQuizState
	}
	if idx < 0 || idx >= domain.QuizOptionCount {
		return q.snapshotLocked(), domain.ErrQuizState
	}
	if q.answered {
		return q.snapshotLocked(), nil
	}

	q.selected = idx
	q.answered = true
	if idx == q.questions[q.index].CorrectAnswer {
		q.score++
	}
	return q.snapshotLocked(), nil
}

// Next advances to the following question or finishes the run.
func (q *quizService) Next() (QuizSnapshot, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.state != QuizStateInProgress {
		return q.snapshotLocked(), domain.ErrQuizState
	}

	if q.index < len(q.questions)-1 {
		q.index++
		q.answered = false
		q.selected = -1
	} else {
		q.state = QuizStateFinished
	}
	return q.snapshotLocked(), nil
}

// Retry returns to setup, dropping the topic and questions.
func (q *quizService) Retry() QuizSnapshot {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.state = QuizStateSetup
	q.topic = ""
	q.questions = nil
	q.index = 0
	q.score = 0
	q.answered = false
	q.selected = -1
	return q.snapshotLocked()
}

func (q *quizService) snapshotLocked() QuizSnapshot {
	return QuizSnapshot{
		State:     q.state,
		Topic:     q.topic,
		Level:     q.level,
		Questions: append([]domain.QuizQuestion(nil), q.questions...),
		Index:     q.index,
		Score:     q.score,
		Answered:  q.answered,
		Selected:  q.selected,
	}
}
