package openai

import (
	"fmt"
	"testing"
)

func validQuizJSON() string {
	return `{"questions":[
		{"question":"What is 1/2 + 1/4?","options":["3/4","1/6","2/6","1/2"],"correctAnswer":0,"explanation":"Use a common denominator of 4."},
		{"question":"Which fraction is larger?","options":["1/3","1/2","1/4","1/5"],"correctAnswer":1,"explanation":"1/2 covers the largest part of a whole."},
		{"question":"What is 2/4 simplified?","options":["1/3","2/8","1/2","4/2"],"correctAnswer":2,"explanation":"Divide numerator and denominator by 2."}
	]}`
}

func TestParseQuizValidPayload(t *testing.T) {
	questions, err := parseQuiz([]byte(validQuizJSON()))
	if err != nil {
		t.Fatalf("parseQuiz() error = %v", err)
	}
	if len(questions) != QuestionCount {
		t.Fatalf("len(questions) = %d, want %d", len(questions), QuestionCount)
	}
	if questions[0].CorrectAnswer != 0 || questions[2].CorrectAnswer != 2 {
		t.Fatalf("answer indices = [%d _ %d], want [0 _ 2]", questions[0].CorrectAnswer, questions[2].CorrectAnswer)
	}
}

func TestParseQuizMalformedPayloads(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", `{oops`},
		{"too few questions", `{"questions":[{"question":"q","options":["a","b","c","d"],"correctAnswer":0,"explanation":"e"}]}`},
		{"wrong option count", fmt.Sprintf(`{"questions":[%s,%s,%s]}`,
			`{"question":"q","options":["a","b","c"],"correctAnswer":0,"explanation":"e"}`,
			`{"question":"q","options":["a","b","c","d"],"correctAnswer":0,"explanation":"e"}`,
			`{"question":"q","options":["a","b","c","d"],"correctAnswer":0,"explanation":"e"}`)},
		{"answer index out of range", fmt.Sprintf(`{"questions":[%s,%s,%s]}`,
			`{"question":"q","options":["a","b","c","d"],"correctAnswer":4,"explanation":"e"}`,
			`{"question":"q","options":["a","b","c","d"],"correctAnswer":0,"explanation":"e"}`,
			`{"question":"q","options":["a","b","c","d"],"correctAnswer":0,"explanation":"e"}`)},
		{"empty question text", fmt.Sprintf(`{"questions":[%s,%s,%s]}`,
			`{"question":"","options":["a","b","c","d"],"correctAnswer":0,"explanation":"e"}`,
			`{"question":"q","options":["a","b","c","d"],"correctAnswer":0,"explanation":"e"}`,
			`{"question":"q","options":["a","b","c","d"],"correctAnswer":0,"explanation":"e"}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseQuiz([]byte(tt.raw)); err == nil {
				t.Fatal("parseQuiz() error = nil, want malformed-payload error")
			}
		})
	}
}
