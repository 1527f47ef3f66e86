package domain

type Subject struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type Course struct {
	ID        string   `json:"id"`
	SubjectID string   `json:"subjectId"`
	Title     string   `json:"title"`
	Level     Level    `json:"level"`
	Lessons   []Lesson `json:"lessons"`
	Thumbnail string   `json:"thumbnail"`
}

type Lesson struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Duration  string `json:"duration"`
	Completed bool   `json:"completed"`
	Type      string `json:"type"`
}

const (
	LessonTypeVideo    = "video"
	LessonTypeText     = "text"
	LessonTypePractice = "practice"
)
