package domain

type Level string

const (
	LevelPrimary    Level = "Primary"
	LevelSecondary  Level = "Secondary"
	LevelHighSchool Level = "HighSchool"
)

func (l Level) Valid() bool {
	switch l {
	case LevelPrimary, LevelSecondary, LevelHighSchool:
		return true
	}
	return false
}

// Register describes the explanation depth the model should use for a level.
func (l Level) Register() string {
	switch l {
	case LevelPrimary:
		return "Explain in extremely simple terms, use everyday metaphors (apples, candy), and praise generously to encourage the student."
	case LevelHighSchool:
		return "Explain in depth and academically, support critical thinking, recall related concepts and share exam-preparation tips."
	default:
		return "Explain clearly and logically, starting to go deeper into formulas and foundational concepts."
	}
}

func Levels() []Level {
	return []Level{LevelPrimary, LevelSecondary, LevelHighSchool}
}
