package catalog

import (
	"github.com/samber/lo"

	"github.com/vuminh/eduai-server/pkg/domain"
)

// Catalog is the static course library: subjects, education levels and the
// hardcoded lesson plans shown in the library tab. Read-only after startup.
type Catalog struct {
	subjects []domain.Subject
	courses  []domain.Course
}

func New() *Catalog {
	return &Catalog{
		subjects: defaultSubjects(),
		courses:  defaultCourses(),
	}
}

func (c *Catalog) Subjects() []domain.Subject {
	return c.subjects
}

func (c *Catalog) SubjectByID(id string) (domain.Subject, bool) {
	return lo.Find(c.subjects, func(s domain.Subject) bool { return s.ID == id })
}

func (c *Catalog) Levels() []domain.Level {
	return domain.Levels()
}

// CoursesByLevel filters the library down to one education level.
func (c *Catalog) CoursesByLevel(level domain.Level) []domain.Course {
	return lo.Filter(c.courses, func(course domain.Course, _ int) bool {
		return course.Level == level
	})
}

func defaultSubjects() []domain.Subject {
	return []domain.Subject{
		{ID: "math", Name: "Mathematics", Icon: "fa-calculator", Color: "bg-blue-500"},
		{ID: "literature", Name: "Literature", Icon: "fa-book", Color: "bg-red-500"},
		{ID: "english", Name: "English", Icon: "fa-language", Color: "bg-green-500"},
		{ID: "science", Name: "Science", Icon: "fa-flask", Color: "bg-purple-500"},
	}
}

func defaultCourses() []domain.Course {
	return []domain.Course{
		{
			ID:        "math-fractions",
			SubjectID: "math",
			Title:     "Mastering Fractions",
			Level:     domain.LevelPrimary,
			Thumbnail: "/thumbnails/math-fractions.jpg",
			Lessons: []domain.Lesson{
				{ID: "l1", Title: "What is a fraction?", Duration: "08:30", Type: domain.LessonTypeVideo},
				{ID: "l2", Title: "Adding and subtracting fractions", Duration: "12:15", Type: domain.LessonTypeVideo},
				{ID: "l3", Title: "Practice: fraction drills", Duration: "15:00", Type: domain.LessonTypePractice},
			},
		},
		{
			ID:        "math-algebra",
			SubjectID: "math",
			Title:     "Introduction to Algebra",
			Level:     domain.LevelSecondary,
			Thumbnail: "/thumbnails/math-algebra.jpg",
			Lessons: []domain.Lesson{
				{ID: "l1", Title: "Variables and expressions", Duration: "10:00", Type: domain.LessonTypeVideo},
				{ID: "l2", Title: "Solving linear equations", Duration: "14:45", Type: domain.LessonTypeText},
				{ID: "l3", Title: "Practice: equation sets", Duration: "20:00", Type: domain.LessonTypePractice},
			},
		},
		{
			ID:        "science-atoms",
			SubjectID: "science",
			Title:     "Atoms and Molecules",
			Level:     domain.LevelSecondary,
			Thumbnail: "/thumbnails/science-atoms.jpg",
			Lessons: []domain.Lesson{
				{ID: "l1", Title: "Structure of the atom", Duration: "09:20", Type: domain.LessonTypeVideo},
				{ID: "l2", Title: "The periodic table", Duration: "11:05", Type: domain.LessonTypeText},
			},
		},
		{
			ID:        "english-tenses",
			SubjectID: "english",
			Title:     "English Tenses in Depth",
			Level:     domain.LevelHighSchool,
			Thumbnail: "/thumbnails/english-tenses.jpg",
			Lessons: []domain.Lesson{
				{ID: "l1", Title: "Present simple and continuous", Duration: "07:40", Type: domain.LessonTypeVideo},
				{ID: "l2", Title: "Passive voice", Duration: "13:30", Type: domain.LessonTypeText},
				{ID: "l3", Title: "Practice: mixed tenses", Duration: "18:00", Type: domain.LessonTypePractice},
			},
		},
		{
			ID:        "literature-poetry",
			SubjectID: "literature",
			Title:     "Reading Modern Poetry",
			Level:     domain.LevelHighSchool,
			Thumbnail: "/thumbnails/literature-poetry.jpg",
			Lessons: []domain.Lesson{
				{ID: "l1", Title: "Imagery and metaphor", Duration: "10:10", Type: domain.LessonTypeVideo},
				{ID: "l2", Title: "Analyzing a poem", Duration: "16:25", Type: domain.LessonTypeText},
			},
		},
	}
}
