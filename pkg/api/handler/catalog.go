package handler

import (
	"net/http"

	"github.com/vuminh/eduai-server/pkg/api/response"
	"github.com/vuminh/eduai-server/pkg/domain"
)

type CatalogProvider interface {
	Subjects() []domain.Subject
	Levels() []domain.Level
	CoursesByLevel(level domain.Level) []domain.Course
}

type catalog struct {
	provider CatalogProvider
	writer   response.JSONResponseWriter
}

func NewCatalog(provider CatalogProvider) *catalog {
	return &catalog{
		provider: provider,
		writer:   response.JSONResponseWriter{},
	}
}

func (c *catalog) GetSubjects(w http.ResponseWriter, r *http.Request) {
	c.writer.WriteSuccessResponse(w, map[string]interface{}{
		"subjects": c.provider.Subjects(),
	})
}

func (c *catalog) GetLevels(w http.ResponseWriter, r *http.Request) {
	c.writer.WriteSuccessResponse(w, map[string]interface{}{
		"levels": c.provider.Levels(),
	})
}

func (c *catalog) GetCourses(w http.ResponseWriter, r *http.Request) {
	level := domain.Level(r.URL.Query().Get("level"))
	if !level.Valid() {
		c.writer.WriteDomainError(w, domain.ErrInvalidLevel)
		return
	}

	c.writer.WriteSuccessResponse(w, map[string]interface{}{
		"courses": c.provider.CoursesByLevel(level),
	})
}
