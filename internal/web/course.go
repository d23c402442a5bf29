package web

import (
	"net/http"

	"github.com/p-n-ai/inkwell/internal/curriculum"
)

type catalogResponse struct {
	Themes  []string `json:"themes"`
	Levels  []string `json:"levels"`
	Lessons int      `json:"lessons"`
}

type lessonView struct {
	Index   int      `json:"index"`
	Title   string   `json:"title"`
	Content []string `json:"content,omitempty"`
}

type moduleView struct {
	Index       int          `json:"index"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Lessons     []lessonView `json:"lessons,omitempty"`
}

type courseLessonResponse struct {
	Module moduleView `json:"module"`
	Lesson lessonView `json:"lesson"`
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	catalog := s.content.Catalog()
	respondJSON(w, http.StatusOK, catalogResponse{
		Themes:  catalog.Themes,
		Levels:  catalog.Levels,
		Lessons: s.lessons,
	})
}

// handleCourse lists modules and lesson titles; lesson text is served per lesson.
func (s *Server) handleCourse(w http.ResponseWriter, r *http.Request) {
	modules := s.content.Modules()
	views := make([]moduleView, 0, len(modules))
	for i, m := range modules {
		views = append(views, toModuleView(i, m))
	}
	respondJSON(w, http.StatusOK, map[string]any{"modules": views})
}

func (s *Server) handleCourseLesson(w http.ResponseWriter, r *http.Request) {
	mi, err := pathInt(r, "module")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	li, err := pathInt(r, "lesson")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	module, lesson, err := s.content.Lesson(mi, li)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	mv := toModuleView(mi, module)
	mv.Lessons = nil
	respondJSON(w, http.StatusOK, courseLessonResponse{
		Module: mv,
		Lesson: lessonView{Index: li, Title: lesson.Title, Content: lesson.Content},
	})
}

func toModuleView(index int, m curriculum.CourseModule) moduleView {
	lessons := make([]lessonView, 0, len(m.Lessons))
	for j, l := range m.Lessons {
		lessons = append(lessons, lessonView{Index: j, Title: l.Title})
	}
	return moduleView{
		Index:       index,
		Title:       m.Title,
		Description: m.Description,
		Lessons:     lessons,
	}
}
