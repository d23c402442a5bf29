package web

import (
	"context"
	"net/http"

	"github.com/p-n-ai/inkwell/internal/session"
)

type createSessionRequest struct {
	Mode   string `json:"mode" validate:"required,oneof=practice course"`
	Theme  string `json:"theme" validate:"max=80"`
	Level  string `json:"level" validate:"max=50"`
	Module int    `json:"module" validate:"gte=0"`
	Lesson int    `json:"lesson" validate:"gte=0"`
}

type selectionRequest struct {
	Mode   string `json:"mode" validate:"omitempty,oneof=practice course"`
	Theme  string `json:"theme" validate:"max=80"`
	Level  string `json:"level" validate:"max=50"`
	Module int    `json:"module" validate:"gte=0"`
	Lesson int    `json:"lesson" validate:"gte=0"`
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := s.sessions.Create(session.Request{
		Mode:   session.Mode(req.Mode),
		Theme:  req.Theme,
		Level:  req.Level,
		Module: req.Module,
		Lesson: req.Lesson,
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/sessions/"+sess.ID())
	respondJSON(w, http.StatusCreated, sess.Snapshot())
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, sess.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Delete(r.PathValue("id")); err != nil {
		respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := s.sessions.Select(r.PathValue("id"), session.Request{
		Mode:   session.Mode(req.Mode),
		Theme:  req.Theme,
		Level:  req.Level,
		Module: req.Module,
		Lesson: req.Lesson,
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// handleGenerate starts a cycle that outlives the request; progress is read
// by polling the session or from the events stream.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}

	snap, err := sess.Start(context.WithoutCancel(r.Context()))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	respondJSON(w, http.StatusAccepted, snap)
}

func (s *Server) handleLessonImage(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}
	n, err := pathInt(r, "n")
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	lesson, err := sess.Lesson(n)
	if err != nil {
		respondErr(w, r, err)
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(lesson.Image))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)
	w.Write(lesson.Image)
}
