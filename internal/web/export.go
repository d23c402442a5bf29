package web

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/p-n-ai/inkwell/internal/export"
)

const (
	pdfFailureMessage      = "Could not generate the PDF. Please try again."
	workbookFailureMessage = "Could not generate the workbook. Please try again."
	xlsxContentType        = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func (s *Server) document(w http.ResponseWriter, r *http.Request) (export.Document, bool) {
	sess, err := s.sessions.Get(r.PathValue("id"))
	if err != nil {
		respondErr(w, r, err)
		return export.Document{}, false
	}
	doc, err := export.FromSession(sess)
	if err != nil {
		respondErr(w, r, err)
		return export.Document{}, false
	}
	return doc, true
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.document(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WritePDF(r.Context(), &buf, doc, s.renderer); err != nil {
		slog.Error("pdf export failed", "session_id", r.PathValue("id"), "error", err)
		respondError(w, http.StatusInternalServerError, pdfFailureMessage)
		return
	}
	attach(w, "application/pdf", doc.FileName("pdf"), buf.Bytes())
}

func (s *Server) handleExportWorkbook(w http.ResponseWriter, r *http.Request) {
	doc, ok := s.document(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, doc); err != nil {
		slog.Error("workbook export failed", "session_id", r.PathValue("id"), "error", err)
		respondError(w, http.StatusInternalServerError, workbookFailureMessage)
		return
	}
	attach(w, xlsxContentType, doc.FileName("xlsx"), buf.Bytes())
}

func attach(w http.ResponseWriter, contentType, name string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", fmt.Sprint(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
