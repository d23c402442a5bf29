package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/inkwell/internal/session"
)

const (
	exercisesSheet = "Exercises"
	lessonSheet    = "Lesson"
)

// WriteWorkbook writes an XLSX index of the document's exercises: the PDF
// page each lesson lands on, its subject and whether the drawing is a
// placeholder. Course documents get a second sheet with the lesson text.
func WriteWorkbook(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exercisesSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := []any{"Page", "Subject", "Theme", "Level", "Drawing"}
	if err := f.SetSheetRow(exercisesSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create style: %w", err)
	}
	if err := f.SetCellStyle(exercisesSheet, "A1", "E1", bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	theme, level := doc.footerStyle()
	row := 2
	for _, p := range doc.Pages() {
		if p.Kind != LessonPage {
			continue
		}
		lesson := doc.Lessons[lessonIndex(doc, p)]
		source := "generated"
		if lesson.Placeholder {
			source = "placeholder"
		}
		// PDF page index: the unnumbered title page comes first.
		values := []any{p.Number + 1, lesson.Subject, theme, level, source}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(exercisesSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", row, err)
		}
		row++
	}
	if err := f.SetColWidth(exercisesSheet, "B", "D", 36); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if doc.Mode == session.ModeCourse {
		if _, err := f.NewSheet(lessonSheet); err != nil {
			return fmt.Errorf("create lesson sheet: %w", err)
		}
		rows := append([]string{doc.ModuleTitle, doc.LessonTitle}, doc.Paragraphs...)
		for i, text := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			if err != nil {
				return err
			}
			if err := f.SetCellStr(lessonSheet, cell, text); err != nil {
				return fmt.Errorf("write lesson text: %w", err)
			}
		}
		if err := f.SetColWidth(lessonSheet, "A", "A", 120); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return fmt.Errorf("encode workbook: %w", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func lessonIndex(doc Document, p Page) int {
	if doc.Mode == session.ModeCourse {
		return p.Number - 2
	}
	return p.Number - 1
}
