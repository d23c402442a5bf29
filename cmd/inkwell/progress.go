package main

import (
	"fmt"
	"io"

	"github.com/p-n-ai/inkwell/internal/session"
)

// progressPrinter reports generation progress as plain lines.
type progressPrinter struct {
	w io.Writer
}

func newProgressPrinter(w io.Writer) *progressPrinter {
	return &progressPrinter{w: w}
}

func (p *progressPrinter) Observe(s session.Snapshot) {
	switch s.Status {
	case session.StatusGeneratingPlan:
		fmt.Fprintln(p.w, "Planning lessons...")
	case session.StatusGeneratingImages:
		if s.Progress.Current == 1 {
			fmt.Fprintf(p.w, "Planned %d subjects\n", len(s.Subjects))
		}
		subject := ""
		if i := s.Progress.Current - 1; i < len(s.Subjects) {
			subject = s.Subjects[i]
		}
		fmt.Fprintf(p.w, "Drawing %d of %d: %s\n", s.Progress.Current, s.Progress.Total, subject)
	case session.StatusReady:
		placeholders := 0
		for _, ph := range s.Placeholders {
			if ph {
				placeholders++
			}
		}
		if placeholders > 0 {
			fmt.Fprintf(p.w, "Done, %d of %d drawings are placeholders\n", placeholders, len(s.Placeholders))
			return
		}
		fmt.Fprintln(p.w, "Done")
	case session.StatusError:
		fmt.Fprintf(p.w, "Failed: %s\n", s.Error)
	}
}
