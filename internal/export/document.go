// Package export lays out generated lessons as A4 pages and writes them as a
// PDF or an exercise workbook.
package export

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/p-n-ai/inkwell/internal/session"
)

const (
	brand          = "Inkwell Apprentice"
	courseLevel    = "Beginner"
	courseFooter   = brand + " | Course Curriculum"
	fileNamePrefix = "Inkwell-Apprentice"
)

// PageKind identifies a page layout.
type PageKind int

const (
	TitlePage PageKind = iota
	TextPage
	LessonPage
)

func (k PageKind) String() string {
	switch k {
	case TitlePage:
		return "title"
	case TextPage:
		return "text"
	case LessonPage:
		return "lesson"
	default:
		return "unknown"
	}
}

// Document is everything needed to export one finished session.
type Document struct {
	Mode        session.Mode
	Theme       string
	Level       string
	ModuleTitle string
	LessonTitle string
	Paragraphs  []string
	Lessons     []session.Lesson
}

// Page is one laid-out page. Number and Total are zero on the title page.
type Page struct {
	Kind       PageKind
	Number     int
	Total      int
	Title      string
	Subtitle   string
	Heading    string
	Paragraphs []string
	Image      []byte
	Footer     string
}

// FromSession builds the document of a ready session.
func FromSession(s *session.Session) (Document, error) {
	lessons, err := s.Lessons()
	if err != nil {
		return Document{}, err
	}
	sel := s.Selection()
	return Document{
		Mode:        s.Mode(),
		Theme:       sel.Theme,
		Level:       sel.Level,
		ModuleTitle: sel.ModuleTitle,
		LessonTitle: sel.LessonTitle,
		Paragraphs:  sel.LessonContent,
		Lessons:     lessons,
	}, nil
}

// Pages returns the document's pages in print order: the title page, the
// lesson text in course mode, then one page per lesson.
func (d Document) Pages() []Page {
	course := d.Mode == session.ModeCourse
	caser := cases.Title(language.English, cases.NoLower)

	title, subtitle := d.Theme, d.Level
	if course {
		title, subtitle = d.LessonTitle, d.ModuleTitle
	}

	total := len(d.Lessons)
	if course {
		total++
	}

	pages := make([]Page, 0, total+1)
	pages = append(pages, Page{
		Kind:     TitlePage,
		Title:    caser.String(title),
		Subtitle: caser.String(subtitle),
	})

	number := 0
	if course {
		number++
		pages = append(pages, Page{
			Kind:       TextPage,
			Number:     number,
			Total:      total,
			Heading:    d.LessonTitle,
			Paragraphs: d.Paragraphs,
			Footer:     courseFooter,
		})
	}

	theme, level := d.footerStyle()
	footer := fmt.Sprintf("%s | %s - %s", brand, theme, level)
	for _, l := range d.Lessons {
		number++
		pages = append(pages, Page{
			Kind:    LessonPage,
			Number:  number,
			Total:   total,
			Heading: caser.String(l.Subject),
			Image:   l.Image,
			Footer:  footer,
		})
	}
	return pages
}

func (d Document) footerStyle() (theme, level string) {
	if d.Mode == session.ModeCourse {
		return d.LessonTitle, courseLevel
	}
	return d.Theme, d.Level
}

// FileName returns the download name with the given extension, e.g.
// "Inkwell-Apprentice-Flowers-Beginner.pdf".
func (d Document) FileName(ext string) string {
	parts := []string{fileNamePrefix}
	if d.Mode == session.ModeCourse {
		parts = append(parts, d.LessonTitle)
	} else {
		parts = append(parts, d.Theme, d.Level)
	}
	for i := 1; i < len(parts); i++ {
		parts[i] = sanitize(parts[i])
	}
	return strings.Join(parts, "-") + "." + strings.TrimPrefix(ext, ".")
}

var unsafeRun = regexp.MustCompile(`[^A-Za-z0-9._]+`)

// sanitize folds s to ASCII letters, digits, dots and underscores, joining
// words with hyphens.
func sanitize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = unsafeRun.ReplaceAllString(folded, "-")
	folded = strings.Trim(folded, "-.")
	if folded == "" {
		return "untitled"
	}
	return folded
}
