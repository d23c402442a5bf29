// Package curriculum holds the static drawing course and practice catalog.
package curriculum

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed content/course.yaml
var embeddedCourse []byte

// MaxThemeLength bounds free-text practice themes.
const MaxThemeLength = 80

var (
	// ErrLessonNotFound is returned when a module/lesson index pair does not exist.
	ErrLessonNotFound = errors.New("lesson not found")
	// ErrInvalidTheme is returned for empty or oversized practice themes.
	ErrInvalidTheme = errors.New("invalid theme")
	// ErrInvalidLevel is returned for a skill level outside the catalog.
	ErrInvalidLevel = errors.New("invalid level")
)

// Loader loads and serves curriculum content. Content is immutable after load;
// every accessor returns copies.
type Loader struct {
	rootDir string
	modules []CourseModule
	catalog Catalog
	mu      sync.RWMutex
}

// NewLoader creates a loader. An empty rootDir loads the embedded course;
// otherwise every YAML file under rootDir is read in lexical path order and
// its modules are appended.
func NewLoader(rootDir string) (*Loader, error) {
	l := &Loader{rootDir: rootDir}

	if rootDir == "" {
		if err := l.loadDocument(embeddedCourse, "embedded"); err != nil {
			return nil, fmt.Errorf("loading embedded curriculum: %w", err)
		}
	} else if err := l.loadAll(); err != nil {
		return nil, fmt.Errorf("loading curriculum: %w", err)
	}

	slog.Info("curriculum loaded",
		"source", l.source(),
		"modules", len(l.modules),
		"themes", len(l.catalog.Themes),
	)
	return l, nil
}

// Modules returns all course modules in order.
func (l *Loader) Modules() []CourseModule {
	l.mu.RLock()
	defer l.mu.RUnlock()
	modules := make([]CourseModule, len(l.modules))
	for i, m := range l.modules {
		modules[i] = m.clone()
	}
	return modules
}

// Lesson returns the lesson at the given zero-based indices with its module.
func (l *Loader) Lesson(module, lesson int) (CourseModule, CourseLesson, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if module < 0 || module >= len(l.modules) {
		return CourseModule{}, CourseLesson{}, fmt.Errorf("%w: module %d", ErrLessonNotFound, module)
	}
	m := l.modules[module]
	if lesson < 0 || lesson >= len(m.Lessons) {
		return CourseModule{}, CourseLesson{}, fmt.Errorf("%w: module %d lesson %d", ErrLessonNotFound, module, lesson)
	}
	return m.clone(), m.Lessons[lesson].clone(), nil
}

// Catalog returns the practice themes and levels.
func (l *Loader) Catalog() Catalog {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Catalog{
		Themes: append([]string(nil), l.catalog.Themes...),
		Levels: append([]string(nil), l.catalog.Levels...),
	}
}

// NormalizeTheme trims a practice theme and checks its length. Themes outside
// the catalog are allowed.
func (l *Loader) NormalizeTheme(theme string) (string, error) {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return "", fmt.Errorf("%w: theme is required", ErrInvalidTheme)
	}
	if len([]rune(theme)) > MaxThemeLength {
		return "", fmt.Errorf("%w: theme longer than %d characters", ErrInvalidTheme, MaxThemeLength)
	}
	return theme, nil
}

// NormalizeLevel matches a skill level against the catalog, case-insensitively,
// and returns the catalog spelling.
func (l *Loader) NormalizeLevel(level string) (string, error) {
	level = strings.TrimSpace(level)
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, known := range l.catalog.Levels {
		if strings.EqualFold(known, level) {
			return known, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidLevel, level)
}

func (l *Loader) source() string {
	if l.rootDir == "" {
		return "embedded"
	}
	return l.rootDir
}

func (l *Loader) loadAll() error {
	var paths []string
	err := filepath.Walk(l.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return err
	}
	sort.Strings(paths)

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if err := l.loadDocument(data, path); err != nil {
			slog.Warn("skipping invalid curriculum YAML", "path", path, "error", err)
		}
	}
	return nil
}

func (l *Loader) loadDocument(data []byte, source string) error {
	var course Course
	if err := yaml.Unmarshal(data, &course); err != nil {
		return err
	}

	for i, m := range course.Modules {
		if m.Title == "" {
			return fmt.Errorf("%s: module %d has no title", source, i)
		}
		for j, lesson := range m.Lessons {
			if lesson.Title == "" {
				return fmt.Errorf("%s: module %d lesson %d has no title", source, i, j)
			}
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.modules = append(l.modules, course.Modules...)
	l.catalog.Themes = appendUnique(l.catalog.Themes, course.Catalog.Themes...)
	l.catalog.Levels = appendUnique(l.catalog.Levels, course.Catalog.Levels...)
	return nil
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, existing := range dst {
			if strings.EqualFold(existing, v) {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}
