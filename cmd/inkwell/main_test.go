package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p-n-ai/inkwell/internal/ai"
	"github.com/p-n-ai/inkwell/internal/curriculum"
	"github.com/p-n-ai/inkwell/internal/generation"
	"github.com/p-n-ai/inkwell/internal/platform/config"
	"github.com/p-n-ai/inkwell/internal/session"
)

const threeSubjects = `["a rose", "a tulip", "a daisy"]`

// isolate keeps developer config files and environment out of the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, key := range []string{
		"INKWELL_AI_GOOGLE_API_KEY",
		"INKWELL_AI_VERTEX_ENABLED",
		"INKWELL_CURRICULUM_PATH",
		"INKWELL_GENERATION_LESSON_COUNT",
		"INKWELL_GENERATION_COURSE_EXERCISES",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("INKWELL_GENERATION_IMAGE_DELAY", "0s")
	t.Setenv("INKWELL_EXPORT_SCALE", "0.5")
}

func mockCLI(provider *ai.MockProvider) *cli {
	c := newCLI()
	c.newGenerator = func(_ context.Context, cfg *config.Config) (*curriculum.Loader, session.Generator, error) {
		content, err := curriculum.NewLoader(cfg.CurriculumPath)
		if err != nil {
			return nil, nil, err
		}
		return content, generation.NewClient(provider), nil
	}
	return c
}

func run(t *testing.T, c *cli, args ...string) (string, string, error) {
	t.Helper()
	root := c.rootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCourseList(t *testing.T) {
	isolate(t)
	out, _, err := run(t, newCLI(), "course", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "0  ")
	assert.Contains(t, out, "0 3  Lesson 4: Introduction to Shading")
}

func TestCourseShow(t *testing.T) {
	isolate(t)
	out, _, err := run(t, newCLI(), "course", "show", "0", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Lesson 4: Introduction to Shading")

	_, _, err = run(t, newCLI(), "course", "show", "9", "9")
	assert.True(t, errors.Is(err, curriculum.ErrLessonNotFound), "error = %v", err)

	_, _, err = run(t, newCLI(), "course", "show", "a", "0")
	assert.ErrorContains(t, err, "module must be an integer")
}

func TestCatalog(t *testing.T) {
	isolate(t)
	out, _, err := run(t, newCLI(), "catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "Levels: Beginner, Intermediate, Advanced")
	assert.Contains(t, out, "Flowers")
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, newCLI(), "version")
	require.NoError(t, err)
	assert.Equal(t, "inkwell dev\n", out)
}

func TestPractice_WritesPDFAndWorkbook(t *testing.T) {
	isolate(t)
	t.Setenv("INKWELL_AI_GOOGLE_API_KEY", "test-key")
	dir := t.TempDir()
	pdfPath := filepath.Join(dir, "flowers.pdf")
	xlsxPath := filepath.Join(dir, "flowers.xlsx")

	provider := ai.NewMockProvider(threeSubjects)
	out, progress, err := run(t, mockCLI(provider),
		"practice", "--theme", "flowers", "--level", "beginner", "-o", pdfPath, "--xlsx", xlsxPath)
	require.NoError(t, err)

	assert.Contains(t, out, "(4 pages)")
	assert.Contains(t, progress, "Drawing 3 of 3: a daisy")
	assert.Len(t, provider.ImageRequests(), 3)

	data, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	book, err := os.ReadFile(xlsxPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(book, []byte("PK")))
}

func TestPractice_PlanFailureWritesNothing(t *testing.T) {
	isolate(t)
	t.Setenv("INKWELL_AI_GOOGLE_API_KEY", "test-key")
	pdfPath := filepath.Join(t.TempDir(), "out.pdf")

	provider := ai.NewMockProvider("")
	provider.JSONErr = errors.New("service unavailable")
	_, progress, err := run(t, mockCLI(provider), "practice", "--theme", "cats", "-o", pdfPath)

	var planErr *generation.PlanGenerationError
	require.ErrorAs(t, err, &planErr)
	assert.Contains(t, progress, "Failed: ")
	assert.Empty(t, provider.ImageRequests())
	assert.NoFileExists(t, pdfPath)
}

func TestPractice_RequiresProvider(t *testing.T) {
	isolate(t)
	_, _, err := run(t, mockCLI(ai.NewMockProvider(threeSubjects)), "practice", "--theme", "cats")
	assert.ErrorContains(t, err, "INKWELL_AI_GOOGLE_API_KEY")
}

func TestPractice_RequiresTheme(t *testing.T) {
	isolate(t)
	t.Setenv("INKWELL_AI_GOOGLE_API_KEY", "test-key")
	_, _, err := run(t, mockCLI(ai.NewMockProvider(threeSubjects)), "practice")
	assert.Error(t, err)
}

func TestPractice_ConfigFile(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "inkwell.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
ai:
  google:
    api_key: from-file
generation:
  lesson_count: 2
`), 0o644))

	provider := ai.NewMockProvider(threeSubjects)
	out, _, err := run(t, mockCLI(provider),
		"--config", cfgPath, "practice", "--theme", "flowers", "-o", filepath.Join(dir, "out.pdf"))
	require.NoError(t, err)
	assert.Contains(t, out, "(3 pages)")
	assert.Len(t, provider.ImageRequests(), 2)
}

func TestConfig_MissingFile(t *testing.T) {
	isolate(t)
	_, _, err := run(t, newCLI(), "--config", filepath.Join(t.TempDir(), "nope.yaml"), "catalog")
	assert.ErrorContains(t, err, "read config")
}

func TestCourseSheets(t *testing.T) {
	isolate(t)
	t.Setenv("INKWELL_AI_GOOGLE_API_KEY", "test-key")
	pdfPath := filepath.Join(t.TempDir(), "lesson.pdf")

	provider := ai.NewMockProvider(`["shade a sphere", "shade a cube", "shade a cone"]`)
	out, _, err := run(t, mockCLI(provider), "course", "sheets", "0", "3", "-o", pdfPath)
	require.NoError(t, err)

	// Title, lesson text and the two exercises the course keeps.
	assert.Contains(t, out, "(4 pages)")
	assert.Len(t, provider.ImageRequests(), 2)
	assert.FileExists(t, pdfPath)
}

func TestProgressPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressPrinter(&buf)

	p.Observe(session.Snapshot{Status: session.StatusGeneratingPlan})
	p.Observe(session.Snapshot{Status: session.StatusGeneratingImages, Subjects: []string{"a", "b"}, Progress: session.Progress{Current: 1, Total: 2}})
	p.Observe(session.Snapshot{Status: session.StatusGeneratingImages, Subjects: []string{"a", "b"}, Progress: session.Progress{Current: 2, Total: 2}})
	p.Observe(session.Snapshot{Status: session.StatusReady, Placeholders: []bool{true, false}})

	assert.Equal(t, "Planning lessons...\nPlanned 2 subjects\nDrawing 1 of 2: a\nDrawing 2 of 2: b\nDone, 1 of 2 drawings are placeholders\n", buf.String())
}
