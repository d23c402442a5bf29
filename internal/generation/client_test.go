package generation_test

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/p-n-ai/inkwell/internal/ai"
	"github.com/p-n-ai/inkwell/internal/generation"
)

func TestPlanSubjects_Practice(t *testing.T) {
	mock := ai.NewMockProvider(`["a sleeping cat", "a cat face", "a cat stretching", "a cat pouncing", "two cats playing"]`)
	client := generation.NewClient(mock)

	subjects, err := client.PlanSubjects(context.Background(), generation.PracticePlan("cats", "beginner"), 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"a sleeping cat", "a cat face", "a cat stretching", "a cat pouncing", "two cats playing"}, subjects)

	reqs := mock.JSONRequests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Prompt, `Create a 5-lesson drawing plan for a beginner artist on the theme of "cats"`)
	require.NotNil(t, reqs[0].Schema)
	assert.Equal(t, ai.SchemaArray, reqs[0].Schema.Type)
	assert.Equal(t, "A specific subject for a drawing lesson.", reqs[0].Schema.Items.Description)
}

func TestPlanSubjects_Course(t *testing.T) {
	mock := ai.NewMockProvider(`["a sphere shaded with hatching", "a cube shaded with cross-hatching", "a cone"]`)
	client := generation.NewClient(mock)

	plan := generation.CoursePlan("Lesson 4: Introduction to Shading", []string{"Light creates form.", "Use hatching."})
	subjects, err := client.PlanSubjects(context.Background(), plan, generation.DefaultCourseExercises)
	require.NoError(t, err)
	assert.Len(t, subjects, 2, "course plans are truncated to the exercise count")

	prompt := mock.JSONRequests()[0].Prompt
	assert.Contains(t, prompt, `titled "Lesson 4: Introduction to Shading"`)
	assert.Contains(t, prompt, `"Light creates form. Use hatching."`)
	assert.Contains(t, prompt, "create a JSON array of 2 simple")
}

func TestPlanSubjects_ShortPlanNotPadded(t *testing.T) {
	client := generation.NewClient(ai.NewMockProvider(`["one", "two"]`))

	subjects, err := client.PlanSubjects(context.Background(), generation.PracticePlan("birds", "advanced"), 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, subjects)
}

func TestPlanSubjects_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mock    *ai.MockProvider
		plan    generation.PlanContext
		message string
	}{
		{
			name:    "api error practice",
			mock:    &ai.MockProvider{JSONErr: errors.New("unavailable")},
			plan:    generation.PracticePlan("cats", "beginner"),
			message: "Failed to generate the lesson plan. The AI model may be temporarily unavailable.",
		},
		{
			name:    "api error course",
			mock:    &ai.MockProvider{JSONErr: errors.New("unavailable")},
			plan:    generation.CoursePlan("Lesson 1", []string{"text"}),
			message: "Failed to generate the practice exercises for this lesson.",
		},
		{
			name:    "not an array",
			mock:    ai.NewMockProvider(`{"subjects": ["a"]}`),
			plan:    generation.PracticePlan("cats", "beginner"),
			message: "Failed to generate the lesson plan. The AI model may be temporarily unavailable.",
		},
		{
			name:    "mixed item types",
			mock:    ai.NewMockProvider(`["a", 2]`),
			plan:    generation.PracticePlan("cats", "beginner"),
			message: "Failed to generate the lesson plan. The AI model may be temporarily unavailable.",
		},
		{
			name:    "not json",
			mock:    ai.NewMockProvider("Here are your lessons: a cat"),
			plan:    generation.PracticePlan("cats", "beginner"),
			message: "Failed to generate the lesson plan. The AI model may be temporarily unavailable.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := generation.NewClient(tt.mock)
			_, err := client.PlanSubjects(context.Background(), tt.plan, 5)
			require.Error(t, err)

			var planErr *generation.PlanGenerationError
			require.True(t, errors.As(err, &planErr))
			assert.Equal(t, tt.message, err.Error())
			assert.NotNil(t, planErr.Cause)
		})
	}
}

func TestPlanSubjects_InvalidPlanWrapped(t *testing.T) {
	client := generation.NewClient(ai.NewMockProvider(`[1, 2]`))
	_, err := client.PlanSubjects(context.Background(), generation.PracticePlan("cats", "beginner"), 5)
	assert.ErrorIs(t, err, generation.ErrInvalidPlan)
}

func TestRenderSubject(t *testing.T) {
	mock := ai.NewMockProvider("")
	client := generation.NewClient(mock, generation.WithModels("", "imagen-test"))

	img := client.RenderSubject(context.Background(), "a sleeping cat", "cats", "beginner")
	assert.False(t, img.Placeholder)
	assert.Equal(t, ai.MockPNG(3, 4), img.Data)

	reqs := mock.ImageRequests()
	require.Len(t, reqs, 1)
	assert.Equal(t, 1, reqs[0].Count)
	assert.Equal(t, "image/png", reqs[0].MIMEType)
	assert.Equal(t, "3:4", reqs[0].AspectRatio)
	assert.Equal(t, "imagen-test", reqs[0].Model)
	assert.True(t, strings.HasPrefix(reqs[0].Prompt, `A professional, clean, artistic, minimalist black ink pen drawing of "a sleeping cat".`))
	assert.Contains(t, reqs[0].Prompt, "This is for a beginner artist learning to draw cats.")
}

func TestRenderSubject_Fallbacks(t *testing.T) {
	tests := []struct {
		name string
		fn   func(ai.ImageRequest) ([]ai.Image, error)
	}{
		{"billing", func(ai.ImageRequest) ([]ai.Image, error) {
			return nil, errors.New("Imagen API is only accessible to billed users at this time.")
		}},
		{"other error", func(ai.ImageRequest) ([]ai.Image, error) { return nil, errors.New("timeout") }},
		{"no images", func(ai.ImageRequest) ([]ai.Image, error) { return nil, nil }},
		{"empty bytes", func(ai.ImageRequest) ([]ai.Image, error) { return []ai.Image{{}}, nil }},
		{"undecodable", func(ai.ImageRequest) ([]ai.Image, error) {
			return []ai.Image{{Data: []byte("not an image")}}, nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := generation.NewClient(&ai.MockProvider{ImageFunc: tt.fn})
			img := client.RenderSubject(context.Background(), "a tulip", "flowers", "beginner")
			assert.True(t, img.Placeholder)
			assert.Equal(t, generation.Placeholder("a tulip"), img.Data)
		})
	}
}

func TestPlaceholder(t *testing.T) {
	a := generation.Placeholder("a sunflower head")
	b := generation.Placeholder("a sunflower head")
	assert.Equal(t, a, b, "placeholder must be deterministic")
	assert.NotEqual(t, a, generation.Placeholder("a rosebud"))

	img, err := png.Decode(bytes.NewReader(a))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())
}

func TestPlaceholder_LongSubject(t *testing.T) {
	img, err := png.Decode(bytes.NewReader(generation.Placeholder(strings.Repeat("a very long subject ", 20))))
	require.NoError(t, err)
	assert.Equal(t, 300, img.Bounds().Dx())
}

func TestPlanContext_DrawingStyle(t *testing.T) {
	theme, level := generation.PracticePlan("cats", "Advanced").DrawingStyle()
	assert.Equal(t, "cats", theme)
	assert.Equal(t, "Advanced", level)

	theme, level = generation.CoursePlan("Lesson 2: Shapes", nil).DrawingStyle()
	assert.Equal(t, "Lesson 2: Shapes", theme)
	assert.Equal(t, "beginner", level)
}
