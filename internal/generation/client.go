// Package generation turns lesson parameters into drawable subjects and ink
// drawings using the AI gateway.
package generation

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"

	"github.com/p-n-ai/inkwell/internal/ai"
)

const (
	// DefaultLessonCount is the number of subjects requested for a practice plan.
	DefaultLessonCount = 5
	// DefaultCourseExercises is the number of subjects requested for a course lesson.
	DefaultCourseExercises = 2

	courseImageLevel = "beginner"
)

// PlanContext describes what a plan is for: a practice theme and level, or a
// curriculum lesson when LessonTitle is set.
type PlanContext struct {
	Theme         string
	Level         string
	LessonTitle   string
	LessonContent []string
}

// PracticePlan returns the context of a free practice plan.
func PracticePlan(theme, level string) PlanContext {
	return PlanContext{Theme: theme, Level: level}
}

// CoursePlan returns the context of exercises for a curriculum lesson.
func CoursePlan(title string, content []string) PlanContext {
	return PlanContext{LessonTitle: title, LessonContent: content}
}

// IsCourse reports whether the plan is for a curriculum lesson.
func (p PlanContext) IsCourse() bool {
	return p.LessonTitle != ""
}

// DrawingStyle returns the theme and level used in drawing prompts. Course
// exercises are drawn for a beginner on the lesson's topic.
func (p PlanContext) DrawingStyle() (theme, level string) {
	if p.IsCourse() {
		return p.LessonTitle, courseImageLevel
	}
	return p.Theme, p.Level
}

// Image is a rendered drawing.
type Image struct {
	Data        []byte
	Placeholder bool
}

// Client wraps an AI provider with the lesson-plan and drawing prompts.
type Client struct {
	provider   ai.Provider
	textModel  string
	imageModel string
}

// Option configures a Client.
type Option func(*Client)

// WithModels overrides the provider's default models. Empty values keep them.
func WithModels(textModel, imageModel string) Option {
	return func(c *Client) {
		c.textModel = textModel
		c.imageModel = imageModel
	}
}

// NewClient creates a generation client backed by provider.
func NewClient(provider ai.Provider, opts ...Option) *Client {
	c := &Client{provider: provider}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PlanSubjects asks the text model for up to max drawable subjects. Longer
// answers are truncated; shorter ones are returned as is. Every failure is a
// *PlanGenerationError.
func (c *Client) PlanSubjects(ctx context.Context, plan PlanContext, max int) ([]string, error) {
	message := practiceFailureMessage
	itemDescription := "A specific subject for a drawing lesson."
	if plan.IsCourse() {
		message = courseFailureMessage
		itemDescription = "A specific subject for a drawing exercise."
	}
	fail := func(err error) error {
		slog.Error("lesson plan generation failed",
			"theme", plan.Theme,
			"level", plan.Level,
			"lesson", plan.LessonTitle,
			"error", err,
		)
		return &PlanGenerationError{Message: message, Cause: err}
	}

	if max <= 0 {
		return nil, fail(fmt.Errorf("subject count must be positive, got %d", max))
	}

	prompt, err := planPrompt(plan, max)
	if err != nil {
		return nil, fail(err)
	}

	resp, err := c.provider.GenerateJSON(ctx, ai.JSONRequest{
		Model:  c.textModel,
		Prompt: prompt,
		Schema: ai.StringListSchema(itemDescription),
	})
	if err != nil {
		return nil, fail(fmt.Errorf("generate lesson plan: %w", err))
	}

	subjects, err := parsePlan(resp.Text)
	if err != nil {
		return nil, fail(err)
	}
	if len(subjects) > max {
		subjects = subjects[:max]
	}

	slog.Info("lesson plan generated",
		"theme", plan.Theme,
		"level", plan.Level,
		"lesson", plan.LessonTitle,
		"subjects", len(subjects),
		"model", resp.Model,
	)
	return subjects, nil
}

// RenderSubject asks the image model for one ink drawing of subject. It never
// fails: any error or unusable response yields the placeholder image.
func (c *Client) RenderSubject(ctx context.Context, subject, theme, level string) Image {
	prompt, err := drawingPrompt(subject, theme, level)
	if err != nil {
		return c.fallback(subject, err)
	}

	images, err := c.provider.GenerateImages(ctx, ai.ImageRequest{
		Model:       c.imageModel,
		Prompt:      prompt,
		Count:       1,
		MIMEType:    "image/png",
		AspectRatio: "3:4",
	})
	if err != nil {
		return c.fallback(subject, err)
	}
	if len(images) == 0 || len(images[0].Data) == 0 {
		return c.fallback(subject, ai.ErrNoImages)
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(images[0].Data)); err != nil {
		return c.fallback(subject, fmt.Errorf("decode generated image: %w", err))
	}

	return Image{Data: images[0].Data}
}

func (c *Client) fallback(subject string, cause error) Image {
	slog.Warn("drawing generation failed, using placeholder",
		"subject", subject,
		"billing", ai.IsBillingError(cause),
		"error", cause,
	)
	return Image{Data: Placeholder(subject), Placeholder: true}
}
