package generation

import (
	"fmt"
	"strings"
	"text/template"
)

var prompts = template.Must(template.New("prompts").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`
{{- define "practice" -}}
Create a {{.Count}}-lesson drawing plan for a {{.Level}} artist on the theme of "{{.Theme}}". Each lesson should be a specific, drawable subject that progresses in difficulty. Return a JSON array of strings, where each string is a lesson subject. For example, for beginner flowers: ["a single daisy", "a simple tulip", "a rosebud", "a sunflower head", "a small bouquet"]. ONLY return the JSON array itself, with no other text or markdown.
{{- end -}}

{{- define "course" -}}
Based on the drawing lesson titled "{{.LessonTitle}}" with the content "{{join .LessonContent " "}}", create a JSON array of {{.Count}} simple, drawable subjects for a beginner to practice the concepts. The subjects should be very specific and easy to visualize. For example, for a lesson on shading with hatching, you might return ["a sphere shaded with hatching", "a cube shaded with cross-hatching"]. ONLY return the JSON array itself, with no other text or markdown.
{{- end -}}

{{- define "drawing" -}}
A professional, clean, artistic, minimalist black ink pen drawing of "{{.Subject}}".
Style: High-contrast, beautiful fine line art, monochrome, elegant composition. The drawing should be isolated on a pure white background.
This is for a {{.Level}} artist learning to draw {{.Theme}}. The style should be inspiring and clear.
No text, no watermarks, no signatures, no colored elements.
{{- end -}}
`))

type planPromptData struct {
	PlanContext
	Count int
}

type drawingPromptData struct {
	Subject string
	Theme   string
	Level   string
}

func planPrompt(plan PlanContext, count int) (string, error) {
	name := "practice"
	if plan.IsCourse() {
		name = "course"
	}
	return render(name, planPromptData{PlanContext: plan, Count: count})
}

func drawingPrompt(subject, theme, level string) (string, error) {
	return render("drawing", drawingPromptData{Subject: subject, Theme: theme, Level: level})
}

func render(name string, data any) (string, error) {
	var b strings.Builder
	if err := prompts.ExecuteTemplate(&b, name, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", name, err)
	}
	return b.String(), nil
}
