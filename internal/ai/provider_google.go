package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const (
	defaultTextModel  = "gemini-2.5-pro"
	defaultImageModel = "imagen-4.0-generate-001"
)

// GoogleProvider implements Provider for Google's Gemini API and Vertex AI
// through the genai SDK.
type GoogleProvider struct {
	client     *genai.Client
	backend    genai.Backend
	textModel  string
	imageModel string
}

type googleSettings struct {
	config     genai.ClientConfig
	textModel  string
	imageModel string
}

// GoogleOption configures a GoogleProvider.
type GoogleOption func(*googleSettings)

// WithGoogleBaseURL sets the API base URL (for testing).
func WithGoogleBaseURL(url string) GoogleOption {
	return func(s *googleSettings) {
		s.config.HTTPOptions.BaseURL = url
	}
}

// WithGoogleHTTPClient sets a custom HTTP client.
func WithGoogleHTTPClient(client *http.Client) GoogleOption {
	return func(s *googleSettings) {
		s.config.HTTPClient = client
	}
}

// WithVertex switches the provider to the Vertex AI backend. Credentials come
// from Application Default Credentials.
func WithVertex(project, location string) GoogleOption {
	return func(s *googleSettings) {
		s.config.Backend = genai.BackendVertexAI
		s.config.Project = project
		s.config.Location = location
		s.config.APIKey = ""
	}
}

// WithGoogleModels overrides the default text and image models. Empty values
// keep the defaults.
func WithGoogleModels(textModel, imageModel string) GoogleOption {
	return func(s *googleSettings) {
		if textModel != "" {
			s.textModel = textModel
		}
		if imageModel != "" {
			s.imageModel = imageModel
		}
	}
}

// NewGoogleProvider creates a provider for the Gemini API using apiKey.
func NewGoogleProvider(ctx context.Context, apiKey string, opts ...GoogleOption) (*GoogleProvider, error) {
	s := &googleSettings{
		config: genai.ClientConfig{
			APIKey:  apiKey,
			Backend: genai.BackendGeminiAPI,
		},
		textModel:  defaultTextModel,
		imageModel: defaultImageModel,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.config.Backend == genai.BackendGeminiAPI && s.config.APIKey == "" {
		return nil, fmt.Errorf("google api key is required (INKWELL_AI_GOOGLE_API_KEY)")
	}
	if s.config.Backend == genai.BackendVertexAI && s.config.Project == "" {
		return nil, fmt.Errorf("vertex project is required (INKWELL_AI_VERTEX_PROJECT)")
	}

	client, err := genai.NewClient(ctx, &s.config)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GoogleProvider{
		client:     client,
		backend:    s.config.Backend,
		textModel:  s.textModel,
		imageModel: s.imageModel,
	}, nil
}

func (p *GoogleProvider) GenerateJSON(ctx context.Context, req JSONRequest) (JSONResponse, error) {
	model := req.Model
	if model == "" {
		model = p.textModel
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}
	if req.Schema != nil {
		config.ResponseSchema = toGenaiSchema(req.Schema)
	}

	resp, err := p.client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), config)
	if err != nil {
		return JSONResponse{}, fmt.Errorf("generate content: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return JSONResponse{}, ErrEmptyResponse
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			text.WriteString(part.Text)
		}
	}
	if text.Len() == 0 {
		return JSONResponse{}, ErrEmptyResponse
	}

	return JSONResponse{
		Text:  text.String(),
		Model: model,
	}, nil
}

func (p *GoogleProvider) GenerateImages(ctx context.Context, req ImageRequest) ([]Image, error) {
	model := req.Model
	if model == "" {
		model = p.imageModel
	}

	config := &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		OutputMIMEType: req.MIMEType,
		AspectRatio:    req.AspectRatio,
	}
	if req.Count > 1 {
		config.NumberOfImages = int32(req.Count)
	}

	resp, err := p.client.Models.GenerateImages(ctx, model, req.Prompt, config)
	if err != nil {
		if IsBillingError(err) {
			return nil, fmt.Errorf("%w: %v", ErrBillingRequired, err)
		}
		return nil, fmt.Errorf("generate images: %w", err)
	}

	var images []Image
	if resp != nil {
		for _, gen := range resp.GeneratedImages {
			if gen == nil || gen.Image == nil || len(gen.Image.ImageBytes) == 0 {
				continue
			}
			mime := gen.Image.MIMEType
			if mime == "" {
				mime = req.MIMEType
			}
			images = append(images, Image{Data: gen.Image.ImageBytes, MIMEType: mime})
		}
	}
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	return images, nil
}

func (p *GoogleProvider) Models() []ModelInfo {
	return []ModelInfo{
		{ID: p.textModel, Name: "Lesson planner", Task: TaskPlan, Description: "Structured subject lists"},
		{ID: p.imageModel, Name: "Illustrator", Task: TaskIllustrate, Description: "Ink drawing images"},
	}
}

// HealthCheck fetches the text model's metadata.
func (p *GoogleProvider) HealthCheck(ctx context.Context) error {
	if _, err := p.client.Models.Get(ctx, p.textModel, nil); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	return nil
}

// Backend returns "gemini" or "vertex".
func (p *GoogleProvider) Backend() string {
	if p.backend == genai.BackendVertexAI {
		return "vertex"
	}
	return "gemini"
}

func toGenaiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{Description: s.Description}
	switch s.Type {
	case SchemaArray:
		out.Type = genai.TypeArray
	case SchemaString:
		out.Type = genai.TypeString
	}
	out.Items = toGenaiSchema(s.Items)
	return out
}
