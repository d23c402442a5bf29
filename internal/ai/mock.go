package ai

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
)

// MockProvider is a test double for AI providers.
type MockProvider struct {
	JSON     string
	JSONErr  error
	ImageErr error
	// ImageFunc, when set, decides the result of each GenerateImages call.
	ImageFunc func(req ImageRequest) ([]Image, error)

	mu            sync.Mutex
	jsonRequests  []JSONRequest
	imageRequests []ImageRequest
}

// NewMockProvider creates a MockProvider whose text model returns json.
func NewMockProvider(json string) *MockProvider {
	return &MockProvider{JSON: json}
}

func (m *MockProvider) GenerateJSON(_ context.Context, req JSONRequest) (JSONResponse, error) {
	m.mu.Lock()
	m.jsonRequests = append(m.jsonRequests, req)
	m.mu.Unlock()

	if m.JSONErr != nil {
		return JSONResponse{}, m.JSONErr
	}
	return JSONResponse{Text: m.JSON, Model: "mock"}, nil
}

func (m *MockProvider) GenerateImages(_ context.Context, req ImageRequest) ([]Image, error) {
	m.mu.Lock()
	m.imageRequests = append(m.imageRequests, req)
	m.mu.Unlock()

	if m.ImageFunc != nil {
		return m.ImageFunc(req)
	}
	if m.ImageErr != nil {
		return nil, m.ImageErr
	}
	return []Image{{Data: MockPNG(3, 4), MIMEType: "image/png"}}, nil
}

func (m *MockProvider) Models() []ModelInfo {
	return []ModelInfo{
		{ID: "mock-text", Name: "Mock Text", Task: TaskPlan, Description: "Test mock"},
		{ID: "mock-image", Name: "Mock Image", Task: TaskIllustrate, Description: "Test mock"},
	}
}

func (m *MockProvider) HealthCheck(_ context.Context) error {
	return m.JSONErr
}

// JSONRequests returns the text requests received so far.
func (m *MockProvider) JSONRequests() []JSONRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]JSONRequest(nil), m.jsonRequests...)
}

// ImageRequests returns the image requests received so far.
func (m *MockProvider) ImageRequests() []ImageRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ImageRequest(nil), m.imageRequests...)
}

// MockPNG encodes a small solid grey PNG.
func MockPNG(w, h int) []byte {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: 0x80})
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}
