// Package ai provides a provider-agnostic gateway to generative text and
// image models.
package ai

import (
	"context"
	"errors"
	"strings"
)

// TaskType defines the kind of AI task for routing and logging.
type TaskType int

const (
	TaskPlan TaskType = iota
	TaskIllustrate
)

// MarshalText encodes the task by name.
func (t TaskType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t TaskType) String() string {
	switch t {
	case TaskPlan:
		return "plan"
	case TaskIllustrate:
		return "illustrate"
	default:
		return "unknown"
	}
}

// SchemaType is the JSON type of a response schema node.
type SchemaType string

const (
	SchemaString SchemaType = "string"
	SchemaArray  SchemaType = "array"
)

// Schema constrains the shape of a structured text response.
type Schema struct {
	Type        SchemaType `json:"type"`
	Description string     `json:"description,omitempty"`
	Items       *Schema    `json:"items,omitempty"`
}

// StringListSchema returns a schema for an array of strings whose items carry
// the given description.
func StringListSchema(itemDescription string) *Schema {
	return &Schema{
		Type:  SchemaArray,
		Items: &Schema{Type: SchemaString, Description: itemDescription},
	}
}

// JSONRequest asks a text model for a JSON document.
type JSONRequest struct {
	Model  string  `json:"model,omitempty"`
	Prompt string  `json:"prompt"`
	Schema *Schema `json:"schema,omitempty"`
}

// JSONResponse carries the raw JSON text returned by the model. Callers must
// validate it; providers only guarantee it is the model's text output.
type JSONResponse struct {
	Text  string `json:"text"`
	Model string `json:"model"`
}

// ImageRequest asks an image model for pictures.
type ImageRequest struct {
	Model       string `json:"model,omitempty"`
	Prompt      string `json:"prompt"`
	Count       int    `json:"count"`
	MIMEType    string `json:"mime_type"`
	AspectRatio string `json:"aspect_ratio"`
}

// Image is one generated raster image.
type Image struct {
	Data     []byte `json:"-"`
	MIMEType string `json:"mime_type"`
}

// ModelInfo describes an available model.
type ModelInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Task        TaskType `json:"task"`
	Description string   `json:"description"`
}

// Provider is the interface all AI providers must implement.
type Provider interface {
	GenerateJSON(ctx context.Context, req JSONRequest) (JSONResponse, error)
	GenerateImages(ctx context.Context, req ImageRequest) ([]Image, error)
	Models() []ModelInfo
	HealthCheck(ctx context.Context) error
}

var (
	// ErrNoImages is returned when the image model answered without any image.
	ErrNoImages = errors.New("image generation returned no images")
	// ErrBillingRequired is returned when the image API is restricted to billed accounts.
	ErrBillingRequired = errors.New("image generation requires a billed account")
	// ErrEmptyResponse is returned when the text model produced no text.
	ErrEmptyResponse = errors.New("no content in response")
)

// IsBillingError reports whether err describes the "billed users only"
// restriction of the image API.
func IsBillingError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrBillingRequired) {
		return true
	}
	return strings.Contains(err.Error(), "billed users")
}
