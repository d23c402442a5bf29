// Package config loads application configuration from environment variables.
// All variables use the INKWELL_ prefix.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds all application configuration.
type Config struct {
	Server         ServerConfig
	Database       DatabaseConfig
	Cache          CacheConfig
	AI             AIConfig
	Generation     GenerationConfig
	Export         ExportConfig
	Session        SessionConfig
	Log            LogConfig
	CurriculumPath string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int    `validate:"gt=0,lt=65536"`
	Host string `validate:"required"`
}

// DatabaseConfig holds PostgreSQL connection settings. An empty URL disables
// event recording.
type DatabaseConfig struct {
	URL      string `validate:"omitempty,url"`
	MaxConns int    `validate:"gte=1"`
	MinConns int    `validate:"gte=0,ltefield=MaxConns"`
}

// CacheConfig holds Redis connection settings. An empty URL keeps session
// notifications in process.
type CacheConfig struct {
	URL string `validate:"omitempty,url"`
}

// AIConfig holds generative AI settings.
type AIConfig struct {
	Google     GoogleConfig
	Vertex     VertexConfig
	TextModel  string `validate:"required"`
	ImageModel string `validate:"required"`
}

// GoogleConfig holds Gemini API settings.
type GoogleConfig struct {
	APIKey string
}

// VertexConfig holds Vertex AI settings. Credentials come from the
// environment's application default credentials.
type VertexConfig struct {
	Enabled  bool
	Project  string `validate:"required_if=Enabled true"`
	Location string `validate:"required_if=Enabled true"`
}

// GenerationConfig holds lesson generation settings.
type GenerationConfig struct {
	LessonCount     int           `validate:"gte=1,lte=20"`
	CourseExercises int           `validate:"gte=1,lte=10"`
	ImageDelay      time.Duration `validate:"gte=0"`
}

// ExportConfig holds page rasterization settings.
type ExportConfig struct {
	Scale float64 `validate:"gt=0,lte=4"`
}

// SessionConfig holds session registry settings.
type SessionConfig struct {
	TTL time.Duration `validate:"gte=1000000000"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `validate:"oneof=debug info warn error"`
	Format string `validate:"oneof=json text"`
}

var validate = validator.New()

// Load reads configuration from environment variables with INKWELL_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("INKWELL_SERVER_PORT", 8080),
			Host: envStr("INKWELL_SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			URL:      envStr("INKWELL_DATABASE_URL", ""),
			MaxConns: envInt("INKWELL_DATABASE_MAX_CONNS", 10),
			MinConns: envInt("INKWELL_DATABASE_MIN_CONNS", 1),
		},
		Cache: CacheConfig{
			URL: envStr("INKWELL_CACHE_URL", ""),
		},
		AI: AIConfig{
			Google: GoogleConfig{
				APIKey: envStr("INKWELL_AI_GOOGLE_API_KEY", ""),
			},
			Vertex: VertexConfig{
				Enabled:  envBool("INKWELL_AI_VERTEX_ENABLED", false),
				Project:  envStr("INKWELL_AI_VERTEX_PROJECT", ""),
				Location: envStr("INKWELL_AI_VERTEX_LOCATION", "us-central1"),
			},
			TextModel:  envStr("INKWELL_AI_TEXT_MODEL", "gemini-2.5-pro"),
			ImageModel: envStr("INKWELL_AI_IMAGE_MODEL", "imagen-4.0-generate-001"),
		},
		Generation: GenerationConfig{
			LessonCount:     envInt("INKWELL_GENERATION_LESSON_COUNT", 5),
			CourseExercises: envInt("INKWELL_GENERATION_COURSE_EXERCISES", 2),
			ImageDelay:      envDuration("INKWELL_GENERATION_IMAGE_DELAY", 1500*time.Millisecond),
		},
		Export: ExportConfig{
			Scale: envFloat("INKWELL_EXPORT_SCALE", 2),
		},
		Session: SessionConfig{
			TTL: envDuration("INKWELL_SESSION_TTL", time.Hour),
		},
		Log: LogConfig{
			Level:  strings.ToLower(envStr("INKWELL_LOG_LEVEL", "info")),
			Format: strings.ToLower(envStr("INKWELL_LOG_FORMAT", "json")),
		},
		CurriculumPath: envStr("INKWELL_CURRICULUM_PATH", ""),
	}

	return cfg, nil
}

// Validate checks field constraints and that an AI provider is configured.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if !c.HasAIProvider() {
		return fmt.Errorf("INKWELL_AI_GOOGLE_API_KEY or INKWELL_AI_VERTEX_ENABLED is required")
	}
	return nil
}

// HasAIProvider returns true if at least one AI provider is configured.
func (c *Config) HasAIProvider() bool {
	return c.AI.Google.APIKey != "" || c.AI.Vertex.Enabled
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
