package ai_test

import (
	"context"
	"errors"
	"testing"

	"github.com/p-n-ai/inkwell/internal/ai"
)

func TestRouter_SingleProvider(t *testing.T) {
	router := ai.NewRouter()
	mock := ai.NewMockProvider(`["a"]`)
	router.Register("gemini", mock)

	resp, err := router.GenerateJSON(context.Background(), ai.JSONRequest{Prompt: "plan"})
	if err != nil {
		t.Fatalf("GenerateJSON() error = %v", err)
	}
	if resp.Text != `["a"]` {
		t.Errorf("Text = %q, want %q", resp.Text, `["a"]`)
	}
}

func TestRouter_Fallback(t *testing.T) {
	router := ai.NewRouter()

	failing := &ai.MockProvider{JSONErr: errors.New("rate limited"), ImageErr: errors.New("rate limited")}
	fallback := ai.NewMockProvider(`["fallback"]`)

	router.Register("gemini", failing)
	router.Register("vertex", fallback)

	resp, err := router.GenerateJSON(context.Background(), ai.JSONRequest{Prompt: "plan"})
	if err != nil {
		t.Fatalf("GenerateJSON() error = %v", err)
	}
	if resp.Text != `["fallback"]` {
		t.Errorf("Text = %q, want fallback", resp.Text)
	}

	images, err := router.GenerateImages(context.Background(), ai.ImageRequest{Prompt: "cat"})
	if err != nil {
		t.Fatalf("GenerateImages() error = %v", err)
	}
	if len(images) != 1 {
		t.Errorf("GenerateImages() = %d images, want 1", len(images))
	}
	if len(failing.ImageRequests()) != 1 || len(fallback.ImageRequests()) != 1 {
		t.Error("each provider should be tried once in order")
	}
}

func TestRouter_AllProvidersFail(t *testing.T) {
	router := ai.NewRouter()

	router.Register("gemini", &ai.MockProvider{ImageErr: ai.ErrBillingRequired})
	router.Register("vertex", &ai.MockProvider{ImageErr: errors.New("fail 2")})

	_, err := router.GenerateImages(context.Background(), ai.ImageRequest{Prompt: "cat"})
	if err == nil {
		t.Fatal("GenerateImages() should return error when all providers fail")
	}
	if !ai.IsBillingError(err) {
		t.Errorf("error = %v, want the billing cause preserved", err)
	}
}

func TestRouter_NoProviders(t *testing.T) {
	router := ai.NewRouter()

	if _, err := router.GenerateJSON(context.Background(), ai.JSONRequest{Prompt: "plan"}); err == nil {
		t.Fatal("GenerateJSON() should return error with no providers")
	}
	if err := router.HealthCheck(context.Background()); err == nil {
		t.Fatal("HealthCheck() should return error with no providers")
	}
}

func TestRouter_HasProvider(t *testing.T) {
	router := ai.NewRouter()
	if router.HasProvider() {
		t.Error("HasProvider() should be false with no providers")
	}
	router.Register("gemini", ai.NewMockProvider(""))
	router.Register("gemini", ai.NewMockProvider(""))
	if !router.HasProvider() {
		t.Error("HasProvider() should be true after Register")
	}
	if got := len(router.Models()); got != 2 {
		t.Errorf("Models() = %d, want 2 (re-registering replaces)", got)
	}
}
