package aigateway

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestIsKindMatchesWrappedErrors(t *testing.T) {
	inner := NewUnhealthyError(ProviderAnthropic)
	wrapped := fmt.Errorf("resolving provider: %w", inner)

	if !IsKind(wrapped, KindProviderUnhealthy) {
		t.Fatal("expected wrapped error to match its kind")
	}
	if IsKind(wrapped, KindGenerationFailed) {
		t.Fatal("kind must not match a different kind")
	}
	if IsKind(errors.New("plain"), KindProviderUnhealthy) {
		t.Fatal("plain errors must not match any kind")
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(NewConfigurationError(ProviderOpenAI, "broken")); got != KindConfigurationInvalid {
		t.Fatalf("unexpected kind %q", got)
	}
	if got := KindOf(errors.New("plain")); got != "" {
		t.Fatalf("expected empty kind for plain error, got %q", got)
	}
}

func TestGenerationErrorCarriesReplayContext(t *testing.T) {
	opts := GenerateOptions{Model: "gpt-4o", MaxTokens: 100}
	err := NewGenerationError(ProviderOpenAI, "summarize X", opts, errors.New("429 too many requests"))

	if err.Context["prompt"] != "summarize X" {
		t.Fatalf("expected prompt in context, got %v", err.Context["prompt"])
	}
	if _, ok := err.Context["options"]; !ok {
		t.Fatal("expected options in context")
	}
	if !strings.Contains(err.Error(), "openai") {
		t.Fatalf("error text should name the provider: %s", err.Error())
	}
}

func TestCapabilityErrorMessage(t *testing.T) {
	err := NewCapabilityError(ProviderDefault, "embeddings", "connect an OpenAI or Google provider")
	if !strings.Contains(err.Error(), "embeddings is not supported") {
		t.Fatalf("unexpected message: %s", err.Error())
	}
	if err.Context["hint"] != "connect an OpenAI or Google provider" {
		t.Fatalf("expected hint in context, got %v", err.Context["hint"])
	}
}
