package inference

import (
	"context"
	"fmt"
	"time"

	"resty.dev/v3"

	"venturedesk/ai-api/internal/domain/aigateway"
	"venturedesk/ai-api/internal/utils/httpclients"
)

const (
	anthropicBaseURL      = "https://api.anthropic.com"
	anthropicVersion      = "2023-06-01"
	anthropicDefaultModel = "claude-sonnet-4-5"
)

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicMessagesRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Temperature *float32           `json:"temperature,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type anthropicMessagesResponse struct {
	ID         string                  `json:"id"`
	Model      string                  `json:"model"`
	StopReason string                  `json:"stop_reason"`
	Content    []anthropicContentBlock `json:"content"`
	Usage      anthropicUsage          `json:"usage"`
}

// AnthropicAdapter talks to the Anthropic Messages API over REST. Anthropic
// offers no embedding endpoint, so GenerateEmbedding is a capability error.
type AnthropicAdapter struct {
	client  *resty.Client
	apiKey  string
	baseURL string
}

var _ aigateway.Adapter = (*AnthropicAdapter)(nil)

func NewAnthropicAdapter(apiKey string, timeout time.Duration) *AnthropicAdapter {
	return newAnthropicAdapter(apiKey, anthropicBaseURL, timeout)
}

// newAnthropicAdapter allows a base URL override for tests.
func newAnthropicAdapter(apiKey, baseURL string, timeout time.Duration) *AnthropicAdapter {
	return &AnthropicAdapter{
		client:  httpclients.NewClient("AnthropicClient", timeout),
		apiKey:  apiKey,
		baseURL: baseURL,
	}
}

func (a *AnthropicAdapter) Name() aigateway.ProviderName {
	return aigateway.ProviderAnthropic
}

func (a *AnthropicAdapter) GenerateText(ctx context.Context, prompt string, opts aigateway.GenerateOptions) (*aigateway.AIResponse, error) {
	model := opts.Model
	if model == "" {
		model = anthropicDefaultModel
	}

	temperature := opts.EffectiveTemperature()
	request := anthropicMessagesRequest{
		Model:       model,
		MaxTokens:   opts.EffectiveMaxTokens(),
		System:      opts.SystemPrompt,
		Temperature: &temperature,
		Messages:    []anthropicMessage{{Role: "user", Content: prompt}},
	}

	var respBody anthropicMessagesResponse
	start := time.Now()
	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("x-api-key", a.apiKey).
		SetHeader("anthropic-version", anthropicVersion).
		SetHeader("Content-Type", "application/json").
		SetBody(request).
		SetResult(&respBody).
		Post(a.baseURL + "/v1/messages")
	elapsed := time.Since(start)
	if err != nil {
		return nil, aigateway.NewGenerationError(aigateway.ProviderAnthropic, prompt, opts, err)
	}
	if resp.IsError() {
		return nil, aigateway.NewGenerationError(aigateway.ProviderAnthropic, prompt, opts,
			fmt.Errorf("anthropic API status %d: %s", resp.StatusCode(), resp.String()))
	}

	var content string
	for _, block := range respBody.Content {
		if block.Type == "text" {
			content += block.Text
		}
	}

	return &aigateway.AIResponse{
		Content:          &content,
		Provider:         aigateway.ProviderAnthropic,
		ModelUsed:        respBody.Model,
		TokensUsed:       respBody.Usage.InputTokens + respBody.Usage.OutputTokens,
		GenerationTimeMS: elapsed.Milliseconds(),
		Metadata: map[string]any{
			aigateway.MetaFinishReason:     respBody.StopReason,
			aigateway.MetaPromptTokens:     respBody.Usage.InputTokens,
			aigateway.MetaCompletionTokens: respBody.Usage.OutputTokens,
		},
	}, nil
}

func (a *AnthropicAdapter) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	return nil, aigateway.NewCapabilityError(aigateway.ProviderAnthropic, "embeddings",
		"connect an OpenAI or Google provider for embedding support")
}

func (a *AnthropicAdapter) IsHealthy(ctx context.Context) bool {
	_, err := a.GenerateText(ctx, healthProbePrompt, healthProbeOptions())
	return err == nil
}
