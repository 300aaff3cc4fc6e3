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
	googleBaseURL        = "https://generativelanguage.googleapis.com/v1beta"
	googleDefaultModel   = "gemini-2.0-flash"
	googleEmbeddingModel = "text-embedding-004"
)

type googlePart struct {
	Text string `json:"text"`
}

type googleContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []googlePart `json:"parts"`
}

type googleGenerationConfig struct {
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
	Temperature     float32 `json:"temperature,omitempty"`
}

type googleGenerateRequest struct {
	Contents          []googleContent         `json:"contents"`
	SystemInstruction *googleContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *googleGenerationConfig `json:"generationConfig,omitempty"`
}

type googleCandidate struct {
	Content      googleContent `json:"content"`
	FinishReason string        `json:"finishReason"`
}

type googleUsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

type googleGenerateResponse struct {
	Candidates    []googleCandidate   `json:"candidates"`
	UsageMetadata googleUsageMetadata `json:"usageMetadata"`
	ModelVersion  string              `json:"modelVersion"`
}

type googleEmbedRequest struct {
	Content googleContent `json:"content"`
}

type googleEmbedResponse struct {
	Embedding struct {
		Values []float64 `json:"values"`
	} `json:"embedding"`
}

// GoogleAdapter talks to the Gemini Generative Language API over REST.
type GoogleAdapter struct {
	client  *resty.Client
	apiKey  string
	baseURL string
}

var _ aigateway.Adapter = (*GoogleAdapter)(nil)

func NewGoogleAdapter(apiKey string, timeout time.Duration) *GoogleAdapter {
	return newGoogleAdapter(apiKey, googleBaseURL, timeout)
}

// newGoogleAdapter allows a base URL override for tests.
func newGoogleAdapter(apiKey, baseURL string, timeout time.Duration) *GoogleAdapter {
	return &GoogleAdapter{
		client:  httpclients.NewClient("GoogleClient", timeout),
		apiKey:  apiKey,
		baseURL: baseURL,
	}
}

func (a *GoogleAdapter) Name() aigateway.ProviderName {
	return aigateway.ProviderGoogle
}

func (a *GoogleAdapter) GenerateText(ctx context.Context, prompt string, opts aigateway.GenerateOptions) (*aigateway.AIResponse, error) {
	model := opts.Model
	if model == "" {
		model = googleDefaultModel
	}

	request := googleGenerateRequest{
		Contents: []googleContent{
			{Role: "user", Parts: []googlePart{{Text: prompt}}},
		},
		GenerationConfig: &googleGenerationConfig{
			MaxOutputTokens: opts.EffectiveMaxTokens(),
			Temperature:     opts.EffectiveTemperature(),
		},
	}
	if opts.SystemPrompt != "" {
		request.SystemInstruction = &googleContent{Parts: []googlePart{{Text: opts.SystemPrompt}}}
	}

	var respBody googleGenerateResponse
	start := time.Now()
	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", a.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(request).
		SetResult(&respBody).
		Post(fmt.Sprintf("%s/models/%s:generateContent", a.baseURL, model))
	elapsed := time.Since(start)
	if err != nil {
		return nil, aigateway.NewGenerationError(aigateway.ProviderGoogle, prompt, opts, err)
	}
	if resp.IsError() {
		return nil, aigateway.NewGenerationError(aigateway.ProviderGoogle, prompt, opts,
			fmt.Errorf("google API status %d: %s", resp.StatusCode(), resp.String()))
	}

	var content string
	finishReason := ""
	if len(respBody.Candidates) > 0 {
		finishReason = respBody.Candidates[0].FinishReason
		for _, part := range respBody.Candidates[0].Content.Parts {
			content += part.Text
		}
	}

	modelUsed := respBody.ModelVersion
	if modelUsed == "" {
		modelUsed = model
	}

	return &aigateway.AIResponse{
		Content:          &content,
		Provider:         aigateway.ProviderGoogle,
		ModelUsed:        modelUsed,
		TokensUsed:       respBody.UsageMetadata.TotalTokenCount,
		GenerationTimeMS: elapsed.Milliseconds(),
		Metadata: map[string]any{
			aigateway.MetaFinishReason:     finishReason,
			aigateway.MetaPromptTokens:     respBody.UsageMetadata.PromptTokenCount,
			aigateway.MetaCompletionTokens: respBody.UsageMetadata.CandidatesTokenCount,
		},
	}, nil
}

func (a *GoogleAdapter) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	request := googleEmbedRequest{
		Content: googleContent{Parts: []googlePart{{Text: text}}},
	}

	var respBody googleEmbedResponse
	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("x-goog-api-key", a.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(request).
		SetResult(&respBody).
		Post(fmt.Sprintf("%s/models/%s:embedContent", a.baseURL, googleEmbeddingModel))
	if err != nil {
		return nil, aigateway.NewGenerationError(aigateway.ProviderGoogle, text, aigateway.GenerateOptions{}, err)
	}
	if resp.IsError() {
		return nil, aigateway.NewGenerationError(aigateway.ProviderGoogle, text, aigateway.GenerateOptions{},
			fmt.Errorf("google API status %d: %s", resp.StatusCode(), resp.String()))
	}
	if len(respBody.Embedding.Values) == 0 {
		return nil, aigateway.NewGenerationError(aigateway.ProviderGoogle, text, aigateway.GenerateOptions{}, errEmptyEmbedding)
	}

	return respBody.Embedding.Values, nil
}

func (a *GoogleAdapter) IsHealthy(ctx context.Context) bool {
	_, err := a.GenerateText(ctx, healthProbePrompt, healthProbeOptions())
	return err == nil
}
