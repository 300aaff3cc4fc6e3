package inference

import (
	"context"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"venturedesk/ai-api/internal/domain/aigateway"
)

const (
	openAIDefaultModel   = "gpt-4o"
	openAIEmbeddingModel = openai.SmallEmbedding3
)

// OpenAIAdapter talks to the OpenAI API through the official-compatible SDK.
type OpenAIAdapter struct {
	client *openai.Client
}

var _ aigateway.Adapter = (*OpenAIAdapter)(nil)

func NewOpenAIAdapter(apiKey string, timeout time.Duration) *OpenAIAdapter {
	return newOpenAIAdapter(apiKey, "", timeout)
}

// newOpenAIAdapter allows a base URL override for tests.
func newOpenAIAdapter(apiKey, baseURL string, timeout time.Duration) *OpenAIAdapter {
	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	if timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: timeout}
	}
	return &OpenAIAdapter{client: openai.NewClientWithConfig(clientConfig)}
}

func (a *OpenAIAdapter) Name() aigateway.ProviderName {
	return aigateway.ProviderOpenAI
}

func (a *OpenAIAdapter) GenerateText(ctx context.Context, prompt string, opts aigateway.GenerateOptions) (*aigateway.AIResponse, error) {
	model := opts.Model
	if model == "" {
		model = openAIDefaultModel
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if opts.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: opts.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	request := openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   opts.EffectiveMaxTokens(),
		Temperature: opts.EffectiveTemperature(),
	}

	start := time.Now()
	resp, err := a.client.CreateChatCompletion(ctx, request)
	elapsed := time.Since(start)
	if err != nil {
		return nil, aigateway.NewGenerationError(aigateway.ProviderOpenAI, prompt, opts, err)
	}

	var content string
	finishReason := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
		finishReason = string(resp.Choices[0].FinishReason)
	}

	return &aigateway.AIResponse{
		Content:          &content,
		Provider:         aigateway.ProviderOpenAI,
		ModelUsed:        resp.Model,
		TokensUsed:       resp.Usage.TotalTokens,
		GenerationTimeMS: elapsed.Milliseconds(),
		Metadata: map[string]any{
			aigateway.MetaFinishReason:     finishReason,
			aigateway.MetaPromptTokens:     resp.Usage.PromptTokens,
			aigateway.MetaCompletionTokens: resp.Usage.CompletionTokens,
		},
	}, nil
}

func (a *OpenAIAdapter) GenerateEmbedding(ctx context.Context, text string) ([]float64, error) {
	resp, err := a.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openAIEmbeddingModel,
	})
	if err != nil {
		return nil, aigateway.NewGenerationError(aigateway.ProviderOpenAI, text, aigateway.GenerateOptions{}, err)
	}
	if len(resp.Data) == 0 {
		return nil, aigateway.NewGenerationError(aigateway.ProviderOpenAI, text, aigateway.GenerateOptions{}, errEmptyEmbedding)
	}

	vector := make([]float64, len(resp.Data[0].Embedding))
	for i, v := range resp.Data[0].Embedding {
		vector[i] = float64(v)
	}
	return vector, nil
}

func (a *OpenAIAdapter) IsHealthy(ctx context.Context) bool {
	_, err := a.GenerateText(ctx, healthProbePrompt, healthProbeOptions())
	return err == nil
}
