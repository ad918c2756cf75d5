package clients

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	OPENROUTER_DEFAULT_MODEL = "openai/gpt-3.5-turbo"
	openRouterRequestTimeout = 60 * time.Second // Timeout for individual OpenRouter requests
	openRouterTemperature    = 0.3
	openRouterMaxTokens      = 1000
	openRouterRetryAttempts  = 3
)

// OpenRouterClient talks to OpenRouter through its OpenAI compatible chat API.
type OpenRouterClient struct {
	Client *openai.Client
	Model  string
}

func NewOpenRouterClient(apiKey, baseURL, model string) *OpenRouterClient {
	if model == "" {
		model = OPENROUTER_DEFAULT_MODEL
	}
	httpClient := &http.Client{
		Timeout: openRouterRequestTimeout,
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		// relative endpoint paths resolve against the last path segment without it
		option.WithBaseURL(strings.TrimSuffix(baseURL, "/")+"/"),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(openRouterRetryAttempts),
		option.WithHeader("X-Title", "threadscribe"),
	)
	slog.Info("[OpenRouterClient] Client initialized",
		slog.String("model", model),
		slog.Duration("timeout", openRouterRequestTimeout))

	return &OpenRouterClient{
		Client: client,
		Model:  model,
	}
}

func (c *OpenRouterClient) Generate(ctx context.Context, system, prompt string) (string, error) {
	start := time.Now()
	completion, err := c.Client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(prompt),
		}),
		Model:       openai.F(openai.ChatModel(c.Model)),
		Temperature: openai.Float(openRouterTemperature),
		MaxTokens:   openai.Int(openRouterMaxTokens),
	})
	if err != nil {
		slog.Error("[OpenRouterClient] Chat completion failed",
			slog.String("error", err.Error()),
			slog.Duration("elapsed", time.Since(start)))
		return "", err
	}

	if len(completion.Choices) == 0 {
		return "", errors.New("[OpenRouterClient] response contained no choices")
	}

	slog.Info("[OpenRouterClient] Chat completion finished",
		slog.String("finish_reason", string(completion.Choices[0].FinishReason)),
		slog.Duration("elapsed", time.Since(start)))
	return completion.Choices[0].Message.Content, nil
}
