package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"wspace-be/pkg/llm"

	"github.com/go-resty/resty/v2"
	"github.com/samber/lo"
)

type OllamaProvider struct {
	ModelName string
	client    *resty.Client
}

var _ llm.LLMProvider = (*OllamaProvider)(nil)

func NewOllamaProvider(baseURL, modelName string) *OllamaProvider {
	return &OllamaProvider{
		ModelName: modelName,
		client: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetTimeout(120 * time.Second),
	}
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   any             `json:"format,omitempty"`
	Options  *ollamaOptions  `json:"options,omitempty"`
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Message ollamaMessage `json:"message"`
	Done    bool          `json:"done"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// Chat sends a non-streaming /api/chat request. A JSON schema, when set,
// goes into "format" so the model is constrained server-side.
func (o *OllamaProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.Apply(opts...)

	req := ollamaChatRequest{
		Model: lo.Ternary(options.Model != "", options.Model, o.ModelName),
		Messages: lo.Map(history, func(m llm.Message, _ int) ollamaMessage {
			return ollamaMessage{Role: lo.Ternary(m.Role == "model", "assistant", m.Role), Content: m.Content}
		}),
		Options: &ollamaOptions{
			Temperature: options.Temperature,
			NumPredict:  options.MaxTokens,
		},
	}
	if options.Schema != nil {
		req.Format = options.Schema.Schema
	}

	var out ollamaChatResponse
	res, err := o.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		ForceContentType("application/json").
		Post("/api/chat")
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	if res.IsError() {
		var failure ollamaError
		detail := strings.TrimSpace(res.String())
		if json.Unmarshal(res.Body(), &failure) == nil && failure.Error != "" {
			detail = failure.Error
		}
		return "", fmt.Errorf("ollama error: status %d: %s", res.StatusCode(), detail)
	}
	if out.Message.Content == "" && !out.Done {
		return "", fmt.Errorf("ollama returned an incomplete response: %s", strings.TrimSpace(res.String()))
	}
	return out.Message.Content, nil
}

func (o *OllamaProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return o.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}
