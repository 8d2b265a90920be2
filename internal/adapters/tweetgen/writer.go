package tweetgen

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"tweet-weaver/internal/domain"
	openai "tweet-weaver/internal/infra/openai"
)

type chatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

const defaultModel = "gpt-4.1-mini"

// Writer генерирует твиты через OpenAI Chat Completions.
type Writer struct {
	client  chatClient
	model   string
	timeout time.Duration
}

// NewWriter создаёт провайдер генерации твитов.
func NewWriter(client chatClient, model string, timeout time.Duration) *Writer {
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Writer{client: client, model: model, timeout: timeout}
}

type tweetPayload struct {
	Tweet string `json:"tweet"`
}

// Write строит твит по статье: краткое резюме, хэштег по теме и ссылка
// на источник. Лимит длины передаётся модели, но не гарантируется ею.
func (w *Writer) Write(ctx context.Context, article domain.Article, maxLength int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	userPrompt := fmt.Sprintf(`Summarize the following news article into a tweet (up to %d characters). Include a short summary, a hashtag based on the topic, and a link to the original source.
Return JSON of the form {"tweet": "..."} without any other text.

Title: %s
Description: %s
URL: %s
Topic: %s`, maxLength, article.Title, article.Description, article.URL, article.Topic)

	req := openai.ChatCompletionRequest{
		Model:       w.model,
		Temperature: 0.2,
		MaxTokens:   300,
		Messages: []openai.ChatMessage{
			{
				Role:    openai.RoleSystem,
				Content: "You are a social media editor. Keep the facts from the article and do not invent anything new.",
			},
			{
				Role:    openai.RoleUser,
				Content: userPrompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ResponseFormatTypeJSONObject},
	}

	resp, err := w.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai completion: пустой ответ")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	var parsed tweetPayload
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return "", fmt.Errorf("распаковка ответа LLM: %w", err)
	}
	tweet := strings.TrimSpace(parsed.Tweet)
	if tweet == "" {
		return "", fmt.Errorf("ответ LLM без текста твита")
	}
	return tweet, nil
}
