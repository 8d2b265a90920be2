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

// Rewriter переписывает твиты через OpenAI Chat Completions.
type Rewriter struct {
	client  chatClient
	model   string
	timeout time.Duration
}

// NewRewriter создаёт провайдер переписывания твитов.
func NewRewriter(client chatClient, model string, timeout time.Duration) *Rewriter {
	if model == "" {
		model = defaultModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Rewriter{client: client, model: model, timeout: timeout}
}

// Rewrite просит модель сделать твит живее, сохранив факты. Модель вправе
// вернуть исходный текст без изменений, но обязана объяснить решение —
// пустой reasoning считается малформированным ответом.
func (r *Rewriter) Rewrite(ctx context.Context, originalTweet, topic string, tone domain.Tone) (domain.Rewrite, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	userPrompt := fmt.Sprintf(`You are an AI assistant specializing in improving tweets to make them more human and engaging. The topic is %s. The original tweet is: %s

Your goal is to rewrite the tweet to make it more appealing while keeping the information accurate and concise.

Consider the following aspects:
- Engaging Language: Use more relatable and interesting language.
- Human Tone: Avoid sounding robotic or automated.
- Conciseness: Keep the tweet within the character limit (280 characters).
- Topic Hashtag: Include a relevant hashtag based on the topic.

If the tweet is already well-written and engaging, you may choose to leave it as is. In this case, explain why the original tweet is good and doesn't need changes.

Output the rewritten tweet and your reasoning in the following format:
{
  "rewrittenTweet": "The rewritten tweet or the original tweet if no changes were made",
  "reasoning": "Explanation of why the tweet was rewritten or why it was left unchanged"
}

Respond with ONLY valid JSON. Do not include any other text.`, topic, originalTweet)

	if tone != "" {
		userPrompt += fmt.Sprintf("\n\nDesired tone of the rewritten tweet: %s.", tone)
	}

	req := openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: 0.4,
		MaxTokens:   400,
		Messages: []openai.ChatMessage{
			{
				Role:    openai.RoleUser,
				Content: userPrompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ResponseFormatTypeJSONObject},
	}

	resp, err := r.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return domain.Rewrite{}, fmt.Errorf("openai completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.Rewrite{}, fmt.Errorf("openai completion: пустой ответ")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	var parsed domain.Rewrite
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		return domain.Rewrite{}, fmt.Errorf("распаковка ответа LLM: %w", err)
	}
	parsed.RewrittenTweet = strings.TrimSpace(parsed.RewrittenTweet)
	parsed.Reasoning = strings.TrimSpace(parsed.Reasoning)
	if parsed.RewrittenTweet == "" {
		return domain.Rewrite{}, fmt.Errorf("ответ LLM без текста твита")
	}
	if parsed.Reasoning == "" {
		return domain.Rewrite{}, fmt.Errorf("ответ LLM без обоснования")
	}
	return parsed, nil
}
