package tweetgen

import (
	"context"
	"strings"
	"testing"

	"tweet-weaver/internal/domain"
)

func TestRewriterParsesRewrite(t *testing.T) {
	client := &fakeChatClient{resp: chatReply(`{"rewrittenTweet": "Stocks just jumped 3%! #finance", "reasoning": "made it livelier"}`)}
	rewriter := NewRewriter(client, "test-model", 0)

	got, err := rewriter.Rewrite(context.Background(), "Breaking: stocks up 3%", "finance", domain.ToneCasual)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if got.RewrittenTweet != "Stocks just jumped 3%! #finance" {
		t.Fatalf("неожиданный текст: %q", got.RewrittenTweet)
	}
	if got.Reasoning != "made it livelier" {
		t.Fatalf("неожиданное обоснование: %q", got.Reasoning)
	}
}

func TestRewriterPromptCarriesToneAndTweet(t *testing.T) {
	client := &fakeChatClient{resp: chatReply(`{"rewrittenTweet": "x", "reasoning": "y"}`)}
	rewriter := NewRewriter(client, "", 0)

	if _, err := rewriter.Rewrite(context.Background(), "original text", "AI", domain.ToneBreaking); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	prompt := client.gotReq.Messages[0].Content
	for _, want := range []string{"original text", "The topic is AI", "280 characters", "Desired tone of the rewritten tweet: Breaking"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("в инструкции нет %q:\n%s", want, prompt)
		}
	}
}

func TestRewriterOmitsToneDirectiveWhenEmpty(t *testing.T) {
	client := &fakeChatClient{resp: chatReply(`{"rewrittenTweet": "x", "reasoning": "y"}`)}
	rewriter := NewRewriter(client, "", 0)

	if _, err := rewriter.Rewrite(context.Background(), "original", "AI", ""); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if strings.Contains(client.gotReq.Messages[0].Content, "Desired tone") {
		t.Fatalf("без тона директива добавляться не должна")
	}
}

func TestRewriterAcceptsUnchangedTweet(t *testing.T) {
	client := &fakeChatClient{resp: chatReply(`{"rewrittenTweet": "same text", "reasoning": "original already engaging"}`)}
	rewriter := NewRewriter(client, "", 0)

	got, err := rewriter.Rewrite(context.Background(), "same text", "AI", domain.ToneNeutral)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if got.Reasoning == "" {
		t.Fatalf("при отказе от правок обоснование обязательно")
	}
}

func TestRewriterRejectsEmptyReasoning(t *testing.T) {
	client := &fakeChatClient{resp: chatReply(`{"rewrittenTweet": "better text", "reasoning": ""}`)}
	rewriter := NewRewriter(client, "", 0)

	if _, err := rewriter.Rewrite(context.Background(), "original", "AI", ""); err == nil {
		t.Fatalf("пустое обоснование — малформированный ответ")
	}
}

func TestRewriterRejectsEmptyTweet(t *testing.T) {
	client := &fakeChatClient{resp: chatReply(`{"rewrittenTweet": "", "reasoning": "because"}`)}
	rewriter := NewRewriter(client, "", 0)

	if _, err := rewriter.Rewrite(context.Background(), "original", "AI", ""); err == nil {
		t.Fatalf("пустой текст — малформированный ответ")
	}
}
