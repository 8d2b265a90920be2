package tweets

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"tweet-weaver/internal/domain"
)

type fakeWriter struct {
	text      string
	err       error
	gotLength int
}

func (f *fakeWriter) Write(_ context.Context, _ domain.Article, maxLength int) (string, error) {
	f.gotLength = maxLength
	return f.text, f.err
}

type fakeRewriter struct {
	rewrite     domain.Rewrite
	err         error
	gotOriginal string
	gotTone     domain.Tone
}

func (f *fakeRewriter) Rewrite(_ context.Context, originalTweet, _ string, tone domain.Tone) (domain.Rewrite, error) {
	f.gotOriginal = originalTweet
	f.gotTone = tone
	return f.rewrite, f.err
}

type stubStore struct {
	articles map[string]domain.Article
	tweets   []domain.Tweet
}

func newStubStore(articles ...domain.Article) *stubStore {
	s := &stubStore{articles: make(map[string]domain.Article)}
	for _, a := range articles {
		s.articles[a.ID] = a
	}
	return s
}

func (s *stubStore) ReplaceBatch(batch domain.NewsBatch) {
	s.articles = make(map[string]domain.Article)
	for _, a := range batch.Articles {
		s.articles[a.ID] = a
	}
}

func (s *stubStore) GetArticle(id string) (domain.Article, bool) {
	a, ok := s.articles[id]
	return a, ok
}

func (s *stubStore) Add(tweet domain.Tweet) {
	s.tweets = append([]domain.Tweet{tweet}, s.tweets...)
}

func (s *stubStore) Get(id string) (domain.Tweet, bool) {
	for _, tw := range s.tweets {
		if tw.ID == id {
			return tw, true
		}
	}
	return domain.Tweet{}, false
}

func (s *stubStore) SetRevision(id string, rewrite domain.Rewrite) (domain.Tweet, error) {
	for idx := range s.tweets {
		if s.tweets[idx].ID == id {
			s.tweets[idx].RewrittenTweet = rewrite.RewrittenTweet
			s.tweets[idx].Reasoning = rewrite.Reasoning
			return s.tweets[idx], nil
		}
	}
	return domain.Tweet{}, domain.ErrTweetNotFound
}

func (s *stubStore) List() []domain.Tweet { return append([]domain.Tweet(nil), s.tweets...) }
func (s *stubStore) Clear()               { s.tweets = nil }

var testArticle = domain.Article{
	ID:          "AI-0-1",
	Title:       "New model released",
	Description: "details",
	URL:         "https://example.com/news",
	Topic:       "AI",
}

func TestSynthesizeTruncatesModelOutput(t *testing.T) {
	long := strings.Repeat("x", 120)
	writer := &fakeWriter{text: long}
	st := newStubStore(testArticle)
	service := NewService(writer, nil, st, st, zerolog.Nop(), 280)

	tweet, err := service.Synthesize(context.Background(), "AI-0-1", 50)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if utf8.RuneCountInString(tweet.OriginalTweet) != 50 {
		t.Fatalf("ожидали ровно 50 символов, получили %d", utf8.RuneCountInString(tweet.OriginalTweet))
	}
	if tweet.OriginalTweet != long[:50] {
		t.Fatalf("ожидали префикс ответа модели")
	}
}

func TestSynthesizeKeepsShortOutput(t *testing.T) {
	writer := &fakeWriter{text: "short tweet #AI https://example.com/news"}
	st := newStubStore(testArticle)
	service := NewService(writer, nil, st, st, zerolog.Nop(), 280)

	tweet, err := service.Synthesize(context.Background(), "AI-0-1", 280)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if tweet.OriginalTweet != writer.text {
		t.Fatalf("короткий ответ меняться не должен")
	}
	if tweet.Topic != "AI" || tweet.SourceURL != testArticle.URL || tweet.ArticleTitle != testArticle.Title {
		t.Fatalf("потеряны поля происхождения: %+v", tweet)
	}
	if tweet.ID == "" {
		t.Fatalf("твит должен получить идентификатор")
	}
}

func TestSynthesizeDefaultsLength(t *testing.T) {
	writer := &fakeWriter{text: "ok"}
	st := newStubStore(testArticle)
	service := NewService(writer, nil, st, st, zerolog.Nop(), 280)

	if _, err := service.Synthesize(context.Background(), "AI-0-1", 0); err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if writer.gotLength != 280 {
		t.Fatalf("ожидали лимит по умолчанию 280, получили %d", writer.gotLength)
	}
}

func TestSynthesizeUnknownArticle(t *testing.T) {
	st := newStubStore()
	service := NewService(&fakeWriter{text: "ok"}, nil, st, st, zerolog.Nop(), 280)

	_, err := service.Synthesize(context.Background(), "missing", 100)
	if !errors.Is(err, domain.ErrArticleNotFound) {
		t.Fatalf("ожидали ErrArticleNotFound, получили %v", err)
	}
}

func TestSynthesizeWrapsGenerationFailure(t *testing.T) {
	writer := &fakeWriter{err: errors.New("model down")}
	st := newStubStore(testArticle)
	service := NewService(writer, nil, st, st, zerolog.Nop(), 280)

	_, err := service.Synthesize(context.Background(), "AI-0-1", 100)
	var genErr *domain.GenerationError
	if !errors.As(err, &genErr) {
		t.Fatalf("ожидали GenerationError, получили %v", err)
	}
	if genErr.Op != "synthesize" {
		t.Fatalf("неожиданная операция в ошибке: %q", genErr.Op)
	}
	if len(st.List()) != 0 {
		t.Fatalf("после неудачной генерации твит сохраняться не должен")
	}
}

func TestRewriteOverwritesRevisionSlot(t *testing.T) {
	st := newStubStore(testArticle)
	st.Add(domain.Tweet{ID: "t1", OriginalTweet: "Breaking: stocks up 3%", Topic: "finance"})
	rewriter := &fakeRewriter{rewrite: domain.Rewrite{RewrittenTweet: "first pass", Reasoning: "more engaging"}}
	service := NewService(&fakeWriter{}, rewriter, st, st, zerolog.Nop(), 280)

	tweet, err := service.RewriteTweet(context.Background(), "t1", domain.ToneCasual)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if tweet.RewrittenTweet != "first pass" || tweet.Reasoning != "more engaging" {
		t.Fatalf("ревизия не записана: %+v", tweet)
	}
	if rewriter.gotOriginal != "Breaking: stocks up 3%" {
		t.Fatalf("переписывать нужно исходный текст, получили %q", rewriter.gotOriginal)
	}
	if rewriter.gotTone != domain.ToneCasual {
		t.Fatalf("тон не передан: %q", rewriter.gotTone)
	}

	rewriter.rewrite = domain.Rewrite{RewrittenTweet: "second pass", Reasoning: "tone change"}
	tweet, err = service.RewriteTweet(context.Background(), "t1", domain.ToneBreaking)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if tweet.RewrittenTweet != "second pass" || tweet.Reasoning != "tone change" {
		t.Fatalf("повторное переписывание должно перезаписать слот: %+v", tweet)
	}
	if tweet.OriginalTweet != "Breaking: stocks up 3%" {
		t.Fatalf("исходный текст неизменяем")
	}
}

func TestRewriteUnchangedTweetKeepsReasoning(t *testing.T) {
	st := newStubStore()
	st.Add(domain.Tweet{ID: "t1", OriginalTweet: "already great", Topic: "AI"})
	rewriter := &fakeRewriter{rewrite: domain.Rewrite{RewrittenTweet: "already great", Reasoning: "original is concise and engaging"}}
	service := NewService(&fakeWriter{}, rewriter, st, st, zerolog.Nop(), 280)

	tweet, err := service.RewriteTweet(context.Background(), "t1", "")
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if tweet.Reasoning == "" {
		t.Fatalf("даже без изменений reasoning обязателен")
	}
	if tweet.CurrentText() != "already great" {
		t.Fatalf("актуальный текст должен указывать на ревизию")
	}
}

func TestRewriteDoesNotTruncate(t *testing.T) {
	long := strings.Repeat("y", 400)
	st := newStubStore()
	st.Add(domain.Tweet{ID: "t1", OriginalTweet: "short", Topic: "AI"})
	rewriter := &fakeRewriter{rewrite: domain.Rewrite{RewrittenTweet: long, Reasoning: "verbose model"}}
	service := NewService(&fakeWriter{}, rewriter, st, st, zerolog.Nop(), 280)

	tweet, err := service.RewriteTweet(context.Background(), "t1", domain.ToneNeutral)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	// Локальный лимит применяется только при генерации.
	if tweet.RewrittenTweet != long {
		t.Fatalf("переписанный текст обрезаться не должен")
	}
}

func TestRewriteInvalidTone(t *testing.T) {
	st := newStubStore()
	service := NewService(&fakeWriter{}, &fakeRewriter{}, st, st, zerolog.Nop(), 280)

	_, err := service.RewriteTweet(context.Background(), "t1", "Sarcastic")
	if !errors.Is(err, domain.ErrInvalidTone) {
		t.Fatalf("ожидали ErrInvalidTone, получили %v", err)
	}
}

func TestRewriteUnknownTweet(t *testing.T) {
	st := newStubStore()
	service := NewService(&fakeWriter{}, &fakeRewriter{rewrite: domain.Rewrite{RewrittenTweet: "x", Reasoning: "y"}}, st, st, zerolog.Nop(), 280)

	_, err := service.RewriteTweet(context.Background(), "missing", domain.ToneNeutral)
	if !errors.Is(err, domain.ErrTweetNotFound) {
		t.Fatalf("ожидали ErrTweetNotFound, получили %v", err)
	}
}
