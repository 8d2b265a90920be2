package tweets

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"tweet-weaver/internal/domain"
	"tweet-weaver/internal/infra/metrics"
)

const defaultTweetLength = 280

// Service реализует генерацию и переписывание твитов.
//
// Лимит длины применяется локально только при генерации: ответ модели
// жёстко обрезается до maxLength рун. Переписанный текст не обрезается —
// потолок в 280 символов зашит в саму инструкцию, как в исходной системе.
type Service struct {
	writer        domain.TweetWriter
	rewriter      domain.TweetRewriter
	articles      domain.ArticleStore
	tweets        domain.TweetStore
	log           zerolog.Logger
	defaultLength int
}

// NewService создаёт сервис твитов.
func NewService(writer domain.TweetWriter, rewriter domain.TweetRewriter, articles domain.ArticleStore, tweets domain.TweetStore, logger zerolog.Logger, defaultLength int) *Service {
	if defaultLength <= 0 {
		defaultLength = defaultTweetLength
	}
	return &Service{writer: writer, rewriter: rewriter, articles: articles, tweets: tweets, log: logger, defaultLength: defaultLength}
}

// Synthesize генерирует твит по статье из текущей партии и кладёт его в
// хранилище сессии. Одна попытка, без ретраев.
func (s *Service) Synthesize(ctx context.Context, articleID string, maxLength int) (domain.Tweet, error) {
	article, ok := s.articles.GetArticle(articleID)
	if !ok {
		return domain.Tweet{}, domain.ErrArticleNotFound
	}
	if maxLength <= 0 {
		maxLength = s.defaultLength
	}

	start := time.Now()
	text, err := s.writer.Write(ctx, article, maxLength)
	if err != nil {
		return domain.Tweet{}, &domain.GenerationError{Op: "synthesize", Err: err}
	}
	metrics.TweetGenerateSeconds.Observe(time.Since(start).Seconds())

	if utf8.RuneCountInString(text) > maxLength {
		metrics.TweetsTruncated.Inc()
		s.log.Debug().Str("article", articleID).Int("limit", maxLength).Msg("tweets: ответ модели обрезан до лимита")
		text = Truncate(text, maxLength)
	}

	tweet := domain.Tweet{
		ID:            uuid.NewString(),
		OriginalTweet: text,
		Topic:         article.Topic,
		SourceURL:     article.URL,
		ArticleTitle:  article.Title,
		CreatedAt:     time.Now().UTC(),
	}
	s.tweets.Add(tweet)
	return tweet, nil
}

// RewriteTweet переписывает исходный текст твита в заданной тональности и
// перезаписывает единственный слот ревизии. Истории ревизий нет.
func (s *Service) RewriteTweet(ctx context.Context, tweetID string, tone domain.Tone) (domain.Tweet, error) {
	if !tone.Valid() {
		return domain.Tweet{}, domain.ErrInvalidTone
	}
	tweet, ok := s.tweets.Get(tweetID)
	if !ok {
		return domain.Tweet{}, domain.ErrTweetNotFound
	}

	rewrite, err := s.rewriter.Rewrite(ctx, tweet.OriginalTweet, tweet.Topic, tone)
	if err != nil {
		return domain.Tweet{}, &domain.GenerationError{Op: "rewrite", Err: err}
	}
	metrics.IncTweetRewrite(string(tone))

	return s.tweets.SetRevision(tweetID, rewrite)
}

// List возвращает твиты сессии, новые первыми.
func (s *Service) List() []domain.Tweet {
	return s.tweets.List()
}

// Clear очищает список твитов сессии.
func (s *Service) Clear() {
	s.tweets.Clear()
}
