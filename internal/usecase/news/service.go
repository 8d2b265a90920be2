package news

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tweet-weaver/internal/domain"
	"tweet-weaver/internal/infra/metrics"
)

const defaultMaxResults = 5

// Service реализует загрузку и нормализацию новостей.
// Типизированные ошибки (ErrNoCredential, UpstreamError) доходят до границы HTTP,
// где схлопываются в пустой список — политика fail-soft исходной системы.
type Service struct {
	provider      domain.NewsProvider
	cache         domain.Cache
	log           zerolog.Logger
	hasCredential bool
	cacheTTL      time.Duration
}

// NewService создаёт сервис новостей. Кэш опционален.
func NewService(provider domain.NewsProvider, cache domain.Cache, logger zerolog.Logger, hasCredential bool, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Service{provider: provider, cache: cache, log: logger, hasCredential: hasCredential, cacheTTL: cacheTTL}
}

// Fetch запрашивает статьи по теме, отбрасывает невалидные записи и
// проецирует остальные в доменную модель с сохранением порядка провайдера.
func (s *Service) Fetch(ctx context.Context, topic string, maxResults int) (domain.NewsBatch, error) {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if !s.hasCredential {
		metrics.IncNewsFetch("no_credential")
		return domain.NewsBatch{}, domain.ErrNoCredential
	}

	cacheKey := fmt.Sprintf("news:%s:%d", topic, maxResults)
	if batch, ok := s.fromCache(cacheKey, topic); ok {
		metrics.NewsCacheHits.Inc()
		metrics.IncNewsFetch("cache")
		return batch, nil
	}

	raw, err := s.provider.Search(ctx, topic, maxResults)
	if err != nil {
		metrics.IncNewsFetch("upstream_error")
		return domain.NewsBatch{}, err
	}

	articles := BuildArticles(topic, raw, maxResults, time.Now())
	s.log.Debug().Str("topic", topic).Int("raw", len(raw)).Int("valid", len(articles)).Msg("news: партия обработана")
	metrics.IncNewsFetch("ok")

	batch := domain.NewsBatch{Topic: topic, Articles: articles}
	s.toCache(cacheKey, batch)
	return batch, nil
}

// BuildArticles превращает сырые записи провайдера в статьи.
// Невалидные записи молча пропускаются, порядок сохраняется, результат
// ограничен maxResults. Позиционные фолбэки считаются от индекса записи
// в исходной партии, поэтому для одного и того же ответа они стабильны.
func BuildArticles(topic string, raw []domain.RawArticle, maxResults int, now time.Time) []domain.Article {
	articles := make([]domain.Article, 0, min(len(raw), maxResults))
	for idx, candidate := range raw {
		if len(articles) >= maxResults {
			break
		}
		if !candidate.Valid() {
			metrics.NewsArticlesDropped.Inc()
			continue
		}
		articles = append(articles, mapArticle(topic, idx, candidate, now))
	}
	return articles
}

func mapArticle(topic string, idx int, raw domain.RawArticle, now time.Time) domain.Article {
	sourceName := raw.Source.Name
	if sourceName == "" {
		sourceName = "Unknown Source"
	}
	imageURL := raw.URLToImage
	if imageURL == "" {
		imageURL = PlaceholderImageURL(idx)
	}
	return domain.Article{
		ID:          fmt.Sprintf("%s-%d-%d", topic, idx, now.UnixMilli()),
		Title:       raw.Title,
		Description: raw.Description,
		URL:         raw.URL,
		SourceName:  sourceName,
		Image: domain.ArticleImage{
			ID:          fmt.Sprintf("news-image-%d", idx),
			ImageURL:    imageURL,
			Description: raw.Title,
			ImageHint:   imageHint(topic),
		},
		Topic: topic,
	}
}

// PlaceholderImageURL возвращает детерминированную заглушку для позиции в партии.
func PlaceholderImageURL(idx int) string {
	return fmt.Sprintf("https://picsum.photos/seed/%d/600/400", idx+1)
}

func imageHint(topic string) string {
	if fields := strings.Fields(topic); len(fields) > 0 {
		return fields[0]
	}
	return "news"
}

func (s *Service) fromCache(key, topic string) (domain.NewsBatch, bool) {
	if s.cache == nil {
		return domain.NewsBatch{}, false
	}
	data, err := s.cache.Get(key)
	if err != nil || len(data) == 0 {
		return domain.NewsBatch{}, false
	}
	var articles []domain.Article
	if err := json.Unmarshal(data, &articles); err != nil {
		return domain.NewsBatch{}, false
	}
	return domain.NewsBatch{Topic: topic, Articles: articles}, true
}

func (s *Service) toCache(key string, batch domain.NewsBatch) {
	if s.cache == nil || len(batch.Articles) == 0 {
		return
	}
	data, err := json.Marshal(batch.Articles)
	if err != nil {
		return
	}
	if err := s.cache.Set(key, data, s.cacheTTL); err != nil {
		s.log.Debug().Err(err).Msg("news: не удалось записать кэш")
	}
}
