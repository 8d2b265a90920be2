package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"tweet-weaver/internal/adapters/newsapi"
	"tweet-weaver/internal/adapters/store"
	"tweet-weaver/internal/adapters/tweetgen"
	"tweet-weaver/internal/domain"
	"tweet-weaver/internal/infra/cache"
	"tweet-weaver/internal/infra/config"
	httpinfra "tweet-weaver/internal/infra/http"
	applog "tweet-weaver/internal/infra/log"
	"tweet-weaver/internal/infra/metrics"
	"tweet-weaver/internal/infra/openai"
	newsusecase "tweet-weaver/internal/usecase/news"
	tweetsusecase "tweet-weaver/internal/usecase/tweets"
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics.StartServer(ctx, logger.With().Str("component", "metrics").Logger(), cfg.MetricsAddr)

	var newsCache domain.Cache
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn().Err(err).Msg("api: redis недоступен, кэш новостей выключен")
		} else {
			newsCache = cache.NewRedis(redisClient)
		}
		defer redisClient.Close()
	}

	if cfg.News.APIKey == "" {
		logger.Warn().Msg("api: NEWS_API_KEY не задан, запросы новостей будут возвращать пустой список")
	}
	newsClient := newsapi.NewClient(cfg.News.APIKey, cfg.News.BaseURL, cfg.News.Timeout)
	newsService := newsusecase.NewService(
		newsClient,
		newsCache,
		logger.With().Str("component", "news").Logger(),
		cfg.News.APIKey != "",
		cfg.News.CacheTTL,
	)

	openaiClient := openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Timeout)
	writer := tweetgen.NewWriter(openaiClient, cfg.OpenAI.Model, cfg.OpenAI.Timeout)
	rewriter := tweetgen.NewRewriter(openaiClient, cfg.OpenAI.Model, cfg.OpenAI.Timeout)

	session := store.NewMemory()
	tweetService := tweetsusecase.NewService(
		writer,
		rewriter,
		session,
		session,
		logger.With().Str("component", "tweets").Logger(),
		cfg.Limits.TweetLength,
	)

	server := httpinfra.NewServer(logger.With().Str("component", "http").Logger())
	server.Router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	imageProxy := httpinfra.NewImageProxy(logger.With().Str("component", "imageproxy").Logger(), cfg.News.Timeout)
	app := newAPI(logger, newsService, tweetService, session, cfg)

	server.Router.Route("/api/v1", func(r chi.Router) {
		r.Get("/news", app.handleFetchNews)
		r.Post("/tweets", app.handleGenerateTweet)
		r.Post("/tweets/{id}/rewrite", app.handleRewriteTweet)
		r.Get("/tweets", app.handleListTweets)
		r.Delete("/tweets", app.handleClearTweets)
		r.Get("/tweets/export", app.handleExportTweets)
		r.Get("/image", imageProxy.ServeHTTP)
	})

	go func() {
		if err := server.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil {
			logger.Error().Err(err).Msg("api: сервер остановлен")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("api: остановка")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
}

type api struct {
	log     zerolog.Logger
	news    *newsusecase.Service
	tweets  *tweetsusecase.Service
	session *store.Memory
	cfg     config.AppConfig
}

func newAPI(logger zerolog.Logger, news *newsusecase.Service, tweets *tweetsusecase.Service, session *store.Memory, cfg config.AppConfig) *api {
	return &api{log: logger.With().Str("component", "api").Logger(), news: news, tweets: tweets, session: session, cfg: cfg}
}

// handleFetchNews — граница fail-soft: любая ошибка загрузки схлопывается
// в пустой список, различить «нет результатов» и «нет ключа» можно только
// по логам и метрикам.
func (a *api) handleFetchNews(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	if topic == "" {
		topic = "technology"
	}
	maxResults := a.cfg.Limits.MaxResults
	if rawMax := r.URL.Query().Get("max"); rawMax != "" {
		if parsed, err := strconv.Atoi(rawMax); err == nil && parsed > 0 {
			maxResults = parsed
		}
	}
	if maxResults > a.cfg.Limits.MaxResultsCap {
		maxResults = a.cfg.Limits.MaxResultsCap
	}

	batch, err := a.news.Fetch(r.Context(), topic, maxResults)
	if err != nil {
		a.log.Warn().Err(err).Str("topic", topic).Msg("news: загрузка не удалась, отдаём пустой список")
		// Прошлая партия тоже сбрасывается: клиент видит пустой список,
		// значит генерировать по старым статьям больше нельзя.
		a.session.ReplaceBatch(domain.NewsBatch{Topic: topic})
		writeJSON(w, map[string]any{"articles": []domain.Article{}})
		return
	}
	a.session.ReplaceBatch(batch)
	articles := batch.Articles
	if articles == nil {
		articles = []domain.Article{}
	}
	writeJSON(w, map[string]any{"articles": articles})
}

type generateTweetRequest struct {
	ArticleID string `json:"article_id"`
	MaxLength int    `json:"max_length"`
}

func (a *api) handleGenerateTweet(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req generateTweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ArticleID == "" {
		writeError(w, http.StatusBadRequest, "article_id is required")
		return
	}
	tweet, err := a.tweets.Synthesize(r.Context(), req.ArticleID, req.MaxLength)
	if err != nil {
		a.respondServiceError(w, err, "tweets: генерация не удалась")
		return
	}
	writeJSON(w, tweet)
}

type rewriteTweetRequest struct {
	Tone string `json:"tone"`
}

func (a *api) handleRewriteTweet(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req rewriteTweetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	tweet, err := a.tweets.RewriteTweet(r.Context(), chi.URLParam(r, "id"), domain.Tone(req.Tone))
	if err != nil {
		a.respondServiceError(w, err, "tweets: переписывание не удалось")
		return
	}
	writeJSON(w, tweet)
}

func (a *api) handleListTweets(w http.ResponseWriter, r *http.Request) {
	tweets := a.tweets.List()
	if tweets == nil {
		tweets = []domain.Tweet{}
	}
	writeJSON(w, map[string]any{"tweets": tweets})
}

func (a *api) handleClearTweets(w http.ResponseWriter, r *http.Request) {
	a.tweets.Clear()
	w.WriteHeader(http.StatusNoContent)
}

func (a *api) handleExportTweets(w http.ResponseWriter, r *http.Request) {
	tweets := a.tweets.List()
	if len(tweets) == 0 {
		writeError(w, http.StatusNotFound, "no tweets to export")
		return
	}
	filename := tweetsusecase.ExportFilename(a.session.Topic(), time.Now())
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write([]byte(tweetsusecase.FormatExport(tweets)))
}

func (a *api) respondServiceError(w http.ResponseWriter, err error, logMsg string) {
	var genErr *domain.GenerationError
	switch {
	case errors.Is(err, domain.ErrArticleNotFound), errors.Is(err, domain.ErrTweetNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidTone):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &genErr):
		a.log.Error().Err(err).Msg(logMsg)
		writeError(w, http.StatusBadGateway, "generation failed")
	default:
		a.log.Error().Err(err).Msg(logMsg)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": msg})
}
