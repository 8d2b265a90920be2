package domain

import (
	"context"
	"time"
)

// NewsProvider выполняет поиск статей у внешнего провайдера новостей.
type NewsProvider interface {
	Search(ctx context.Context, topic string, maxResults int) ([]RawArticle, error)
}

// TweetWriter генерирует твит по статье.
type TweetWriter interface {
	Write(ctx context.Context, article Article, maxLength int) (string, error)
}

// TweetRewriter переписывает готовый твит в заданной тональности.
type TweetRewriter interface {
	Rewrite(ctx context.Context, originalTweet, topic string, tone Tone) (Rewrite, error)
}

// ArticleStore хранит последнюю выбранную партию статей сессии.
type ArticleStore interface {
	ReplaceBatch(batch NewsBatch)
	GetArticle(id string) (Article, bool)
}

// TweetStore хранит твиты сессии в порядке создания (новые первыми).
type TweetStore interface {
	Add(tweet Tweet)
	Get(id string) (Tweet, bool)
	SetRevision(id string, rewrite Rewrite) (Tweet, error)
	List() []Tweet
	Clear()
}

// Cache используется для простых TTL-хранилищ.
type Cache interface {
	Set(key string, value []byte, ttl time.Duration) error
	Get(key string) ([]byte, error)
}
