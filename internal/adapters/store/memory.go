package store

import (
	"sync"

	"tweet-weaver/internal/domain"
)

// Memory хранит состояние сессии в памяти: последнюю партию статей и
// список твитов. Всё состояние живёт только до очистки или перезапуска —
// долговременного хранилища у системы нет намеренно.
type Memory struct {
	mu       sync.Mutex
	topic    string
	articles map[string]domain.Article
	tweets   []domain.Tweet
}

var (
	_ domain.ArticleStore = (*Memory)(nil)
	_ domain.TweetStore   = (*Memory)(nil)
)

// NewMemory создаёт пустое хранилище сессии.
func NewMemory() *Memory {
	return &Memory{articles: make(map[string]domain.Article)}
}

// ReplaceBatch заменяет текущую партию статей. Предыдущая партия
// отбрасывается целиком.
func (m *Memory) ReplaceBatch(batch domain.NewsBatch) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.topic = batch.Topic
	m.articles = make(map[string]domain.Article, len(batch.Articles))
	for _, article := range batch.Articles {
		m.articles[article.ID] = article
	}
}

// GetArticle возвращает статью текущей партии по идентификатору.
func (m *Memory) GetArticle(id string) (domain.Article, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	article, ok := m.articles[id]
	return article, ok
}

// Topic возвращает тему текущей партии.
func (m *Memory) Topic() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.topic
}

// Add добавляет твит в начало списка.
func (m *Memory) Add(tweet domain.Tweet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tweets = append([]domain.Tweet{tweet}, m.tweets...)
}

// Get возвращает твит по идентификатору.
func (m *Memory) Get(id string) (domain.Tweet, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, tweet := range m.tweets {
		if tweet.ID == id {
			return tweet, true
		}
	}
	return domain.Tweet{}, false
}

// SetRevision перезаписывает единственный слот ревизии твита.
func (m *Memory) SetRevision(id string, rewrite domain.Rewrite) (domain.Tweet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for idx := range m.tweets {
		if m.tweets[idx].ID != id {
			continue
		}
		m.tweets[idx].RewrittenTweet = rewrite.RewrittenTweet
		m.tweets[idx].Reasoning = rewrite.Reasoning
		return m.tweets[idx], nil
	}
	return domain.Tweet{}, domain.ErrTweetNotFound
}

// List возвращает копию списка твитов, новые первыми.
func (m *Memory) List() []domain.Tweet {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Tweet(nil), m.tweets...)
}

// Clear удаляет все твиты сессии. Статьи остаются до следующей партии.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tweets = nil
}
