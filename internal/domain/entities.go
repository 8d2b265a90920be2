package domain

import "time"

// ArticleImage описывает иллюстрацию статьи.
type ArticleImage struct {
	ID          string `json:"id"`
	ImageURL    string `json:"imageUrl"`
	Description string `json:"description"`
	ImageHint   string `json:"imageHint"`
}

// Article представляет валидированную новостную статью.
type Article struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	URL         string       `json:"url"`
	SourceName  string       `json:"sourceName"`
	Image       ArticleImage `json:"image"`
	Topic       string       `json:"topic"`
}

// RawArticle — сырая запись провайдера новостей до валидации.
type RawArticle struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      struct {
		Name string `json:"name"`
	} `json:"source"`
	URLToImage string `json:"urlToImage"`
}

// Valid проверяет обязательные поля записи провайдера.
// Запись без title, description или url отбрасывается целиком.
func (r RawArticle) Valid() bool {
	return r.Title != "" && r.Description != "" && r.URL != ""
}

// NewsBatch — результат одного запроса новостей.
type NewsBatch struct {
	Topic    string    `json:"topic"`
	Articles []Article `json:"articles"`
}

// Tweet представляет сгенерированный твит и его единственную ревизию.
type Tweet struct {
	ID             string    `json:"id"`
	OriginalTweet  string    `json:"originalTweet"`
	RewrittenTweet string    `json:"rewrittenTweet,omitempty"`
	Reasoning      string    `json:"reasoning,omitempty"`
	Topic          string    `json:"topic"`
	SourceURL      string    `json:"sourceUrl"`
	ArticleTitle   string    `json:"articleTitle"`
	CreatedAt      time.Time `json:"createdAt"`
}

// CurrentText возвращает актуальный текст твита: ревизию, если она есть.
func (t Tweet) CurrentText() string {
	if t.RewrittenTweet != "" {
		return t.RewrittenTweet
	}
	return t.OriginalTweet
}

// Tone задаёт тональность переписанного твита.
type Tone string

const (
	ToneNeutral  Tone = "Neutral"
	ToneBreaking Tone = "Breaking"
	ToneCasual   Tone = "Casual"
)

// Valid проверяет, что тон входит в допустимый набор. Пустой тон допустим.
func (t Tone) Valid() bool {
	switch t {
	case "", ToneNeutral, ToneBreaking, ToneCasual:
		return true
	}
	return false
}

// Rewrite содержит ответ модели на запрос переписывания твита.
type Rewrite struct {
	RewrittenTweet string `json:"rewrittenTweet"`
	Reasoning      string `json:"reasoning"`
}
