package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"tweet-weaver/internal/domain"
	"tweet-weaver/internal/infra/metrics"
)

const defaultBaseURL = "https://newsapi.org"

// Client выполняет поисковые запросы к NewsAPI.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

// NewClient создаёт клиента NewsAPI.
func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type searchResponse struct {
	Status   string              `json:"status"`
	Message  string              `json:"message"`
	Articles []domain.RawArticle `json:"articles"`
}

// Search запрашивает /v2/everything: английский язык, сортировка по релевантности.
// Возвращает сырые записи как есть, валидация остаётся за вызывающим.
func (c *Client) Search(ctx context.Context, topic string, maxResults int) ([]domain.RawArticle, error) {
	endpoint, err := url.Parse(c.baseURL + "/v2/everything")
	if err != nil {
		return nil, fmt.Errorf("newsapi: parse endpoint: %w", err)
	}
	params := url.Values{}
	params.Set("q", topic)
	params.Set("pageSize", strconv.Itoa(maxResults))
	params.Set("language", "en")
	params.Set("sortBy", "relevancy")
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("newsapi: build request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveNetworkRequest("newsapi", "everything", "", start, err)
		return nil, &domain.UpstreamError{Service: "newsapi", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		metrics.ObserveNetworkRequest("newsapi", "everything", "", start, err)
		return nil, &domain.UpstreamError{Service: "newsapi", Err: err}
	}

	var parsed searchResponse
	if resp.StatusCode != http.StatusOK {
		upstream := &domain.UpstreamError{Service: "newsapi", Status: resp.StatusCode}
		if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
			upstream.Message = parsed.Message
		}
		metrics.ObserveNetworkRequest("newsapi", "everything", "", start, upstream)
		return nil, upstream
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		metrics.ObserveNetworkRequest("newsapi", "everything", "", start, err)
		return nil, &domain.UpstreamError{Service: "newsapi", Message: "малформированный ответ", Err: err}
	}
	metrics.ObserveNetworkRequest("newsapi", "everything", "", start, nil)
	return parsed.Articles, nil
}
