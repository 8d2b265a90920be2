package http

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"tweet-weaver/internal/infra/metrics"
)

// ImageProxy проксирует картинки статей, чтобы не отдавать браузеру чужие хосты напрямую.
type ImageProxy struct {
	client *http.Client
	log    zerolog.Logger
}

// NewImageProxy создаёт обработчик прокси.
func NewImageProxy(logger zerolog.Logger, timeout time.Duration) *ImageProxy {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ImageProxy{client: &http.Client{Timeout: timeout}, log: logger}
}

// ServeHTTP отдаёт картинку по адресу из query-параметра url.
// Разрешены только схемы http и https.
func (p *ImageProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		writeProxyError(w, http.StatusBadRequest, "missing url")
		return
	}
	parsed, err := url.Parse(raw)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		writeProxyError(w, http.StatusBadRequest, "invalid url")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, parsed.String(), nil)
	if err != nil {
		writeProxyError(w, http.StatusBadRequest, "invalid url")
		return
	}
	// Часть CDN отдаёт картинки только браузерным клиентам.
	req.Header.Set("User-Agent", "Mozilla/5.0")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		metrics.ObserveNetworkRequest("imageproxy", "fetch", parsed.Host, start, err)
		p.log.Warn().Err(err).Str("host", parsed.Host).Msg("imageproxy: запрос не выполнен")
		writeProxyError(w, http.StatusBadGateway, "upstream failed")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		metrics.ObserveNetworkRequest("imageproxy", "fetch", parsed.Host, start, fmt.Errorf("status %d", resp.StatusCode))
		writeProxyError(w, http.StatusBadGateway, "upstream failed")
		return
	}
	metrics.ObserveNetworkRequest("imageproxy", "fetch", parsed.Host, start, nil)

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = io.Copy(w, resp.Body)
}

func writeProxyError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
