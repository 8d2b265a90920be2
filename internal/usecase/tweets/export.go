package tweets

import (
	"fmt"
	"strings"
	"time"

	"tweet-weaver/internal/domain"
)

// FormatExport формирует плоский текстовый блок со всеми твитами сессии:
// по одной записи на твит, в порядке списка, с хэштегом темы и ссылкой
// на источник. Записи не теряются и не переупорядочиваются.
func FormatExport(tweets []domain.Tweet) string {
	var builder strings.Builder
	for idx, tweet := range tweets {
		builder.WriteString(fmt.Sprintf("Tweet %d (Topic: #%s)\n---\n%s\n\nSource: %s\n\n\n",
			idx+1, topicHashtag(tweet.Topic), tweet.CurrentText(), tweet.SourceURL))
	}
	return builder.String()
}

// ExportFilename строит имя файла выгрузки для темы и момента времени.
func ExportFilename(topic string, now time.Time) string {
	if strings.TrimSpace(topic) == "" {
		topic = "news"
	}
	timestamp := strings.NewReplacer(":", "-", ".", "-").Replace(now.UTC().Format(time.RFC3339))
	return fmt.Sprintf("tweets_%s_%s.txt", topic, timestamp)
}

func topicHashtag(topic string) string {
	return strings.Join(strings.Fields(topic), "")
}
