package tweets

// Truncate обрезает строку до limit рун простым префиксным срезом.
// Результат всегда префикс исходной строки; повторное применение с тем же
// лимитом ничего не меняет. При limit <= 0 строка возвращается как есть.
func Truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
