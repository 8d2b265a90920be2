package tweets

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateLengthAndPrefix(t *testing.T) {
	s := strings.Repeat("x", 120)

	got := Truncate(s, 50)
	if utf8.RuneCountInString(got) != 50 {
		t.Fatalf("ожидали длину 50, получили %d", utf8.RuneCountInString(got))
	}
	if !strings.HasPrefix(s, got) {
		t.Fatalf("результат должен быть префиксом исходной строки")
	}
}

func TestTruncateShortStringUnchanged(t *testing.T) {
	if got := Truncate("short", 280); got != "short" {
		t.Fatalf("строка короче лимита меняться не должна: %q", got)
	}
	if got := Truncate("exact", 5); got != "exact" {
		t.Fatalf("строка ровно в лимит меняться не должна: %q", got)
	}
}

func TestTruncateIdempotent(t *testing.T) {
	s := strings.Repeat("ab", 100)
	once := Truncate(s, 33)
	twice := Truncate(once, 33)
	if once != twice {
		t.Fatalf("повторная обрезка изменила строку")
	}
}

func TestTruncateCountsRunes(t *testing.T) {
	s := "héllo 世界 новости"
	got := Truncate(s, 8)
	if utf8.RuneCountInString(got) != 8 {
		t.Fatalf("ожидали 8 рун, получили %d", utf8.RuneCountInString(got))
	}
	if !utf8.ValidString(got) {
		t.Fatalf("обрезка не должна ломать UTF-8")
	}
}

func TestTruncateEmptyString(t *testing.T) {
	if got := Truncate("", 10); got != "" {
		t.Fatalf("пустая строка должна остаться пустой")
	}
}
