package domain

import (
	"errors"
	"fmt"
)

// ErrNoCredential возвращается, когда ключ провайдера новостей не настроен.
// Ошибка фиксируется до какого-либо сетевого вызова.
var ErrNoCredential = errors.New("ключ провайдера новостей не настроен")

// ErrArticleNotFound возвращается при обращении к неизвестной статье.
var ErrArticleNotFound = errors.New("статья не найдена в текущей сессии")

// ErrTweetNotFound возвращается при обращении к неизвестному твиту.
var ErrTweetNotFound = errors.New("твит не найден в текущей сессии")

// ErrInvalidTone возвращается при неизвестной тональности переписывания.
var ErrInvalidTone = errors.New("недопустимая тональность")

// UpstreamError описывает неуспешный ответ или недоступность провайдера.
type UpstreamError struct {
	Service string
	Status  int
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Service, e.Message)
	case e.Status != 0:
		return fmt.Sprintf("%s: неожиданный статус %d", e.Service, e.Status)
	default:
		return fmt.Sprintf("%s: запрос не выполнен: %v", e.Service, e.Err)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// GenerationError — единая ошибка генерации для Synthesize и Rewrite.
// Повторных попыток ядро не делает, решение о ретрае принимает вызывающий.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("генерация (%s): %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }
