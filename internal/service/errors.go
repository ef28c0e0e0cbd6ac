package service

import (
	"errors"
	"fmt"
)

var (
	// ErrDocumentNotFound : запись о документе отсутствует
	ErrDocumentNotFound = errors.New("документ не найден")
	// ErrNoFile : у документа ещё нет редактируемого файла
	ErrNoFile = errors.New("у документа нет файла")
	// ErrConversionTimeout : бюджет попыток опроса исчерпан
	ErrConversionTimeout = errors.New("превышено время ожидания конвертации")
)

// ConversionError : сервис конвертации вернул числовой код ошибки.
// Код сохраняем для диагностики, автоматически не ретраим.
type ConversionError struct {
	Code int
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("сервис конвертации вернул ошибку: код %d", e.Code)
}
