package ports

import (
	"pdf-editor-server/internal/model"
	"context"
)

// CacheRepository : Redis слой, кэш метаданных документов.
// Инвалидируется при каждом успешном сохранении или конвертации.
type CacheRepository interface {
	SetDocument(ctx context.Context, document *model.Document) error
	GetDocument(ctx context.Context, uuid string) (*model.Document, error)
	DeleteDocument(ctx context.Context, uuid string) error
}
