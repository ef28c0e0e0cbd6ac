package ports

import (
	"pdf-editor-server/internal/model"
	"pdf-editor-server/internal/model/requestresponse"
	"context"
	"github.com/jmoiron/sqlx"
)

// DocumentRepository : SQL слой хранилища записей о документах
type DocumentRepository interface {
	Create(ctx context.Context, exec sqlx.ExtContext, document *model.Document) error
	GetByUUID(ctx context.Context, exec sqlx.ExtContext, documentUUID string) (*model.Document, error)
	ListByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string, cursor string, limit int) ([]model.Document, string, error)
	UpdateTitle(ctx context.Context, exec sqlx.ExtContext, documentUUID string, title string) error
	RefreshSignedURL(ctx context.Context, exec sqlx.ExtContext, documentUUID string, signedURL string) error
	// IncrementVersion : атомарный счётчик версии на стороне БД (version = version + 1),
	// одновременно обновляет путь и подписанный URL; возвращает новую версию
	IncrementVersion(ctx context.Context, exec sqlx.ExtContext, documentUUID string, storagePath string, signedURL string) (int, error)
	// ApplyConversion : версия становится 1 только при первой материализации файла,
	// повторная конвертация уже отредактированного документа инкрементирует
	ApplyConversion(ctx context.Context, exec sqlx.ExtContext, documentUUID string, storagePath string, signedURL string, conversionRef string) (int, error)
	Delete(ctx context.Context, exec sqlx.ExtContext, documentUUID string, ownerUUID string) (string, error)
	BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error)
}

type DocumentService interface {
	CreateBlank(ctx context.Context, ownerUUID string, title string) (*model.Document, error)
	CreateFromPDF(ctx context.Context, ownerUUID string, filename string, data []byte) (*model.Document, error)
	GetDocumentByUUID(ctx context.Context, documentUUID string) (*model.GetDocumentResult, error)
	ListDocuments(ctx context.Context, ownerUUID string, cursor string, limit int) ([]requestresponse.DocumentResponse, string, error)
	RenameDocument(ctx context.Context, documentUUID string, ownerUUID string, title string) error
	DeleteDocument(ctx context.Context, documentUUID string, ownerUUID string) error
	Reconvert(ctx context.Context, documentUUID string) (*model.StoredFile, error)
}
