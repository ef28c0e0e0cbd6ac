package ports

import (
	"context"
	"time"
)

// S3Storage : blob-хранилище.
// Presigned URL — это "подписанные URL" протокола; Put/Get — прямые операции
// для сохранения результата callback и конвертации.
type S3Storage interface {
	GeneratePresignedGetURL(ctx context.Context, key string, expire time.Duration) (string, error)
	PutObject(ctx context.Context, key string, data []byte, contentType string) error
	GetObject(ctx context.Context, key string) ([]byte, error)
	DeleteObject(ctx context.Context, key string) error
}
