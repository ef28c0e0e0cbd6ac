package repository

import (
	"pdf-editor-server/config"
	"pdf-editor-server/internal/model"
	"pdf-editor-server/internal/util"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/jmoiron/sqlx"
)

type DocumentRepository struct {
	*config.Database
}

func NewDocumentRepository(database *config.Database) *DocumentRepository {
	return &DocumentRepository{database}
}

// Create : сохраняем новую запись о документе
func (r *DocumentRepository) Create(ctx context.Context, exec sqlx.ExtContext, document *model.Document) error {
	query := `
		INSERT INTO documents (uuid, owner_uuid, title, storage_path, source_path, signed_url, version, conversion_ref)
    	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := exec.ExecContext(
		ctx,
		query,
		document.UUID,
		document.OwnerUUID,
		document.Title,
		document.StoragePath,
		document.SourcePath,
		document.SignedURL,
		document.Version,
		document.ConversionRef)

	return err
}

// GetByUUID : возвращаем запись о документе (проверка владения — этажом выше)
func (r *DocumentRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, documentUUID string) (*model.Document, error) {
	query := `
		SELECT uuid, owner_uuid, title, storage_path, source_path, signed_url,
		       version, conversion_ref, created_at, updated_at, deleted_at
		FROM documents
		WHERE uuid = $1 AND deleted_at IS NULL
	`

	var document model.Document
	err := sqlx.GetContext(ctx, exec, &document, query, documentUUID)
	if err != nil {
		return nil, err
	}

	return &document, nil
}

// ListByOwner : список документов владельца (cursor-based pagination по created_at)
func (r *DocumentRepository) ListByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string, cursor string, limit int) ([]model.Document, string, error) {
	queryFirst := `
		SELECT uuid, owner_uuid, title, storage_path, source_path, signed_url,
		       version, conversion_ref, created_at, updated_at, deleted_at
		FROM documents
		WHERE owner_uuid = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2
	`
	queryAfter := `
		SELECT uuid, owner_uuid, title, storage_path, source_path, signed_url,
		       version, conversion_ref, created_at, updated_at, deleted_at
		FROM documents
		WHERE owner_uuid = $1 AND deleted_at IS NULL
		  AND created_at < (SELECT created_at FROM documents WHERE uuid = $2)
		ORDER BY created_at DESC
		LIMIT $3
	`

	docs := []model.Document{}
	var err error

	if cursor == "" {
		err = sqlx.SelectContext(ctx, exec, &docs, queryFirst, ownerUUID, limit)
	} else {
		err = sqlx.SelectContext(ctx, exec, &docs, queryAfter, ownerUUID, cursor, limit)
	}
	if err != nil {
		return nil, "", util.LogError("[DocumentRepository] ошибка выборки документов", err)
	}

	var nextCursor string
	if len(docs) == limit {
		nextCursor = docs[len(docs)-1].UUID
	}

	return docs, nextCursor, nil
}

// UpdateTitle : переименование, version не трогаем
func (r *DocumentRepository) UpdateTitle(ctx context.Context, exec sqlx.ExtContext, documentUUID string, title string) error {
	result, err := exec.ExecContext(ctx, `
		UPDATE documents
		SET title = $2, updated_at = NOW()
		WHERE uuid = $1 AND deleted_at IS NULL
	`, documentUUID, title)
	if err != nil {
		return util.LogError("[DocumentRepository] ошибка переименования документа", err)
	}

	rows, err := result.RowsAffected()
	if err == nil && rows == 0 {
		return sql.ErrNoRows
	}
	return err
}

// RefreshSignedURL : обновляем только подписанный URL (merge-семантика,
// для корректности не используется, только для отображения)
func (r *DocumentRepository) RefreshSignedURL(ctx context.Context, exec sqlx.ExtContext, documentUUID string, signedURL string) error {
	_, err := exec.ExecContext(ctx, `
		UPDATE documents
		SET signed_url = $2, updated_at = NOW()
		WHERE uuid = $1 AND deleted_at IS NULL
	`, documentUUID, signedURL)

	return err
}

// IncrementVersion : атомарный инкремент версии на стороне БД.
// Принципиально одним UPDATE, без read-modify-write: callback'и могут приходить
// конкурентно (force save + авто-сохранение), и потерянный инкремент означает
// повторное использование ключа сессии.
func (r *DocumentRepository) IncrementVersion(ctx context.Context, exec sqlx.ExtContext, documentUUID string, storagePath string, signedURL string) (int, error) {
	query := `
		UPDATE documents
		SET version = version + 1, storage_path = $2, signed_url = $3, updated_at = NOW()
		WHERE uuid = $1 AND deleted_at IS NULL
		RETURNING version
	`

	var version int
	err := sqlx.GetContext(ctx, exec, &version, query, documentUUID, storagePath, signedURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, err
		}
		return 0, util.LogError("[DocumentRepository] ошибка инкремента версии", err)
	}

	return version, nil
}

// ApplyConversion : результат конвертации. Версия становится 1 только если файла
// ещё не было; повторная конвертация существующего документа ведёт себя как
// сохранение (инкремент, не сброс). conversion_ref выставляется один раз.
func (r *DocumentRepository) ApplyConversion(ctx context.Context, exec sqlx.ExtContext, documentUUID string, storagePath string, signedURL string, conversionRef string) (int, error) {
	query := `
		UPDATE documents
		SET version = CASE WHEN storage_path = '' THEN 1 ELSE version + 1 END,
		    storage_path = $2,
		    signed_url = $3,
		    conversion_ref = CASE WHEN conversion_ref = '' THEN $4 ELSE conversion_ref END,
		    updated_at = NOW()
		WHERE uuid = $1 AND deleted_at IS NULL
		RETURNING version
	`

	var version int
	err := sqlx.GetContext(ctx, exec, &version, query, documentUUID, storagePath, signedURL, conversionRef)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, err
		}
		return 0, util.LogError("[DocumentRepository] ошибка применения конвертации", err)
	}

	return version, nil
}

// Delete : мягкое удаление, только владельцем
func (r *DocumentRepository) Delete(ctx context.Context, exec sqlx.ExtContext, documentUUID string, ownerUUID string) (string, error) {
	query := `
		UPDATE documents
		SET deleted_at = NOW()
		WHERE uuid = $1 AND owner_uuid = $2 AND deleted_at IS NULL
		RETURNING uuid
	`

	var deletedUUID string
	err := sqlx.GetContext(ctx, exec, &deletedUUID, query, documentUUID, ownerUUID)
	if err != nil {
		return "", util.LogError("[DocumentRepository] ошибка удаления документа", err)
	}

	return deletedUUID, nil
}

// BeginTX : транзакция с функциями rollback/commit
func (r *DocumentRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("ошибка начала транзакции: %w", err)
	}

	rollback := func() error {
		return tx.Rollback()
	}
	commit := func() error {
		return tx.Commit()
	}

	return tx, rollback, commit, nil
}
