package service

import (
	"pdf-editor-server/config"
	"pdf-editor-server/internal/model"
	"pdf-editor-server/internal/model/requestresponse"
	"pdf-editor-server/internal/ports"
	"pdf-editor-server/internal/security"
	"pdf-editor-server/internal/util"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"
)

type SessionService struct {
	documentRepository ports.DocumentRepository
	cacheRepository    ports.CacheRepository
	storageInterface   ports.S3Storage
	docServerJWT       *security.DocServerJWT
	callbackURL        string
	ttl                time.Duration
}

func NewSessionService(
	documentRepository ports.DocumentRepository,
	cacheRepository ports.CacheRepository,
	storageInterface ports.S3Storage,
	docServerJWT *security.DocServerJWT,
	cfg *config.DocumentServerConfig,
	ttl time.Duration,
) *SessionService {
	return &SessionService{
		documentRepository: documentRepository,
		cacheRepository:    cacheRepository,
		storageInterface:   storageInterface,
		docServerJWT:       docServerJWT,
		callbackURL:        cfg.CallbackURL,
		ttl:                ttl,
	}
}

// BuildConfig : собирает конфигурацию сессии редактора для документа.
// Ключ сессии — детерминированная функция (uuid, version) на момент выдачи,
// без примеси wall-clock: два запроса без промежуточного сохранения обязаны
// дать одинаковый ключ, иначе редактор ломает собственные локи. Чтение чистое,
// побочных эффектов нет.
func (s *SessionService) BuildConfig(ctx context.Context, documentUUID string, user model.EditorUser) (*requestresponse.EditorConfig, error) {
	document, err := s.readDocument(ctx, documentUUID)
	if err != nil {
		return nil, err
	}

	if document.HasFile() == false {
		return nil, fmt.Errorf("[SessionService] %w: %s", ErrNoFile, documentUUID)
	}

	fileURL, err := s.storageInterface.GeneratePresignedGetURL(ctx, document.StoragePath, s.ttl)
	if err != nil {
		return nil, util.LogError("[SessionService] не удалось сгенерировать pre-signed GET URL", err)
	}

	key := model.SessionKey(document.UUID, document.Version)

	editorConfig := &requestresponse.EditorConfig{
		DocumentType: "word",
		Document: requestresponse.EditorDocument{
			FileType: "docx",
			Key:      key,
			Title:    document.Title,
			URL:      fileURL,
			Permissions: requestresponse.EditorPermissions{
				Edit:      true,
				Download:  true,
				Print:     true,
				Review:    true,
				Comment:   true,
				FillForms: true,
				Copy:      true,
			},
		},
		EditorConfig: requestresponse.EditorInnerConfig{
			Mode:        "edit",
			Lang:        "ru",
			CallbackURL: s.callbackURL,
			User:        user,
		},
	}

	// сервер документов проверяет подпись конфигурации тем же секретом,
	// что и webhook
	if s.docServerJWT.Enabled() {
		token, err := s.docServerJWT.Sign(map[string]interface{}{
			"document":     editorConfig.Document,
			"editorConfig": editorConfig.EditorConfig,
		})
		if err != nil {
			return nil, util.LogError("[SessionService] не удалось подписать конфигурацию", err)
		}
		editorConfig.Token = token
	}

	log.Printf("[SessionService] выдана конфигурация сессии %s для документа %s", key, document.UUID)

	return editorConfig, nil
}

// readDocument : кэш, затем БД (read-through)
func (s *SessionService) readDocument(ctx context.Context, documentUUID string) (*model.Document, error) {
	document, err := s.cacheRepository.GetDocument(ctx, documentUUID)
	if err != nil {
		log.Printf("[SessionService] ошибка чтения кэша: %v", err)
	}
	if document != nil {
		return document, nil
	}

	exec, rollback, commit, err := s.documentRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[SessionService] не удалось начать транзакцию", err)
	}
	defer rollback()

	document, err = s.documentRepository.GetByUUID(ctx, exec, documentUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("[SessionService] %w: %s", ErrDocumentNotFound, documentUUID)
		}
		return nil, util.LogError("[SessionService] ошибка чтения документа", err)
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[SessionService] не удалось закоммитить транзакцию", err)
	}

	if err := s.cacheRepository.SetDocument(ctx, document); err != nil {
		log.Printf("[SessionService] ошибка кэширования документа: %v", err)
	}

	return document, nil
}
