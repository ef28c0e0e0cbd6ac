package service

import (
	"pdf-editor-server/internal/model"
	"pdf-editor-server/internal/model/requestresponse"
	"pdf-editor-server/internal/ports"
	"pdf-editor-server/internal/util"
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

type DocumentService struct {
	documentRepository ports.DocumentRepository
	cacheRepository    ports.CacheRepository
	storageInterface   ports.S3Storage
	conversionService  ports.ConversionService
	ttl                time.Duration
}

func NewDocumentService(
	documentRepository ports.DocumentRepository,
	cacheRepository ports.CacheRepository,
	storageInterface ports.S3Storage,
	conversionService ports.ConversionService,
	ttl time.Duration,
) *DocumentService {
	return &DocumentService{
		documentRepository: documentRepository,
		cacheRepository:    cacheRepository,
		storageInterface:   storageInterface,
		conversionService:  conversionService,
		ttl:                ttl,
	}
}

// CreateBlank : создаёт пустой документ. Файл пишется сразу, поэтому запись
// материализуется с version = 1 и непустым storage_path.
func (s *DocumentService) CreateBlank(ctx context.Context, ownerUUID string, title string) (*model.Document, error) {
	if title == "" {
		title = "Новый документ"
	}

	documentUUID := uuid.New().String()
	storagePath := fmt.Sprintf("users/%s/documents/%s/latest.docx", ownerUUID, documentUUID)

	data, err := util.BlankDocx()
	if err != nil {
		return nil, util.LogError("[DocumentService] не удалось собрать пустой документ", err)
	}

	if err := s.storageInterface.PutObject(ctx, storagePath, data, util.GetContentType(storagePath)); err != nil {
		return nil, util.LogError("[DocumentService] не удалось записать файл в хранилище", err)
	}

	signedURL, err := s.storageInterface.GeneratePresignedGetURL(ctx, storagePath, s.ttl)
	if err != nil {
		return nil, util.LogError("[DocumentService] не удалось сгенерировать pre-signed GET URL", err)
	}

	document := &model.Document{
		UUID:        documentUUID,
		OwnerUUID:   ownerUUID,
		Title:       title,
		StoragePath: storagePath,
		SignedURL:   signedURL,
		Version:     1,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	exec, rollback, commit, err := s.documentRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[DocumentService] не удалось начать транзакцию", err)
	}
	defer rollback()

	if err := s.documentRepository.Create(ctx, exec, document); err != nil {
		return nil, util.LogError("[DocumentService] не удалось сохранить документ в БД", err)
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[DocumentService] не удалось закоммитить транзакцию", err)
	}

	log.Printf("[DocumentService] пустой документ %s создан (версия 1)", documentUUID)

	return document, nil
}

// CreateFromPDF : принимает загруженный PDF, валидирует его, кладёт исходник в
// хранилище и запускает конвертацию в редактируемый формат. Запись создаётся с
// version = 0 (файла ещё нет); версию 1 выставит успешная конвертация.
func (s *DocumentService) CreateFromPDF(ctx context.Context, ownerUUID string, filename string, data []byte) (*model.Document, error) {
	if err := api.Validate(bytes.NewReader(data), nil); err != nil {
		return nil, util.LogError("[DocumentService] загруженный файл не является корректным PDF", err)
	}

	documentUUID := uuid.New().String()
	sourcePath := fmt.Sprintf("users/%s/documents/%s/source.pdf", ownerUUID, documentUUID)
	title := strings.TrimSuffix(filename, ".pdf")

	if err := s.storageInterface.PutObject(ctx, sourcePath, data, "application/pdf"); err != nil {
		return nil, util.LogError("[DocumentService] не удалось записать исходник в хранилище", err)
	}

	document := &model.Document{
		UUID:       documentUUID,
		OwnerUUID:  ownerUUID,
		Title:      title,
		SourcePath: sourcePath,
		Version:    0,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	exec, rollback, commit, err := s.documentRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[DocumentService] не удалось начать транзакцию", err)
	}
	defer rollback()

	if err := s.documentRepository.Create(ctx, exec, document); err != nil {
		return nil, util.LogError("[DocumentService] не удалось сохранить документ в БД", err)
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[DocumentService] не удалось закоммитить транзакцию", err)
	}

	sourceURL, err := s.storageInterface.GeneratePresignedGetURL(ctx, sourcePath, s.ttl)
	if err != nil {
		return nil, util.LogError("[DocumentService] не удалось сгенерировать URL исходника", err)
	}

	stored, err := s.conversionService.ConvertAndStore(ctx, documentUUID, sourceURL, title)
	if err != nil {
		return nil, err
	}

	document.StoragePath = stored.StoragePath
	document.SignedURL = stored.SignedURL
	document.Version = stored.Version

	log.Printf("[DocumentService] документ %s создан из PDF %s", documentUUID, filename)

	return document, nil
}

// GetDocumentByUUID : запись о документе со свежим pre-signed URL
func (s *DocumentService) GetDocumentByUUID(ctx context.Context, documentUUID string) (*model.GetDocumentResult, error) {
	document, err := s.cacheRepository.GetDocument(ctx, documentUUID)
	if err != nil {
		log.Printf("[DocumentService] ошибка чтения кэша: %v", err)
	}

	if document == nil {
		exec, rollback, commit, err := s.documentRepository.BeginTX(ctx)
		if err != nil {
			return nil, util.LogError("[DocumentService] не удалось начать транзакцию", err)
		}
		defer rollback()

		document, err = s.documentRepository.GetByUUID(ctx, exec, documentUUID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("[DocumentService] %w: %s", ErrDocumentNotFound, documentUUID)
			}
			return nil, util.LogError("[DocumentService] ошибка чтения документа", err)
		}

		if err := commit(); err != nil {
			return nil, util.LogError("[DocumentService] не удалось закоммитить транзакцию", err)
		}

		if err := s.cacheRepository.SetDocument(ctx, document); err != nil {
			log.Printf("[DocumentService] ошибка кэширования документа: %v", err)
		}

		log.Printf("[DocumentService] документ %s взят из БД и закэширован", documentUUID)
	} else {
		log.Printf("[DocumentService] документ %s взят из кэша Redis", documentUUID)
	}

	var getURL string
	if document.StoragePath != "" {
		getURL, err = s.storageInterface.GeneratePresignedGetURL(ctx, document.StoragePath, s.ttl)
		if err != nil {
			return nil, util.LogError("[DocumentService] не удалось сгенерировать pre-signed GET URL", err)
		}
	}

	return &model.GetDocumentResult{
		Document: document,
		GetURL:   getURL,
	}, nil
}

// ListDocuments : список документов владельца со свежими URL
func (s *DocumentService) ListDocuments(ctx context.Context, ownerUUID string, cursor string, limit int) ([]requestresponse.DocumentResponse, string, error) {
	exec, rollback, commit, err := s.documentRepository.BeginTX(ctx)
	if err != nil {
		return nil, "", util.LogError("[DocumentService] не удалось начать транзакцию", err)
	}
	defer rollback()

	docs, nextCursor, err := s.documentRepository.ListByOwner(ctx, exec, ownerUUID, cursor, limit)
	if err != nil {
		return nil, "", util.LogError("[DocumentService] не удалось получить список документов", err)
	}

	if err := commit(); err != nil {
		return nil, "", util.LogError("[DocumentService] не удалось закоммитить транзакцию", err)
	}

	responses := make([]requestresponse.DocumentResponse, 0, len(docs))
	for i := range docs {
		doc := &docs[i]

		var getURL string
		if doc.StoragePath != "" {
			getURL, err = s.storageInterface.GeneratePresignedGetURL(ctx, doc.StoragePath, 15*time.Minute)
			if err != nil {
				log.Printf("[DocumentService] ошибка генерации pre-signed URL для документа %s: %v", doc.UUID, err)
				getURL = ""
			}
		}

		responses = append(responses, requestresponse.DocumentResponseFromModel(doc, getURL))
	}

	return responses, nextCursor, nil
}

// RenameDocument : переименование владельцем, версию не трогает
func (s *DocumentService) RenameDocument(ctx context.Context, documentUUID string, ownerUUID string, title string) error {
	exec, rollback, commit, err := s.documentRepository.BeginTX(ctx)
	if err != nil {
		return util.LogError("[DocumentService] не удалось начать транзакцию", err)
	}
	defer rollback()

	document, err := s.documentRepository.GetByUUID(ctx, exec, documentUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("[DocumentService] %w: %s", ErrDocumentNotFound, documentUUID)
		}
		return util.LogError("[DocumentService] ошибка чтения документа", err)
	}

	if document.OwnerUUID != ownerUUID {
		return fmt.Errorf("[DocumentService] только владелец может переименовать документ")
	}

	if err := s.documentRepository.UpdateTitle(ctx, exec, documentUUID, title); err != nil {
		return util.LogError("[DocumentService] не удалось переименовать документ", err)
	}

	if err := commit(); err != nil {
		return util.LogError("[DocumentService] не удалось закоммитить транзакцию", err)
	}

	if err := s.cacheRepository.DeleteDocument(ctx, documentUUID); err != nil {
		log.Printf("[DocumentService] ошибка инвалидации кэша: %v", err)
	}

	return nil
}

// DeleteDocument : мягкое удаление записи, файлы и кэш подчищаются следом
func (s *DocumentService) DeleteDocument(ctx context.Context, documentUUID string, ownerUUID string) error {
	exec, rollback, commit, err := s.documentRepository.BeginTX(ctx)
	if err != nil {
		return util.LogError("[DocumentService] не удалось начать транзакцию", err)
	}
	defer rollback()

	document, err := s.documentRepository.GetByUUID(ctx, exec, documentUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("[DocumentService] %w: %s", ErrDocumentNotFound, documentUUID)
		}
		return util.LogError("[DocumentService] ошибка чтения документа", err)
	}

	if document.OwnerUUID != ownerUUID {
		return fmt.Errorf("[DocumentService] только владелец может удалить документ")
	}

	if _, err := s.documentRepository.Delete(ctx, exec, documentUUID, ownerUUID); err != nil {
		return util.LogError("[DocumentService] ошибка удаления документа из БД", err)
	}

	if err := commit(); err != nil {
		return util.LogError("[DocumentService] не удалось закоммитить транзакцию", err)
	}

	if err := s.cacheRepository.DeleteDocument(ctx, documentUUID); err != nil {
		log.Printf("[DocumentService] ошибка удаления из кэша: %v", err)
	}

	if document.StoragePath != "" {
		if err := s.storageInterface.DeleteObject(ctx, document.StoragePath); err != nil {
			return util.LogError("[DocumentService] ошибка удаления файла из S3", err)
		}
	}
	if document.SourcePath != "" {
		if err := s.storageInterface.DeleteObject(ctx, document.SourcePath); err != nil {
			log.Printf("[DocumentService] ошибка удаления исходника из S3: %v", err)
		}
	}

	log.Printf("[DocumentService] документ %s удалён", documentUUID)

	return nil
}

// Reconvert : повторная конвертация из сохранённого исходника.
// Для уже отредактированного документа ведёт себя как сохранение
// (инкремент версии), не сбрасывает её.
func (s *DocumentService) Reconvert(ctx context.Context, documentUUID string) (*model.StoredFile, error) {
	exec, rollback, commit, err := s.documentRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[DocumentService] не удалось начать транзакцию", err)
	}
	defer rollback()

	document, err := s.documentRepository.GetByUUID(ctx, exec, documentUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("[DocumentService] %w: %s", ErrDocumentNotFound, documentUUID)
		}
		return nil, util.LogError("[DocumentService] ошибка чтения документа", err)
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[DocumentService] не удалось закоммитить транзакцию", err)
	}

	if document.SourcePath == "" {
		return nil, fmt.Errorf("[DocumentService] %w: у документа %s нет исходника", ErrNoFile, documentUUID)
	}

	sourceURL, err := s.storageInterface.GeneratePresignedGetURL(ctx, document.SourcePath, s.ttl)
	if err != nil {
		return nil, util.LogError("[DocumentService] не удалось сгенерировать URL исходника", err)
	}

	return s.conversionService.ConvertAndStore(ctx, documentUUID, sourceURL, document.Title)
}
