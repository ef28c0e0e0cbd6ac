package service

import (
	"pdf-editor-server/internal/model"
	"pdf-editor-server/internal/ports"
	"pdf-editor-server/internal/util"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"
)

type ConversionService struct {
	documentRepository ports.DocumentRepository
	cacheRepository    ports.CacheRepository
	storageInterface   ports.S3Storage
	converter          ports.ConversionClient
	interval           time.Duration
	maxAttempts        int
	ttl                time.Duration
}

func NewConversionService(
	documentRepository ports.DocumentRepository,
	cacheRepository ports.CacheRepository,
	storageInterface ports.S3Storage,
	converter ports.ConversionClient,
	interval time.Duration,
	maxAttempts int,
	ttl time.Duration,
) *ConversionService {
	return &ConversionService{
		documentRepository: documentRepository,
		cacheRepository:    cacheRepository,
		storageInterface:   storageInterface,
		converter:          converter,
		interval:           interval,
		maxAttempts:        maxAttempts,
		ttl:                ttl,
	}
}

// ConvertAndStore : отправляет задачу конвертации и опрашивает её до завершения.
// Опрос — повторная отправка идентичного запроса с тем же ключом (контракт
// внешнего API), с фиксированным интервалом и жёстким бюджетом попыток.
// Ожидание кооперативное, других запросов не блокирует. Таймаут не отменяет
// задачу на удалённой стороне — best-effort, позднее повторение с тем же ключом
// может застать её завершённой.
func (s *ConversionService) ConvertAndStore(ctx context.Context, documentUUID string, sourceURL string, title string) (*model.StoredFile, error) {
	key, err := util.ConversionKey(documentUUID)
	if err != nil {
		return nil, err
	}

	job := &model.ConversionJob{
		Key:       key,
		SourceURL: sourceURL,
		Status:    model.JobSubmitted,
	}

	request := &model.ConversionRequest{
		Async:      true,
		Filetype:   "pdf",
		Outputtype: "docx",
		Key:        key,
		Title:      title,
		URL:        sourceURL,
	}

	log.Printf("[ConversionService] задача %s отправлена для документа %s", key, documentUUID)

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		response, err := s.converter.SubmitOrPoll(ctx, request)
		if err != nil {
			job.Status = model.JobFailed
			return nil, util.LogError("[ConversionService] ошибка запроса к сервису конвертации", err)
		}

		if response.Error != 0 {
			job.Status = model.JobFailed
			convErr := &ConversionError{Code: response.Error}
			log.Printf("[ConversionService] задача %s: %v", key, convErr)
			return nil, convErr
		}

		if response.EndConvert {
			job.Status = model.JobSucceeded
			job.ResultURL = response.FileURL
			log.Printf("[ConversionService] задача %s завершена за %d попыток", key, attempt)
			return s.store(ctx, documentUUID, job)
		}

		job.Status = model.JobPolling
		if attempt == s.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(s.interval):
		}
	}

	job.Status = model.JobTimedOut
	log.Printf("[ConversionService] задача %s: бюджет из %d попыток исчерпан", key, s.maxAttempts)
	return nil, ErrConversionTimeout
}

// store : скачивает результат и материализует файл документа.
// Шаги не транзакционны между собой: падение после записи в хранилище, но до
// обновления записи, лечится повторной конвертацией — путь фиксирован,
// операция идемпотентна на уровне хранилища.
func (s *ConversionService) store(ctx context.Context, documentUUID string, job *model.ConversionJob) (*model.StoredFile, error) {
	data, err := util.DownloadBytes(ctx, job.ResultURL)
	if err != nil {
		return nil, util.LogError("[ConversionService] не удалось скачать результат конвертации", err)
	}

	exec, rollback, commit, err := s.documentRepository.BeginTX(ctx)
	if err != nil {
		return nil, util.LogError("[ConversionService] не удалось начать транзакцию", err)
	}
	defer rollback()

	document, err := s.documentRepository.GetByUUID(ctx, exec, documentUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("[ConversionService] %w: %s", ErrDocumentNotFound, documentUUID)
		}
		return nil, util.LogError("[ConversionService] ошибка чтения документа", err)
	}

	storagePath := document.StoragePath
	if storagePath == "" {
		storagePath = fmt.Sprintf("users/%s/documents/%s/latest.docx", document.OwnerUUID, document.UUID)
	}

	if err := s.storageInterface.PutObject(ctx, storagePath, data, util.GetContentType(storagePath)); err != nil {
		return nil, util.LogError("[ConversionService] не удалось записать файл в хранилище", err)
	}

	signedURL, err := s.storageInterface.GeneratePresignedGetURL(ctx, storagePath, s.ttl)
	if err != nil {
		return nil, util.LogError("[ConversionService] не удалось сгенерировать pre-signed GET URL", err)
	}

	version, err := s.documentRepository.ApplyConversion(ctx, exec, documentUUID, storagePath, signedURL, job.Key)
	if err != nil {
		return nil, util.LogError("[ConversionService] не удалось обновить запись о документе", err)
	}

	if err := commit(); err != nil {
		return nil, util.LogError("[ConversionService] не удалось закоммитить транзакцию", err)
	}

	if err := s.cacheRepository.DeleteDocument(ctx, documentUUID); err != nil {
		log.Printf("[ConversionService] ошибка инвалидации кэша: %v", err)
	}

	log.Printf("[ConversionService] документ %s материализован, версия %d", documentUUID, version)

	return &model.StoredFile{
		StoragePath: storagePath,
		SignedURL:   signedURL,
		Version:     version,
	}, nil
}
