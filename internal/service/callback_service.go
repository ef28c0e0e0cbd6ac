package service

import (
	"pdf-editor-server/internal/model"
	"pdf-editor-server/internal/model/requestresponse"
	"pdf-editor-server/internal/ports"
	"pdf-editor-server/internal/util"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"
)

type CallbackService struct {
	documentRepository ports.DocumentRepository
	cacheRepository    ports.CacheRepository
	storageInterface   ports.S3Storage
	ttl                time.Duration
	errors             chan error
}

func NewCallbackService(
	documentRepository ports.DocumentRepository,
	cacheRepository ports.CacheRepository,
	storageInterface ports.S3Storage,
	ttl time.Duration,
) *CallbackService {
	return &CallbackService{
		documentRepository: documentRepository,
		cacheRepository:    cacheRepository,
		storageInterface:   storageInterface,
		ttl:                ttl,
		errors:             make(chan error, 16),
	}
}

// ProcessCallback : применяет callback о сохранении. Статусы кроме "надо
// сохранить" и "надо принудительно сохранить" — no-op; отсутствие URL или
// ключа — тоже no-op (подтверждение уже отправлено обработчиком).
func (s *CallbackService) ProcessCallback(ctx context.Context, payload *requestresponse.CallbackPayload) error {
	if payload.Status.RequiresSave() == false {
		log.Printf("[CallbackService] статус %s не требует действий", payload.Status)
		return nil
	}

	if payload.URL == "" || payload.Key == "" {
		log.Printf("[CallbackService] callback без url или key, пропускаем")
		return nil
	}

	documentUUID, version, err := model.ParseSessionKey(payload.Key)
	if err != nil {
		return util.LogError("[CallbackService] не удалось разобрать ключ сессии", err)
	}

	// скачиваем до транзакции: сетевые ожидания не должны держать блокировки
	data, err := util.DownloadBytes(ctx, payload.URL)
	if err != nil {
		return util.LogError("[CallbackService] не удалось скачать отредактированный файл", err)
	}

	exec, rollback, commit, err := s.documentRepository.BeginTX(ctx)
	if err != nil {
		return util.LogError("[CallbackService] не удалось начать транзакцию", err)
	}
	defer rollback()

	document, err := s.documentRepository.GetByUUID(ctx, exec, documentUUID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("[CallbackService] %w: %s", ErrDocumentNotFound, documentUUID)
		}
		return util.LogError("[CallbackService] ошибка чтения документа", err)
	}

	if document.HasFile() == false {
		return fmt.Errorf("[CallbackService] %w: %s", ErrNoFile, documentUUID)
	}

	// политика last-write-wins: устаревшую версию в ключе применяем, но логируем —
	// редактор остаётся источником истины для "это последняя правка"
	if version != document.Version {
		util.LogWarn("[CallbackService] версия в ключе (%d) не совпадает с текущей (%d) для документа %s, применяем",
			version, document.Version, document.UUID)
	}

	// путь в хранилище фиксирован, меняется только счётчик версии в записи
	if err := s.storageInterface.PutObject(ctx, document.StoragePath, data, util.GetContentType(document.StoragePath)); err != nil {
		return util.LogError("[CallbackService] не удалось записать файл в хранилище", err)
	}

	signedURL, err := s.storageInterface.GeneratePresignedGetURL(ctx, document.StoragePath, s.ttl)
	if err != nil {
		return util.LogError("[CallbackService] не удалось сгенерировать pre-signed GET URL", err)
	}

	newVersion, err := s.documentRepository.IncrementVersion(ctx, exec, document.UUID, document.StoragePath, signedURL)
	if err != nil {
		return util.LogError("[CallbackService] не удалось инкрементировать версию", err)
	}

	if err := commit(); err != nil {
		return util.LogError("[CallbackService] не удалось закоммитить транзакцию", err)
	}

	if err := s.cacheRepository.DeleteDocument(ctx, document.UUID); err != nil {
		log.Printf("[CallbackService] ошибка инвалидации кэша: %v", err)
	}

	log.Printf("[CallbackService] документ %s сохранён, версия %d -> %d (%d байт)",
		document.UUID, document.Version, newVersion, len(data))

	return nil
}

// ProcessAsync : обработка после раннего подтверждения. Ошибки не доходят до
// сервера документов — он уже получил "ок"; они уходят в канал Errors, который
// дренирует супервизор (алёртинг — операционная забота).
func (s *CallbackService) ProcessAsync(payload *requestresponse.CallbackPayload) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		if err := s.ProcessCallback(ctx, payload); err != nil {
			select {
			case s.errors <- err:
			default:
				log.Printf("[CallbackService] канал ошибок переполнен: %v", err)
			}
		}
	}()
}

// Errors : канал ошибок фоновой обработки
func (s *CallbackService) Errors() <-chan error {
	return s.errors
}

// MonitorErrors : супервизор фоновых сохранений, запускается из main
func (s *CallbackService) MonitorErrors(ctx context.Context) {
	for {
		select {
		case err := <-s.errors:
			log.Printf("[CallbackService/Monitor] фоновое сохранение завершилось ошибкой: %v", err)
		case <-ctx.Done():
			return
		}
	}
}
