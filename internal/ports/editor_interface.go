package ports

import (
	"pdf-editor-server/internal/model"
	"pdf-editor-server/internal/model/requestresponse"
	"context"
)

// SessionService : построитель конфигурации сессии редактора
type SessionService interface {
	BuildConfig(ctx context.Context, documentUUID string, user model.EditorUser) (*requestresponse.EditorConfig, error)
}

// CallbackService : обработка callback о сохранении.
// ProcessCallback — синхронная обработка, ProcessAsync — после раннего подтверждения;
// ошибки фоновой обработки попадают в канал Errors.
type CallbackService interface {
	ProcessCallback(ctx context.Context, payload *requestresponse.CallbackPayload) error
	ProcessAsync(payload *requestresponse.CallbackPayload)
	Errors() <-chan error
}

// ConversionService : асинхронная конвертация с опросом до завершения
type ConversionService interface {
	ConvertAndStore(ctx context.Context, documentUUID string, sourceURL string, title string) (*model.StoredFile, error)
}

// ConversionClient : одна итерация "отправить или опросить" к сервису конвертации.
// Повторная отправка идентичного запроса возвращает статус уже идущей задачи —
// таков контракт внешнего API, поэтому отдельного status-запроса нет.
type ConversionClient interface {
	SubmitOrPoll(ctx context.Context, request *model.ConversionRequest) (*model.ConversionResponse, error)
}
