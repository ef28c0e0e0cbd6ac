package handler

import (
	"pdf-editor-server/config"
	"pdf-editor-server/internal/model"
	requestresponse "pdf-editor-server/internal/model/requestresponse"
	"pdf-editor-server/internal/ports"
	"pdf-editor-server/internal/security"
	"pdf-editor-server/internal/util"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pdf-editor-server/internal/service"
)

type EditorHandler struct {
	sessionService  ports.SessionService
	callbackService ports.CallbackService
	documentService ports.DocumentService
	docServerJWT    *security.DocServerJWT
	syncSave        bool
}

func NewEditorHandler(
	sessionService ports.SessionService,
	callbackService ports.CallbackService,
	documentService ports.DocumentService,
	docServerJWT *security.DocServerJWT,
	cfg *config.WebhookConfig,
) *EditorHandler {
	return &EditorHandler{
		sessionService:  sessionService,
		callbackService: callbackService,
		documentService: documentService,
		docServerJWT:    docServerJWT,
		syncSave:        cfg.SyncSave,
	}
}

// GetEditorConfig godoc
// @Summary Конфигурация сессии редактора
// @Description Возвращает конфигурацию для открытия документа во внешнем редакторе.
// Ключ сессии детерминирован по (id, version): без промежуточного сохранения два
// запроса дают одинаковый ключ.
// @Tags Editor
// @Produce json
// @Param doc_id path string true "UUID документа"
// @Param X-User-ID header string false "Идентификатор пользователя"
// @Param X-User-Name header string false "Отображаемое имя пользователя"
// @Success 200 {object} requestresponse.EditorConfig "Конфигурация редактора"
// @Failure 404 {object} requestresponse.ErrorResponse "Документ не найден"
// @Failure 409 {object} requestresponse.ErrorResponse "У документа нет файла"
// @Router /api/docs/{doc_id}/config [get]
func (h *EditorHandler) GetEditorConfig(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	documentUUID := chi.URLParam(r, "doc_id")
	user := userFromRequest(r)

	editorConfig, err := h.sessionService.BuildConfig(ctx, documentUUID, user)
	if err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, service.ErrDocumentNotFound):
			util.HandleError(w, "документ не найден", http.StatusNotFound)
		case errors.Is(err, service.ErrNoFile):
			util.HandleError(w, "у документа ещё нет файла", http.StatusConflict)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(editorConfig)
}

// Callback godoc
// @Summary Webhook сервера документов
// @Description Принимает уведомление о сохранении. Подтверждение {"error":0}
// отправляется до выполнения persistence-работы (если не включён syncSave):
// редактор трактует медленный или ненулевой ответ как ошибку сохранения.
// @Tags Editor
// @Accept json
// @Produce json
// @Param Authorization header string false "Bearer JWT (при настроенном секрете)"
// @Success 200 {object} requestresponse.CallbackAck "Подтверждение"
// @Failure 401 {object} requestresponse.CallbackAck "Подпись не прошла проверку"
// @Router /editor/callback [post]
func (h *EditorHandler) Callback(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeAck(w, http.StatusBadRequest, 1)
		return
	}

	var payload requestresponse.CallbackPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("[EditorHandler] некорректное тело callback: %v", err)
		writeAck(w, http.StatusBadRequest, 1)
		return
	}

	if err := h.docServerJWT.VerifyRequest(r, payload.Token); err != nil {
		log.Printf("[EditorHandler] callback отклонён: %v", err)
		writeAck(w, http.StatusUnauthorized, 1)
		return
	}

	if h.syncSave {
		// синхронный режим: сохраняем до подтверждения, редактор увидит ошибку
		// и повторит callback
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Minute)
		defer cancel()

		if err := h.callbackService.ProcessCallback(ctx, &payload); err != nil {
			log.Printf("[EditorHandler] ошибка синхронного сохранения: %v", err)
			writeAck(w, http.StatusInternalServerError, 1)
			return
		}
		writeAck(w, http.StatusOK, 0)
		return
	}

	// ранний ack, persistence уходит в фон; ошибки фона дренирует супервизор
	writeAck(w, http.StatusOK, 0)
	h.callbackService.ProcessAsync(&payload)
}

// ConvertDocument godoc
// @Summary Повторная конвертация документа
// @Description Запускает конвертацию из сохранённого исходника и ждёт завершения
// (опрос с фиксированным интервалом, жёсткий бюджет попыток).
// @Tags Editor
// @Produce json
// @Param doc_id path string true "UUID документа"
// @Success 200 {object} requestresponse.ConvertDocumentResponse "Результат конвертации"
// @Failure 404 {object} requestresponse.ErrorResponse "Документ не найден"
// @Failure 502 {object} requestresponse.ErrorResponse "Сервис конвертации вернул ошибку"
// @Failure 504 {object} requestresponse.ErrorResponse "Бюджет ожидания исчерпан"
// @Router /api/docs/{doc_id}/convert [post]
func (h *EditorHandler) ConvertDocument(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	documentUUID := chi.URLParam(r, "doc_id")

	stored, err := h.documentService.Reconvert(ctx, documentUUID)
	if err != nil {
		log.Println(err)
		var convErr *service.ConversionError
		switch {
		case errors.Is(err, service.ErrDocumentNotFound):
			util.HandleError(w, "документ не найден", http.StatusNotFound)
		case errors.Is(err, service.ErrNoFile):
			util.HandleError(w, "у документа нет исходника для конвертации", http.StatusConflict)
		case errors.Is(err, service.ErrConversionTimeout):
			util.HandleError(w, "превышено время ожидания конвертации", http.StatusGatewayTimeout)
		case errors.As(err, &convErr):
			util.HandleError(w, convErr.Error(), http.StatusBadGateway)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(requestresponse.ConvertDocumentResponse{Data: *stored})
}

// writeAck : фиксированный маркер подтверждения для сервера документов
func writeAck(w http.ResponseWriter, statusCode int, errCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(requestresponse.CallbackAck{Error: errCode})
}

// userFromRequest : отображаемая identity пользователя.
// Аутентификация — внешний слой, сюда приходят уже проверенные заголовки.
func userFromRequest(r *http.Request) model.EditorUser {
	user := model.EditorUser{
		UUID: r.Header.Get("X-User-ID"),
		Name: r.Header.Get("X-User-Name"),
	}
	if user.UUID == "" {
		user.UUID = "anonymous"
	}
	if user.Name == "" {
		user.Name = "Гость"
	}
	return user
}
