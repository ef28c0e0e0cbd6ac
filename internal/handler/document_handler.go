package handler

import (
	requestresponse "pdf-editor-server/internal/model/requestresponse"
	"pdf-editor-server/internal/ports"
	"pdf-editor-server/internal/util"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pdf-editor-server/internal/service"
)

type DocumentHandler struct {
	ports.DocumentService
}

func NewDocumentHandler(documentService ports.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService}
}

// CreateDocument godoc
// @Summary Загрузка нового PDF-документа
// @Description Загружает PDF, валидирует его, сохраняет исходник и конвертирует
// в редактируемый формат через внешний сервер документов.
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "PDF-файл"
// @Param X-User-ID header string false "Идентификатор пользователя"
// @Success 201 {object} requestresponse.CreateDocumentResponse "Созданный документ"
// @Failure 400 {object} requestresponse.ErrorResponse "Файл не является корректным PDF"
// @Failure 502 {object} requestresponse.ErrorResponse "Ошибка конвертации"
// @Failure 504 {object} requestresponse.ErrorResponse "Бюджет ожидания конвертации исчерпан"
// @Router /api/docs [post]
func (h *DocumentHandler) CreateDocument(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Minute)
	defer cancel()

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		util.HandleError(w, "файл не найден в запросе", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if strings.ToLower(strings.TrimSpace(header.Filename)) == "" ||
		!strings.HasSuffix(strings.ToLower(header.Filename), ".pdf") {
		util.HandleError(w, "ожидается файл с расширением .pdf", http.StatusBadRequest)
		return
	}

	fileBytes, err := io.ReadAll(file)
	if err != nil {
		util.HandleError(w, "ошибка чтения файла", http.StatusInternalServerError)
		return
	}

	user := userFromRequest(r)

	document, err := h.DocumentService.CreateFromPDF(ctx, user.UUID, header.Filename, fileBytes)
	if err != nil {
		log.Println(err)
		var convErr *service.ConversionError
		switch {
		case strings.Contains(err.Error(), "не является корректным PDF"):
			util.HandleError(w, "файл не является корректным PDF", http.StatusBadRequest)
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
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(requestresponse.CreateDocumentResponse{
		Data: requestresponse.DocumentResponseFromModel(document, document.SignedURL),
	})
}

// CreateBlankDocument godoc
// @Summary Создание пустого документа
// @Description Создаёт пустой документ: файл материализуется сразу, версия = 1.
// @Tags Documents
// @Accept json
// @Produce json
// @Param request body requestresponse.CreateBlankDocumentRequest true "Название"
// @Param X-User-ID header string false "Идентификатор пользователя"
// @Success 201 {object} requestresponse.CreateDocumentResponse "Созданный документ"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/docs/blank [post]
func (h *DocumentHandler) CreateBlankDocument(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var request requestresponse.CreateBlankDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	user := userFromRequest(r)

	document, err := h.DocumentService.CreateBlank(ctx, user.UUID, request.Title)
	if err != nil {
		log.Println(err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(requestresponse.CreateDocumentResponse{
		Data: requestresponse.DocumentResponseFromModel(document, document.SignedURL),
	})
}

// GetDocument godoc
// @Summary Получение документа
// @Tags Documents
// @Produce json
// @Param doc_id path string true "UUID документа"
// @Success 200 {object} requestresponse.CreateDocumentResponse "Документ"
// @Failure 404 {object} requestresponse.ErrorResponse "Документ не найден"
// @Router /api/docs/{doc_id} [get]
func (h *DocumentHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	documentUUID := chi.URLParam(r, "doc_id")

	result, err := h.DocumentService.GetDocumentByUUID(ctx, documentUUID)
	if err != nil {
		log.Println(err)
		if errors.Is(err, service.ErrDocumentNotFound) {
			util.HandleError(w, "документ не найден", http.StatusNotFound)
		} else {
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(requestresponse.CreateDocumentResponse{
		Data: requestresponse.DocumentResponseFromModel(result.Document, result.GetURL),
	})
}

// ListDocuments godoc
// @Summary Список документов владельца
// @Tags Documents
// @Produce json
// @Param limit query int false "Размер страницы" default(20)
// @Param cursor query string false "Курсор (uuid последнего документа)"
// @Param X-User-ID header string false "Идентификатор пользователя"
// @Success 200 {object} requestresponse.ListDocumentsResponse "Список документов"
// @Router /api/docs [get]
func (h *DocumentHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user := userFromRequest(r)

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	cursor := r.URL.Query().Get("cursor")

	docs, nextCursor, err := h.DocumentService.ListDocuments(ctx, user.UUID, cursor, limit)
	if err != nil {
		log.Println(err)
		util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		return
	}

	var response requestresponse.ListDocumentsResponse
	response.Data.Docs = docs
	response.NextCursor = nextCursor
	response.Count = len(docs)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// RenameDocument godoc
// @Summary Переименование документа
// @Description Меняет только название, версия и ключ сессии не меняются.
// @Tags Documents
// @Accept json
// @Produce json
// @Param doc_id path string true "UUID документа"
// @Param request body requestresponse.RenameDocumentRequest true "Новое название"
// @Param X-User-ID header string false "Идентификатор пользователя"
// @Success 200 {object} requestresponse.SuccessResponse "Успех"
// @Failure 404 {object} requestresponse.ErrorResponse "Документ не найден"
// @Router /api/docs/{doc_id} [put]
func (h *DocumentHandler) RenameDocument(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	documentUUID := chi.URLParam(r, "doc_id")

	var request requestresponse.RenameDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil || request.Title == "" {
		util.HandleError(w, "неверный формат запроса", http.StatusBadRequest)
		return
	}

	user := userFromRequest(r)

	if err := h.DocumentService.RenameDocument(ctx, documentUUID, user.UUID, request.Title); err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, service.ErrDocumentNotFound):
			util.HandleError(w, "документ не найден", http.StatusNotFound)
		case strings.Contains(err.Error(), "только владелец"):
			util.HandleError(w, "доступ запрещён", http.StatusForbidden)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(requestresponse.SuccessResponse{Message: "документ переименован"})
}

// DeleteDocument godoc
// @Summary Удаление документа
// @Tags Documents
// @Produce json
// @Param doc_id path string true "UUID документа"
// @Param X-User-ID header string false "Идентификатор пользователя"
// @Success 200 {object} requestresponse.SuccessResponse "Успех"
// @Failure 404 {object} requestresponse.ErrorResponse "Документ не найден"
// @Router /api/docs/{doc_id} [delete]
func (h *DocumentHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	documentUUID := chi.URLParam(r, "doc_id")
	user := userFromRequest(r)

	if err := h.DocumentService.DeleteDocument(ctx, documentUUID, user.UUID); err != nil {
		log.Println(err)
		switch {
		case errors.Is(err, service.ErrDocumentNotFound):
			util.HandleError(w, "документ не найден", http.StatusNotFound)
		case strings.Contains(err.Error(), "только владелец"):
			util.HandleError(w, "доступ запрещён", http.StatusForbidden)
		default:
			util.HandleError(w, "внутренняя ошибка сервера", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(requestresponse.SuccessResponse{Message: "документ удалён"})
}
