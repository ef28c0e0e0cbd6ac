package requestresponse

import (
	"pdf-editor-server/internal/model"
	"time"
)

// CreateBlankDocumentRequest : тело запроса создания пустого документа
type CreateBlankDocumentRequest struct {
	Title string `json:"title" example:"Новый документ"`
}

// CreateDocumentResponse : ответ при создании документа
type CreateDocumentResponse struct {
	Data DocumentResponse `json:"data"`
}

// DocumentResponse : описывает документ для JSON-ответа
type DocumentResponse struct {
	UUID      string `json:"id" example:"qwdj1q4o34u34ih759ou1"`
	Title     string `json:"title" example:"report.pdf"`
	Version   int    `json:"version" example:"3"`
	GetURL    string `json:"get_url,omitempty"`
	HasFile   bool   `json:"has_file" example:"true"`
	CreatedAt string `json:"created" example:"2025-08-23T12:34:56Z"`
	UpdatedAt string `json:"updated" example:"2025-08-23T12:40:00Z"`
}

// DocumentResponseFromModel : конвертирует model.Document в DocumentResponse
func DocumentResponseFromModel(doc *model.Document, getURL string) DocumentResponse {
	return DocumentResponse{
		UUID:      doc.UUID,
		Title:     doc.Title,
		Version:   doc.Version,
		GetURL:    getURL,
		HasFile:   doc.HasFile(),
		CreatedAt: doc.CreatedAt.Format(time.RFC3339),
		UpdatedAt: doc.UpdatedAt.Format(time.RFC3339),
	}
}

// RenameDocumentRequest : тело запроса переименования (не трогает version)
type RenameDocumentRequest struct {
	Title string `json:"title" validate:"required"`
}

// ListDocumentsResponse : ответ API со списком документов
type ListDocumentsResponse struct {
	Data struct {
		Docs []DocumentResponse `json:"docs"`
	} `json:"data"`
	NextCursor string `json:"next_cursor,omitempty" example:"qwdj1q4o34u34ih759ou1"`
	Count      int    `json:"count" example:"10"`
}

// ErrorResponse : общий объект ошибки
type ErrorResponse struct {
	Error   string `json:"error" example:"Not Found"`
	Message string `json:"message" example:"описание ошибки"`
	Code    int    `json:"code" example:"404"`
}

// SuccessResponse : стандартный ответ успешного выполнения операции
type SuccessResponse struct {
	Message string `json:"message" example:"Операция выполнена успешно"`
}
