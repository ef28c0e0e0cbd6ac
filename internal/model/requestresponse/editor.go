package requestresponse

import "pdf-editor-server/internal/model"

// CallbackPayload : тело webhook от сервера документов.
// Key имеет формат "{uuid}:v{version}", URL живёт недолго и выдаётся редактором.
type CallbackPayload struct {
	Key    string               `json:"key"`
	Status model.CallbackStatus `json:"status"`
	URL    string               `json:"url,omitempty"`
	Users  []string             `json:"users,omitempty"`
	Token  string               `json:"token,omitempty"`
}

// CallbackAck : подтверждение для сервера документов.
// 0 — принято, любое другое значение редактор трактует как ошибку сохранения.
type CallbackAck struct {
	Error int `json:"error"`
}

// EditorConfig : конфигурация, которую клиент передаёт внешнему редактору
type EditorConfig struct {
	DocumentType string            `json:"documentType" example:"word"`
	Document     EditorDocument    `json:"document"`
	EditorConfig EditorInnerConfig `json:"editorConfig"`
	Token        string            `json:"token,omitempty"`
}

type EditorDocument struct {
	FileType    string            `json:"fileType" example:"docx"`
	Key         string            `json:"key" example:"qwdj1q4o34u34ih759ou1:v3"`
	Title       string            `json:"title" example:"report.docx"`
	URL         string            `json:"url"`
	Permissions EditorPermissions `json:"permissions"`
}

type EditorPermissions struct {
	Edit      bool `json:"edit"`
	Download  bool `json:"download"`
	Print     bool `json:"print"`
	Review    bool `json:"review"`
	Comment   bool `json:"comment"`
	FillForms bool `json:"fillForms"`
	Copy      bool `json:"copy"`
}

type EditorInnerConfig struct {
	Mode        string           `json:"mode" example:"edit"`
	Lang        string           `json:"lang" example:"ru"`
	CallbackURL string           `json:"callbackUrl"`
	User        model.EditorUser `json:"user"`
}

// ConvertDocumentResponse : ответ на запрос конвертации
type ConvertDocumentResponse struct {
	Data model.StoredFile `json:"data"`
}
