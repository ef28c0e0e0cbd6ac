package model

import "time"

type Document struct {
	UUID          string     `db:"uuid" json:"uuid"`
	OwnerUUID     string     `db:"owner_uuid" json:"owner_uuid"`
	Title         string     `db:"title" json:"title"`
	StoragePath   string     `db:"storage_path" json:"storage_path"`
	SourcePath    string     `db:"source_path" json:"source_path,omitempty"`
	SignedURL     string     `db:"signed_url" json:"signed_url,omitempty"`
	Version       int        `db:"version" json:"version"`
	ConversionRef string     `db:"conversion_ref" json:"conversion_ref,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
	DeletedAt     *time.Time `db:"deleted_at" json:"deleted_at,omitempty"`
}

// HasFile : у документа уже есть редактируемый файл
// (version стартует с 1 только после первой успешной материализации файла)
func (d *Document) HasFile() bool {
	return d.StoragePath != ""
}

// EditorUser : отображаемая личность пользователя для редактора.
// Аутентификация — забота внешнего слоя, сюда приходит уже проверенная identity.
type EditorUser struct {
	UUID string `json:"id"`
	Name string `json:"name"`
}

type GetDocumentResult struct {
	Document *Document
	GetURL   string // pre-signed URL на актуальный файл
}

// StoredFile : результат успешной конвертации или сохранения
type StoredFile struct {
	StoragePath string `json:"storage_path"`
	SignedURL   string `json:"signed_url"`
	Version     int    `json:"version"`
}
