package model

import (
	"fmt"
	"strconv"
	"strings"
)

// CallbackStatus : статус из callback сервера документов.
// Значения фиксированы контрактом внешнего редактора, менять нельзя.
type CallbackStatus int

const (
	StatusUnknown        CallbackStatus = 0
	StatusEditing        CallbackStatus = 1
	StatusMustSave       CallbackStatus = 2
	StatusSaveError      CallbackStatus = 3
	StatusClosedNoSave   CallbackStatus = 4
	StatusMustForceSave  CallbackStatus = 6
	StatusForceSaveError CallbackStatus = 7
)

// RequiresSave : действия требуют только статусы "надо сохранить" и "надо
// принудительно сохранить", остальные подтверждаются и игнорируются
func (s CallbackStatus) RequiresSave() bool {
	return s == StatusMustSave || s == StatusMustForceSave
}

func (s CallbackStatus) String() string {
	switch s {
	case StatusEditing:
		return "editing"
	case StatusMustSave:
		return "must_save"
	case StatusSaveError:
		return "save_error"
	case StatusClosedNoSave:
		return "closed_no_save"
	case StatusMustForceSave:
		return "must_force_save"
	case StatusForceSaveError:
		return "force_save_error"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// SessionKey : ключ сессии редактора — детерминированная функция (uuid, version).
// Один и тот же документ без промежуточных сохранений обязан давать один и тот же
// ключ, иначе редактор считает две вкладки разными документами и ломает свои локи.
func SessionKey(documentUUID string, version int) string {
	return fmt.Sprintf("%s:v%d", documentUUID, version)
}

// ParseSessionKey : разбирает ключ сессии обратно в (uuid, version)
func ParseSessionKey(key string) (string, int, error) {
	idx := strings.LastIndex(key, ":v")
	if idx <= 0 {
		return "", 0, fmt.Errorf("некорректный ключ сессии: %q", key)
	}

	version, err := strconv.Atoi(key[idx+2:])
	if err != nil || version < 1 {
		return "", 0, fmt.Errorf("некорректная версия в ключе сессии: %q", key)
	}

	return key[:idx], version, nil
}

// JobStatus : состояние задачи конвертации (живёт только в логах)
type JobStatus string

const (
	JobSubmitted JobStatus = "Submitted"
	JobPolling   JobStatus = "Polling"
	JobSucceeded JobStatus = "Succeeded"
	JobFailed    JobStatus = "Failed"
	JobTimedOut  JobStatus = "TimedOut"
)

// ConversionJob : одна попытка конвертации. Ключ — на попытку, не на версию:
// повторная отправка того же ключа опрашивает уже идущую задачу, а не создаёт новую.
type ConversionJob struct {
	Key       string
	SourceURL string
	Status    JobStatus
	ResultURL string
}

// ConversionRequest : тело запроса к сервису конвертации сервера документов
type ConversionRequest struct {
	Async      bool   `json:"async"`
	Filetype   string `json:"filetype"`
	Key        string `json:"key"`
	Outputtype string `json:"outputtype"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Token      string `json:"token,omitempty"`
}

// ConversionResponse : ответ сервиса конвертации.
// Error != 0 — числовой код ошибки, EndConvert — задача завершена.
type ConversionResponse struct {
	EndConvert bool   `json:"endConvert"`
	FileURL    string `json:"fileUrl"`
	Percent    int    `json:"percent"`
	Error      int    `json:"error"`
}
