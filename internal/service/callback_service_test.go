package service_test

import (
	"pdf-editor-server/internal/model"
	"pdf-editor-server/internal/model/requestresponse"
	"pdf-editor-server/internal/service"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEditedFileServer(t *testing.T, payload []byte) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write(payload)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestProcessCallback_SaveRoundTrip(t *testing.T) {
	edited := []byte("PK edited document bytes")
	fileServer := newEditedFileServer(t, edited)

	repo := &fakeDocumentRepo{document: model.Document{
		UUID:        "doc-1",
		OwnerUUID:   "owner-1",
		Title:       "Договор.docx",
		StoragePath: "users/owner-1/documents/doc-1/latest.docx",
		Version:     3,
	}}
	storage := newFakeStorage()

	svc := service.NewCallbackService(repo, fakeCache{}, storage, time.Minute)

	err := svc.ProcessCallback(context.Background(), &requestresponse.CallbackPayload{
		Key:    "doc-1:v3",
		Status: model.StatusMustSave,
		URL:    fileServer.URL,
	})
	require.NoError(t, err)

	document := repo.snapshot()
	assert.Equal(t, 4, document.Version)
	assert.Equal(t, "users/owner-1/documents/doc-1/latest.docx", document.StoragePath)
	assert.Equal(t, edited, storage.object(document.StoragePath))
}

func TestProcessCallback_StaleKeyStillApplies(t *testing.T) {
	// политика last-write-wins: устаревшая версия в ключе не отклоняется
	fileServer := newEditedFileServer(t, []byte("late save"))

	repo := &fakeDocumentRepo{document: model.Document{
		UUID:        "doc-2",
		OwnerUUID:   "owner-1",
		StoragePath: "users/owner-1/documents/doc-2/latest.docx",
		Version:     5,
	}}
	svc := service.NewCallbackService(repo, fakeCache{}, newFakeStorage(), time.Minute)

	err := svc.ProcessCallback(context.Background(), &requestresponse.CallbackPayload{
		Key:    "doc-2:v3",
		Status: model.StatusMustForceSave,
		URL:    fileServer.URL,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, repo.snapshot().Version)
}

func TestProcessCallback_IgnoredStatusesLeaveStateUnchanged(t *testing.T) {
	statuses := []model.CallbackStatus{
		model.StatusEditing,
		model.StatusSaveError,
		model.StatusClosedNoSave,
		model.StatusForceSaveError,
	}

	for _, status := range statuses {
		repo := &fakeDocumentRepo{document: model.Document{
			UUID:        "doc-3",
			OwnerUUID:   "owner-1",
			StoragePath: "users/owner-1/documents/doc-3/latest.docx",
			Version:     2,
		}}
		storage := newFakeStorage()
		svc := service.NewCallbackService(repo, fakeCache{}, storage, time.Minute)

		err := svc.ProcessCallback(context.Background(), &requestresponse.CallbackPayload{
			Key:    "doc-3:v2",
			Status: status,
			URL:    "http://127.0.0.1:1/unreachable",
		})
		require.NoError(t, err, "статус %s", status)
		assert.Equal(t, 2, repo.snapshot().Version, "статус %s", status)
		assert.Nil(t, storage.object("users/owner-1/documents/doc-3/latest.docx"), "статус %s", status)
	}
}

func TestProcessCallback_MissingURLOrKeyIsNoop(t *testing.T) {
	repo := &fakeDocumentRepo{document: model.Document{
		UUID:        "doc-4",
		OwnerUUID:   "owner-1",
		StoragePath: "users/owner-1/documents/doc-4/latest.docx",
		Version:     1,
	}}
	svc := service.NewCallbackService(repo, fakeCache{}, newFakeStorage(), time.Minute)

	err := svc.ProcessCallback(context.Background(), &requestresponse.CallbackPayload{
		Key:    "doc-4:v1",
		Status: model.StatusMustSave,
	})
	require.NoError(t, err)

	err = svc.ProcessCallback(context.Background(), &requestresponse.CallbackPayload{
		Status: model.StatusMustSave,
		URL:    "http://127.0.0.1:1/unreachable",
	})
	require.NoError(t, err)

	assert.Equal(t, 1, repo.snapshot().Version)
}

func TestProcessCallback_MalformedKey(t *testing.T) {
	svc := service.NewCallbackService(&fakeDocumentRepo{}, fakeCache{}, newFakeStorage(), time.Minute)

	err := svc.ProcessCallback(context.Background(), &requestresponse.CallbackPayload{
		Key:    "без-суффикса-версии",
		Status: model.StatusMustSave,
		URL:    "http://127.0.0.1:1/unreachable",
	})
	require.Error(t, err)
}

func TestProcessCallback_ConcurrentSavesKeepVersionMonotonic(t *testing.T) {
	fileServer := newEditedFileServer(t, []byte("concurrent save"))

	repo := &fakeDocumentRepo{document: model.Document{
		UUID:        "doc-5",
		OwnerUUID:   "owner-1",
		StoragePath: "users/owner-1/documents/doc-5/latest.docx",
		Version:     3,
	}}
	svc := service.NewCallbackService(repo, fakeCache{}, newFakeStorage(), time.Minute)

	const callbacks = 10
	var wg sync.WaitGroup
	for i := 0; i < callbacks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := svc.ProcessCallback(context.Background(), &requestresponse.CallbackPayload{
				Key:    "doc-5:v3",
				Status: model.StatusMustSave,
				URL:    fileServer.URL,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	// каждый callback ровно один инкремент, потерь и дублей версии нет
	assert.Equal(t, 3+callbacks, repo.snapshot().Version)
}

func TestProcessAsync_DeliversErrorToChannel(t *testing.T) {
	svc := service.NewCallbackService(&fakeDocumentRepo{}, fakeCache{}, newFakeStorage(), time.Minute)

	svc.ProcessAsync(&requestresponse.CallbackPayload{
		Key:    "сломанный-ключ",
		Status: model.StatusMustSave,
		URL:    "http://127.0.0.1:1/unreachable",
	})

	select {
	case err := <-svc.Errors():
		require.Error(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("ошибка фоновой обработки не пришла в канал")
	}
}
