package service_test

import (
	"pdf-editor-server/internal/model"
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/mock"
)

type MockDocumentRepository struct{ mock.Mock }

func (m *MockDocumentRepository) Create(ctx context.Context, exec sqlx.ExtContext, doc *model.Document) error {
	return m.Called(ctx, exec, doc).Error(0)
}

func (m *MockDocumentRepository) GetByUUID(ctx context.Context, exec sqlx.ExtContext, documentUUID string) (*model.Document, error) {
	args := m.Called(ctx, exec, documentUUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentRepository) ListByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string, cursor string, limit int) ([]model.Document, string, error) {
	args := m.Called(ctx, exec, ownerUUID, cursor, limit)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]model.Document), args.String(1), args.Error(2)
}

func (m *MockDocumentRepository) UpdateTitle(ctx context.Context, exec sqlx.ExtContext, documentUUID string, title string) error {
	return m.Called(ctx, exec, documentUUID, title).Error(0)
}

func (m *MockDocumentRepository) RefreshSignedURL(ctx context.Context, exec sqlx.ExtContext, documentUUID string, signedURL string) error {
	return m.Called(ctx, exec, documentUUID, signedURL).Error(0)
}

func (m *MockDocumentRepository) IncrementVersion(ctx context.Context, exec sqlx.ExtContext, documentUUID string, storagePath string, signedURL string) (int, error) {
	args := m.Called(ctx, exec, documentUUID, storagePath, signedURL)
	return args.Int(0), args.Error(1)
}

func (m *MockDocumentRepository) ApplyConversion(ctx context.Context, exec sqlx.ExtContext, documentUUID string, storagePath string, signedURL string, conversionRef string) (int, error) {
	args := m.Called(ctx, exec, documentUUID, storagePath, signedURL, conversionRef)
	return args.Int(0), args.Error(1)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, exec sqlx.ExtContext, documentUUID string, ownerUUID string) (string, error) {
	args := m.Called(ctx, exec, documentUUID, ownerUUID)
	return args.String(0), args.Error(1)
}

func (m *MockDocumentRepository) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	args := m.Called(ctx)
	return args.Get(0).(sqlx.ExtContext), args.Get(1).(func() error), args.Get(2).(func() error), args.Error(3)
}

type MockCacheRepository struct{ mock.Mock }

func (m *MockCacheRepository) SetDocument(ctx context.Context, doc *model.Document) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockCacheRepository) GetDocument(ctx context.Context, uuid string) (*model.Document, error) {
	args := m.Called(ctx, uuid)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockCacheRepository) DeleteDocument(ctx context.Context, uuid string) error {
	args := m.Called(ctx, uuid)
	return args.Error(0)
}

type MockS3Storage struct{ mock.Mock }

func (m *MockS3Storage) GeneratePresignedGetURL(ctx context.Context, key string, expire time.Duration) (string, error) {
	args := m.Called(ctx, key, expire)
	return args.String(0), args.Error(1)
}

func (m *MockS3Storage) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	return m.Called(ctx, key, data, contentType).Error(0)
}

func (m *MockS3Storage) GetObject(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockS3Storage) DeleteObject(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type fakeTx struct{}

func (f *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}
func (f *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}
func (f *fakeTx) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	return nil, nil
}
func (f *fakeTx) QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row {
	return nil
}
func (f *fakeTx) DriverName() string {
	return "postgres"
}
func (f *fakeTx) Rebind(query string) string {
	return query
}
func (f *fakeTx) BindNamed(query string, arg interface{}) (string, []interface{}, error) {
	return query, nil, nil
}

func noopTxFunc() error { return nil }

// fakeStorage : потокобезопасное in-memory хранилище для сценарных тестов
type fakeStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (f *fakeStorage) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = append([]byte(nil), data...)
	return nil
}

func (f *fakeStorage) GetObject(ctx context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects[key], nil
}

func (f *fakeStorage) GeneratePresignedGetURL(ctx context.Context, key string, expire time.Duration) (string, error) {
	return "https://signed.example/" + key, nil
}

func (f *fakeStorage) DeleteObject(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeStorage) object(key string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.objects[key]
}

// fakeDocumentRepo : stateful репозиторий с атомарным счётчиком версии —
// для проверки монотонности при конкурентных callback
type fakeDocumentRepo struct {
	mu       sync.Mutex
	document model.Document
}

func (f *fakeDocumentRepo) Create(ctx context.Context, exec sqlx.ExtContext, doc *model.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.document = *doc
	return nil
}

func (f *fakeDocumentRepo) GetByUUID(ctx context.Context, exec sqlx.ExtContext, documentUUID string) (*model.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.document.UUID != documentUUID {
		return nil, sql.ErrNoRows
	}
	doc := f.document
	return &doc, nil
}

func (f *fakeDocumentRepo) ListByOwner(ctx context.Context, exec sqlx.ExtContext, ownerUUID string, cursor string, limit int) ([]model.Document, string, error) {
	return nil, "", nil
}

func (f *fakeDocumentRepo) UpdateTitle(ctx context.Context, exec sqlx.ExtContext, documentUUID string, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.document.Title = title
	return nil
}

func (f *fakeDocumentRepo) RefreshSignedURL(ctx context.Context, exec sqlx.ExtContext, documentUUID string, signedURL string) error {
	return nil
}

func (f *fakeDocumentRepo) IncrementVersion(ctx context.Context, exec sqlx.ExtContext, documentUUID string, storagePath string, signedURL string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.document.Version++
	f.document.StoragePath = storagePath
	f.document.SignedURL = signedURL
	return f.document.Version, nil
}

func (f *fakeDocumentRepo) ApplyConversion(ctx context.Context, exec sqlx.ExtContext, documentUUID string, storagePath string, signedURL string, conversionRef string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.document.StoragePath == "" {
		f.document.Version = 1
	} else {
		f.document.Version++
	}
	f.document.StoragePath = storagePath
	f.document.SignedURL = signedURL
	if f.document.ConversionRef == "" {
		f.document.ConversionRef = conversionRef
	}
	return f.document.Version, nil
}

func (f *fakeDocumentRepo) Delete(ctx context.Context, exec sqlx.ExtContext, documentUUID string, ownerUUID string) (string, error) {
	return documentUUID, nil
}

func (f *fakeDocumentRepo) BeginTX(ctx context.Context) (sqlx.ExtContext, func() error, func() error, error) {
	return &fakeTx{}, noopTxFunc, noopTxFunc, nil
}

func (f *fakeDocumentRepo) snapshot() model.Document {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.document
}

// fakeCache : no-op кэш для сценарных тестов
type fakeCache struct{}

func (fakeCache) SetDocument(ctx context.Context, doc *model.Document) error { return nil }

func (fakeCache) GetDocument(ctx context.Context, uuid string) (*model.Document, error) {
	return nil, nil
}

func (fakeCache) DeleteDocument(ctx context.Context, uuid string) error { return nil }
