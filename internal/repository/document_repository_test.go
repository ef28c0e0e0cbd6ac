package repository_test

import (
	"pdf-editor-server/config"
	"pdf-editor-server/internal/model"
	"pdf-editor-server/internal/repository"
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepositoryWithMock(t *testing.T) (*repository.DocumentRepository, sqlmock.Sqlmock, *sqlx.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	db := sqlx.NewDb(mockDB, "sqlmock")
	repo := repository.NewDocumentRepository(&config.Database{DB: db})
	return repo, mock, db
}

func documentRows(doc *model.Document) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"uuid", "owner_uuid", "title", "storage_path", "source_path", "signed_url",
		"version", "conversion_ref", "created_at", "updated_at", "deleted_at",
	}).AddRow(
		doc.UUID, doc.OwnerUUID, doc.Title, doc.StoragePath, doc.SourcePath, doc.SignedURL,
		doc.Version, doc.ConversionRef, doc.CreatedAt, doc.UpdatedAt, nil,
	)
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepositoryWithMock(t)

	document := &model.Document{
		UUID:        "doc-1",
		OwnerUUID:   "owner-1",
		Title:       "Договор.docx",
		StoragePath: "users/owner-1/documents/doc-1/latest.docx",
		SignedURL:   "https://signed.example/doc-1",
		Version:     1,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO documents")).
		WithArgs(document.UUID, document.OwnerUUID, document.Title, document.StoragePath,
			document.SourcePath, document.SignedURL, document.Version, document.ConversionRef).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), db, document)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByUUID(t *testing.T) {
	repo, mock, db := newRepositoryWithMock(t)

	expected := &model.Document{
		UUID:        "doc-1",
		OwnerUUID:   "owner-1",
		Title:       "Договор.docx",
		StoragePath: "users/owner-1/documents/doc-1/latest.docx",
		Version:     3,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	mock.ExpectQuery(regexp.QuoteMeta("FROM documents")).
		WithArgs("doc-1").
		WillReturnRows(documentRows(expected))

	document, err := repo.GetByUUID(context.Background(), db, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, expected.UUID, document.UUID)
	assert.Equal(t, 3, document.Version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByUUID_NotFound(t *testing.T) {
	repo, mock, db := newRepositoryWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM documents")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUUID(context.Background(), db, "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestIncrementVersion(t *testing.T) {
	repo, mock, db := newRepositoryWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SET version = version + 1")).
		WithArgs("doc-1", "users/owner-1/documents/doc-1/latest.docx", "https://signed.example/doc-1").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(4))

	version, err := repo.IncrementVersion(context.Background(), db,
		"doc-1", "users/owner-1/documents/doc-1/latest.docx", "https://signed.example/doc-1")
	require.NoError(t, err)
	assert.Equal(t, 4, version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementVersion_DeletedDocument(t *testing.T) {
	repo, mock, db := newRepositoryWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SET version = version + 1")).
		WithArgs("deleted", "path", "url").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.IncrementVersion(context.Background(), db, "deleted", "path", "url")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestApplyConversion_FirstMaterialization(t *testing.T) {
	repo, mock, db := newRepositoryWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SET version = CASE WHEN storage_path = '' THEN 1 ELSE version + 1 END")).
		WithArgs("doc-1", "users/owner-1/documents/doc-1/latest.docx", "https://signed.example/doc-1", "conv-abc").
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))

	version, err := repo.ApplyConversion(context.Background(), db,
		"doc-1", "users/owner-1/documents/doc-1/latest.docx", "https://signed.example/doc-1", "conv-abc")
	require.NoError(t, err)
	assert.Equal(t, 1, version)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTitle_NotFound(t *testing.T) {
	repo, mock, db := newRepositoryWithMock(t)

	mock.ExpectExec(regexp.QuoteMeta("SET title = $2")).
		WithArgs("missing", "Новое имя").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateTitle(context.Background(), db, "missing", "Новое имя")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepositoryWithMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SET deleted_at = NOW()")).
		WithArgs("doc-1", "owner-1").
		WillReturnRows(sqlmock.NewRows([]string{"uuid"}).AddRow("doc-1"))

	deletedUUID, err := repo.Delete(context.Background(), db, "doc-1", "owner-1")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", deletedUUID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByOwner_CursorOnFullPage(t *testing.T) {
	repo, mock, db := newRepositoryWithMock(t)

	rows := sqlmock.NewRows([]string{
		"uuid", "owner_uuid", "title", "storage_path", "source_path", "signed_url",
		"version", "conversion_ref", "created_at", "updated_at", "deleted_at",
	}).
		AddRow("doc-1", "owner-1", "A", "p1", "", "u1", 1, "", time.Now(), time.Now(), nil).
		AddRow("doc-2", "owner-1", "B", "p2", "", "u2", 1, "", time.Now(), time.Now(), nil)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE owner_uuid = $1")).
		WithArgs("owner-1", 2).
		WillReturnRows(rows)

	docs, nextCursor, err := repo.ListByOwner(context.Background(), db, "owner-1", "", 2)
	require.NoError(t, err)
	assert.Len(t, docs, 2)
	assert.Equal(t, "doc-2", nextCursor)
}

func TestBeginTX(t *testing.T) {
	repo, mock, _ := newRepositoryWithMock(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	_, _, commit, err := repo.BeginTX(context.Background())
	require.NoError(t, err)
	require.NoError(t, commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
