package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/bsdr/internal/logger"
	"github.com/MKhiriev/bsdr/models"
)

const testVaultKey = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQR-_0123"

func newTestCredentialRepo(t *testing.T) (*credentialRepository, sqlmock.Sqlmock, *sql.DB) {
	pools, mock, db := newTestPools(t)
	repo := &credentialRepository{pools: pools, logger: logger.Nop()}
	return repo, mock, db
}

func credentialRow(id int64, key, value string, apxID, vdrID any) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "key", "value", "apx_id", "vdr_id", "created_at", "updated_at"}).
		AddRow(id, key, value, apxID, vdrID, now, now)
}

func TestFindByKey_Success(t *testing.T) {
	repo, mock, db := newTestCredentialRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM cryptos").
		WithArgs(testVaultKey).
		WillReturnRows(credentialRow(1, testVaultKey, "deadbeef", int64(3), int64(7)))

	found, err := repo.FindByKey(context.Background(), testVaultKey)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Value != "deadbeef" {
		t.Errorf("expected value deadbeef, got %s", found.Value)
	}
}

func TestFindByKey_NotFound(t *testing.T) {
	repo, mock, db := newTestCredentialRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM cryptos").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByKey(context.Background(), testVaultKey)
	if !errors.Is(err, ErrCredentialNotFound) {
		t.Fatalf("expected ErrCredentialNotFound, got %v", err)
	}
}

func TestUpsert_FirstWriteInserts(t *testing.T) {
	repo, mock, db := newTestCredentialRepo(t)
	defer db.Close()

	credential := models.Credential{
		Key:   testVaultKey,
		Value: "deadbeef",
		ApxID: int64ptr(3),
		VdrID: int64ptr(7),
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, apx_id, vdr_id").
		WithArgs(testVaultKey).
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO cryptos").
		WithArgs(testVaultKey, "deadbeef", int64(3), int64(7)).
		WillReturnRows(credentialRow(1, testVaultKey, "deadbeef", int64(3), int64(7)))
	mock.ExpectCommit()

	saved, err := repo.Upsert(context.Background(), credential)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.ID != 1 {
		t.Errorf("expected ID=1, got %d", saved.ID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestUpsert_OwnerOverwrites(t *testing.T) {
	repo, mock, db := newTestCredentialRepo(t)
	defer db.Close()

	credential := models.Credential{
		Key:   testVaultKey,
		Value: "cafebabe",
		ApxID: int64ptr(3),
		VdrID: int64ptr(7),
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, apx_id, vdr_id").
		WithArgs(testVaultKey).
		WillReturnRows(sqlmock.NewRows([]string{"id", "apx_id", "vdr_id"}).AddRow(1, int64(3), int64(7)))
	mock.ExpectQuery("UPDATE cryptos").
		WithArgs(int64(1), "cafebabe").
		WillReturnRows(credentialRow(1, testVaultKey, "cafebabe", int64(3), int64(7)))
	mock.ExpectCommit()

	saved, err := repo.Upsert(context.Background(), credential)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Value != "cafebabe" {
		t.Errorf("expected updated value, got %s", saved.Value)
	}
}

func TestUpsert_ForeignOwnerIsRejected(t *testing.T) {
	repo, mock, db := newTestCredentialRepo(t)
	defer db.Close()

	credential := models.Credential{
		Key:   testVaultKey,
		Value: "cafebabe",
		ApxID: int64ptr(3),
		VdrID: int64ptr(8), // different vendor under the same agency
	}

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id, apx_id, vdr_id").
		WithArgs(testVaultKey).
		WillReturnRows(sqlmock.NewRows([]string{"id", "apx_id", "vdr_id"}).AddRow(1, int64(3), int64(7)))
	mock.ExpectRollback()

	_, err := repo.Upsert(context.Background(), credential)
	if !errors.Is(err, ErrCredentialOwnership) {
		t.Fatalf("expected ErrCredentialOwnership, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}
