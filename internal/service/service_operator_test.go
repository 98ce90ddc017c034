package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/bsdr/internal/crypto"
	"github.com/MKhiriev/bsdr/internal/logger"
	"github.com/MKhiriev/bsdr/internal/validate"
	"github.com/MKhiriev/bsdr/models"
)

func TestCreateSecret(t *testing.T) {
	var savedHash string
	var savedBgn, savedEnd time.Time
	operators := &fakeOperatorRepository{
		save: func(hash string, bgnAt, endAt time.Time) (int64, error) {
			savedHash, savedBgn, savedEnd = hash, bgnAt, endAt
			return 5, nil
		},
	}
	svc := NewOperatorService(operators, logger.Nop())

	hash, err := svc.CreateSecret(context.Background(), models.OperatorSecretRequest{
		Password: "rotating secret",
		BgnAt:    "2026-09-01T00:00:00",
		EndAt:    "2026-10-01T00:00:00",
	})
	require.NoError(t, err)

	assert.Equal(t, savedHash, hash)
	assert.NotEqual(t, "rotating secret", hash)
	assert.NoError(t, crypto.CheckPassword(hash, "rotating secret"))
	assert.Equal(t, time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC), savedBgn)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), savedEnd)
}

func TestCreateSecret_Validation(t *testing.T) {
	svc := NewOperatorService(&fakeOperatorRepository{}, logger.Nop())

	t.Run("short password", func(t *testing.T) {
		_, err := svc.CreateSecret(context.Background(), models.OperatorSecretRequest{
			Password: "short",
			BgnAt:    "2026-09-01T00:00:00",
			EndAt:    "2026-10-01T00:00:00",
		})
		assert.Equal(t, validate.CodeLength, detailCodes(t, err)["password"])
	})

	t.Run("inverted window", func(t *testing.T) {
		_, err := svc.CreateSecret(context.Background(), models.OperatorSecretRequest{
			Password: "rotating secret",
			BgnAt:    "2026-10-01T00:00:00",
			EndAt:    "2026-09-01T00:00:00",
		})
		assert.Equal(t, validate.CodeRange, detailCodes(t, err)["end_at"])
	})

	t.Run("missing window", func(t *testing.T) {
		_, err := svc.CreateSecret(context.Background(), models.OperatorSecretRequest{Password: "rotating secret"})
		codes := detailCodes(t, err)
		assert.Equal(t, validate.CodeRequired, codes["bgn_at"])
		assert.Equal(t, validate.CodeRequired, codes["end_at"])
	})
}

func TestCheckSecret(t *testing.T) {
	operators := &fakeOperatorRepository{
		activeHashes: func(time.Time) ([]string, error) {
			return []string{mustHash(t, "first secret"), mustHash(t, "second secret")}, nil
		},
	}
	svc := NewOperatorService(operators, logger.Nop())

	ok, err := svc.CheckSecret(context.Background(), "second secret")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CheckSecret(context.Background(), "unknown secret")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckSecret_NoActiveSecrets(t *testing.T) {
	svc := NewOperatorService(&fakeOperatorRepository{}, logger.Nop())

	ok, err := svc.CheckSecret(context.Background(), "anything at all")
	require.NoError(t, err)
	assert.False(t, ok)
}
