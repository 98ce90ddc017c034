package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/bsdr/internal/auth"
	"github.com/MKhiriev/bsdr/internal/config"
	"github.com/MKhiriev/bsdr/internal/crypto"
	"github.com/MKhiriev/bsdr/internal/logger"
	"github.com/MKhiriev/bsdr/internal/store"
	"github.com/MKhiriev/bsdr/internal/validate"
	"github.com/MKhiriev/bsdr/models"
)

// vaultService is the concrete implementation of [VaultService]. It owns
// the symmetric cipher; plaintext tokens never reach the repositories, and
// vault reads and writes answer with the stored ciphertext only.
type vaultService struct {
	credentialRepository store.CredentialRepository
	userRepository       store.UserRepository

	cipher *crypto.Cipher
	codec  *auth.Codec

	// vendorTokenDuration is the lifetime of the long-lived tokens stored
	// in the vault.
	vendorTokenDuration time.Duration

	logger *logger.Logger
}

// NewVaultService constructs a [VaultService]. Fails only when the cipher
// cannot be built from the configured secret.
func NewVaultService(credentials store.CredentialRepository, users store.UserRepository, cfg config.App, logger *logger.Logger) (VaultService, error) {
	cipher, err := crypto.NewCipher(cfg.CipherKey)
	if err != nil {
		return nil, fmt.Errorf("building vault cipher: %w", err)
	}

	return &vaultService{
		credentialRepository: credentials,
		userRepository:       users,
		cipher:               cipher,
		codec:                auth.NewCodec(cfg.TokenSignKey),
		vendorTokenDuration:  cfg.VendorTokenDuration,
		logger:               logger,
	}, nil
}

// Encrypt seals an arbitrary text with the vault cipher.
func (s *vaultService) Encrypt(ctx context.Context, plaintext string) (string, error) {
	if err := validate.New().Required("data", plaintext).Err(); err != nil {
		return "", err
	}

	encrypted, err := s.cipher.Encrypt(plaintext)
	if err != nil {
		return "", fmt.Errorf("encryption failed: %w", err)
	}

	return encrypted, nil
}

// Decrypt reverses [vaultService.Encrypt]. A blob the cipher rejects
// surfaces as a validation error, not a server fault.
func (s *vaultService) Decrypt(ctx context.Context, encrypted string) (string, error) {
	if err := validate.New().Required("data", encrypted).Err(); err != nil {
		return "", err
	}

	plaintext, err := s.cipher.Decrypt(encrypted)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return plaintext, nil
}

// PutVendorToken issues a long-lived token for the addressed vendor and
// stores it encrypted under key. The response carries the stored ciphertext,
// never the token itself.
//
// Only an agency may write, and only for vendors of its own partition; a
// key, an apx or a vendor outside it answers exactly like a missing
// resource. Overwriting a key first written by another tenant pair fails
// with the repository's ownership error and leaves the stored value
// untouched.
func (s *vaultService) PutVendorToken(ctx context.Context, caller auth.Caller, key string, apxID, vdrID int64) (models.CredentialResponse, error) {
	log := logger.FromContext(ctx)

	if err := caller.Allow(auth.RoleAgency); err != nil {
		return models.CredentialResponse{}, err
	}

	if err := validate.New().
		Pattern("key", key, validate.VaultKeyPattern).
		Required("key", key).
		Err(); err != nil {
		return models.CredentialResponse{}, err
	}

	if caller.Role == auth.RoleAgency && apxID != caller.UsrID {
		// Another agency's partition is invisible, not forbidden.
		return models.CredentialResponse{}, fmt.Errorf("vendor lookup failed: %w", store.ErrUserNotFound)
	}

	vendor, err := s.userRepository.FindByID(ctx, store.Scope{ApxID: apxID}, vdrID)
	if err != nil {
		return models.CredentialResponse{}, fmt.Errorf("vendor lookup failed: %w", err)
	}
	if !vendor.IsVendor() {
		return models.CredentialResponse{}, fmt.Errorf("vendor lookup failed: %w", store.ErrUserNotFound)
	}

	token, err := s.codec.Issue(apxID, 0, vdrID, vendor.Email, vendor.Type, false, s.vendorTokenDuration)
	if err != nil {
		return models.CredentialResponse{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	encrypted, err := s.cipher.Encrypt(token)
	if err != nil {
		return models.CredentialResponse{}, fmt.Errorf("encryption failed: %w", err)
	}

	saved, err := s.credentialRepository.Upsert(ctx, models.Credential{
		Key:   key,
		Value: encrypted,
		ApxID: &apxID,
		VdrID: &vdrID,
	})
	if err != nil {
		log.Err(err).Int64("apx_id", apxID).Int64("vdr_id", vdrID).Msg("credential upsert ended with error")
		return models.CredentialResponse{}, fmt.Errorf("credential upsert ended with error: %w", err)
	}

	return models.CredentialResponse{Key: key, Value: saved.Value}, nil
}

// GetVendorToken retrieves the ciphertext stored under key, verbatim.
// Possession of the 50-character key is the only authorization; the
// endpoint carries no caller, and the vault never decrypts on read.
func (s *vaultService) GetVendorToken(ctx context.Context, key string) (models.CredentialResponse, error) {
	if err := validate.New().
		Pattern("key", key, validate.VaultKeyPattern).
		Required("key", key).
		Err(); err != nil {
		return models.CredentialResponse{}, err
	}

	credential, err := s.credentialRepository.FindByKey(ctx, key)
	if err != nil {
		return models.CredentialResponse{}, fmt.Errorf("credential lookup failed: %w", err)
	}

	return models.CredentialResponse{Key: key, Value: credential.Value}, nil
}
