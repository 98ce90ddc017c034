package service

import (
	"context"

	"github.com/MKhiriev/bsdr/internal/auth"
	"github.com/MKhiriev/bsdr/models"
)

// AuthService covers token issuance and verification for every tier.
type AuthService interface {
	// Login authenticates the principal addressed by the (apxID, vdrID)
	// path pair and the body email, and issues a bearer token.
	Login(ctx context.Context, apxID, vdrID int64, request models.LoginRequest) (string, error)

	// OperatorLogin exchanges a valid X-BD secret for an operator token.
	OperatorLogin(ctx context.Context, secret string) (string, error)

	// VerifyToken verifies a bearer token and resolves the caller.
	VerifyToken(ctx context.Context, token string) (auth.Caller, error)
}

// UserService covers principal management inside the caller's partition.
type UserService interface {
	Search(ctx context.Context, caller auth.Caller, filter models.UserSearchFilter) ([]models.User, error)
	Get(ctx context.Context, caller auth.Caller, id int64) (models.User, error)
	Create(ctx context.Context, caller auth.Caller, request models.CreateUserRequest) (models.User, error)
	Update(ctx context.Context, caller auth.Caller, request models.UpdateUserRequest) (models.User, error)
	Delete(ctx context.Context, caller auth.Caller, id int64) error
	Hire(ctx context.Context, caller auth.Caller, id int64) error
	Dehire(ctx context.Context, caller auth.Caller, id int64) error
}

// VaultService covers the credential vault and the generic text cipher
// endpoints.
type VaultService interface {
	Encrypt(ctx context.Context, plaintext string) (string, error)
	Decrypt(ctx context.Context, encrypted string) (string, error)

	// PutVendorToken issues a long-lived token for the addressed vendor,
	// encrypts it and stores it under key with first-writer ownership.
	// The response carries the stored ciphertext.
	PutVendorToken(ctx context.Context, caller auth.Caller, key string, apxID, vdrID int64) (models.CredentialResponse, error)

	// GetVendorToken retrieves the ciphertext stored under key, verbatim.
	// Possession of the key is the only authorization.
	GetVendorToken(ctx context.Context, key string) (models.CredentialResponse, error)
}

// OperatorService manages the rotating operator secrets.
type OperatorService interface {
	CreateSecret(ctx context.Context, request models.OperatorSecretRequest) (string, error)
	CheckSecret(ctx context.Context, password string) (bool, error)
}
