package service

import (
	"github.com/MKhiriev/bsdr/internal/config"
	"github.com/MKhiriev/bsdr/internal/logger"
	"github.com/MKhiriev/bsdr/internal/store"
)

// Services bundles every business service behind one startup handle.
type Services struct {
	Auth     AuthService
	User     UserService
	Vault    VaultService
	Operator OperatorService
}

// NewServices wires all services to the given storages and configuration.
func NewServices(storages *store.Storages, cfg config.App, log *logger.Logger) (*Services, error) {
	vault, err := NewVaultService(storages.CredentialRepository, storages.UserRepository, cfg, log)
	if err != nil {
		return nil, err
	}

	return &Services{
		Auth:     NewAuthService(storages.UserRepository, storages.OperatorRepository, cfg, log),
		User:     NewUserService(storages.UserRepository, log),
		Vault:    vault,
		Operator: NewOperatorService(storages.OperatorRepository, log),
	}, nil
}
