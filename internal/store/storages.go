package store

import "github.com/MKhiriev/bsdr/internal/logger"

// Storages bundles every repository behind one startup handle.
type Storages struct {
	UserRepository       UserRepository
	CredentialRepository CredentialRepository
	OperatorRepository   OperatorRepository
}

// NewStorages wires all repositories to the shared database pools.
func NewStorages(pools *Pools, log *logger.Logger) *Storages {
	return &Storages{
		UserRepository:       NewUserRepository(pools, log),
		CredentialRepository: NewCredentialRepository(pools, log),
		OperatorRepository:   NewOperatorRepository(pools, log),
	}
}
