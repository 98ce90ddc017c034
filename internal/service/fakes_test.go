package service

import (
	"context"
	"time"

	"github.com/MKhiriev/bsdr/internal/store"
	"github.com/MKhiriev/bsdr/models"
)

// fakeUserRepository implements store.UserRepository with overridable
// function fields. Unset finders answer with store.ErrUserNotFound so a test
// only wires what it exercises.
type fakeUserRepository struct {
	findByID      func(scope store.Scope, id int64) (models.User, error)
	search        func(scope store.Scope, filter models.UserSearchFilter) ([]models.User, error)
	findForLogin  func(apxID, vdrID int64, email string) (models.User, error)
	create        func(user models.User) (models.User, error)
	update        func(scope store.Scope, update models.UserUpdate) (models.User, error)
	updateStaff   func(scope store.Scope, id int64, isStaff bool) error
	deleteCascade func(scope store.Scope, id int64) error
}

func (f *fakeUserRepository) FindByID(_ context.Context, scope store.Scope, id int64) (models.User, error) {
	if f.findByID == nil {
		return models.User{}, store.ErrUserNotFound
	}
	return f.findByID(scope, id)
}

func (f *fakeUserRepository) Search(_ context.Context, scope store.Scope, filter models.UserSearchFilter) ([]models.User, error) {
	if f.search == nil {
		return nil, nil
	}
	return f.search(scope, filter)
}

func (f *fakeUserRepository) FindForLogin(_ context.Context, apxID, vdrID int64, email string) (models.User, error) {
	if f.findForLogin == nil {
		return models.User{}, store.ErrUserNotFound
	}
	return f.findForLogin(apxID, vdrID, email)
}

func (f *fakeUserRepository) Create(_ context.Context, user models.User) (models.User, error) {
	if f.create == nil {
		user.ID = 1
		return user, nil
	}
	return f.create(user)
}

func (f *fakeUserRepository) Update(_ context.Context, scope store.Scope, update models.UserUpdate) (models.User, error) {
	if f.update == nil {
		return models.User{}, store.ErrUserNotFound
	}
	return f.update(scope, update)
}

func (f *fakeUserRepository) UpdateStaff(_ context.Context, scope store.Scope, id int64, isStaff bool) error {
	if f.updateStaff == nil {
		return store.ErrUserNotFound
	}
	return f.updateStaff(scope, id, isStaff)
}

func (f *fakeUserRepository) DeleteCascade(_ context.Context, scope store.Scope, id int64) error {
	if f.deleteCascade == nil {
		return store.ErrUserNotFound
	}
	return f.deleteCascade(scope, id)
}

// fakeOperatorRepository implements store.OperatorRepository.
type fakeOperatorRepository struct {
	activeHashes func(now time.Time) ([]string, error)
	save         func(hash string, bgnAt, endAt time.Time) (int64, error)
}

func (f *fakeOperatorRepository) ActiveHashes(_ context.Context, now time.Time) ([]string, error) {
	if f.activeHashes == nil {
		return nil, store.ErrOperatorSecretNotFound
	}
	return f.activeHashes(now)
}

func (f *fakeOperatorRepository) Save(_ context.Context, hash string, bgnAt, endAt time.Time) (int64, error) {
	if f.save == nil {
		return 1, nil
	}
	return f.save(hash, bgnAt, endAt)
}

// fakeCredentialRepository is an in-memory store.CredentialRepository. It
// keeps insertion order in upserted for call inspection.
type fakeCredentialRepository struct {
	byKey    map[string]models.Credential
	upserted []models.Credential
}

func newFakeCredentialRepository() *fakeCredentialRepository {
	return &fakeCredentialRepository{byKey: map[string]models.Credential{}}
}

func (f *fakeCredentialRepository) FindByKey(_ context.Context, key string) (models.Credential, error) {
	credential, ok := f.byKey[key]
	if !ok {
		return models.Credential{}, store.ErrCredentialNotFound
	}
	return credential, nil
}

func (f *fakeCredentialRepository) Upsert(_ context.Context, credential models.Credential) (models.Credential, error) {
	f.upserted = append(f.upserted, credential)
	f.byKey[credential.Key] = credential
	return credential, nil
}
