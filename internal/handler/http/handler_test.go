package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/bsdr/internal/auth"
	"github.com/MKhiriev/bsdr/internal/logger"
	"github.com/MKhiriev/bsdr/internal/service"
	"github.com/MKhiriev/bsdr/internal/store"
	"github.com/MKhiriev/bsdr/models"
)

type fakeAuthService struct {
	login         func(apxID, vdrID int64, request models.LoginRequest) (string, error)
	operatorLogin func(secret string) (string, error)
	verifyToken   func(token string) (auth.Caller, error)
}

func (f *fakeAuthService) Login(_ context.Context, apxID, vdrID int64, request models.LoginRequest) (string, error) {
	return f.login(apxID, vdrID, request)
}

func (f *fakeAuthService) OperatorLogin(_ context.Context, secret string) (string, error) {
	return f.operatorLogin(secret)
}

func (f *fakeAuthService) VerifyToken(_ context.Context, token string) (auth.Caller, error) {
	if f.verifyToken == nil {
		return auth.Caller{}, service.ErrTokenIsExpiredOrInvalid
	}
	return f.verifyToken(token)
}

type fakeUserService struct {
	search func(caller auth.Caller, filter models.UserSearchFilter) ([]models.User, error)
	get    func(caller auth.Caller, id int64) (models.User, error)
	create func(caller auth.Caller, request models.CreateUserRequest) (models.User, error)
	update func(caller auth.Caller, request models.UpdateUserRequest) (models.User, error)
	del    func(caller auth.Caller, id int64) error
	hire   func(caller auth.Caller, id int64) error
	dehire func(caller auth.Caller, id int64) error
}

func (f *fakeUserService) Search(_ context.Context, caller auth.Caller, filter models.UserSearchFilter) ([]models.User, error) {
	return f.search(caller, filter)
}

func (f *fakeUserService) Get(_ context.Context, caller auth.Caller, id int64) (models.User, error) {
	return f.get(caller, id)
}

func (f *fakeUserService) Create(_ context.Context, caller auth.Caller, request models.CreateUserRequest) (models.User, error) {
	return f.create(caller, request)
}

func (f *fakeUserService) Update(_ context.Context, caller auth.Caller, request models.UpdateUserRequest) (models.User, error) {
	return f.update(caller, request)
}

func (f *fakeUserService) Delete(_ context.Context, caller auth.Caller, id int64) error {
	return f.del(caller, id)
}

func (f *fakeUserService) Hire(_ context.Context, caller auth.Caller, id int64) error {
	return f.hire(caller, id)
}

func (f *fakeUserService) Dehire(_ context.Context, caller auth.Caller, id int64) error {
	return f.dehire(caller, id)
}

type fakeVaultService struct {
	encrypt        func(plaintext string) (string, error)
	decrypt        func(encrypted string) (string, error)
	putVendorToken func(caller auth.Caller, key string, apxID, vdrID int64) (models.CredentialResponse, error)
	getVendorToken func(key string) (models.CredentialResponse, error)
}

func (f *fakeVaultService) Encrypt(_ context.Context, plaintext string) (string, error) {
	return f.encrypt(plaintext)
}

func (f *fakeVaultService) Decrypt(_ context.Context, encrypted string) (string, error) {
	return f.decrypt(encrypted)
}

func (f *fakeVaultService) PutVendorToken(_ context.Context, caller auth.Caller, key string, apxID, vdrID int64) (models.CredentialResponse, error) {
	return f.putVendorToken(caller, key, apxID, vdrID)
}

func (f *fakeVaultService) GetVendorToken(_ context.Context, key string) (models.CredentialResponse, error) {
	return f.getVendorToken(key)
}

type fakeOperatorService struct {
	createSecret func(request models.OperatorSecretRequest) (string, error)
	checkSecret  func(password string) (bool, error)
}

func (f *fakeOperatorService) CreateSecret(_ context.Context, request models.OperatorSecretRequest) (string, error) {
	return f.createSecret(request)
}

func (f *fakeOperatorService) CheckSecret(_ context.Context, password string) (bool, error) {
	return f.checkSecret(password)
}

// agencyCaller is what the stock verifyToken resolves "agency-token" to.
var agencyCaller = auth.Caller{Role: auth.RoleAgency, Scope: auth.Partition{ApxID: 3}, UsrID: 3, Email: "agency@example.com"}

func stockVerifyToken(token string) (auth.Caller, error) {
	if token == "agency-token" {
		return agencyCaller, nil
	}
	return auth.Caller{}, service.ErrTokenIsExpiredOrInvalid
}

func newTestRouter(services *service.Services) http.Handler {
	if services.Auth == nil {
		services.Auth = &fakeAuthService{verifyToken: stockVerifyToken}
	}
	return NewHandler(services, logger.Nop()).Init()
}

func doRequest(t *testing.T, router http.Handler, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	request := httptest.NewRequest(method, target, reader)
	for k, v := range headers {
		request.Header.Set(k, v)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	return recorder
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) models.APIError {
	t.Helper()

	var envelope models.APIError
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))

	return envelope
}

func TestLogin(t *testing.T) {
	router := newTestRouter(&service.Services{
		Auth: &fakeAuthService{
			verifyToken: stockVerifyToken,
			login: func(apxID, vdrID int64, request models.LoginRequest) (string, error) {
				assert.Equal(t, int64(3), apxID)
				assert.Equal(t, int64(7), vdrID)
				assert.Equal(t, "a@b.com", request.Email)
				return "issued-token", nil
			},
		},
	})

	recorder := doRequest(t, router, http.MethodPost, "/v1/auth/3/7",
		`{"email":"a@b.com","password":"correct horse"}`, nil)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"token":"issued-token"}`, recorder.Body.String())
}

func TestLogin_OperatorHeaderBypass(t *testing.T) {
	router := newTestRouter(&service.Services{
		Auth: &fakeAuthService{
			verifyToken: stockVerifyToken,
			operatorLogin: func(secret string) (string, error) {
				assert.Equal(t, "rotating secret", secret)
				return "operator-token", nil
			},
			login: func(int64, int64, models.LoginRequest) (string, error) {
				t.Fatal("credential login must not run when X-BD is present")
				return "", nil
			},
		},
	})

	recorder := doRequest(t, router, http.MethodPost, "/v1/auth/0/0", "",
		map[string]string{"X-BD": "rotating secret"})

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"token":"operator-token"}`, recorder.Body.String())
}

func TestLogin_WrongPasswordEnvelope(t *testing.T) {
	router := newTestRouter(&service.Services{
		Auth: &fakeAuthService{
			verifyToken: stockVerifyToken,
			login: func(int64, int64, models.LoginRequest) (string, error) {
				return "", service.ErrWrongPassword
			},
		},
	})

	recorder := doRequest(t, router, http.MethodPost, "/v1/auth/0/0",
		`{"email":"a@b.com","password":"nope"}`, nil)

	require.Equal(t, http.StatusUnauthorized, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.Equal(t, http.StatusUnauthorized, envelope.Status)
	require.Len(t, envelope.Errors, 1)
	assert.Equal(t, "E0003", envelope.Errors[0].Code)
	assert.Equal(t, "system", envelope.Errors[0].Field)
}

func TestLogin_MalformedBody(t *testing.T) {
	router := newTestRouter(&service.Services{
		Auth: &fakeAuthService{verifyToken: stockVerifyToken},
	})

	recorder := doRequest(t, router, http.MethodPost, "/v1/auth/0/0", `{"email":`, nil)

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "E0005", decodeEnvelope(t, recorder).Errors[0].Code)
}

func TestAuthMiddleware(t *testing.T) {
	router := newTestRouter(&service.Services{
		User: &fakeUserService{
			get: func(caller auth.Caller, id int64) (models.User, error) {
				assert.Equal(t, agencyCaller, caller)
				return models.User{ID: id, Name: "Acme Inc"}, nil
			},
		},
	})

	t.Run("missing header", func(t *testing.T) {
		recorder := doRequest(t, router, http.MethodGet, "/v1/usrs/5", "", nil)
		require.Equal(t, http.StatusUnauthorized, recorder.Code)
		assert.Equal(t, "E0003", decodeEnvelope(t, recorder).Errors[0].Code)
	})

	t.Run("header without token", func(t *testing.T) {
		recorder := doRequest(t, router, http.MethodGet, "/v1/usrs/5", "",
			map[string]string{"Authorization": "Bearer"})
		require.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		recorder := doRequest(t, router, http.MethodGet, "/v1/usrs/5", "",
			map[string]string{"Authorization": "Bearer stale-token"})
		require.Equal(t, http.StatusUnauthorized, recorder.Code)
	})

	t.Run("valid token reaches handler with resolved caller", func(t *testing.T) {
		recorder := doRequest(t, router, http.MethodGet, "/v1/usrs/5", "",
			map[string]string{"Authorization": "Bearer agency-token"})
		require.Equal(t, http.StatusOK, recorder.Code)

		var user models.User
		require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &user))
		assert.Equal(t, int64(5), user.ID)
	})
}

func TestSearchUsers(t *testing.T) {
	router := newTestRouter(&service.Services{
		User: &fakeUserService{
			search: func(caller auth.Caller, filter models.UserSearchFilter) ([]models.User, error) {
				assert.Equal(t, "acme", filter.Name)
				return []models.User{{ID: 1}, {ID: 2}}, nil
			},
		},
	})

	recorder := doRequest(t, router, http.MethodPost, "/v1/usrs/search", `{"name":"acme"}`,
		map[string]string{"Authorization": "Bearer agency-token"})

	require.Equal(t, http.StatusOK, recorder.Code)

	var response models.SearchUsersResponse
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	assert.Len(t, response.Usrs, 2)
}

func TestSearchUsers_EmptyResultIsEmptyArray(t *testing.T) {
	router := newTestRouter(&service.Services{
		User: &fakeUserService{
			search: func(auth.Caller, models.UserSearchFilter) ([]models.User, error) {
				return nil, nil
			},
		},
	})

	recorder := doRequest(t, router, http.MethodPost, "/v1/usrs/search", `{}`,
		map[string]string{"Authorization": "Bearer agency-token"})

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"usrs":[]}`, recorder.Body.String())
}

func TestCreateUser(t *testing.T) {
	router := newTestRouter(&service.Services{
		User: &fakeUserService{
			create: func(caller auth.Caller, request models.CreateUserRequest) (models.User, error) {
				assert.Equal(t, auth.RoleAgency, caller.Role)
				return models.User{ID: 9, Name: request.Name, Email: request.Email}, nil
			},
		},
	})

	recorder := doRequest(t, router, http.MethodPost, "/v1/usrs",
		`{"name":"Vendor GmbH","email":"v@example.com","password":"long enough password","bgn_at":"2026-01-01T00:00:00","end_at":"2027-01-01T00:00:00"}`,
		map[string]string{"Authorization": "Bearer agency-token"})

	require.Equal(t, http.StatusCreated, recorder.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &user))
	assert.Equal(t, int64(9), user.ID)
}

func TestCreateUser_ValidationEnvelope(t *testing.T) {
	svc := service.NewUserService(nil, logger.Nop())
	router := newTestRouter(&service.Services{User: svc})

	recorder := doRequest(t, router, http.MethodPost, "/v1/usrs", `{}`,
		map[string]string{"Authorization": "Bearer agency-token"})

	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	envelope := decodeEnvelope(t, recorder)
	assert.Equal(t, http.StatusUnprocessableEntity, envelope.Status)

	fields := make(map[string]string)
	for _, detail := range envelope.Errors {
		fields[detail.Field] = detail.Code
	}
	assert.Equal(t, "E0006", fields["name"])
	assert.Equal(t, "E0006", fields["email"])
	assert.Equal(t, "E0006", fields["password"])
}

func TestUpdateUser_IDComesFromPath(t *testing.T) {
	router := newTestRouter(&service.Services{
		User: &fakeUserService{
			update: func(caller auth.Caller, request models.UpdateUserRequest) (models.User, error) {
				assert.Equal(t, int64(5), request.ID)
				require.NotNil(t, request.Name)
				assert.Equal(t, "Renamed", *request.Name)
				return models.User{ID: request.ID, Name: *request.Name}, nil
			},
		},
	})

	recorder := doRequest(t, router, http.MethodPatch, "/v1/usrs/5", `{"name":"Renamed"}`,
		map[string]string{"Authorization": "Bearer agency-token"})

	require.Equal(t, http.StatusOK, recorder.Code)
}

func TestDeleteUser(t *testing.T) {
	t.Run("acknowledges with the id", func(t *testing.T) {
		router := newTestRouter(&service.Services{
			User: &fakeUserService{
				del: func(caller auth.Caller, id int64) error {
					assert.Equal(t, int64(7), id)
					return nil
				},
			},
		})

		recorder := doRequest(t, router, http.MethodDelete, "/v1/usrs/7", "",
			map[string]string{"Authorization": "Bearer agency-token"})

		require.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"id":7}`, recorder.Body.String())
	})

	t.Run("missing target answers 404", func(t *testing.T) {
		router := newTestRouter(&service.Services{
			User: &fakeUserService{
				del: func(auth.Caller, int64) error { return store.ErrUserNotFound },
			},
		})

		recorder := doRequest(t, router, http.MethodDelete, "/v1/usrs/7", "",
			map[string]string{"Authorization": "Bearer agency-token"})

		require.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Equal(t, "E0012", decodeEnvelope(t, recorder).Errors[0].Code)
	})

	t.Run("forbidden role answers 403", func(t *testing.T) {
		router := newTestRouter(&service.Services{
			User: &fakeUserService{
				del: func(auth.Caller, int64) error {
					return auth.Caller{Role: auth.RoleIndividual}.Allow(auth.RoleAgency, auth.RoleVendor)
				},
			},
		})

		recorder := doRequest(t, router, http.MethodDelete, "/v1/usrs/7", "",
			map[string]string{"Authorization": "Bearer agency-token"})

		require.Equal(t, http.StatusForbidden, recorder.Code)
		assert.Equal(t, "E0003", decodeEnvelope(t, recorder).Errors[0].Code)
	})

	t.Run("unsupported tier answers 404", func(t *testing.T) {
		router := newTestRouter(&service.Services{
			User: &fakeUserService{
				del: func(auth.Caller, int64) error { return store.ErrCascadeUnsupported },
			},
		})

		recorder := doRequest(t, router, http.MethodDelete, "/v1/usrs/7", "",
			map[string]string{"Authorization": "Bearer agency-token"})

		require.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Equal(t, "E0012", decodeEnvelope(t, recorder).Errors[0].Code)
	})
}

func TestHireDehireRoutes(t *testing.T) {
	var hired, dehired []int64
	router := newTestRouter(&service.Services{
		User: &fakeUserService{
			hire: func(_ auth.Caller, id int64) error {
				hired = append(hired, id)
				return nil
			},
			dehire: func(_ auth.Caller, id int64) error {
				dehired = append(dehired, id)
				return nil
			},
		},
	})

	headers := map[string]string{"Authorization": "Bearer agency-token"}
	require.Equal(t, http.StatusOK, doRequest(t, router, http.MethodPost, "/v1/usrs/42/hire", "", headers).Code)
	require.Equal(t, http.StatusOK, doRequest(t, router, http.MethodPost, "/v1/usrs/42/dehire", "", headers).Code)
	assert.Equal(t, []int64{42}, hired)
	assert.Equal(t, []int64{42}, dehired)
}

func TestVaultRoutes(t *testing.T) {
	const key = "k1234567890123456789012345678901234567890123456789"

	t.Run("put is authenticated", func(t *testing.T) {
		router := newTestRouter(&service.Services{
			Vault: &fakeVaultService{
				putVendorToken: func(caller auth.Caller, gotKey string, apxID, vdrID int64) (models.CredentialResponse, error) {
					assert.Equal(t, agencyCaller, caller)
					assert.Equal(t, key, gotKey)
					assert.Equal(t, int64(3), apxID)
					assert.Equal(t, int64(7), vdrID)
					return models.CredentialResponse{Key: gotKey, Value: "vendor-token"}, nil
				},
			},
		})

		recorder := doRequest(t, router, http.MethodPut, "/v1/crypto/vdr/"+key+"/3/7", "",
			map[string]string{"Authorization": "Bearer agency-token"})
		require.Equal(t, http.StatusOK, recorder.Code)

		unauthenticated := doRequest(t, router, http.MethodPut, "/v1/crypto/vdr/"+key+"/3/7", "", nil)
		require.Equal(t, http.StatusUnauthorized, unauthenticated.Code)
	})

	t.Run("get is public", func(t *testing.T) {
		router := newTestRouter(&service.Services{
			Vault: &fakeVaultService{
				getVendorToken: func(gotKey string) (models.CredentialResponse, error) {
					assert.Equal(t, key, gotKey)
					return models.CredentialResponse{Key: gotKey, Value: "vendor-token"}, nil
				},
			},
		})

		recorder := doRequest(t, router, http.MethodGet, "/v1/crypto/vdr/"+key, "", nil)
		require.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"key":"`+key+`","value":"vendor-token"}`, recorder.Body.String())
	})

	t.Run("foreign owner answers 403", func(t *testing.T) {
		router := newTestRouter(&service.Services{
			Vault: &fakeVaultService{
				putVendorToken: func(auth.Caller, string, int64, int64) (models.CredentialResponse, error) {
					return models.CredentialResponse{}, store.ErrCredentialOwnership
				},
			},
		})

		recorder := doRequest(t, router, http.MethodPut, "/v1/crypto/vdr/"+key+"/3/7", "",
			map[string]string{"Authorization": "Bearer agency-token"})
		require.Equal(t, http.StatusForbidden, recorder.Code)
	})
}

func TestCryptoRoutes(t *testing.T) {
	router := newTestRouter(&service.Services{
		Vault: &fakeVaultService{
			encrypt: func(plaintext string) (string, error) {
				assert.Equal(t, "hello", plaintext)
				return "sealed", nil
			},
			decrypt: func(encrypted string) (string, error) {
				assert.Equal(t, "sealed", encrypted)
				return "hello", nil
			},
		},
	})

	recorder := doRequest(t, router, http.MethodGet, "/v1/crypto/enc?text=hello", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":"sealed"}`, recorder.Body.String())

	recorder = doRequest(t, router, http.MethodGet, "/v1/crypto/dec?text=sealed", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"data":"hello"}`, recorder.Body.String())
}

func TestOperatorSecretRoutes(t *testing.T) {
	router := newTestRouter(&service.Services{
		Operator: &fakeOperatorService{
			createSecret: func(request models.OperatorSecretRequest) (string, error) {
				assert.Equal(t, "rotating secret", request.Password)
				assert.Equal(t, "2026-09-01T00:00:00", request.BgnAt)
				return "$2a$10$hash", nil
			},
			checkSecret: func(password string) (bool, error) {
				return password == "rotating secret", nil
			},
		},
	})

	recorder := doRequest(t, router, http.MethodGet,
		"/v1/bds/create?bd=rotating+secret&bgn_at=2026-09-01T00:00:00&end_at=2026-10-01T00:00:00", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"hash":"$2a$10$hash"}`, recorder.Body.String())

	recorder = doRequest(t, router, http.MethodGet, "/v1/bds/check?bd=rotating+secret", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"ok":true}`, recorder.Body.String())

	recorder = doRequest(t, router, http.MethodGet, "/v1/bds/check?bd=stale", "", nil)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"ok":false}`, recorder.Body.String())
}

func TestInvalidPathParameter(t *testing.T) {
	router := newTestRouter(&service.Services{
		User: &fakeUserService{
			get: func(auth.Caller, int64) (models.User, error) { return models.User{}, nil },
		},
	})

	recorder := doRequest(t, router, http.MethodGet, "/v1/usrs/not-a-number", "",
		map[string]string{"Authorization": "Bearer agency-token"})

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "E0005", decodeEnvelope(t, recorder).Errors[0].Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	router := newTestRouter(&service.Services{
		User: &fakeUserService{
			get: func(auth.Caller, int64) (models.User, error) { panic("boom") },
		},
	})

	recorder := doRequest(t, router, http.MethodGet, "/v1/usrs/5", "",
		map[string]string{"Authorization": "Bearer agency-token"})

	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, "E0001", decodeEnvelope(t, recorder).Errors[0].Code)
}

func TestTraceIDHeader(t *testing.T) {
	router := newTestRouter(&service.Services{
		Vault: &fakeVaultService{
			encrypt: func(string) (string, error) { return "sealed", nil },
		},
	})

	recorder := doRequest(t, router, http.MethodGet, "/v1/crypto/enc?text=x", "", nil)
	assert.NotEmpty(t, recorder.Header().Get("X-Trace-ID"))

	echoed := doRequest(t, router, http.MethodGet, "/v1/crypto/enc?text=x", "",
		map[string]string{"X-Trace-ID": "trace-123"})
	assert.Equal(t, "trace-123", echoed.Header().Get("X-Trace-ID"))
}
