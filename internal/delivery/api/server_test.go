package api_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"account/config"
	"account/internal/delivery/api"
	"account/internal/delivery/api/middleware"
	"account/internal/delivery/api/router"
	"account/internal/delivery/api/router/handler"
	"account/internal/domain/validation"
	"account/internal/infra/auth"
	"account/internal/infra/metrics"
	"account/internal/infra/persistence/memory"
	"account/internal/usecase/impl"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
	Meta struct {
		RequestID string `json:"request_id"`
	} `json:"meta"`
}

type testServer struct {
	echo  *echo.Echo
	store *memory.UserRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		SecretKey: config.SecretKeyConfig{Access: "handler_test_access_secret"},
		Metrics:   &config.MetricsConfig{Enabled: true},
	}
	cfg.ApplyDefaults()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	recorder := metrics.NewRecorder()
	store := memory.NewUserRepository()

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)

	uc := impl.NewAccountService(impl.AccountServiceParams{
		UserRepo:     store,
		Hasher:       auth.NewBcryptHasherWithCost(bcrypt.MinCost),
		TokenService: tokens,
		Rule:         validation.NewCredentialRule(cfg.PasswordPolicy.MinLength, cfg.PasswordPolicy.MaxLength),
		Logger:       logger,
	})

	r := router.NewRouter(router.RouterParams{
		AccountHandler: handler.NewAccountHandler(uc, recorder, logger),
		AuthMiddleware: middleware.NewAuthMiddleware(uc, recorder),
		Metrics:        recorder,
		Config:         cfg,
	})

	return &testServer{
		echo:  api.NewEcho(cfg, logger, recorder, r),
		store: store,
	}
}

func (s *testServer) do(t *testing.T, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}

	return rec, env
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()

	rec, env := s.do(t, http.MethodPost, "/api/login", `{"email":"`+email+`","password":"`+password+`"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var token handler.TokenResponse
	require.NoError(t, json.Unmarshal(env.Data, &token))
	require.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)

	return token.AccessToken
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, string(env.Data))
	assert.NotEmpty(t, env.Meta.RequestID)
}

func TestRegister(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/users", `{"email":" alice@example.com ","password":"secret123"}`, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "asswordDigest")
	assert.NotContains(t, rec.Body.String(), "secret123")

	var user handler.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "alice@example.com", user.Email)
	assert.NotZero(t, user.ID)
	assert.False(t, user.CreatedAt.IsZero())
	assert.Equal(t, 1, s.store.Len())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	body := `{"email":"alice@example.com","password":"secret123"}`

	rec, _ := s.do(t, http.MethodPost, "/api/users", body, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env := s.do(t, http.MethodPost, "/api/users", body, nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "EMAIL_ALREADY_EXISTS", env.Error.Code)
	assert.Equal(t, 1, s.store.Len())
}

func TestRegister_ValidationFailure(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/users", `{"email":"not-an-email","password":"123"}`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)

	var violations []struct {
		Field string `json:"field"`
		Rule  string `json:"rule"`
	}
	require.NoError(t, json.Unmarshal(env.Error.Details, &violations))
	require.Len(t, violations, 2)
	assert.Equal(t, "email", violations[0].Field)
	assert.Equal(t, "password", violations[1].Field)
	assert.Equal(t, 0, s.store.Len())
}

func TestRegister_MalformedBody(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/users", `{"email":`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_INPUT", env.Error.Code)
}

func TestLogin_AndMe(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodPost, "/api/users", `{"email":"alice@example.com","password":"secret123"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	token := s.login(t, "alice@example.com", "secret123")

	rec, env := s.do(t, http.MethodGet, "/api/me", "", map[string]string{
		echo.HeaderAuthorization: "Bearer " + token,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var me handler.MeResponse
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "Access granted", me.Message)
	assert.Equal(t, "alice@example.com", me.Email)
	assert.NotZero(t, me.UserID)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodPost, "/api/users", `{"email":"alice@example.com","password":"secret123"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	wrongPassword, wrongPasswordEnv := s.do(t, http.MethodPost, "/api/login", `{"email":"alice@example.com","password":"wrong-password"}`, nil)
	unknownEmail, unknownEmailEnv := s.do(t, http.MethodPost, "/api/login", `{"email":"nobody@example.com","password":"secret123"}`, nil)

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	require.NotNil(t, wrongPasswordEnv.Error)
	require.NotNil(t, unknownEmailEnv.Error)
	assert.Equal(t, "INVALID_CREDENTIALS", wrongPasswordEnv.Error.Code)
	assert.Equal(t, *wrongPasswordEnv.Error, *unknownEmailEnv.Error)
}

func TestMe_Rejections(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "wrong scheme", header: "Basic YWxpY2U6c2VjcmV0"},
		{name: "empty bearer", header: "Bearer "},
		{name: "garbage token", header: "Bearer not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers[echo.HeaderAuthorization] = tt.header
			}

			rec, env := s.do(t, http.MethodGet, "/api/me", "", headers)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			require.NotNil(t, env.Error)
			assert.Equal(t, "AUTHENTICATION_REQUIRED", env.Error.Code)
		})
	}
}

func TestMe_DeletedAccount(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/api/users", `{"email":"alice@example.com","password":"secret123"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var user handler.UserResponse
	require.NoError(t, json.Unmarshal(env.Data, &user))

	token := s.login(t, "alice@example.com", "secret123")
	require.True(t, s.store.Delete(user.ID))

	rec, env = s.do(t, http.MethodGet, "/api/me", "", map[string]string{
		echo.HeaderAuthorization: "bearer " + token,
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "AUTHENTICATION_REQUIRED", env.Error.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodPost, "/api/users", `{"email":"alice@example.com","password":"secret123"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	rec, _ = s.do(t, http.MethodPost, "/api/users", `{"email":"alice@example.com","password":"secret123"}`, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/metrics", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `account_registrations_total{result="success"} 1`)
	assert.Contains(t, body, `account_registrations_total{result="email_already_exists"} 1`)
	assert.Contains(t, body, `account_http_requests_total{method="POST",route="/api/users",status="409"} 1`)
}
