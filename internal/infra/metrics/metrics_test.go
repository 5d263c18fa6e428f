package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	domainerrors "account/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultLabel(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "success", err: nil, want: "success"},
		{name: "duplicate email", err: domainerrors.ErrDuplicateEmail.WrapMessage("x"), want: "email_already_exists"},
		{name: "validation", err: domainerrors.NewValidationError(), want: "validation_failed"},
		{name: "invalid credentials", err: errors.Wrap(domainerrors.ErrInvalidCredentials, "login failed"), want: "invalid_credentials"},
		{name: "database failure", err: domainerrors.NewDatabaseExecuteError(errors.New("down"), "x"), want: "error"},
		{name: "plain error", err: errors.New("boom"), want: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResultLabel(tt.err))
		})
	}
}

func TestRecorder_Counters(t *testing.T) {
	r := NewRecorder()

	r.ObserveRegistration(nil)
	r.ObserveRegistration(domainerrors.ErrDuplicateEmail)
	r.ObserveLogin(domainerrors.ErrInvalidCredentials)
	r.ObserveAuthentication(nil)
	r.ObserveAuthentication(nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.registrations.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.registrations.WithLabelValues("email_already_exists")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.logins.WithLabelValues("invalid_credentials")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.authentications.WithLabelValues("success")))
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.ObserveRequest(http.MethodPost, "/api/login", http.StatusOK, 15*time.Millisecond)
	r.ObserveLogin(nil)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `account_logins_total{result="success"} 1`)
	assert.Contains(t, string(body), `account_http_requests_total{method="POST",route="/api/login",status="200"} 1`)
}

func TestRecorder_IndependentRegistries(t *testing.T) {
	first := NewRecorder()
	second := NewRecorder()

	first.ObserveLogin(nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(first.logins.WithLabelValues("success")))
	assert.Equal(t, 0.0, testutil.ToFloat64(second.logins.WithLabelValues("success")))
}
