package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-vet-clinic/config"
	"go-vet-clinic/internal/domain/entity"
	"go-vet-clinic/pkg/jwt"

	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// echoPrincipal records the principal it was called with.
func echoPrincipal(got **entity.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, _ := entity.PrincipalFromContext(r.Context())
		*got = p
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticate_FixedMode(t *testing.T) {
	m := NewAuthMiddleware(nil, config.AuthConfig{
		Mode:          config.AuthModeFixed,
		FixedUserID:   9,
		FixedRole:     "VETERINARIAN",
		FixedClinicID: 2,
	}, quietLogger())

	var got *entity.Principal
	rec := httptest.NewRecorder()
	m.Authenticate(echoPrincipal(&got)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, entity.Principal{UserID: 9, Role: entity.RoleVeterinarian, ClinicID: 2}, *got)
}

func TestAuthenticate_JWTMode(t *testing.T) {
	jwtService := jwt.NewJWTService(config.JWTConfig{Secret: "test-secret", AccessExpiry: time.Minute})
	m := NewAuthMiddleware(jwtService, config.AuthConfig{Mode: config.AuthModeJWT}, quietLogger())

	token, _, err := jwtService.GenerateAccessToken(&entity.Principal{UserID: 3, Role: entity.RoleAdministrative, ClinicID: 5})
	require.NoError(t, err)

	other := jwt.NewJWTService(config.JWTConfig{Secret: "other-secret", AccessExpiry: time.Minute})
	forged, _, err := other.GenerateAccessToken(&entity.Principal{UserID: 3, Role: entity.RoleSuperuser})
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"foreign signature", "Bearer " + forged, http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *entity.Principal
			req := httptest.NewRequest(http.MethodGet, "/api/v1/patients", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			m.Authenticate(echoPrincipal(&got)).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusNoContent {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, uint(3), got.UserID)
			assert.Equal(t, entity.RoleAdministrative, got.Role)
			assert.Equal(t, uint(5), got.ClinicID)
		})
	}
}

func TestRequestLogger_RecordsStatus(t *testing.T) {
	log, hook := logrustest.NewNullLogger()

	handler := RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/owners", nil))

	require.Len(t, hook.AllEntries(), 1)
	entry := hook.LastEntry()
	assert.Equal(t, http.StatusTeapot, entry.Data["status"])
	assert.Equal(t, "/api/v1/owners", entry.Data["path"])
	assert.Equal(t, http.MethodPost, entry.Data["method"])
}
