package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCORSMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		origins    []string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{"any origin", []string{"*"}, http.MethodGet, "https://front.vet.test", http.StatusOK, "*"},
		{"no list allows any", nil, http.MethodGet, "https://front.vet.test", http.StatusOK, "*"},
		{"listed origin", []string{"https://front.vet.test/"}, http.MethodGet, "https://front.vet.test", http.StatusOK, "https://front.vet.test"},
		{"unlisted origin", []string{"https://front.vet.test"}, http.MethodGet, "https://evil.test", http.StatusOK, ""},
		{"preflight", []string{"https://front.vet.test"}, http.MethodOptions, "https://front.vet.test", http.StatusNoContent, "https://front.vet.test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/v1/patients", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()

			NewCORSMiddleware(tt.origins).Handle(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, corsAllowedMethods, rec.Header().Get("Access-Control-Allow-Methods"))
		})
	}
}
