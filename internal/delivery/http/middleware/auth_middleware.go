package middleware

import (
	"net/http"
	"strings"

	"go-vet-clinic/config"
	"go-vet-clinic/internal/domain/entity"
	"go-vet-clinic/pkg/jwt"
	"go-vet-clinic/pkg/response"

	"github.com/sirupsen/logrus"
)

// AuthMiddleware attaches the request principal to the context. It does not
// decide what the principal may do; usecases check capabilities themselves.
type AuthMiddleware struct {
	jwtService *jwt.JWTService
	cfg        config.AuthConfig
	log        *logrus.Logger
}

func NewAuthMiddleware(jwtService *jwt.JWTService, cfg config.AuthConfig, log *logrus.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		cfg:        cfg,
		log:        log,
	}
}

func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.cfg.Mode == config.AuthModeFixed {
			principal := &entity.Principal{
				UserID:   m.cfg.FixedUserID,
				Role:     entity.RoleName(m.cfg.FixedRole),
				ClinicID: m.cfg.FixedClinicID,
			}
			next.ServeHTTP(w, r.WithContext(entity.ContextWithPrincipal(r.Context(), principal)))
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Authorization header is required")
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format")
			return
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.log.WithError(err).Debug("Rejected bearer token")
			response.Unauthorized(w, "Invalid or expired token")
			return
		}

		ctx := entity.ContextWithPrincipal(r.Context(), claims.Principal())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
