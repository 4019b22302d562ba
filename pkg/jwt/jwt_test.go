package jwt

import (
	"testing"
	"time"

	"go-vet-clinic/config"
	"go-vet-clinic/internal/domain/entity"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "s3cret", AccessExpiry: time.Minute})

	token, tokenID, err := svc.GenerateAccessToken(&entity.Principal{UserID: 4, Role: entity.RoleVeterinarian, ClinicID: 2})
	require.NoError(t, err)
	assert.NotEmpty(t, tokenID)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, tokenID, claims.TokenID)
	assert.Equal(t, &entity.Principal{UserID: 4, Role: entity.RoleVeterinarian, ClinicID: 2}, claims.Principal())
}

func TestValidateToken_Rejects(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "s3cret", AccessExpiry: time.Minute})

	t.Run("expired", func(t *testing.T) {
		expired := NewJWTService(config.JWTConfig{Secret: "s3cret", AccessExpiry: -time.Minute})
		token, _, err := expired.GenerateAccessToken(&entity.Principal{UserID: 1, Role: entity.RoleAdministrative, ClinicID: 1})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, gojwt.ErrTokenExpired)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{Secret: "other", AccessExpiry: time.Minute})
		token, _, err := other.GenerateAccessToken(&entity.Principal{UserID: 1, Role: entity.RoleAdministrative, ClinicID: 1})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.ErrorIs(t, err, gojwt.ErrTokenSignatureInvalid)
	})

	t.Run("unknown role", func(t *testing.T) {
		token, _, err := svc.GenerateAccessToken(&entity.Principal{UserID: 1, Role: entity.RoleName("OWNER"), ClinicID: 1})
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.EqualError(t, err, "invalid role claim")
	})

	t.Run("unsigned", func(t *testing.T) {
		token, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, gojwt.MapClaims{"user_id": 1, "role": "SUPERUSER"}).
			SignedString(gojwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)
		assert.Error(t, err)
	})
}
