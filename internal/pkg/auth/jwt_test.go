package auth

import (
	"testing"
	"time"

	"github.com/myuniba/myuniba/internal/app/models"
	"github.com/myuniba/myuniba/internal/pkg/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWT() *JWTService {
	return NewJWTService(JWTConfig{SecretKey: "test-secret", TokenIssuer: "myuniba.ac.id"})
}

func TestGenerateAndValidateToken(t *testing.T) {
	svc := newTestJWT()

	token, err := svc.GenerateToken(42, models.RoleInstructor, time.Hour)
	require.NoError(t, err)

	claims, err := svc.ValidateAndExtractClaims(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "instructor", claims.RoleType)
	assert.Equal(t, "42", claims.Subject)
}

func TestValidateToken_Rejections(t *testing.T) {
	svc := newTestJWT()

	expired, err := svc.GenerateToken(1, models.RoleStudent, -time.Minute)
	require.NoError(t, err)
	_, err = svc.ValidateToken(expired)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)

	foreign, err := NewJWTService(JWTConfig{SecretKey: "other", TokenIssuer: "myuniba.ac.id"}).GenerateToken(1, models.RoleStudent, time.Hour)
	require.NoError(t, err)
	_, err = svc.ValidateToken(foreign)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	otherIssuer, err := NewJWTService(JWTConfig{SecretKey: "test-secret", TokenIssuer: "elsewhere"}).GenerateToken(1, models.RoleStudent, time.Hour)
	require.NoError(t, err)
	_, err = svc.ValidateToken(otherIssuer)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	badRole, err := svc.GenerateToken(1, models.RoleType("janitor"), time.Hour)
	require.NoError(t, err)
	_, err = svc.ValidateAndExtractClaims(badRole)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{header: "Bearer a.b.c", want: "a.b.c"},
		{header: "a.b.c", want: "a.b.c"},
		{header: "", wantErr: true},
		{header: "Bearer ", wantErr: true},
		{header: "Basic dXNlcjpwYXNz", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ExtractBearerToken(tt.header)
		if tt.wantErr {
			assert.ErrorIs(t, err, apperrors.ErrInvalidFormat, tt.header)
			continue
		}
		require.NoError(t, err, tt.header)
		assert.Equal(t, tt.want, got)
	}
}
