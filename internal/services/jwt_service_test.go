package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/hirehub/internal/models"
)

func TestJWTRoundTrip(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)
	principal := models.Principal{
		UserID:    "11111111-1111-1111-1111-111111111111",
		Email:     "recruiter@example.com",
		Role:      models.RoleRecruiter,
		CompanyID: "33333333-3333-3333-3333-333333333333",
	}

	token, err := svc.GenerateToken(principal)
	require.NoError(t, err)

	got, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, principal, *got)
}

func TestJWTRejectsBadTokens(t *testing.T) {
	svc := NewJWTService("test-secret", time.Hour)

	otherKey, err := NewJWTService("other-secret", time.Hour).GenerateToken(models.Principal{UserID: "u1"})
	require.NoError(t, err)

	expired, err := NewJWTService("test-secret", -time.Minute).GenerateToken(models.Principal{UserID: "u1"})
	require.NoError(t, err)

	noSubject, err := svc.GenerateToken(models.Principal{Email: "nobody@example.com"})
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "u1"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := map[string]string{
		"garbage":         "not.a.token",
		"wrong secret":    otherKey,
		"expired":         expired,
		"missing subject": noSubject,
		"unsigned":        none,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			assert.Error(t, err)
		})
	}
}

func TestValidateStructReportsJSONFieldNames(t *testing.T) {
	err := ValidateStruct(&models.SendMessageRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Validation failed")

	assert.NoError(t, ValidateStruct(&models.SendMessageRequest{ConversationID: "c1", Content: "hi"}))
}
