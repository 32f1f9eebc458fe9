package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	svc := NewService("secret", time.Hour)

	raw, err := svc.Issue(42, "provider")
	require.NoError(t, err)
	require.NotEmpty(t, raw)

	claims, err := svc.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "provider", claims.Role)
	assert.NotEmpty(t, claims.JTI)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
}

func TestEachTokenGetsUniqueJTI(t *testing.T) {
	svc := NewService("secret", time.Hour)

	first, err := svc.Issue(1, "customer")
	require.NoError(t, err)
	second, err := svc.Issue(1, "customer")
	require.NoError(t, err)

	firstClaims, err := svc.Verify(first)
	require.NoError(t, err)
	secondClaims, err := svc.Verify(second)
	require.NoError(t, err)

	assert.NotEqual(t, firstClaims.JTI, secondClaims.JTI)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := NewService("secret", -time.Minute)

	raw, err := svc.Issue(1, "customer")
	require.NoError(t, err)

	_, err = svc.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	raw, err := NewService("secret", time.Hour).Issue(1, "customer")
	require.NoError(t, err)

	_, err = NewService("another-secret", time.Hour).Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsUnsignedToken(t *testing.T) {
	svc := NewService("secret", time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"id":  float64(1),
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := NewService("secret", time.Hour)

	for _, raw := range []string{"", "not.a.token", "aaaa.bbbb.cccc"} {
		_, err := svc.Verify(raw)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}
