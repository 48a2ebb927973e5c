package token

import (
	"testing"
	"time"

	"storefront/internal/domain/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTIssuer_IssueAndParse(t *testing.T) {
	iss := NewJWTIssuer("secret", time.Hour)
	now := time.Now()

	raw, exp, err := iss.Issue("u-1", model.RoleAdmin, 3, now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Hour), exp, time.Second)

	claims, err := iss.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, 3, claims.TokenVersion)
}

func TestJWTIssuer_Parse_Expired(t *testing.T) {
	iss := NewJWTIssuer("secret", time.Minute)
	raw, _, err := iss.Issue("u-1", model.RoleUser, 0, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = iss.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTIssuer_Parse_WrongSecret(t *testing.T) {
	raw, _, err := NewJWTIssuer("a", time.Hour).Issue("u-1", model.RoleUser, 0, time.Now())
	require.NoError(t, err)

	_, err = NewJWTIssuer("b", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTIssuer_Parse_RejectsOtherAlg(t *testing.T) {
	claims := Claims{
		Role: model.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewJWTIssuer("secret", time.Hour).Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
