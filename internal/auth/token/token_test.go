package token

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	autherrors "servicehub/internal/auth/errors"
	"servicehub/pkg/model"
)

const secret = "0123456789abcdef0123456789abcdef"

func testUser() *model.User {
	return &model.User{ID: "507f1f77bcf86cd799439011", Email: "dana@example.com", Phone: "+12015550123"}
}

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer(secret, time.Hour)

	raw, expiresAt, err := issuer.Issue(testUser())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	identity, err := issuer.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "507f1f77bcf86cd799439011", identity.UserID)
	assert.Equal(t, "dana@example.com", identity.Email)
	assert.Equal(t, "+12015550123", identity.Phone)
	assert.Empty(t, identity.ProfileID)
}

func TestVerify_Rejects(t *testing.T) {
	issuer := NewIssuer(secret, time.Hour)
	raw, _, err := issuer.Issue(testUser())
	require.NoError(t, err)

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewIssuer("another-secret-another-secret-xx", time.Hour).Verify(raw)
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})

	t.Run("expired", func(t *testing.T) {
		late := NewIssuer(secret, time.Hour)
		late.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := late.Verify(raw)
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})

	t.Run("other algorithm", func(t *testing.T) {
		claims := jwt.RegisteredClaims{
			Subject:   "507f1f77bcf86cd799439011",
			Issuer:    issuerName,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
		other, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		_, err = issuer.Verify(other)
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Verify("not.a.token")
		assert.ErrorIs(t, err, autherrors.ErrInvalidToken)
	})
}
