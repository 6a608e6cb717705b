package token

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-auth-tasks/internal/model"
)

func newKeyPair(t *testing.T) (*rsa.PrivateKey, *rsa.PublicKey) {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key, &key.PublicKey
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	private, public := newKeyPair(t)
	issuer := NewIssuer(private)
	verifier := NewVerifier(public)

	signed, err := issuer.Issue("alice", 42, TypeAccess, 30*time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := verifier.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, TypeAccess, claims.Type)
	assert.True(t, claims.ExpiresAt.After(time.Now()))
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	private, public := newKeyPair(t)
	issuer := NewIssuer(private)
	verifier := NewVerifier(public)

	signed, err := issuer.Issue("alice", 42, TypeAccess, -time.Second)
	require.NoError(t, err)

	_, err = verifier.Verify(signed)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	private, _ := newKeyPair(t)
	_, otherPublic := newKeyPair(t)

	issuer := NewIssuer(private)
	verifier := NewVerifier(otherPublic)

	signed, err := issuer.Issue("alice", 42, TypeAccess, 30*time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(signed)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestVerifyRejectsMalformedToken(t *testing.T) {
	_, public := newKeyPair(t)
	verifier := NewVerifier(public)

	for _, tokenString := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJub25lIn0."} {
		_, err := verifier.Verify(tokenString)
		assert.ErrorIs(t, err, model.ErrInvalidToken, "token %q", tokenString)
	}
}

func TestVerifyRejectsTruncatedToken(t *testing.T) {
	private, public := newKeyPair(t)
	issuer := NewIssuer(private)
	verifier := NewVerifier(public)

	signed, err := issuer.Issue("alice", 42, TypeAccess, 30*time.Minute)
	require.NoError(t, err)

	_, err = verifier.Verify(signed[:len(signed)-10])
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}

// A token signed with HMAC over the public key bytes must not verify, even
// though the verifier could reconstruct the same bytes. This closes the
// classic RS256/HS256 confusion attack.
func TestVerifyRejectsAlgorithmConfusion(t *testing.T) {
	_, public := newKeyPair(t)
	verifier := NewVerifier(public)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "alice",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * time.Minute)),
		},
		UserID: 42,
		Type:   TypeAccess,
	}

	hmacSigned, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString(public.N.Bytes())
	require.NoError(t, err)

	_, err = verifier.Verify(hmacSigned)
	assert.ErrorIs(t, err, model.ErrInvalidToken)
}
