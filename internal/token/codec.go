// Package token implements the signed bearer-token codec shared by the auth
// and tasks services. Tokens are stateless: validity is a function of the
// RSA signature and the embedded expiry alone, so any service holding the
// public key can verify them without calling back to the issuer.
package token

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go-auth-tasks/internal/model"
)

const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// algorithm is pinned per deployment. Tokens signed with anything else are
// rejected regardless of whether their signature would verify.
const algorithm = "RS256"

// Claims carries the subject identity plus the token class. A refresh token
// must never be accepted where an access token is required, and vice versa;
// callers check Type after verification.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64  `json:"user_id"`
	Type   string `json:"type"`
}

// Issuer signs tokens with the private key. Only the auth service holds one.
type Issuer struct {
	key *rsa.PrivateKey
}

func NewIssuer(key *rsa.PrivateKey) *Issuer {
	return &Issuer{key: key}
}

func (i *Issuer) Issue(username string, userID int64, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
		Type:   tokenType,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(i.key)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}

	return signed, nil
}

// Verifier validates tokens with the public key only.
type Verifier struct {
	key *rsa.PublicKey
}

func NewVerifier(key *rsa.PublicKey) *Verifier {
	return &Verifier{key: key}
}

// Verify decodes the token and checks signature and expiry. Every failure
// mode (bad signature, malformed string, expired, foreign algorithm)
// collapses into ErrInvalidToken so callers cannot leak the distinction.
func (v *Verifier) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method %s", t.Method.Alg())
		}
		return v.key, nil
	}, jwt.WithValidMethods([]string{algorithm}))
	if err != nil || !parsed.Valid {
		return nil, model.ErrInvalidToken
	}

	return claims, nil
}
