package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/bsdr/models"
	"github.com/golang-jwt/jwt/v5"
)

// Codec signs and verifies bearer tokens. The wire form is a compact JWS,
// HS256 only. The same secret is used for all tiers; authority lives in the
// claims triple, not in the key.
type Codec struct {
	signKey []byte
}

// NewCodec returns a codec bound to the given signing secret.
func NewCodec(signKey string) *Codec {
	return &Codec{signKey: []byte(signKey)}
}

// Issue signs a token for the given identity triple.
//
// ttl is the token lifetime; the expiry is the issuance instant plus ttl
// with second precision. A zero ttl is honored literally and yields a token
// that is already expired when verified — defaulting is the caller's job.
func (c *Codec) Issue(apxID, vdrID, usrID int64, email string, userType models.UserType, isStaff bool, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := models.Claims{
		ApxID:   apxID,
		VdrID:   vdrID,
		UsrID:   usrID,
		Email:   email,
		Type:    userType,
		IsStaff: isStaff,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(c.signKey)
	if err != nil {
		return "", fmt.Errorf("error occurred during token signing: %w", err)
	}

	return signed, nil
}

// Verify parses and validates a compact JWS and returns its claims.
//
// The signature is checked against the codec's secret with HS256 pinned as
// the only accepted algorithm. Expiry is strict: a token whose exp equals
// the current instant is already expired. Failures map onto the package
// sentinels [ErrTokenExpired], [ErrTokenSignature] and [ErrTokenMalformed].
func (c *Codec) Verify(tokenString string) (models.Claims, error) {
	claims := models.Claims{}

	token, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (interface{}, error) {
			return c.signKey, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return models.Claims{}, fmt.Errorf("%w: %w", ErrTokenExpired, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return models.Claims{}, fmt.Errorf("%w: %w", ErrTokenSignature, err)
		default:
			return models.Claims{}, fmt.Errorf("%w: %w", ErrTokenMalformed, err)
		}
	}

	if !token.Valid {
		return models.Claims{}, ErrTokenMalformed
	}

	// The library treats exp == now as still valid; the contract here is
	// strictly exclusive.
	if claims.ExpiresAt == nil || !time.Now().Before(claims.ExpiresAt.Time) {
		return models.Claims{}, ErrTokenExpired
	}

	return claims, nil
}
