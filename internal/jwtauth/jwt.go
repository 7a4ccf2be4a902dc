// Package jwtauth validates access tokens issued by the external identity
// provider. Pulseboard never mints tokens; it only verifies the HMAC
// signature and extracts the subject user.
package jwtauth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	id "pulseboard/pkg/domain"
	dErrors "pulseboard/pkg/domain-errors"
)

// Claims are the token claims this service reads.
type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// Validator verifies inbound bearer tokens.
type Validator struct {
	signingKey []byte
	issuer     string
	audience   string
}

func NewValidator(signingKey, issuer, audience string) *Validator {
	return &Validator{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

// ValidateToken checks the signature, issuer, and audience, and returns the
// subject user ID.
func (v *Validator) ValidateToken(tokenString string) (id.UserID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return v.signingKey, nil
	}, jwt.WithIssuer(v.issuer), jwt.WithAudience(v.audience))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return id.UserID{}, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return id.UserID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return id.UserID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	subject := claims.UserID
	if subject == "" {
		subject = claims.Subject
	}
	userID, err := id.ParseUserID(subject)
	if err != nil {
		return id.UserID{}, dErrors.New(dErrors.CodeUnauthorized, "token has no valid subject")
	}
	return userID, nil
}
