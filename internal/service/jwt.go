package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionTTL = 24 * time.Hour

var jwtSecret []byte

// sessionClaims carries the authenticated pioneer through the standard
// registered claims, which ParseWithClaims validates (exp/nbf) for us.
type sessionClaims struct {
	PioneerID int64 `json:"pioneer_id"`
	jwt.RegisteredClaims
}

// InitJWT installs the signing secret. The secret comes from config.Load,
// which has already rejected an empty value; the panic here only guards
// against wiring mistakes.
func InitJWT(secret string) {
	if secret == "" {
		panic("jwt secret must not be empty")
	}
	jwtSecret = []byte(secret)
}

func GenerateJWT(userID int64) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		PioneerID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "piquiz",
			ExpiresAt: jwt.NewNumericDate(now.Add(sessionTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(jwtSecret)
}

func ParseJWT(tokenString string) (int64, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (interface{}, error) {
			return jwtSecret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil || !token.Valid {
		return 0, errors.New("invalid token")
	}

	if claims.PioneerID <= 0 {
		return 0, errors.New("pioneer id not found")
	}

	return claims.PioneerID, nil
}
