package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// CashierClaims are the JWT claims issued to a signed-in cashier.
// Subject holds the cashier ID.
type CashierClaims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// GenerateCashierToken signs an HS256 token for cashierID valid for expiryDuration.
func GenerateCashierToken(cashierID, cashierName, secret string, expiryDuration time.Duration, issuer string) (string, error) {
	if cashierID == "" {
		return "", errors.New("cashier ID is required")
	}
	now := time.Now()
	claims := CashierClaims{
		Name: cashierName,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   cashierID,
			ExpiresAt: jwt.NewNumericDate(now.Add(expiryDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseCashierToken parses a token string, validates its signature and standard
// claims, and returns the cashier claims. issuer is checked only when non-empty.
func ParseCashierToken(tokenString, secretKey, issuer string) (*CashierClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	claims := &CashierClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secretKey), nil
	}, opts...)
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenSignatureInvalid
	}
	return claims, nil
}
