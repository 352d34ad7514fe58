package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCashierTokenRoundTrip(t *testing.T) {
	token, err := GenerateCashierToken("cashier-7", "Budi", "secret", time.Hour, "pos")
	require.NoError(t, err)

	claims, err := ParseCashierToken(token, "secret", "pos")
	require.NoError(t, err)
	assert.Equal(t, "cashier-7", claims.Subject)
	assert.Equal(t, "Budi", claims.Name)

	_, err = ParseCashierToken(token, "other-secret", "")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = ParseCashierToken(token, "secret", "someone-else")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)
}

func TestParseCashierToken_Expired(t *testing.T) {
	token, err := GenerateCashierToken("cashier-7", "", "secret", -time.Minute, "")
	require.NoError(t, err)

	_, err = ParseCashierToken(token, "secret", "")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestGenerateCashierToken_RequiresID(t *testing.T) {
	_, err := GenerateCashierToken("", "Budi", "secret", time.Hour, "")
	assert.Error(t, err)
}
