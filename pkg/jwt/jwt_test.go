package jwt_test

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-ledger/pkg/jwt"
)

const secret = "secreto-de-prueba"

func TestGenerateParse_RoundTrip(t *testing.T) {
	id := jwt.Identity{UserID: "u-1", Username: "maria", Role: "admin"}
	tok, err := jwt.Generate(secret, id, "inventory-ledger", 5)
	require.NoError(t, err)

	got, err := jwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, id, got)
}

func TestParse_FirmaIncorrecta(t *testing.T) {
	tok, err := jwt.Generate(secret, jwt.Identity{UserID: "u-1"}, "x", 5)
	require.NoError(t, err)

	_, err = jwt.Parse("otro-secreto", tok)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := jwt.Generate(secret, jwt.Identity{UserID: "u-1"}, "x", -5)
	require.NoError(t, err)

	_, err = jwt.Parse(secret, tok)
	assert.ErrorIs(t, err, gojwt.ErrTokenExpired)
}

func TestParse_SinUserID(t *testing.T) {
	tok, err := jwt.Generate(secret, jwt.Identity{Username: "anon"}, "x", 5)
	require.NoError(t, err)

	_, err = jwt.Parse(secret, tok)
	assert.Error(t, err)
}

func TestParse_AlgoritmoNoHMAC(t *testing.T) {
	claims := jwt.Claims{
		RegisteredClaims: gojwt.RegisteredClaims{ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "u-1",
	}
	tok, err := gojwt.NewWithClaims(gojwt.SigningMethodNone, claims).SignedString(gojwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = jwt.Parse(secret, tok)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := jwt.Generate("", jwt.Identity{UserID: "u-1"}, "x", 5)
	assert.Error(t, err)
	_, err = jwt.Parse("", "a.b.c")
	assert.Error(t, err)
}
