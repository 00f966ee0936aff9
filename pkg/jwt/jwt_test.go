package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/dealerhub-api/pkg/jwt"
)

const (
	secret   = "test-secret"
	userID   = "00000000-0000-0000-0000-000000000001"
	dealerID = "00000000-0000-0000-0000-000000000002"
)

func TestGenerate_YParseRecuperaClaims(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, userID, dealerID, "cashier", "dealerhub-test", 60)
	require.NoError(t, err)

	id, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, userID, id.UserID)
	assert.Equal(t, dealerID, id.DealerID)
	assert.Equal(t, "cashier", id.Role)
}

func TestParse_TokenVencido(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, userID, "", "customer", "dealerhub-test", -1)
	require.NoError(t, err)
	_, err = pkgjwt.Parse(secret, tok)
	assert.Error(t, err)
}

func TestParse_SecretoIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, userID, dealerID, "owner", "dealerhub-test", 60)
	require.NoError(t, err)
	_, err = pkgjwt.Parse("otro-secret", tok)
	assert.Error(t, err)
}

func TestGenerate_SecretoVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", userID, dealerID, "owner", "x", 60)
	assert.Error(t, err)
}
