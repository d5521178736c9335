package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/indrhi/suministros-api/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

var testSubject = pkgjwt.Subject{
	UserID:       "00000000-0000-0000-0000-000000000001",
	Name:         "Mike Johnson",
	Role:         "Supply",
	DepartmentID: "00000000-0000-0000-0000-000000000002",
}

func TestGenerateAndParse_ConservaSesion(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testSubject, "indrhi-test", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	claims, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testSubject.UserID, claims.UserID)
	assert.Equal(t, testSubject.UserID, claims.Subject)
	assert.Equal(t, "Mike Johnson", claims.Name)
	assert.Equal(t, "Supply", claims.Role)
	assert.Equal(t, testSubject.DepartmentID, claims.DepartmentID)
	assert.Equal(t, "indrhi-test", claims.Issuer)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testSubject, "indrhi-test", -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testSubject, "indrhi-test", 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", testSubject, "indrhi-test", 60)
	assert.Error(t, err)

	_, err = pkgjwt.Parse("", "a.b.c")
	assert.Error(t, err)
}
