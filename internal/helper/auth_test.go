package helper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/workzen/hr-service/internal/domain"
)

func TestTokenRoundTripCarriesRoleClaim(t *testing.T) {
	auth := SetupAuth("test-secret", time.Hour)

	token, err := auth.GenerateToken(42, "hr@workzen.io", domain.RoleHROfficer)
	require.NoError(t, err)

	claims, err := auth.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "hr@workzen.io", claims.Email)
	assert.Equal(t, domain.RoleHROfficer, claims.Role)

	// "Bearer <token>" header form is accepted too
	claims, err = auth.VerifyToken("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	token, err := SetupAuth("secret-a", time.Hour).GenerateToken(1, "a@b.c", domain.RoleEmployee)
	require.NoError(t, err)

	_, err = SetupAuth("secret-b", time.Hour).VerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	auth := Auth{Secret: "test-secret", Expiry: -time.Minute}
	token, err := auth.GenerateToken(1, "a@b.c", domain.RoleEmployee)
	require.NoError(t, err)

	_, err = auth.VerifyToken(token)
	assert.Error(t, err)
}

func TestGenerateTokenRequiresIdentity(t *testing.T) {
	auth := SetupAuth("test-secret", time.Hour)

	_, err := auth.GenerateToken(0, "a@b.c", domain.RoleEmployee)
	assert.Error(t, err)
	_, err = auth.GenerateToken(1, "", domain.RoleEmployee)
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	auth := SetupAuth("test-secret", time.Hour)

	hashed, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hashed)

	assert.NoError(t, auth.VerifyPassword("secret1", hashed))
	assert.Error(t, auth.VerifyPassword("wrong", hashed))
}

func TestSplitFullName(t *testing.T) {
	first, last := SplitFullName("Asha Verma")
	assert.Equal(t, "Asha", first)
	assert.Equal(t, "Verma", last)

	first, last = SplitFullName("  Asha  Kumari Verma ")
	assert.Equal(t, "Asha", first)
	assert.Equal(t, "Kumari Verma", last)

	first, last = SplitFullName("Asha")
	assert.Equal(t, "Asha", first)
	assert.Equal(t, "", last)

	first, last = SplitFullName("")
	assert.Equal(t, "", first)
	assert.Equal(t, "", last)
}
