package auth

import (
	"testing"
	"time"

	"github.com/anjiri1684/quiz_connect/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	acc := models.Account{ID: 42, Username: "jane.doe", Role: models.RoleStudent}

	token, err := GenerateToken(NewClaims(acc, time.Hour), "secret")
	require.NoError(t, err)

	claims, err := ParseToken(token, "secret")
	require.NoError(t, err)

	p, err := claims.Principal()
	require.NoError(t, err)
	assert.Equal(t, uint(42), p.AccountID)
	assert.Equal(t, models.RoleStudent, p.Role)
	assert.Equal(t, "jane.doe", p.Username)
}

func TestParseTokenRejects(t *testing.T) {
	acc := models.Account{ID: 1, Role: models.RoleAdmin}

	token, err := GenerateToken(NewClaims(acc, time.Hour), "secret")
	require.NoError(t, err)
	_, err = ParseToken(token, "other")
	assert.Error(t, err, "wrong secret")

	expired, err := GenerateToken(NewClaims(acc, -time.Minute), "secret")
	require.NoError(t, err)
	_, err = ParseToken(expired, "secret")
	assert.Error(t, err, "expired")
}

func TestPrincipalCapabilities(t *testing.T) {
	student := Principal{AccountID: 7, Role: models.RoleStudent}
	admin := Principal{AccountID: 1, Role: models.RoleAdmin}

	assert.True(t, student.Can(TakeQuizzes))
	assert.False(t, student.Can(ManagePayments))
	assert.True(t, student.CanAccessAccount(7))
	assert.False(t, student.CanAccessAccount(8))

	assert.True(t, admin.Can(ManagePayments))
	assert.True(t, admin.CanAccessAccount(8))
}

func TestClaimsPrincipalRejectsBadSubject(t *testing.T) {
	c := Claims{Role: models.RoleStudent}
	c.Subject = "abc"
	_, err := c.Principal()
	assert.Error(t, err)

	c.Subject = "3"
	c.Role = "guest"
	_, err = c.Principal()
	assert.Error(t, err)
}
