package services

import (
	"testing"
	"time"

	"github.com/anjiri1684/quiz_connect/auth"
	"github.com/anjiri1684/quiz_connect/errs"
	"github.com/anjiri1684/quiz_connect/models"
	"github.com/anjiri1684/quiz_connect/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestAuthService_LoginStudent(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewAuthService(db, testSecret, time.Hour)

	testutil.CreateAccount(t, db, "alice", models.RoleStudent, true, "AB12CD")
	testutil.CreateAccount(t, db, "bob", models.RoleStudent, false, "ZZ99ZZ")
	testutil.CreateAccount(t, db, "root", models.RoleAdmin, true, "")

	tests := []struct {
		name    string
		email   string
		code    string
		wantErr error
	}{
		{"code matches", "alice@example.com", "AB12CD", nil},
		{"code is case insensitive", "ALICE@example.com", "ab12cd", nil},
		{"password fallback", "alice@example.com", "password123", nil},
		{"wrong code", "alice@example.com", "XXXXXX", errs.ErrUnauthorized},
		{"unknown email", "nobody@example.com", "AB12CD", errs.ErrUnauthorized},
		{"inactive", "bob@example.com", "ZZ99ZZ", errs.ErrAccountInactive},
		{"admin refused", "root@example.com", "password123", errs.ErrUnauthorized},
		{"empty code", "alice@example.com", "", errs.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := svc.LoginStudent(tt.email, tt.code)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			claims, err := auth.ParseToken(sess.Token, testSecret)
			require.NoError(t, err)
			assert.Equal(t, models.RoleStudent, claims.Role)
			assert.Equal(t, "alice", claims.Username)
		})
	}
}

func TestAuthService_LoginAdmin(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewAuthService(db, testSecret, time.Hour)

	testutil.CreateAccount(t, db, "root", models.RoleAdmin, true, "")
	testutil.CreateAccount(t, db, "alice", models.RoleStudent, true, "AB12CD")

	_, err := svc.LoginAdmin("root@example.com", "password123")
	assert.NoError(t, err)

	_, err = svc.LoginAdmin("root@example.com", "wrong")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	_, err = svc.LoginAdmin("alice@example.com", "password123")
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	sess, err := svc.Login("alice@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "alice", sess.Account.Username)
}

func TestAuthService_Verify(t *testing.T) {
	db := testutil.OpenDB(t)
	svc := NewAuthService(db, testSecret, time.Hour)
	alice := testutil.CreateAccount(t, db, "alice", models.RoleStudent, true, "")

	acc, err := svc.Verify(principal(alice))
	require.NoError(t, err)
	assert.Equal(t, alice.ID, acc.ID)

	_, err = svc.Verify(auth.Principal{AccountID: 999, Role: models.RoleStudent})
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}
