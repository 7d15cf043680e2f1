package services

import (
	"testing"

	"github.com/anjiri1684/quiz_connect/errs"
	"github.com/anjiri1684/quiz_connect/models"
	"github.com/anjiri1684/quiz_connect/testutil"
	"github.com/anjiri1684/quiz_connect/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAccountService_Register(t *testing.T) {
	db := testutil.OpenDB(t)
	mail, _ := mailer()
	svc := NewAccountService(db, mail, "Quiz Connect", 6)

	acc, err := svc.Register(RegisterInput{Username: "jane", Email: " Jane@Example.com ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", acc.Email)
	assert.Equal(t, models.RoleStudent, acc.Role)
	assert.False(t, acc.Active)

	var conflict *errs.ConflictError
	_, err = svc.Register(RegisterInput{Username: "other", Email: "jane@example.com", Password: "secret123"})
	assert.ErrorAs(t, err, &conflict)

	_, err = svc.Register(RegisterInput{Username: "jane", Email: "new@example.com", Password: "secret123"})
	assert.ErrorAs(t, err, &conflict)
}

func TestAccountService_CreateStudent(t *testing.T) {
	db := testutil.OpenDB(t)
	mail, sender := mailer()
	svc := NewAccountService(db, mail, "Quiz Connect", 6)
	testutil.CreateAccount(t, db, "jane", models.RoleStudent, true, "")

	acc, code, err := svc.CreateStudent(NewStudent{FirstName: "Jane", LastName: "Roe", Email: "jane@school.org"})
	require.NoError(t, err)

	assert.Equal(t, "jane1", acc.Username)
	assert.False(t, acc.Active)
	assert.Len(t, code, 6)
	assert.Equal(t, code, acc.Code())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(acc.Password), []byte(code)))

	sent := sender.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "jane@school.org", sent[0].ToEmail)
	assert.Contains(t, sent[0].HTML, code)
}

func TestAccountService_ToggleAndResend(t *testing.T) {
	db := testutil.OpenDB(t)
	mail, sender := mailer()
	svc := NewAccountService(db, mail, "Quiz Connect", 6)
	alice := testutil.CreateAccount(t, db, "alice", models.RoleStudent, false, "OLD123")
	admin := testutil.CreateAccount(t, db, "root", models.RoleAdmin, true, "")

	acc, err := svc.Toggle(alice.ID)
	require.NoError(t, err)
	assert.True(t, acc.Active)

	acc, err = svc.Toggle(alice.ID)
	require.NoError(t, err)
	assert.False(t, acc.Active)

	_, err = svc.Toggle(admin.ID)
	assert.True(t, errs.IsNotFound(err))

	acc, code, err := svc.ResendCode(alice.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "OLD123", code)

	var stored models.Account
	require.NoError(t, db.First(&stored, alice.ID).Error)
	assert.Equal(t, code, stored.Code())
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte(code)))
	assert.Len(t, sender.Sent(), 1)
}

func TestAccountService_ListAndDelete(t *testing.T) {
	db := testutil.OpenDB(t)
	mail, _ := mailer()
	svc := NewAccountService(db, mail, "Quiz Connect", 6)

	admin := testutil.CreateAccount(t, db, "root", models.RoleAdmin, true, "")
	a := testutil.CreateAccount(t, db, "a", models.RoleStudent, true, "")
	b := testutil.CreateAccount(t, db, "b", models.RoleStudent, true, "")
	c := testutil.CreateAccount(t, db, "c", models.RoleStudent, true, "")
	testutil.CreatePayment(t, db, a.ID, "100")

	list, total, err := svc.List(utils.Page{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, list, 2)

	require.NoError(t, svc.Delete(a.ID))
	var payments int64
	db.Model(&models.Payment{}).Where("account_id = ?", a.ID).Count(&payments)
	assert.Zero(t, payments)

	assert.True(t, errs.IsNotFound(svc.Delete(a.ID)))

	n, err := svc.BulkDelete([]uint{b.ID, c.ID, admin.ID, 999})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	var remaining int64
	db.Model(&models.Account{}).Count(&remaining)
	assert.EqualValues(t, 1, remaining)
}
