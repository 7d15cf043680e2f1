package services

import (
	"strconv"
	"strings"

	"github.com/anjiri1684/quiz_connect/errs"
	"github.com/anjiri1684/quiz_connect/models"
	"github.com/anjiri1684/quiz_connect/utils"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// forUpdate starts a row-locking query. Each call returns a fresh statement,
// so conditions never leak from one lookup into the next.
func forUpdate(tx *gorm.DB) *gorm.DB {
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// lookupErr turns a missing row into a NotFoundError for the resource.
func lookupErr(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound(resource)
	}
	return errors.Wrapf(err, "loading %s", resource)
}

func cleanEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.Wrap(err, "hashing password")
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return password != "" && bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// rotateCode issues a fresh auth code for acc inside tx. The password hash is
// reset to the new code when resetPassword is set or when it held the old code.
func rotateCode(tx *gorm.DB, acc *models.Account, length int, resetPassword bool) (string, error) {
	code, err := utils.GenerateUniqueAuthCode(tx, length)
	if err != nil {
		return "", errors.Wrap(err, "generating auth code")
	}

	updates := map[string]interface{}{"auth_code": code}
	if resetPassword || (acc.Code() != "" && checkPassword(acc.Password, acc.Code())) {
		hash, err := hashPassword(code)
		if err != nil {
			return "", err
		}
		updates["password"] = hash
		acc.Password = hash
	}
	if err := tx.Model(acc).Updates(updates).Error; err != nil {
		return "", errors.Wrap(err, "storing auth code")
	}
	acc.AuthCode = &code
	return code, nil
}

func itoa(i int) string {
	return strconv.Itoa(i)
}

// trimFieldPrefix drops the leading dot left by an empty field prefix.
func trimFieldPrefix(err error) error {
	var vErr *errs.ValidationError
	if !errors.As(err, &vErr) {
		return err
	}
	for i := range vErr.Fields {
		vErr.Fields[i].Field = strings.TrimPrefix(vErr.Fields[i].Field, ".")
	}
	return vErr
}
