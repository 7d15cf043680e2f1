package services

import (
	"fmt"
	"strings"

	"github.com/anjiri1684/quiz_connect/errs"
	"github.com/anjiri1684/quiz_connect/models"
	"github.com/anjiri1684/quiz_connect/notifications"
	"github.com/anjiri1684/quiz_connect/utils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type (
	RegisterInput struct {
		Username  string  `json:"username" validate:"required,min=3,max=80"`
		Email     string  `json:"email" validate:"required,email,max=120"`
		Password  string  `json:"password" validate:"required,min=8,max=72"`
		FirstName string  `json:"first_name" validate:"omitempty,max=80"`
		LastName  string  `json:"last_name" validate:"omitempty,max=80"`
		Phone     *string `json:"phone" validate:"omitempty,max=20"`
	}

	NewStudent struct {
		FirstName string  `json:"first_name" validate:"required,max=80"`
		LastName  string  `json:"last_name" validate:"required,max=80"`
		Email     string  `json:"email" validate:"required,email,max=120"`
		Phone     *string `json:"phone" validate:"omitempty,max=20"`
	}

	AccountService struct {
		db         *gorm.DB
		mail       *notifications.Dispatcher
		appName    string
		codeLength int
	}
)

func NewAccountService(db *gorm.DB, mail *notifications.Dispatcher, appName string, codeLength int) *AccountService {
	return &AccountService{db: db, mail: mail, appName: appName, codeLength: codeLength}
}

func (s *AccountService) checkUniqueness(tx *gorm.DB, username, email string) error {
	var existing models.Account
	err := tx.Where("email = ? OR username = ?", email, username).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "checking uniqueness")
	}
	if existing.Email == email {
		return errs.Conflict("a user with this email already exists")
	}
	return errs.Conflict("a user with this username already exists")
}

func createErr(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return errs.Conflict("a user with this email or username already exists")
	}
	return errors.Wrap(err, "creating account")
}

// Register creates an inactive student account with a chosen password.
func (s *AccountService) Register(in RegisterInput) (models.Account, error) {
	acc := models.Account{
		Username:  strings.TrimSpace(in.Username),
		Email:     cleanEmail(in.Email),
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
		Phone:     in.Phone,
		Role:      models.RoleStudent,
	}
	if err := s.checkUniqueness(s.db, acc.Username, acc.Email); err != nil {
		return models.Account{}, err
	}
	hash, err := hashPassword(in.Password)
	if err != nil {
		return models.Account{}, err
	}
	acc.Password = hash
	if err := s.db.Create(&acc).Error; err != nil {
		return models.Account{}, createErr(err)
	}
	return acc, nil
}

// CreateStudent creates an inactive student whose password is the issued
// auth code, and emails the code.
func (s *AccountService) CreateStudent(in NewStudent) (models.Account, string, error) {
	var (
		acc  models.Account
		code string
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		email := cleanEmail(in.Email)
		if err := s.checkUniqueness(tx, "", email); err != nil {
			return err
		}
		username, err := s.freeUsername(tx, email)
		if err != nil {
			return err
		}

		code, err = utils.GenerateUniqueAuthCode(tx, s.codeLength)
		if err != nil {
			return errors.Wrap(err, "generating auth code")
		}
		hash, err := hashPassword(code)
		if err != nil {
			return err
		}

		acc = models.Account{
			Username:  username,
			Email:     email,
			FirstName: strings.TrimSpace(in.FirstName),
			LastName:  strings.TrimSpace(in.LastName),
			Phone:     in.Phone,
			Password:  hash,
			AuthCode:  &code,
			Role:      models.RoleStudent,
		}
		if err := tx.Create(&acc).Error; err != nil {
			return createErr(err)
		}
		return nil
	})
	if err != nil {
		return models.Account{}, "", err
	}

	s.mail.Dispatch(notifications.AuthCodeEmail(s.appName, acc.DisplayName(), acc.Email, code))
	return acc, code, nil
}

// freeUsername derives a username from the email local part.
func (s *AccountService) freeUsername(tx *gorm.DB, email string) (string, error) {
	base := email
	if i := strings.Index(email, "@"); i > 0 {
		base = email[:i]
	}
	candidate := base
	for n := 1; ; n++ {
		var count int64
		if err := tx.Model(&models.Account{}).Where("username = ?", candidate).Count(&count).Error; err != nil {
			return "", errors.Wrap(err, "checking username")
		}
		if count == 0 {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s%d", base, n)
	}
}

func (s *AccountService) List(page utils.Page) ([]models.Account, int64, error) {
	var (
		accounts []models.Account
		total    int64
	)
	q := s.db.Model(&models.Account{}).Where("role = ?", models.RoleStudent).Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "counting students")
	}
	if err := q.Order("created_at desc").Order("id desc").Limit(page.Limit).Offset(page.Offset()).Find(&accounts).Error; err != nil {
		return nil, 0, errors.Wrap(err, "listing students")
	}
	return accounts, total, nil
}

func (s *AccountService) student(tx *gorm.DB, id uint) (models.Account, error) {
	var acc models.Account
	if err := tx.Where("role = ?", models.RoleStudent).First(&acc, id).Error; err != nil {
		return acc, lookupErr(err, "student")
	}
	return acc, nil
}

func (s *AccountService) Get(id uint) (models.Account, error) {
	return s.student(s.db, id)
}

func (s *AccountService) Toggle(id uint) (models.Account, error) {
	var acc models.Account
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if acc, err = s.student(forUpdate(tx), id); err != nil {
			return err
		}
		acc.Active = !acc.Active
		return tx.Model(&acc).Update("active", acc.Active).Error
	})
	return acc, err
}

// ResendCode issues a new code, resets the password to it and emails it.
func (s *AccountService) ResendCode(id uint) (models.Account, string, error) {
	var (
		acc  models.Account
		code string
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if acc, err = s.student(forUpdate(tx), id); err != nil {
			return err
		}
		code, err = rotateCode(tx, &acc, s.codeLength, true)
		return err
	})
	if err != nil {
		return models.Account{}, "", err
	}

	s.mail.Dispatch(notifications.AuthCodeEmail(s.appName, acc.DisplayName(), acc.Email, code))
	return acc, code, nil
}

func purgeAccounts(tx *gorm.DB, ids []uint) (int64, error) {
	if err := tx.Where("account_id IN ?", ids).Delete(&models.Result{}).Error; err != nil {
		return 0, errors.Wrap(err, "deleting results")
	}
	if err := tx.Where("account_id IN ?", ids).Delete(&models.Payment{}).Error; err != nil {
		return 0, errors.Wrap(err, "deleting payments")
	}
	if err := tx.Where("target = ? AND account_id IN ?", models.TargetIndividual, ids).Delete(&models.Notification{}).Error; err != nil {
		return 0, errors.Wrap(err, "deleting notifications")
	}
	res := tx.Where("role = ? AND id IN ?", models.RoleStudent, ids).Delete(&models.Account{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "deleting students")
	}
	return res.RowsAffected, nil
}

// Delete removes a student together with their results and payments.
func (s *AccountService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if _, err := s.student(tx, id); err != nil {
			return err
		}
		_, err := purgeAccounts(tx, []uint{id})
		return err
	})
}

// BulkDelete removes the listed students. Ids that name no student are ignored.
func (s *AccountService) BulkDelete(ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, errs.Invalid("ids", "at least one id is required")
	}
	var deleted int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var students []uint
		if err := tx.Model(&models.Account{}).Where("role = ? AND id IN ?", models.RoleStudent, ids).Pluck("id", &students).Error; err != nil {
			return errors.Wrap(err, "loading students")
		}
		if len(students) == 0 {
			return nil
		}
		var err error
		deleted, err = purgeAccounts(tx, students)
		return err
	})
	return deleted, err
}
