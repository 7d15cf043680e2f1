package services

import (
	"strings"
	"time"

	"github.com/anjiri1684/quiz_connect/auth"
	"github.com/anjiri1684/quiz_connect/errs"
	"github.com/anjiri1684/quiz_connect/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type AuthService struct {
	db     *gorm.DB
	secret string
	ttl    time.Duration
}

type Session struct {
	Token   string         `json:"token"`
	Account models.Account `json:"user"`
}

func NewAuthService(db *gorm.DB, secret string, ttl time.Duration) *AuthService {
	return &AuthService{db: db, secret: secret, ttl: ttl}
}

func (s *AuthService) byEmail(email string) (models.Account, error) {
	var acc models.Account
	if err := s.db.Where("email = ?", cleanEmail(email)).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return acc, errs.ErrUnauthorized
		}
		return acc, errors.Wrap(err, "loading account")
	}
	return acc, nil
}

// LoginStudent accepts the current auth code, case-insensitively, or the
// account password.
func (s *AuthService) LoginStudent(email, code string) (Session, error) {
	acc, err := s.byEmail(email)
	if err != nil {
		return Session{}, err
	}
	if acc.Role != models.RoleStudent {
		return Session{}, errs.ErrUnauthorized
	}
	code = strings.TrimSpace(code)
	if !(acc.Code() != "" && strings.EqualFold(acc.Code(), code)) && !checkPassword(acc.Password, code) {
		return Session{}, errs.ErrUnauthorized
	}
	return s.start(acc)
}

func (s *AuthService) LoginAdmin(email, password string) (Session, error) {
	acc, err := s.byEmail(email)
	if err != nil {
		return Session{}, err
	}
	if !acc.IsAdmin() || !checkPassword(acc.Password, password) {
		return Session{}, errs.ErrUnauthorized
	}
	return s.start(acc)
}

// Login authenticates any role by password.
func (s *AuthService) Login(email, password string) (Session, error) {
	acc, err := s.byEmail(email)
	if err != nil {
		return Session{}, err
	}
	if !checkPassword(acc.Password, password) {
		return Session{}, errs.ErrUnauthorized
	}
	return s.start(acc)
}

func (s *AuthService) start(acc models.Account) (Session, error) {
	if !acc.Active {
		return Session{}, errs.ErrAccountInactive
	}
	token, err := s.Token(acc)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, Account: acc}, nil
}

func (s *AuthService) Token(acc models.Account) (string, error) {
	token, err := auth.GenerateToken(auth.NewClaims(acc, s.ttl), s.secret)
	if err != nil {
		return "", errors.Wrap(err, "signing token")
	}
	return token, nil
}

// Verify returns the account behind a principal. A deleted or deactivated
// account no longer verifies.
func (s *AuthService) Verify(p auth.Principal) (models.Account, error) {
	var acc models.Account
	if err := s.db.First(&acc, p.AccountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return acc, errs.ErrUnauthorized
		}
		return acc, errors.Wrap(err, "loading account")
	}
	if !acc.Active {
		return acc, errs.ErrAccountInactive
	}
	return acc, nil
}
