package services

import (
	"strings"
	"time"

	"github.com/anjiri1684/quiz_connect/auth"
	"github.com/anjiri1684/quiz_connect/errs"
	"github.com/anjiri1684/quiz_connect/logger"
	"github.com/anjiri1684/quiz_connect/models"
	"github.com/anjiri1684/quiz_connect/notifications"
	"github.com/anjiri1684/quiz_connect/utils"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const defaultPaymentMethod = "cash"

type (
	PaymentInput struct {
		AccountID        *uint            `json:"account_id"`
		Amount           decimal.Decimal  `json:"amount"`
		Method           string           `json:"method" validate:"omitempty,max=50"`
		ReferenceCode    *string          `json:"reference_code" validate:"omitempty,max=100"`
		RemainingBalance *decimal.Decimal `json:"remaining_balance"`
	}

	// PaymentView is a payment with the contact details of its account.
	PaymentView struct {
		models.Payment
		Username string `json:"username"`
		Email    string `json:"email"`
	}

	// Activation is the outcome of a payment that activated its account.
	Activation struct {
		Payment  models.Payment `json:"payment"`
		AuthCode string         `json:"auth_code"`
		Email    string         `json:"email"`
	}

	PaymentService struct {
		db             *gorm.DB
		mail           *notifications.Dispatcher
		log            logger.Logger
		appName        string
		partialBalance decimal.Decimal
		codeLength     int
	}
)

func NewPaymentService(db *gorm.DB, mail *notifications.Dispatcher, log logger.Logger, appName string, partialBalance decimal.Decimal, codeLength int) *PaymentService {
	return &PaymentService{
		db:             db,
		mail:           mail,
		log:            log,
		appName:        appName,
		partialBalance: partialBalance,
		codeLength:     codeLength,
	}
}

// Create records a pending payment. Students pay for themselves only.
func (s *PaymentService) Create(p auth.Principal, in PaymentInput) (models.Payment, error) {
	accountID := p.AccountID
	switch {
	case p.Can(auth.ManagePayments):
		if in.AccountID == nil {
			return models.Payment{}, errs.Invalid("account_id", "this field is required")
		}
		accountID = *in.AccountID
	case in.AccountID != nil && *in.AccountID != p.AccountID:
		return models.Payment{}, errs.ErrForbidden
	}

	if !in.Amount.IsPositive() {
		return models.Payment{}, errs.Invalid("amount", "amount must be greater than 0")
	}
	remaining := decimal.Zero
	if in.RemainingBalance != nil {
		if in.RemainingBalance.IsNegative() {
			return models.Payment{}, errs.Invalid("remaining_balance", "remaining_balance must be 0 or greater")
		}
		remaining = *in.RemainingBalance
	}
	method := strings.TrimSpace(in.Method)
	if method == "" {
		method = defaultPaymentMethod
	}

	var acc models.Account
	if err := s.db.Where("role = ?", models.RoleStudent).First(&acc, accountID).Error; err != nil {
		return models.Payment{}, lookupErr(err, "student")
	}

	payment := models.Payment{
		AccountID:        acc.ID,
		Method:           method,
		ReferenceCode:    in.ReferenceCode,
		Amount:           in.Amount,
		Status:           models.PaymentPending,
		RemainingBalance: remaining,
		PaidAt:           time.Now().UTC(),
	}
	if err := s.db.Create(&payment).Error; err != nil {
		return models.Payment{}, errors.Wrap(err, "creating payment")
	}
	return payment, nil
}

func (s *PaymentService) List(page utils.Page) ([]PaymentView, int64, error) {
	var (
		payments []models.Payment
		total    int64
	)
	if err := s.db.Model(&models.Payment{}).Count(&total).Error; err != nil {
		return nil, 0, errors.Wrap(err, "counting payments")
	}
	if err := s.db.Preload("Account").Order("paid_at desc").Order("id desc").
		Limit(page.Limit).Offset(page.Offset()).Find(&payments).Error; err != nil {
		return nil, 0, errors.Wrap(err, "listing payments")
	}

	views := make([]PaymentView, len(payments))
	for i, p := range payments {
		views[i] = PaymentView{Payment: p, Username: p.Account.Username, Email: p.Account.Email}
	}
	return views, total, nil
}

func (s *PaymentService) ListForAccount(accountID uint) ([]models.Payment, error) {
	var payments []models.Payment
	if err := s.db.Where("account_id = ?", accountID).Order("paid_at desc").Find(&payments).Error; err != nil {
		return nil, errors.Wrap(err, "listing payments")
	}
	return payments, nil
}

func (s *PaymentService) Get(id uint) (models.Payment, error) {
	var payment models.Payment
	if err := s.db.First(&payment, id).Error; err != nil {
		return payment, lookupErr(err, "payment")
	}
	return payment, nil
}

// lockPending loads the payment and its account for update and refuses
// anything that is no longer pending.
func lockPending(tx *gorm.DB, id uint, to models.PaymentStatus) (models.Payment, models.Account, error) {
	var (
		payment models.Payment
		acc     models.Account
	)
	if err := forUpdate(tx).First(&payment, id).Error; err != nil {
		return payment, acc, lookupErr(err, "payment")
	}
	if payment.Resolved() {
		return payment, acc, &errs.TransitionError{From: string(payment.Status), To: string(to)}
	}
	if err := forUpdate(tx).First(&acc, payment.AccountID).Error; err != nil {
		return payment, acc, lookupErr(err, "account")
	}
	return payment, acc, nil
}

// Validate completes the payment, activates the account and rotates its code.
func (s *PaymentService) Validate(id uint) (Activation, error) {
	return s.activate(id, models.PaymentComplete, decimal.Zero)
}

// MarkPartial accepts a partial payment, leaving the configured balance due.
func (s *PaymentService) MarkPartial(id uint) (Activation, error) {
	return s.activate(id, models.PaymentPartial, s.partialBalance)
}

func (s *PaymentService) activate(id uint, to models.PaymentStatus, balance decimal.Decimal) (Activation, error) {
	var (
		out Activation
		acc models.Account
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var (
			payment models.Payment
			err     error
		)
		if payment, acc, err = lockPending(tx, id, to); err != nil {
			return err
		}

		payment.Status = to
		payment.RemainingBalance = balance
		if err := tx.Model(&payment).Updates(map[string]interface{}{
			"status":            payment.Status,
			"remaining_balance": payment.RemainingBalance,
		}).Error; err != nil {
			return errors.Wrap(err, "updating payment")
		}

		code, err := rotateCode(tx, &acc, s.codeLength, false)
		if err != nil {
			return err
		}
		if err := tx.Model(&acc).Update("active", true).Error; err != nil {
			return errors.Wrap(err, "activating account")
		}
		acc.Active = true

		out = Activation{Payment: payment, AuthCode: code, Email: acc.Email}
		return nil
	})
	if err != nil {
		return Activation{}, err
	}

	s.log.Info("Payment resolved", map[string]interface{}{"payment_id": id, "status": to}, logger.Person{ID: itoa(int(acc.ID)), Username: acc.Username, Email: acc.Email})
	s.mail.Dispatch(notifications.AuthCodeEmail(s.appName, acc.DisplayName(), acc.Email, out.AuthCode))
	return out, nil
}

// Reject deletes a pending payment outright.
func (s *PaymentService) Reject(id uint) error {
	var (
		payment models.Payment
		acc     models.Account
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		if payment, acc, err = lockPending(tx, id, models.PaymentRejected); err != nil {
			return err
		}
		return tx.Delete(&payment).Error
	})
	if err != nil {
		return err
	}

	s.log.Warn("Payment rejected and deleted", map[string]interface{}{
		"payment_id": payment.ID,
		"amount":     payment.Amount.String(),
		"method":     payment.Method,
	}, logger.Person{ID: itoa(int(acc.ID)), Username: acc.Username, Email: acc.Email})
	s.mail.Dispatch(notifications.PaymentRejectedEmail(acc.DisplayName(), acc.Email, payment.Amount.StringFixed(2), payment.Method))
	return nil
}
