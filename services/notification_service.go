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

// Publisher pushes a stored notification to live clients.
type Publisher interface {
	Publish(n models.Notification)
}

type (
	NotificationInput struct {
		Title     string                    `json:"title" validate:"required,max=150"`
		Message   string                    `json:"message" validate:"required"`
		Target    models.NotificationTarget `json:"target" validate:"omitempty,oneof=all individual"`
		AccountID *uint                     `json:"account_id"`
	}

	// NotificationView is a notification as a recipient sees it. Read state
	// is not stored.
	NotificationView struct {
		models.Notification
		Read bool `json:"read"`
	}

	NotificationService struct {
		db  *gorm.DB
		pub Publisher
	}
)

func NewNotificationService(db *gorm.DB, pub Publisher) *NotificationService {
	return &NotificationService{db: db, pub: pub}
}

func (s *NotificationService) Create(in NotificationInput) (models.Notification, error) {
	n := models.Notification{
		Title:   strings.TrimSpace(in.Title),
		Message: strings.TrimSpace(in.Message),
		Target:  in.Target,
		SentAt:  time.Now().UTC(),
	}
	if n.Target == "" {
		n.Target = models.TargetAll
	}

	if n.Target == models.TargetIndividual {
		if in.AccountID == nil {
			return models.Notification{}, errs.Invalid("account_id", "account_id is required for individual notifications")
		}
		var acc models.Account
		if err := s.db.First(&acc, *in.AccountID).Error; err != nil {
			return models.Notification{}, lookupErr(err, "account")
		}
		n.AccountID = &acc.ID
	}

	if err := s.db.Create(&n).Error; err != nil {
		return models.Notification{}, errors.Wrap(err, "creating notification")
	}
	if s.pub != nil {
		s.pub.Publish(n)
	}
	return n, nil
}

func (s *NotificationService) List() ([]models.Notification, error) {
	var list []models.Notification
	if err := s.db.Order("sent_at desc").Order("id desc").Find(&list).Error; err != nil {
		return nil, errors.Wrap(err, "listing notifications")
	}
	return list, nil
}

// ListFor returns broadcasts and the notifications addressed to the account.
func (s *NotificationService) ListFor(accountID uint) ([]NotificationView, error) {
	var list []models.Notification
	err := s.db.
		Where("target = ?", models.TargetAll).
		Or("target = ? AND account_id = ?", models.TargetIndividual, accountID).
		Order("sent_at desc").Order("id desc").
		Find(&list).Error
	if err != nil {
		return nil, errors.Wrap(err, "listing notifications")
	}
	views := make([]NotificationView, len(list))
	for i, n := range list {
		views[i] = NotificationView{Notification: n}
	}
	return views, nil
}

// MarkRead acknowledges a notification addressed to the caller. Nothing is
// persisted.
func (s *NotificationService) MarkRead(p auth.Principal, id uint) error {
	var n models.Notification
	if err := s.db.First(&n, id).Error; err != nil {
		return lookupErr(err, "notification")
	}
	if !n.For(p.AccountID) && !p.Can(auth.ManageNotifications) {
		return errs.NotFound("notification")
	}
	return nil
}
