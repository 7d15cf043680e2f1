package auth

import (
	"github.com/anjiri1684/quiz_connect/models"
)

type Capability int

const (
	TakeQuizzes Capability = iota
	ManageQuizzes
	ManageStudents
	ManagePayments
	ManageDocuments
	ManageNotifications
	ViewAnyAccount
)

var capabilities = map[models.Role][]Capability{
	models.RoleStudent: {TakeQuizzes},
	models.RoleAdmin: {
		ManageQuizzes, ManageStudents, ManagePayments,
		ManageDocuments, ManageNotifications, ViewAnyAccount,
	},
}

// Principal is the authenticated caller of a request.
type Principal struct {
	AccountID uint
	Role      models.Role
	Username  string
}

func (p Principal) Can(c Capability) bool {
	for _, have := range capabilities[p.Role] {
		if have == c {
			return true
		}
	}
	return false
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// CanAccessAccount is true for the account owner or anyone allowed to view any account.
func (p Principal) CanAccessAccount(id uint) bool {
	return p.AccountID == id || p.Can(ViewAnyAccount)
}
