package services

import (
	"github.com/anjiri1684/quiz_connect/auth"
	"github.com/anjiri1684/quiz_connect/models"
	"github.com/anjiri1684/quiz_connect/notifications"
	"github.com/anjiri1684/quiz_connect/testutil"
)

func mailer() (*notifications.Dispatcher, *notifications.ConsoleSender) {
	sender := notifications.NewConsoleSender(nil)
	return notifications.NewInlineDispatcher(sender, testutil.Logger()), sender
}

func principal(acc models.Account) auth.Principal {
	return auth.Principal{AccountID: acc.ID, Role: acc.Role, Username: acc.Username}
}
