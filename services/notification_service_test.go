package services

import (
	"testing"

	"github.com/anjiri1684/quiz_connect/errs"
	"github.com/anjiri1684/quiz_connect/models"
	"github.com/anjiri1684/quiz_connect/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	published []models.Notification
}

func (r *recordingPublisher) Publish(n models.Notification) {
	r.published = append(r.published, n)
}

func TestNotificationService(t *testing.T) {
	db := testutil.OpenDB(t)
	pub := &recordingPublisher{}
	svc := NewNotificationService(db, pub)

	admin := testutil.CreateAccount(t, db, "root", models.RoleAdmin, true, "")
	alice := testutil.CreateAccount(t, db, "alice", models.RoleStudent, true, "")
	bob := testutil.CreateAccount(t, db, "bob", models.RoleStudent, true, "")

	all, err := svc.Create(NotificationInput{Title: "Exams", Message: "Next week"})
	require.NoError(t, err)
	assert.Equal(t, models.TargetAll, all.Target)

	forBob, err := svc.Create(NotificationInput{Title: "Payment", Message: "Received", Target: models.TargetIndividual, AccountID: &bob.ID})
	require.NoError(t, err)

	var vErr *errs.ValidationError
	_, err = svc.Create(NotificationInput{Title: "x", Message: "y", Target: models.TargetIndividual})
	assert.ErrorAs(t, err, &vErr)

	missing := uint(999)
	_, err = svc.Create(NotificationInput{Title: "x", Message: "y", Target: models.TargetIndividual, AccountID: &missing})
	assert.True(t, errs.IsNotFound(err))

	assert.Len(t, pub.published, 2)

	aliceList, err := svc.ListFor(alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceList, 1)
	assert.False(t, aliceList[0].Read)

	bobList, err := svc.ListFor(bob.ID)
	require.NoError(t, err)
	assert.Len(t, bobList, 2)

	adminList, err := svc.List()
	require.NoError(t, err)
	assert.Len(t, adminList, 2)

	assert.NoError(t, svc.MarkRead(principal(bob), forBob.ID))
	assert.True(t, errs.IsNotFound(svc.MarkRead(principal(alice), forBob.ID)))
	assert.NoError(t, svc.MarkRead(principal(admin), forBob.ID))
	assert.True(t, errs.IsNotFound(svc.MarkRead(principal(alice), 999)))
}
