package jobs

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/anjiri1684/quiz_connect/models"
	"github.com/anjiri1684/quiz_connect/notifications"
	"github.com/anjiri1684/quiz_connect/services"
	"github.com/anjiri1684/quiz_connect/storage"
	"github.com/anjiri1684/quiz_connect/testutil"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingLifecycle struct{ calls int }

func (f *failingLifecycle) ActivateScheduled(time.Time) (int64, error) {
	f.calls++
	return 0, errors.New("db down")
}

func (f *failingLifecycle) CloseExpired(time.Time) (int64, error) {
	f.calls++
	return 0, errors.New("db down")
}

type cleanerFunc func(ctx context.Context) (int, error)

func (f cleanerFunc) Cleanup(ctx context.Context) (int, error) { return f(ctx) }

func TestUpdateQuizStatuses(t *testing.T) {
	db := testutil.OpenDB(t)
	mail := notifications.NewInlineDispatcher(notifications.NewConsoleSender(nil), testutil.Logger())
	quizzes := services.NewQuizService(db, mail)
	admin := testutil.CreateAccount(t, db, "root", models.RoleAdmin, true, "")

	expired := testutil.CreateQuiz(t, db, admin.ID, -time.Minute)
	running := testutil.CreateQuiz(t, db, admin.ID, time.Hour)
	due := testutil.CreateQuiz(t, db, admin.ID, time.Hour)
	require.NoError(t, db.Model(&due).Update("status", models.QuizScheduled).Error)
	later := testutil.CreateQuiz(t, db, admin.ID, 2*time.Hour)
	require.NoError(t, db.Model(&later).Updates(map[string]interface{}{
		"status":    models.QuizScheduled,
		"starts_at": time.Now().UTC().Add(time.Hour),
	}).Error)

	UpdateQuizStatuses(quizzes, testutil.Logger())()

	tests := []struct {
		name string
		id   uint
		want models.QuizStatus
	}{
		{"ended quiz closes", expired.ID, models.QuizClosed},
		{"running quiz stays active", running.ID, models.QuizActive},
		{"due quiz opens", due.ID, models.QuizActive},
		{"future quiz stays scheduled", later.ID, models.QuizScheduled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var q models.Quiz
			require.NoError(t, db.First(&q, tt.id).Error)
			assert.Equal(t, tt.want, q.Status)
		})
	}
}

func TestUpdateQuizStatusesKeepsGoingOnError(t *testing.T) {
	f := &failingLifecycle{}
	UpdateQuizStatuses(f, testutil.Logger())()
	assert.Equal(t, 2, f.calls)
}

func TestCleanupDocuments(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)
	store, err := storage.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	documents := services.NewDocumentService(db, store, testutil.Logger())
	admin := testutil.CreateAccount(t, db, "root", models.RoleAdmin, true, "")

	require.NoError(t, store.Put(ctx, "kept.pdf", strings.NewReader("%PDF"), "application/pdf"))
	kept := models.Document{Title: "Kept", Type: "pdf", Path: "kept.pdf", UploadedBy: admin.ID, UploadedAt: time.Now().UTC()}
	gone := models.Document{Title: "Gone", Type: "pdf", Path: "gone.pdf", UploadedBy: admin.ID, UploadedAt: time.Now().UTC()}
	require.NoError(t, db.Create(&kept).Error)
	require.NoError(t, db.Create(&gone).Error)

	CleanupDocuments(documents, testutil.Logger(), time.Minute)()

	var ids []uint
	require.NoError(t, db.Model(&models.Document{}).Pluck("id", &ids).Error)
	assert.Equal(t, []uint{kept.ID}, ids)
}

func TestCleanupDocumentsHasDeadline(t *testing.T) {
	var hasDeadline bool
	CleanupDocuments(cleanerFunc(func(ctx context.Context) (int, error) {
		_, hasDeadline = ctx.Deadline()
		return 0, errors.New("store unreachable")
	}), testutil.Logger(), time.Second)()
	assert.True(t, hasDeadline)
}

func TestSchedule(t *testing.T) {
	c := cron.New()
	err := Schedule(c, &failingLifecycle{}, cleanerFunc(func(context.Context) (int, error) { return 0, nil }), testutil.Logger())
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 2)
}
