package services

import (
	"testing"
	"time"

	"github.com/anjiri1684/quiz_connect/errs"
	"github.com/anjiri1684/quiz_connect/models"
	"github.com/anjiri1684/quiz_connect/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func intPtr(i int) *int { return &i }

func sampleQuestions() []models.Question {
	return []models.Question{
		{Text: "Pick c", Type: models.MultipleChoice, CorrectAnswer: "2", Options: datatypes.JSON(`["a","b","c","d"]`), Points: 2},
		{Text: "Sky is blue", Type: models.TrueFalse, CorrectAnswer: "vrai", Points: 1},
		{Text: "Language?", Type: models.FreeText, CorrectAnswer: "Go", Points: 3},
	}
}

func TestQuizService_Submit(t *testing.T) {
	db := testutil.OpenDB(t)
	mail, sender := mailer()
	svc := NewQuizService(db, mail)

	admin := testutil.CreateAccount(t, db, "root", models.RoleAdmin, true, "")
	alice := testutil.CreateAccount(t, db, "alice", models.RoleStudent, true, "")
	quiz := testutil.CreateQuiz(t, db, admin.ID, time.Hour, sampleQuestions()...)
	other := testutil.CreateQuiz(t, db, admin.ID, time.Hour, models.Question{Text: "x", Type: models.FreeText, CorrectAnswer: "x", Points: 5})

	q := quiz.Questions
	sub, err := svc.Submit(alice.ID, quiz.ID, SubmitInput{
		Answers: []Answer{
			{QuestionID: q[0].ID, Answer: "c"},
			{QuestionID: q[1].ID, Answer: "oui"},
			{QuestionID: q[2].ID, Answer: "rust"},
			{QuestionID: other.Questions[0].ID, Answer: "x"},
		},
		TimeUsed: 120,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, sub.Score)
	assert.Equal(t, 6, sub.MaxScore)
	assert.Equal(t, 2, sub.CorrectAnswers)
	assert.Equal(t, 3, sub.TotalQuestions)
	assert.InDelta(t, 50.0, sub.Percentage, 0.001)
	assert.Equal(t, 120, sub.TimeUsed)
	assert.Len(t, sender.Sent(), 1)

	_, err = svc.Submit(alice.ID, quiz.ID, SubmitInput{Answers: []Answer{{QuestionID: q[2].ID, Answer: "go"}}})
	var already *errs.AlreadySubmittedError
	require.ErrorAs(t, err, &already)
	assert.Equal(t, 3, already.Score)

	var results []models.Result
	require.NoError(t, db.Where("account_id = ?", alice.ID).Find(&results).Error)
	require.Len(t, results, 1)
	assert.Equal(t, 3, results[0].Score)
}

func TestQuizService_SubmitRefusals(t *testing.T) {
	db := testutil.OpenDB(t)
	mail, _ := mailer()
	svc := NewQuizService(db, mail)

	admin := testutil.CreateAccount(t, db, "root", models.RoleAdmin, true, "")
	alice := testutil.CreateAccount(t, db, "alice", models.RoleStudent, true, "")
	bob := testutil.CreateAccount(t, db, "bob", models.RoleStudent, false, "")
	expired := testutil.CreateQuiz(t, db, admin.ID, -time.Minute, sampleQuestions()...)
	open := testutil.CreateQuiz(t, db, admin.ID, time.Hour, sampleQuestions()...)

	answers := SubmitInput{Answers: []Answer{{QuestionID: expired.Questions[0].ID, Answer: "c"}}}

	_, err := svc.Submit(alice.ID, expired.ID, answers)
	assert.ErrorIs(t, err, errs.ErrDeadlinePassed)

	_, err = svc.Submit(bob.ID, open.ID, answers)
	assert.ErrorIs(t, err, errs.ErrAccountInactive)

	_, err = svc.Submit(alice.ID, 999, answers)
	assert.True(t, errs.IsNotFound(err))

	_, err = svc.Submit(alice.ID, open.ID, SubmitInput{})
	var vErr *errs.ValidationError
	assert.ErrorAs(t, err, &vErr)

	var count int64
	db.Model(&models.Result{}).Count(&count)
	assert.Zero(t, count)
}

func TestQuizService_ResubmitAfterClose(t *testing.T) {
	db := testutil.OpenDB(t)
	mail, _ := mailer()
	svc := NewQuizService(db, mail)

	admin := testutil.CreateAccount(t, db, "root", models.RoleAdmin, true, "")
	alice := testutil.CreateAccount(t, db, "alice", models.RoleStudent, true, "")
	quiz := testutil.CreateQuiz(t, db, admin.ID, time.Hour, sampleQuestions()...)
	answers := SubmitInput{Answers: []Answer{{QuestionID: quiz.Questions[0].ID, Answer: "c"}}}

	_, err := svc.Submit(alice.ID, quiz.ID, answers)
	require.NoError(t, err)

	tests := []struct {
		name    string
		updates map[string]interface{}
	}{
		{"past deadline", map[string]interface{}{"ends_at": time.Now().UTC().Add(-time.Minute)}},
		{"closed by admin", map[string]interface{}{"status": models.QuizClosed}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NoError(t, db.Model(&models.Quiz{}).Where("id = ?", quiz.ID).Updates(tt.updates).Error)

			_, err := svc.Submit(alice.ID, quiz.ID, answers)
			var already *errs.AlreadySubmittedError
			require.ErrorAs(t, err, &already)
			assert.Equal(t, 2, already.Score)
		})
	}
}

func TestQuizService_CreateAndQuestions(t *testing.T) {
	db := testutil.OpenDB(t)
	mail, _ := mailer()
	svc := NewQuizService(db, mail)
	admin := testutil.CreateAccount(t, db, "root", models.RoleAdmin, true, "")

	quiz, err := svc.Create(admin.ID, QuizInput{
		Title:           "Algebra",
		Kind:            "exam",
		StartsAt:        "2030-01-01T09:00",
		EndsAt:          "2030-01-01T10:00:00Z",
		DurationMinutes: 45,
		Questions: []QuestionInput{
			{Text: "2+2", Type: models.MultipleChoice, CorrectAnswer: "1", Options: []string{"3", "4"}, Points: intPtr(4)},
			{Text: "True?", Type: models.TrueFalse, CorrectAnswer: "true"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, models.QuizDraft, quiz.Status)
	assert.Equal(t, 5, quiz.TotalPoints)
	assert.Equal(t, time.Date(2030, 1, 1, 9, 0, 0, 0, time.UTC), quiz.StartsAt)

	_, err = svc.AddQuestion(quiz.ID, QuestionInput{Text: "Capital", Type: models.FreeText, CorrectAnswer: "Paris", Points: intPtr(3)})
	require.NoError(t, err)

	loaded, err := svc.Get(principal(admin), quiz.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Questions, 3)
	assert.Equal(t, 8, loaded.TotalPoints)
	assert.Equal(t, loaded.MaxScore(), loaded.TotalPoints)

	var vErr *errs.ValidationError
	_, err = svc.AddQuestion(quiz.ID, QuestionInput{Text: "Bad", Type: models.MultipleChoice, CorrectAnswer: "z", Options: []string{"a", "b"}})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "correct_answer", vErr.Fields[0].Field)

	_, err = svc.Create(admin.ID, QuizInput{Title: "t", Kind: "k", StartsAt: "2030-01-02T00:00", EndsAt: "2030-01-01T00:00", DurationMinutes: 10})
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "ends_at", vErr.Fields[0].Field)
}

func TestQuizService_Replace(t *testing.T) {
	db := testutil.OpenDB(t)
	mail, _ := mailer()
	svc := NewQuizService(db, mail)
	admin := testutil.CreateAccount(t, db, "root", models.RoleAdmin, true, "")
	quiz := testutil.CreateQuiz(t, db, admin.ID, time.Hour, sampleQuestions()...)

	start := time.Now().UTC().Add(24 * time.Hour)
	in := QuizInput{
		Title:           "Replaced",
		Kind:            "quiz",
		StartsAt:        start.Format(time.RFC3339),
		EndsAt:          start.Add(time.Hour).Format(time.RFC3339),
		DurationMinutes: 20,
		Status:          models.QuizScheduled,
		Questions:       []QuestionInput{{Text: "Only", Type: models.FreeText, CorrectAnswer: "one", Points: intPtr(7)}},
	}
	replaced, err := svc.Replace(quiz.ID, in)
	require.NoError(t, err)
	assert.Equal(t, 7, replaced.TotalPoints)
	assert.Equal(t, models.QuizScheduled, replaced.Status)

	var count int64
	db.Model(&models.Question{}).Where("quiz_id = ?", quiz.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	var vErr *errs.ValidationError
	in.Questions = nil
	_, err = svc.Replace(quiz.ID, in)
	assert.ErrorAs(t, err, &vErr)

	past := time.Now().UTC().Add(-24 * time.Hour)
	in.Questions = []QuestionInput{{Text: "Only", Type: models.FreeText, CorrectAnswer: "one"}}
	in.StartsAt = past.Format(time.RFC3339)
	_, err = svc.Replace(quiz.ID, in)
	assert.ErrorAs(t, err, &vErr)

	in.StartsAt = start.Format(time.RFC3339)
	in.Questions[0].Points = intPtr(1001)
	_, err = svc.Replace(quiz.ID, in)
	assert.ErrorAs(t, err, &vErr)
}

func TestQuizService_Visibility(t *testing.T) {
	db := testutil.OpenDB(t)
	mail, _ := mailer()
	svc := NewQuizService(db, mail)
	admin := testutil.CreateAccount(t, db, "root", models.RoleAdmin, true, "")
	alice := testutil.CreateAccount(t, db, "alice", models.RoleStudent, true, "")

	open := testutil.CreateQuiz(t, db, admin.ID, time.Hour)
	draft := testutil.CreateQuiz(t, db, admin.ID, time.Hour)
	_, err := svc.SetStatus(draft.ID, models.QuizDraft)
	require.NoError(t, err)

	list, err := svc.List(principal(alice))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, open.ID, list[0].ID)

	list, err = svc.List(principal(admin))
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = svc.Get(principal(alice), draft.ID)
	assert.ErrorIs(t, err, errs.ErrForbidden)
}

func TestQuizService_Lifecycle(t *testing.T) {
	db := testutil.OpenDB(t)
	mail, _ := mailer()
	svc := NewQuizService(db, mail)
	admin := testutil.CreateAccount(t, db, "root", models.RoleAdmin, true, "")

	due := testutil.CreateQuiz(t, db, admin.ID, time.Hour)
	expired := testutil.CreateQuiz(t, db, admin.ID, -time.Minute)
	require.NoError(t, db.Model(&due).Update("status", models.QuizScheduled).Error)

	now := time.Now().UTC()
	n, err := svc.ActivateScheduled(now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = svc.CloseExpired(now)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	var opened, closed models.Quiz
	require.NoError(t, db.First(&opened, due.ID).Error)
	assert.Equal(t, models.QuizActive, opened.Status)
	require.NoError(t, db.First(&closed, expired.ID).Error)
	assert.Equal(t, models.QuizClosed, closed.Status)
}

func TestQuizService_Delete(t *testing.T) {
	db := testutil.OpenDB(t)
	mail, _ := mailer()
	svc := NewQuizService(db, mail)
	admin := testutil.CreateAccount(t, db, "root", models.RoleAdmin, true, "")
	alice := testutil.CreateAccount(t, db, "alice", models.RoleStudent, true, "")
	quiz := testutil.CreateQuiz(t, db, admin.ID, time.Hour, sampleQuestions()...)

	_, err := svc.Submit(alice.ID, quiz.ID, SubmitInput{Answers: []Answer{{QuestionID: quiz.Questions[0].ID, Answer: "c"}}})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(quiz.ID))
	var results, questions int64
	db.Model(&models.Result{}).Count(&results)
	db.Model(&models.Question{}).Count(&questions)
	assert.Zero(t, results)
	assert.Zero(t, questions)
	assert.True(t, errs.IsNotFound(svc.Delete(quiz.ID)))
}
