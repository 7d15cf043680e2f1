package services

import (
	"context"
	"testing"
	"time"

	"github.com/anjiri1684/quiz_connect/errs"
	"github.com/anjiri1684/quiz_connect/models"
	"github.com/anjiri1684/quiz_connect/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	html string
}

func (f *fakeRenderer) Render(_ context.Context, html string) ([]byte, error) {
	f.html = html
	return []byte("%PDF-fake"), nil
}

func TestCertificateService(t *testing.T) {
	db := testutil.OpenDB(t)
	mail, _ := mailer()
	quizzes := NewQuizService(db, mail)
	renderer := &fakeRenderer{}
	svc := NewCertificateService(quizzes, renderer, "Quiz Connect")

	admin := testutil.CreateAccount(t, db, "root", models.RoleAdmin, true, "")
	alice := testutil.CreateAccount(t, db, "alice", models.RoleStudent, true, "")
	bob := testutil.CreateAccount(t, db, "bob", models.RoleStudent, true, "")
	quiz := testutil.CreateQuiz(t, db, admin.ID, time.Hour, sampleQuestions()...)

	sub, err := quizzes.Submit(alice.ID, quiz.ID, SubmitInput{Answers: []Answer{{QuestionID: quiz.Questions[0].ID, Answer: "c"}}})
	require.NoError(t, err)

	pdf, name, err := svc.Certificate(context.Background(), principal(alice), sub.ResultID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(pdf))
	assert.Contains(t, name, ".pdf")
	assert.Contains(t, renderer.html, "alice")
	assert.Contains(t, renderer.html, "2 / 6")

	_, _, err = svc.Certificate(context.Background(), principal(bob), sub.ResultID)
	assert.ErrorIs(t, err, errs.ErrForbidden)

	_, _, err = svc.Certificate(context.Background(), principal(admin), sub.ResultID)
	assert.NoError(t, err)
}
