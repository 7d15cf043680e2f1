package services

import (
	"strings"
	"time"

	"github.com/anjiri1684/quiz_connect/auth"
	"github.com/anjiri1684/quiz_connect/errs"
	"github.com/anjiri1684/quiz_connect/models"
	"github.com/anjiri1684/quiz_connect/notifications"
	"github.com/anjiri1684/quiz_connect/utils"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	maxQuestions   = 100
	maxTotalPoints = 1000
)

type (
	QuestionInput struct {
		Text          string              `json:"text" validate:"required"`
		Type          models.QuestionType `json:"type" validate:"required,oneof=multiple_choice true_false free_text"`
		CorrectAnswer string              `json:"correct_answer" validate:"required,max=255"`
		Options       []string            `json:"options"`
		Points        *int                `json:"points" validate:"omitempty,gte=1"`
	}

	QuizInput struct {
		Title           string            `json:"title" validate:"required,max=100"`
		Kind            string            `json:"kind" validate:"required,max=20"`
		StartsAt        string            `json:"starts_at" validate:"required"`
		EndsAt          string            `json:"ends_at" validate:"required"`
		DurationMinutes int               `json:"duration_minutes" validate:"required,gte=1"`
		Status          models.QuizStatus `json:"status" validate:"omitempty,oneof=draft active scheduled closed"`
		Questions       []QuestionInput   `json:"questions" validate:"omitempty,dive"`
	}

	StatusInput struct {
		Status models.QuizStatus `json:"status" validate:"required,oneof=draft active scheduled closed"`
	}

	SubmitInput struct {
		Answers  []Answer `json:"answers" validate:"required,min=1,dive"`
		TimeUsed int      `json:"time_used" validate:"gte=0"`
	}

	Submission struct {
		Grade
		ResultID uint `json:"result_id"`
		TimeUsed int  `json:"time_used"`
	}

	QuizService struct {
		db   *gorm.DB
		mail *notifications.Dispatcher
		now  func() time.Time
	}
)

func NewQuizService(db *gorm.DB, mail *notifications.Dispatcher) *QuizService {
	return &QuizService{db: db, mail: mail, now: func() time.Time { return time.Now().UTC() }}
}

func (in QuestionInput) points() int {
	if in.Points == nil {
		return 1
	}
	return *in.Points
}

func (in QuestionInput) model(quizID uint) models.Question {
	q := models.Question{
		QuizID:        quizID,
		Text:          strings.TrimSpace(in.Text),
		Type:          in.Type,
		CorrectAnswer: strings.TrimSpace(in.CorrectAnswer),
		Points:        in.points(),
	}
	if in.Type == models.MultipleChoice {
		q.Options = models.EncodeOptions(in.Options)
	}
	return q
}

func checkQuestion(field string, in QuestionInput) error {
	switch in.Type {
	case models.MultipleChoice:
		if len(in.Options) < 2 {
			return errs.Invalid(field+".options", "a multiple choice question needs at least two options")
		}
		if !validCorrectOption(in.CorrectAnswer, in.Options) {
			return errs.Invalid(field+".correct_answer", "must be an option index or match one of the options")
		}
	case models.TrueFalse, models.FreeText:
		if strings.TrimSpace(in.CorrectAnswer) == "" {
			return errs.Invalid(field+".correct_answer", "this field is required")
		}
	}
	return nil
}

// quizFields checks the quiz-level rules. A replacement must also keep the
// start in the future and carry at least one question.
func (s *QuizService) quizFields(in QuizInput, replace bool) (start, end time.Time, total int, err error) {
	if start, err = utils.ParseTimestamp(in.StartsAt); err != nil {
		return start, end, 0, errs.Invalid("starts_at", err.Error())
	}
	if end, err = utils.ParseTimestamp(in.EndsAt); err != nil {
		return start, end, 0, errs.Invalid("ends_at", err.Error())
	}
	if !end.After(start) {
		return start, end, 0, errs.Invalid("ends_at", "must be after starts_at")
	}
	if replace && start.Before(s.now().Add(-time.Minute)) {
		return start, end, 0, errs.Invalid("starts_at", "must not be in the past")
	}
	if replace && len(in.Questions) == 0 {
		return start, end, 0, errs.Invalid("questions", "at least one question is required")
	}
	if len(in.Questions) > maxQuestions {
		return start, end, 0, errs.Invalid("questions", "at most 100 questions are allowed")
	}
	for i, q := range in.Questions {
		if err := checkQuestion("questions["+itoa(i)+"]", q); err != nil {
			return start, end, 0, err
		}
		total += q.points()
	}
	if total > maxTotalPoints {
		return start, end, 0, errs.Invalid("questions", "total points must not exceed 1000")
	}
	return start, end, total, nil
}

func (s *QuizService) visible(p auth.Principal, q models.Quiz) bool {
	return p.Can(auth.ManageQuizzes) || q.OpenAt(s.now())
}

// List returns every quiz to quiz managers and the open ones to everyone else.
func (s *QuizService) List(p auth.Principal) ([]models.Quiz, error) {
	var quizzes []models.Quiz
	q := s.db.Order("starts_at desc").Order("id desc")
	if !p.Can(auth.ManageQuizzes) {
		now := s.now()
		q = q.Where("status = ? AND starts_at <= ? AND ends_at >= ?", models.QuizActive, now, now)
	}
	if err := q.Find(&quizzes).Error; err != nil {
		return nil, errors.Wrap(err, "listing quizzes")
	}
	return quizzes, nil
}

func (s *QuizService) load(tx *gorm.DB, id uint) (models.Quiz, error) {
	var quiz models.Quiz
	err := tx.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.id asc")
	}).First(&quiz, id).Error
	if err != nil {
		return quiz, lookupErr(err, "quiz")
	}
	return quiz, nil
}

func (s *QuizService) Get(p auth.Principal, id uint) (models.Quiz, error) {
	quiz, err := s.load(s.db, id)
	if err != nil {
		return quiz, err
	}
	if !s.visible(p, quiz) {
		return models.Quiz{}, errs.ErrForbidden
	}
	return quiz, nil
}

func (s *QuizService) Create(creator uint, in QuizInput) (models.Quiz, error) {
	start, end, total, err := s.quizFields(in, false)
	if err != nil {
		return models.Quiz{}, err
	}
	quiz := models.Quiz{
		Title:           strings.TrimSpace(in.Title),
		Kind:            strings.TrimSpace(in.Kind),
		StartsAt:        start,
		EndsAt:          end,
		DurationMinutes: in.DurationMinutes,
		TotalPoints:     total,
		Status:          in.Status,
		CreatedBy:       creator,
	}
	if quiz.Status == "" {
		quiz.Status = models.QuizDraft
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Questions").Create(&quiz).Error; err != nil {
			return errors.Wrap(err, "creating quiz")
		}
		return createQuestions(tx, &quiz, in.Questions)
	})
	if err != nil {
		return models.Quiz{}, err
	}
	return quiz, nil
}

func createQuestions(tx *gorm.DB, quiz *models.Quiz, inputs []QuestionInput) error {
	quiz.Questions = make([]models.Question, 0, len(inputs))
	for _, in := range inputs {
		quiz.Questions = append(quiz.Questions, in.model(quiz.ID))
	}
	if len(quiz.Questions) == 0 {
		return nil
	}
	if err := tx.Create(&quiz.Questions).Error; err != nil {
		return errors.Wrap(err, "creating questions")
	}
	return nil
}

// recomputeTotal stores the sum of question points on the quiz.
func recomputeTotal(tx *gorm.DB, quizID uint) (int, error) {
	var total int
	if err := tx.Model(&models.Question{}).Where("quiz_id = ?", quizID).Select("COALESCE(SUM(points), 0)").Scan(&total).Error; err != nil {
		return 0, errors.Wrap(err, "summing points")
	}
	if err := tx.Model(&models.Quiz{}).Where("id = ?", quizID).Update("total_points", total).Error; err != nil {
		return 0, errors.Wrap(err, "updating total points")
	}
	return total, nil
}

func (s *QuizService) AddQuestion(quizID uint, in QuestionInput) (models.Question, error) {
	if err := checkQuestion("", in); err != nil {
		return models.Question{}, trimFieldPrefix(err)
	}
	var question models.Question
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var quiz models.Quiz
		if err := forUpdate(tx).First(&quiz, quizID).Error; err != nil {
			return lookupErr(err, "quiz")
		}
		var count int64
		if err := tx.Model(&models.Question{}).Where("quiz_id = ?", quizID).Count(&count).Error; err != nil {
			return errors.Wrap(err, "counting questions")
		}
		if count >= maxQuestions {
			return errs.Invalid("questions", "at most 100 questions are allowed")
		}
		if quiz.TotalPoints+in.points() > maxTotalPoints {
			return errs.Invalid("points", "total points must not exceed 1000")
		}

		question = in.model(quiz.ID)
		if err := tx.Create(&question).Error; err != nil {
			return errors.Wrap(err, "creating question")
		}
		_, err := recomputeTotal(tx, quiz.ID)
		return err
	})
	return question, err
}

// Replace overwrites the quiz fields and swaps its whole question set.
func (s *QuizService) Replace(id uint, in QuizInput) (models.Quiz, error) {
	start, end, total, err := s.quizFields(in, true)
	if err != nil {
		return models.Quiz{}, err
	}

	var quiz models.Quiz
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).First(&quiz, id).Error; err != nil {
			return lookupErr(err, "quiz")
		}
		quiz.Title = strings.TrimSpace(in.Title)
		quiz.Kind = strings.TrimSpace(in.Kind)
		quiz.StartsAt = start
		quiz.EndsAt = end
		quiz.DurationMinutes = in.DurationMinutes
		quiz.TotalPoints = total
		if in.Status != "" {
			quiz.Status = in.Status
		}
		if err := tx.Omit("Questions").Save(&quiz).Error; err != nil {
			return errors.Wrap(err, "updating quiz")
		}
		if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&models.Question{}).Error; err != nil {
			return errors.Wrap(err, "deleting questions")
		}
		return createQuestions(tx, &quiz, in.Questions)
	})
	if err != nil {
		return models.Quiz{}, err
	}
	return quiz, nil
}

// Delete removes the quiz with its questions and results.
func (s *QuizService) Delete(id uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var quiz models.Quiz
		if err := tx.First(&quiz, id).Error; err != nil {
			return lookupErr(err, "quiz")
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&models.Result{}).Error; err != nil {
			return errors.Wrap(err, "deleting results")
		}
		if err := tx.Where("quiz_id = ?", id).Delete(&models.Question{}).Error; err != nil {
			return errors.Wrap(err, "deleting questions")
		}
		return tx.Delete(&quiz).Error
	})
}

func (s *QuizService) SetStatus(id uint, status models.QuizStatus) (models.Quiz, error) {
	if !status.Valid() {
		return models.Quiz{}, errs.Invalid("status", "status must be one of [draft active scheduled closed]")
	}
	var quiz models.Quiz
	if err := s.db.First(&quiz, id).Error; err != nil {
		return quiz, lookupErr(err, "quiz")
	}
	if err := s.db.Model(&quiz).Update("status", status).Error; err != nil {
		return quiz, errors.Wrap(err, "updating status")
	}
	quiz.Status = status
	return quiz, nil
}

// Submit grades the answers and records the single result of the account
// for the quiz.
func (s *QuizService) Submit(accountID, quizID uint, in SubmitInput) (Submission, error) {
	if len(in.Answers) == 0 {
		return Submission{}, errs.Invalid("answers", "this field is required")
	}
	if in.TimeUsed < 0 {
		in.TimeUsed = 0
	}

	var (
		out     Submission
		account models.Account
		quiz    models.Quiz
	)
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&account, accountID).Error; err != nil {
			return lookupErr(err, "account")
		}
		if !account.Active {
			return errs.ErrAccountInactive
		}

		var err error
		if quiz, err = s.load(tx, quizID); err != nil {
			return err
		}

		// a stored result answers any resubmission, even once the quiz closed
		var prior models.Result
		err = tx.Where("account_id = ? AND quiz_id = ?", accountID, quizID).First(&prior).Error
		if err == nil {
			return &errs.AlreadySubmittedError{Score: prior.Score}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.Wrap(err, "loading result")
		}

		now := s.now()
		if now.After(quiz.EndsAt) {
			return errs.ErrDeadlinePassed
		}
		if quiz.Status != models.QuizActive || now.Before(quiz.StartsAt) {
			return errs.ErrForbidden
		}

		grade := GradeAnswers(quiz.Questions, in.Answers)
		result := models.Result{
			AccountID:   accountID,
			QuizID:      quizID,
			Score:       grade.Score,
			MaxScore:    grade.MaxScore,
			TimeUsed:    in.TimeUsed,
			Status:      models.ResultSubmitted,
			SubmittedAt: now,
		}
		if err := tx.Create(&result).Error; err != nil {
			return err
		}
		out = Submission{Grade: grade, ResultID: result.ID, TimeUsed: in.TimeUsed}
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return Submission{}, s.alreadySubmitted(accountID, quizID)
	}
	if err != nil {
		return Submission{}, err
	}

	s.mail.Dispatch(notifications.ResultEmail(account.DisplayName(), account.Email, quiz.Title, out.Score, out.MaxScore, out.Percentage))
	return out, nil
}

// alreadySubmitted reports the result a concurrent submission stored first.
func (s *QuizService) alreadySubmitted(accountID, quizID uint) error {
	var prior models.Result
	if err := s.db.Where("account_id = ? AND quiz_id = ?", accountID, quizID).First(&prior).Error; err != nil {
		return errors.Wrap(err, "loading result")
	}
	return &errs.AlreadySubmittedError{Score: prior.Score}
}

func (s *QuizService) ResultsFor(accountID uint) ([]models.Result, error) {
	var results []models.Result
	if err := s.db.Where("account_id = ?", accountID).Order("submitted_at desc").Find(&results).Error; err != nil {
		return nil, errors.Wrap(err, "listing results")
	}
	return results, nil
}

// Result loads a result with its quiz and account, visible to its owner
// and to account viewers.
func (s *QuizService) Result(p auth.Principal, id uint) (models.Result, error) {
	var result models.Result
	if err := s.db.Preload("Quiz").Preload("Account").First(&result, id).Error; err != nil {
		return result, lookupErr(err, "result")
	}
	if !p.CanAccessAccount(result.AccountID) {
		return models.Result{}, errs.ErrForbidden
	}
	return result, nil
}

// ActivateScheduled opens scheduled quizzes whose start has arrived.
func (s *QuizService) ActivateScheduled(now time.Time) (int64, error) {
	res := s.db.Model(&models.Quiz{}).
		Where("status = ? AND starts_at <= ? AND ends_at > ?", models.QuizScheduled, now, now).
		Update("status", models.QuizActive)
	return res.RowsAffected, errors.Wrap(res.Error, "activating quizzes")
}

// CloseExpired closes active quizzes whose end has passed.
func (s *QuizService) CloseExpired(now time.Time) (int64, error) {
	res := s.db.Model(&models.Quiz{}).
		Where("status = ? AND ends_at < ?", models.QuizActive, now).
		Update("status", models.QuizClosed)
	return res.RowsAffected, errors.Wrap(res.Error, "closing quizzes")
}
