package handlers

import (
	"time"

	"github.com/anjiri1684/quiz_connect/auth"
	"github.com/anjiri1684/quiz_connect/errs"
	"github.com/anjiri1684/quiz_connect/middleware"
	"github.com/anjiri1684/quiz_connect/models"
	"github.com/anjiri1684/quiz_connect/services"
	"github.com/anjiri1684/quiz_connect/validation"
	"github.com/gofiber/fiber/v2"
)

// QuestionView hides the correct answer unless the caller manages quizzes.
type QuestionView struct {
	ID            uint                `json:"id"`
	Text          string              `json:"text"`
	Type          models.QuestionType `json:"type"`
	Options       []string            `json:"options,omitempty"`
	Points        int                 `json:"points"`
	CorrectAnswer string              `json:"correct_answer,omitempty"`
}

type QuizView struct {
	ID              uint              `json:"id"`
	Title           string            `json:"title"`
	Kind            string            `json:"kind"`
	StartsAt        time.Time         `json:"starts_at"`
	EndsAt          time.Time         `json:"ends_at"`
	DurationMinutes int               `json:"duration_minutes"`
	TotalPoints     int               `json:"total_points"`
	Status          models.QuizStatus `json:"status"`
	Questions       []QuestionView    `json:"questions,omitempty"`
}

func newQuizView(q models.Quiz, withAnswers bool) QuizView {
	view := QuizView{
		ID:              q.ID,
		Title:           q.Title,
		Kind:            q.Kind,
		StartsAt:        q.StartsAt,
		EndsAt:          q.EndsAt,
		DurationMinutes: q.DurationMinutes,
		TotalPoints:     q.TotalPoints,
		Status:          q.Status,
	}
	for _, question := range q.Questions {
		qv := QuestionView{ID: question.ID, Text: question.Text, Type: question.Type, Points: question.Points}
		if opts, ok := question.OptionList(); ok {
			qv.Options = opts
		}
		if withAnswers {
			qv.CorrectAnswer = question.CorrectAnswer
		}
		view.Questions = append(view.Questions, qv)
	}
	return view
}

type QuizHandler struct {
	quizzes      *services.QuizService
	certificates *services.CertificateService
	v            *validation.Validator
}

func NewQuizHandler(quizzes *services.QuizService, certificates *services.CertificateService, v *validation.Validator) *QuizHandler {
	return &QuizHandler{quizzes: quizzes, certificates: certificates, v: v}
}

func (h *QuizHandler) List(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	quizzes, err := h.quizzes.List(p)
	if err != nil {
		return err
	}
	views := make([]QuizView, len(quizzes))
	for i, q := range quizzes {
		views[i] = newQuizView(q, false)
	}
	return respond(c, fiber.StatusOK, views)
}

func (h *QuizHandler) Get(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	quiz, err := h.quizzes.Get(p, id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, newQuizView(quiz, p.Can(auth.ManageQuizzes)))
}

func (h *QuizHandler) Create(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	var req services.QuizInput
	if err := bind(c, h.v, &req); err != nil {
		return err
	}
	quiz, err := h.quizzes.Create(p.AccountID, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, newQuizView(quiz, true), "Quiz created")
}

func (h *QuizHandler) AddQuestion(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req services.QuestionInput
	if err := bind(c, h.v, &req); err != nil {
		return err
	}
	question, err := h.quizzes.AddQuestion(id, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, question, "Question added")
}

func (h *QuizHandler) Replace(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req services.QuizInput
	if err := bind(c, h.v, &req); err != nil {
		return err
	}
	quiz, err := h.quizzes.Replace(id, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, newQuizView(quiz, true), "Quiz updated")
}

func (h *QuizHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.quizzes.Delete(id); err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, nil, "Quiz deleted")
}

func (h *QuizHandler) SetStatus(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req services.StatusInput
	if err := bind(c, h.v, &req); err != nil {
		return err
	}
	quiz, err := h.quizzes.SetStatus(id, req.Status)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, newQuizView(quiz, false), "Status updated")
}

func (h *QuizHandler) Submit(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req services.SubmitInput
	if err := bind(c, h.v, &req); err != nil {
		return err
	}
	sub, err := h.quizzes.Submit(p.AccountID, id, req)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusCreated, sub, "Quiz submitted")
}

func (h *QuizHandler) StudentResults(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if !p.CanAccessAccount(id) {
		return errs.ErrForbidden
	}
	results, err := h.quizzes.ResultsFor(id)
	if err != nil {
		return err
	}
	return respond(c, fiber.StatusOK, results)
}

func (h *QuizHandler) Certificate(c *fiber.Ctx) error {
	p, err := middleware.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	pdf, filename, err := h.certificates.Certificate(c.UserContext(), p, id)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}
