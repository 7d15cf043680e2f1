package services

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/anjiri1684/quiz_connect/models"
	"github.com/pkg/errors"
)

var errAnswerType = errors.New("answer must be a string, number, boolean or null")

// AnswerValue is a submitted answer as text. Numbers and booleans keep the
// form they were written in.
type AnswerValue string

func (a *AnswerValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return errAnswerType
	}
	switch b[0] {
	case 'n':
		*a = ""
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = AnswerValue(s)
		return nil
	case 't', 'f':
		var v bool
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*a = AnswerValue(strconv.FormatBool(v))
		return nil
	case '{', '[':
		return errAnswerType
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errAnswerType
	}
	*a = AnswerValue(n.String())
	return nil
}

type Answer struct {
	QuestionID uint        `json:"question_id" validate:"required"`
	Answer     AnswerValue `json:"answer"`
}

type Grade struct {
	Score          int     `json:"score"`
	MaxScore       int     `json:"max_score"`
	Percentage     float64 `json:"percentage"`
	TotalQuestions int     `json:"total_questions"`
	CorrectAnswers int     `json:"correct_answers"`
}

var booleans = map[string]bool{
	"vrai": true, "true": true, "yes": true, "oui": true, "1": true,
	"faux": false, "false": false, "no": false, "non": false, "0": false,
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(strings.ToValidUTF8(s, "")))
}

// GradeAnswers scores answers against the questions of one quiz. Answers to
// unknown questions are ignored and only the first answer to a question counts.
func GradeAnswers(questions []models.Question, answers []Answer) Grade {
	byID := make(map[uint]models.Question, len(questions))
	g := Grade{TotalQuestions: len(questions)}
	for _, q := range questions {
		byID[q.ID] = q
		g.MaxScore += q.Points
	}

	seen := make(map[uint]bool, len(answers))
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok || seen[a.QuestionID] {
			continue
		}
		seen[a.QuestionID] = true
		if IsCorrect(q, string(a.Answer)) {
			g.Score += q.Points
			g.CorrectAnswers++
		}
	}

	if g.MaxScore > 0 {
		g.Percentage = float64(g.Score) / float64(g.MaxScore) * 100
	}
	return g
}

// IsCorrect compares a submitted answer with the stored one for the question type.
func IsCorrect(q models.Question, given string) bool {
	submitted := normalize(given)
	switch q.Type {
	case models.MultipleChoice:
		return submitted == normalize(correctOption(q))
	case models.TrueFalse:
		want, okWant := booleans[normalize(q.CorrectAnswer)]
		got, okGot := booleans[submitted]
		if okWant && okGot {
			return want == got
		}
		return submitted == normalize(q.CorrectAnswer)
	default:
		return submitted == normalize(q.CorrectAnswer)
	}
}

// correctOption resolves a stored index into its option text. Anything that
// is not a usable index is returned as literal text.
func correctOption(q models.Question) string {
	idx, ok := optionIndex(q.CorrectAnswer)
	if !ok {
		return q.CorrectAnswer
	}
	opts, ok := q.OptionList()
	if !ok || idx >= len(opts) {
		return q.CorrectAnswer
	}
	return opts[idx]
}

func optionIndex(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

// validCorrectOption reports whether the answer is an index into opts or
// matches one of them.
func validCorrectOption(answer string, opts []string) bool {
	if idx, ok := optionIndex(answer); ok && idx < len(opts) {
		return true
	}
	want := normalize(answer)
	for _, o := range opts {
		if normalize(o) == want {
			return true
		}
	}
	return false
}
