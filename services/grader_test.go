package services

import (
	"encoding/json"
	"testing"

	"github.com/anjiri1684/quiz_connect/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func mcq(id uint, correct string, options string, points int) models.Question {
	return models.Question{ID: id, Type: models.MultipleChoice, CorrectAnswer: correct, Options: datatypes.JSON(options), Points: points}
}

func TestIsCorrect(t *testing.T) {
	tests := []struct {
		name  string
		q     models.Question
		given string
		want  bool
	}{
		{"mc index resolves to option", mcq(1, "2", `["a","b","c","d"]`, 1), "c", true},
		{"mc index wrong option", mcq(1, "2", `["a","b","c","d"]`, 1), "b", false},
		{"mc literal text", mcq(1, "Paris", `["Paris","Rome"]`, 1), "  paris ", true},
		{"mc index out of range is literal", mcq(1, "7", `["a","b"]`, 1), "7", true},
		{"mc malformed options is literal", mcq(1, "1", `{"a":1}`, 1), "1", true},
		{"mc negative is literal", mcq(1, "-1", `["a","b"]`, 1), "b", false},
		{"tf oui matches vrai", models.Question{Type: models.TrueFalse, CorrectAnswer: "vrai"}, "oui", true},
		{"tf oui matches true", models.Question{Type: models.TrueFalse, CorrectAnswer: "true"}, "OUI", true},
		{"tf oui matches 1", models.Question{Type: models.TrueFalse, CorrectAnswer: "1"}, "oui", true},
		{"tf non against vrai", models.Question{Type: models.TrueFalse, CorrectAnswer: "vrai"}, "non", false},
		{"tf unmapped falls back to text", models.Question{Type: models.TrueFalse, CorrectAnswer: "peut-être"}, "Peut-être", true},
		{"free text normalized", models.Question{Type: models.FreeText, CorrectAnswer: "Photosynthesis"}, " PHOTOSYNTHESIS\n", true},
		{"free text no substring match", models.Question{Type: models.FreeText, CorrectAnswer: "Photosynthesis"}, "photo", false},
		{"invalid utf8 dropped", models.Question{Type: models.FreeText, CorrectAnswer: "abc"}, "a\xffbc", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsCorrect(tt.q, tt.given))
		})
	}
}

func TestGradeAnswers(t *testing.T) {
	questions := []models.Question{
		mcq(1, "2", `["a","b","c","d"]`, 2),
		{ID: 2, Type: models.TrueFalse, CorrectAnswer: "vrai", Points: 1},
		{ID: 3, Type: models.FreeText, CorrectAnswer: "Go", Points: 3},
	}

	g := GradeAnswers(questions, []Answer{
		{QuestionID: 1, Answer: "c"},
		{QuestionID: 1, Answer: "c"},
		{QuestionID: 2, Answer: "non"},
		{QuestionID: 99, Answer: "anything"},
		{QuestionID: 3, Answer: "go"},
	})

	assert.Equal(t, 5, g.Score)
	assert.Equal(t, 6, g.MaxScore)
	assert.Equal(t, 3, g.TotalQuestions)
	assert.Equal(t, 2, g.CorrectAnswers)
	assert.InDelta(t, 83.33, g.Percentage, 0.01)
}

func TestGradeAnswersEmptyQuiz(t *testing.T) {
	g := GradeAnswers(nil, []Answer{{QuestionID: 1, Answer: "x"}})
	assert.Zero(t, g.MaxScore)
	assert.Zero(t, g.Percentage)
}

func TestAnswerValueUnmarshal(t *testing.T) {
	var answers []Answer
	body := `[{"question_id":1,"answer":"oui"},{"question_id":2,"answer":2},{"question_id":3,"answer":true},{"question_id":4,"answer":null},{"question_id":5,"answer":1.50}]`
	require.NoError(t, json.Unmarshal([]byte(body), &answers))

	assert.Equal(t, AnswerValue("oui"), answers[0].Answer)
	assert.Equal(t, AnswerValue("2"), answers[1].Answer)
	assert.Equal(t, AnswerValue("true"), answers[2].Answer)
	assert.Equal(t, AnswerValue(""), answers[3].Answer)
	assert.Equal(t, AnswerValue("1.50"), answers[4].Answer)

	var a Answer
	assert.Error(t, json.Unmarshal([]byte(`{"question_id":1,"answer":["a"]}`), &a))
}
