package models

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	FreeText       QuestionType = "free_text"
)

func (t QuestionType) Valid() bool {
	switch t {
	case MultipleChoice, TrueFalse, FreeText:
		return true
	}
	return false
}

type Question struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	QuizID        uint           `gorm:"not null;index" json:"quiz_id"`
	Text          string         `gorm:"type:text;not null" json:"text"`
	Type          QuestionType   `gorm:"size:20;not null" json:"type"`
	CorrectAnswer string         `gorm:"size:255;not null" json:"correct_answer"`
	Options       datatypes.JSON `json:"options"`
	Points        int            `gorm:"not null;default:1" json:"points"`
}

// OptionList decodes Options as a list of option texts. ok is false when the
// stored value is missing or is not a JSON list.
func (q Question) OptionList() (opts []string, ok bool) {
	if len(q.Options) == 0 {
		return nil, false
	}
	var raw []interface{}
	if err := json.Unmarshal(q.Options, &raw); err != nil {
		return nil, false
	}
	opts = make([]string, 0, len(raw))
	for _, o := range raw {
		switch v := o.(type) {
		case string:
			opts = append(opts, v)
		case nil:
			opts = append(opts, "")
		default:
			opts = append(opts, fmt.Sprint(v))
		}
	}
	return opts, true
}

func EncodeOptions(opts []string) datatypes.JSON {
	if opts == nil {
		opts = []string{}
	}
	b, _ := json.Marshal(opts)
	return datatypes.JSON(b)
}
