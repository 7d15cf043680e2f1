package jobs

import (
	"time"

	"github.com/anjiri1684/quiz_connect/logger"
)

type QuizLifecycle interface {
	ActivateScheduled(now time.Time) (int64, error)
	CloseExpired(now time.Time) (int64, error)
}

// UpdateQuizStatuses opens scheduled quizzes whose window started and closes
// active ones whose window ended.
func UpdateQuizStatuses(quizzes QuizLifecycle, log logger.Logger) func() {
	return func() {
		now := time.Now().UTC()

		opened, err := quizzes.ActivateScheduled(now)
		if err != nil {
			log.Error("Error activating scheduled quizzes", err)
		} else if opened > 0 {
			log.Info("Activated scheduled quizzes", map[string]interface{}{"count": opened})
		}

		closed, err := quizzes.CloseExpired(now)
		if err != nil {
			log.Error("Error closing expired quizzes", err)
		} else if closed > 0 {
			log.Info("Closed expired quizzes", map[string]interface{}{"count": closed})
		}
	}
}
