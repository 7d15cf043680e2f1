package jobs

import (
	"time"

	"github.com/anjiri1684/quiz_connect/logger"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
)

const (
	QuizStatusSpec      = "* * * * *"
	DocumentCleanupSpec = "0 3 * * *"
)

// Schedule registers the background jobs on c. The caller starts and stops c.
func Schedule(c *cron.Cron, quizzes QuizLifecycle, documents DocumentCleaner, log logger.Logger) error {
	if _, err := c.AddFunc(QuizStatusSpec, UpdateQuizStatuses(quizzes, log)); err != nil {
		return errors.Wrap(err, "scheduling quiz status job")
	}
	if _, err := c.AddFunc(DocumentCleanupSpec, CleanupDocuments(documents, log, 10*time.Minute)); err != nil {
		return errors.Wrap(err, "scheduling document cleanup job")
	}
	return nil
}
