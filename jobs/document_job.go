package jobs

import (
	"context"
	"time"

	"github.com/anjiri1684/quiz_connect/logger"
)

type DocumentCleaner interface {
	Cleanup(ctx context.Context) (int, error)
}

// CleanupDocuments drops document records whose stored file is gone.
func CleanupDocuments(documents DocumentCleaner, log logger.Logger, timeout time.Duration) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if _, err := documents.Cleanup(ctx); err != nil {
			log.Error("Error cleaning up documents", err)
		}
	}
}
