package tasks

import (
	"context"
	"fmt"
	"time"
)

// newSQLMaintenanceTask creates the nightly maintenance task: prune expired
// dialogue turns, then vacuum and analyze the database.
func newSQLMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "sql_maintenance")

	return func(ctx context.Context) error {
		startTime := time.Now()

		pruned := deps.Dialogue.PruneExpired(ctx)
		if pruned > 0 {
			log.InfoContext(ctx, "Pruned expired dialogue turns", "rows", pruned)
		}

		if err := deps.Store.RunSQLMaintenance(ctx); err != nil {
			log.ErrorContext(ctx, "SQL maintenance failed", "error", err, "duration", time.Since(startTime))
			return fmt.Errorf("sql maintenance failed: %w", err)
		}

		log.InfoContext(ctx, "SQL maintenance completed", "duration", time.Since(startTime))
		return nil
	}
}
