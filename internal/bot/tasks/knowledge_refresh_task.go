package tasks

import (
	"context"
	"fmt"
)

// newKnowledgeRefreshTask creates the task that reloads the knowledge
// document so staff edits reach the bot within the hour.
func newKnowledgeRefreshTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "knowledge_refresh")

	return func(ctx context.Context) error {
		if err := deps.Knowledge.Refresh(ctx); err != nil {
			log.ErrorContext(ctx, "Knowledge refresh failed", "error", err)
			return fmt.Errorf("knowledge refresh failed: %w", err)
		}
		return nil
	}
}
