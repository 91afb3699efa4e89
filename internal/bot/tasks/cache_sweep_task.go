package tasks

import "context"

// newCacheSweepTask creates the task that evicts expired response cache
// entries so stale prices never resurface between lookups.
func newCacheSweepTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "cache_sweep")

	return func(ctx context.Context) error {
		removed := deps.Cache.Sweep(ctx)
		log.InfoContext(ctx, "Cache sweep completed", "removed", removed)
		return nil
	}
}
