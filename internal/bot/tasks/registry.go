package tasks

import "context"

// ScheduledTaskFunc is the signature for all scheduled tasks. The context
// provided by the scheduler should be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// RegisterAllTasks returns the map of scheduled tasks. The keys match the
// task names used in the scheduler configuration.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := make(map[string]ScheduledTaskFunc)

	tasks["cache_sweep"] = newCacheSweepTask(deps)
	tasks["inventory_refresh"] = newInventoryRefreshTask(deps)
	tasks["knowledge_refresh"] = newKnowledgeRefreshTask(deps)
	tasks["sql_maintenance"] = newSQLMaintenanceTask(deps)

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
