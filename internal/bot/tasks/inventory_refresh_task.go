package tasks

import (
	"context"
	"fmt"
)

// newInventoryRefreshTask creates the task that reloads the product sheet.
func newInventoryRefreshTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "inventory_refresh")

	return func(ctx context.Context) error {
		if err := deps.Inventory.Refresh(ctx); err != nil {
			log.ErrorContext(ctx, "Inventory refresh failed", "error", err)
			return fmt.Errorf("inventory refresh failed: %w", err)
		}
		return nil
	}
}
