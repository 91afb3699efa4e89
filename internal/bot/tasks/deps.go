// Package tasks implements the scheduled background tasks of the bot:
// cache sweeping, inventory and knowledge refresh, and database maintenance.
package tasks

import (
	"log/slog"

	"github.com/cvetykz/flowerbot/internal/cache"
	"github.com/cvetykz/flowerbot/internal/config"
	"github.com/cvetykz/flowerbot/internal/database"
	"github.com/cvetykz/flowerbot/internal/dialogue"
	"github.com/cvetykz/flowerbot/internal/inventory"
	"github.com/cvetykz/flowerbot/internal/knowledge"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Store     database.Store
	Cache     *cache.Cache
	Dialogue  *dialogue.Manager
	Inventory *inventory.Service
	Knowledge *knowledge.Service
}
