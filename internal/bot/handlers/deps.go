package handlers

import (
	"log/slog"

	"github.com/cvetykz/flowerbot/internal/ai"
	"github.com/cvetykz/flowerbot/internal/cache"
	"github.com/cvetykz/flowerbot/internal/config"
	"github.com/cvetykz/flowerbot/internal/database"
	"github.com/cvetykz/flowerbot/internal/dialogue"
	"github.com/cvetykz/flowerbot/internal/inventory"
	"github.com/cvetykz/flowerbot/internal/knowledge"
)

// HandlerDeps provides dependencies for Telegram handlers.
type HandlerDeps struct {
	Logger    *slog.Logger
	Config    *config.Config
	Store     database.Store
	AI        *ai.Client
	Cache     *cache.Cache
	Dialogue  *dialogue.Manager
	Inventory *inventory.Service
	Knowledge *knowledge.Service

	// KnowledgeAppender records unanswered questions for shop staff review.
	// May be nil when the knowledge document is not writable.
	KnowledgeAppender knowledge.Appender
}
