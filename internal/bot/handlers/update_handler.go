package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewUpdateHandler returns a handler for the operator /update command, which
// forces an immediate refresh of the inventory and knowledge snapshots.
func NewUpdateHandler(deps HandlerDeps) bot.HandlerFunc {
	return updateHandler{deps}.Handle
}

type updateHandler struct {
	deps HandlerDeps
}

func (h updateHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "update")

	if update.Message == nil || update.Message.Chat.Type != models.ChatTypePrivate {
		return
	}

	log.InfoContext(ctx, "Handling /update command", "user_id", update.Message.From.ID)

	invErr := h.deps.Inventory.Refresh(ctx)
	kbErr := h.deps.Knowledge.Refresh(ctx)

	reply := h.deps.Config.Messages.UpdateDone
	if invErr != nil || kbErr != nil {
		log.ErrorContext(ctx, "Manual data refresh failed", "inventory_error", invErr, "knowledge_error", kbErr)
		reply = h.deps.Config.Messages.UpdateFailed
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   reply,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send update result", "error", err)
	}
}
