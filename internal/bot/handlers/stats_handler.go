package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewStatsHandler returns a handler for the operator /stats command, showing
// cache and snapshot state.
func NewStatsHandler(deps HandlerDeps) bot.HandlerFunc {
	return statsHandler{deps}.Handle
}

type statsHandler struct {
	deps HandlerDeps
}

func (h statsHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "stats")

	if update.Message == nil || update.Message.Chat.Type != models.ChatTypePrivate {
		return
	}

	stats := h.deps.Cache.Stats()

	var sb strings.Builder
	fmt.Fprintf(&sb, "Кэш ответов: %d записей\n", stats.Entries)
	fmt.Fprintf(&sb, "Секций в базе знаний: %d\n", h.deps.Knowledge.SectionCount())
	if len(stats.MostFrequent) > 0 {
		sb.WriteString("Частые вопросы:\n")
		for _, qf := range stats.MostFrequent {
			fmt.Fprintf(&sb, "- %s (%d)\n", qf.Query, qf.Count)
		}
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   strings.TrimSpace(sb.String()),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send stats", "error", err)
	}
}
