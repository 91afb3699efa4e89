package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/cvetykz/flowerbot/internal/database"
)

// Callback actions carried in the feedback button data.
const (
	actionLike    = "like"
	actionDislike = "dislike"
	actionLiked   = "liked"
	actionDone    = "done"
)

// feedbackKeyboard builds the initial 👍/👎 keyboard for a logged exchange.
// The data encodes action, topic, and the log message ID.
func feedbackKeyboard(topicID, messageID int) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{
			{Text: "👍", CallbackData: fmt.Sprintf("%s_%d_%d", actionLike, topicID, messageID)},
			{Text: "👎", CallbackData: fmt.Sprintf("%s_%d_%d", actionDislike, topicID, messageID)},
		}},
	}
}

// ratedKeyboard replaces the buttons once an exchange has been rated, so the
// outcome stays visible and repeat presses resolve to "already rated".
func ratedKeyboard(action string, topicID, messageID int) *models.InlineKeyboardMarkup {
	var button models.InlineKeyboardButton
	if action == actionLike {
		button = models.InlineKeyboardButton{
			Text:         "✅ Хороший пример",
			CallbackData: fmt.Sprintf("%s_%d_%d", actionLiked, topicID, messageID),
		}
	} else {
		button = models.InlineKeyboardButton{
			Text:         "❌ Отправлено на доработку",
			CallbackData: fmt.Sprintf("%s_%d_%d", actionDone, topicID, messageID),
		}
	}
	return &models.InlineKeyboardMarkup{
		InlineKeyboard: [][]models.InlineKeyboardButton{{button}},
	}
}

// NewFeedbackHandler returns the callback handler for the rating buttons.
// The first press wins: the rating is recorded once, the exchange is
// forwarded to the matching review topic, and the keyboard collapses to a
// single state button.
func NewFeedbackHandler(deps HandlerDeps) bot.HandlerFunc {
	return feedbackHandler{deps}.Handle
}

type feedbackHandler struct {
	deps HandlerDeps
}

func (h feedbackHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "feedback")

	query := update.CallbackQuery
	if query == nil {
		return
	}

	answer := func(text string) {
		_, err := b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: query.ID,
			Text:            text,
		})
		if err != nil {
			log.ErrorContext(ctx, "Failed to answer callback query", "error", err)
		}
	}

	action, topicID, origMessageID, err := parseFeedbackData(query.Data)
	if err != nil {
		log.WarnContext(ctx, "Malformed feedback callback data", "data", query.Data, "error", err)
		answer("Ошибка при обработке")
		return
	}

	switch action {
	case actionLiked, actionDone:
		answer(h.deps.Config.Messages.AlreadyRated)
		return
	case actionLike, actionDislike:
	default:
		answer("Неизвестное действие")
		return
	}

	msg := query.Message.Message
	if msg == nil {
		answer("Ошибка при обработке")
		return
	}
	chatID := msg.Chat.ID

	// The unique index on message_id makes the first press win even when two
	// operators tap at once.
	inserted, err := h.deps.Store.RecordResponseQuality(ctx, &database.ResponseQuality{
		MessageID: fmt.Sprintf("%d:%d", chatID, origMessageID),
		Source:    "operator",
		Rating:    action,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to record response quality", "error", err)
		answer("Произошла ошибка при обработке оценки")
		return
	}
	if !inserted {
		answer(h.deps.Config.Messages.AlreadyRated)
		return
	}

	h.forwardToReviewTopic(ctx, b, action, chatID, origMessageID, log)

	_, err = b.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
		ChatID:      chatID,
		MessageID:   msg.ID,
		ReplyMarkup: ratedKeyboard(action, topicID, origMessageID),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to update feedback keyboard", "error", err, "message_id", msg.ID)
	}

	if action == actionLike {
		answer(h.deps.Config.Messages.ThanksLike)
	} else {
		answer(h.deps.Config.Messages.ThanksDislike)
	}
	log.InfoContext(ctx, "Exchange rated", "rating", action, "message_id", origMessageID, "user_id", query.From.ID)
}

// forwardToReviewTopic copies the rated exchange into the good-examples or
// needs-work topic with an explanatory comment.
func (h feedbackHandler) forwardToReviewTopic(ctx context.Context, b *bot.Bot, action string, chatID int64, messageID int, log *slog.Logger) {
	tg := h.deps.Config.Telegram

	targetTopic := tg.GoodExamplesTopic
	comment := "✅ Сообщение отмечено как хороший пример ответа"
	if action == actionDislike {
		targetTopic = tg.NeedsWorkTopic
		comment = "❌ Сообщение отмечено как требующее доработки"
	}
	if targetTopic == 0 {
		return
	}

	forwarded, err := b.ForwardMessage(ctx, &bot.ForwardMessageParams{
		ChatID:          chatID,
		FromChatID:      chatID,
		MessageID:       messageID,
		MessageThreadID: targetTopic,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to forward rated exchange", "error", err, "topic", targetTopic)
		return
	}

	_, err = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          chatID,
		MessageThreadID: targetTopic,
		Text:            comment,
		ReplyParameters: &models.ReplyParameters{MessageID: forwarded.ID},
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to comment on forwarded exchange", "error", err)
	}
}

// parseFeedbackData splits "action_topicID_messageID" callback data.
func parseFeedbackData(data string) (action string, topicID, messageID int, err error) {
	parts := strings.Split(data, "_")
	if len(parts) != 3 {
		return "", 0, 0, fmt.Errorf("expected 3 parts, got %d", len(parts))
	}

	topicID, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid topic id %q: %w", parts[1], err)
	}
	messageID, err = strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid message id %q: %w", parts[2], err)
	}
	return parts[0], topicID, messageID, nil
}
