package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/cvetykz/flowerbot/internal/ai"
	"github.com/cvetykz/flowerbot/internal/knowledge"
)

// How many history turns go into the completion prompt.
const promptHistoryTurns = 5

// NewMessageHandler returns the default handler processing customer messages
// in private chats: cache lookup, context assembly, completion, reply, and
// the operator log with feedback buttons.
func NewMessageHandler(deps HandlerDeps) bot.HandlerFunc {
	return messageHandler{deps}.Handle
}

type messageHandler struct {
	deps HandlerDeps
}

func (h messageHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "message")

	msg := update.Message
	if msg == nil || msg.From == nil || msg.Text == "" {
		return
	}
	if msg.Chat.Type != models.ChatTypePrivate || strings.HasPrefix(msg.Text, "/") {
		return
	}

	userID := msg.From.ID
	text := msg.Text
	log.InfoContext(ctx, "Customer message received", "user_id", userID)

	// Cached answers skip the completion API entirely.
	if cached, ok := h.deps.Cache.Get(ctx, text); ok {
		log.InfoContext(ctx, "Serving cached answer", "user_id", userID)
		h.deps.Dialogue.AddTurn(ctx, userID, "user", text)
		h.reply(ctx, b, msg.Chat.ID, cached, log)
		h.deps.Dialogue.AddTurn(ctx, userID, "assistant", cached)
		h.logExchange(ctx, b, msg, cached, "", log)
		return
	}

	history := h.deps.Dialogue.RelevantContext(ctx, userID, text, promptHistoryTurns)
	h.deps.Dialogue.AddTurn(ctx, userID, "user", text)

	knowledgeCtx := h.deps.Knowledge.RelevantKnowledge(ctx, text)
	promptCtx := ai.PromptContext{
		Inventory:   h.deps.Inventory.FormatContext(ctx),
		Knowledge:   knowledgeCtx,
		EmotionNote: ai.AnalyzeEmotion(text).PromptNote(),
		History:     history,
	}

	messageID := strconv.Itoa(msg.ID)
	answer, err := h.deps.AI.Respond(ctx, messageID, text, promptCtx)
	if err != nil {
		log.ErrorContext(ctx, "Completion failed, sending apology", "user_id", userID, "error", err)
		h.reply(ctx, b, msg.Chat.ID, h.deps.Config.Messages.Apology, log)
		return
	}

	h.reply(ctx, b, msg.Chat.ID, answer, log)
	h.deps.Dialogue.AddTurn(ctx, userID, "assistant", answer)
	h.deps.Cache.Put(ctx, text, answer)

	switch {
	case knowledgeCtx == knowledge.NoRelevantInfo:
		h.recordUnanswered(userID, text, answer, "Нет информации в базе знаний", log)
	case ai.SoundsUncertain(answer):
		h.recordUnanswered(userID, text, answer, "Неуверенный ответ", log)
	}

	h.logExchange(ctx, b, msg, answer, knowledgeCtx, log)
}

func (h messageHandler) reply(ctx context.Context, b *bot.Bot, chatID int64, text string, log *slog.Logger) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: text})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
	}
}

// recordUnanswered files the question in the knowledge document's review
// section. Runs detached so a slow Docs API call never delays the customer.
func (h messageHandler) recordUnanswered(userID int64, question, answer, responseType string, log *slog.Logger) {
	if h.deps.KnowledgeAppender == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		err := h.deps.KnowledgeAppender.AddUnansweredQuestion(ctx, question, userID, answer, responseType)
		if err != nil {
			log.WarnContext(ctx, "Failed to record unanswered question", "user_id", userID, "error", err)
		}
	}()
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

// escapeMarkdown neutralizes legacy Markdown markers in interpolated text.
// An unbalanced marker in a customer message would otherwise make Telegram
// reject the whole log entry.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// logExchange posts the question and answer to the operator group's log
// topic and attaches the rating buttons. The callback data embeds the log
// message's own ID, so the keyboard is attached with a follow-up edit.
func (h messageHandler) logExchange(ctx context.Context, b *bot.Bot, msg *models.Message, answer, knowledgeCtx string, log *slog.Logger) {
	tg := h.deps.Config.Telegram
	if tg.LogGroupID == 0 {
		return
	}

	user := msg.From
	username := "Нет"
	if user.Username != "" {
		username = "@" + user.Username
	}

	var sb strings.Builder
	sb.WriteString("*Новое сообщение от клиента*\n\n")
	fmt.Fprintf(&sb, "👤 *Пользователь*:\nID: `%d`\nИмя: %s %s\nUsername: %s\n\n",
		user.ID, escapeMarkdown(user.FirstName), escapeMarkdown(user.LastName), escapeMarkdown(username))
	fmt.Fprintf(&sb, "❓ *Вопрос*:\n%s\n\n", escapeMarkdown(msg.Text))
	if knowledgeCtx != "" {
		fmt.Fprintf(&sb, "📚 *Использованные знания*:\n%s\n\n", escapeMarkdown(knowledgeCtx))
	}
	fmt.Fprintf(&sb, "✍️ *Ответ бота*:\n%s", escapeMarkdown(answer))

	logMsg, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          tg.LogGroupID,
		MessageThreadID: tg.LogTopicID,
		Text:            sb.String(),
		ParseMode:       models.ParseModeMarkdownV1,
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to post exchange to log topic", "error", err)
		return
	}

	_, err = b.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
		ChatID:      tg.LogGroupID,
		MessageID:   logMsg.ID,
		ReplyMarkup: feedbackKeyboard(tg.LogTopicID, logMsg.ID),
	})
	if err != nil {
		log.ErrorContext(ctx, "Failed to attach feedback buttons", "error", err, "message_id", logMsg.ID)
	}
}
