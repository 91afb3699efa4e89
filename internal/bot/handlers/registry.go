package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler couples a handler with its registration parameters and
// middleware.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands returns the command and callback handlers of the bot.
// The customer message flow is not listed here; it runs as the default
// handler configured on the bot instance.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "start",
		Handler:     NewStartHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}

	operatorMiddleware := []tgbot.Middleware{OperatorOnly(deps)}

	handlers["/update"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "update",
		Handler:     NewUpdateHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  operatorMiddleware,
	}
	handlers["/stats"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "stats",
		Handler:     NewStatsHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  operatorMiddleware,
	}

	// Feedback buttons on logged exchanges. Callback data starts with the
	// action name, so prefix matching covers all four button states.
	handlers["feedback"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeCallbackQueryData,
		Pattern:     "",
		Handler:     NewFeedbackHandler(deps),
		MatchType:   tgbot.MatchTypePrefix,
	}

	return handlers
}
