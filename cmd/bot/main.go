// Package main contains the entrypoint for the flower shop bot.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbot "github.com/go-telegram/bot"

	"github.com/cvetykz/flowerbot/internal/ai"
	"github.com/cvetykz/flowerbot/internal/bot"
	"github.com/cvetykz/flowerbot/internal/bot/handlers"
	"github.com/cvetykz/flowerbot/internal/bot/tasks"
	"github.com/cvetykz/flowerbot/internal/cache"
	"github.com/cvetykz/flowerbot/internal/config"
	"github.com/cvetykz/flowerbot/internal/credentials"
	"github.com/cvetykz/flowerbot/internal/database"
	"github.com/cvetykz/flowerbot/internal/dialogue"
	"github.com/cvetykz/flowerbot/internal/inventory"
	"github.com/cvetykz/flowerbot/internal/knowledge"
	"github.com/cvetykz/flowerbot/internal/logger"
	"github.com/cvetykz/flowerbot/internal/telegram"

	_ "modernc.org/sqlite"
)

const googleAPITimeout = 30 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all components, starts the bot, and handles graceful
// shutdown. Returns the process exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	db, err := database.NewDB(cfg.Database.Path)
	if err != nil {
		log.Error("Failed to connect to database", "path", cfg.Database.Path, "error", err)
		return 1
	}
	defer database.CloseDB(db)
	store := database.NewStore(db, log)

	// Google identifiers live in the credentials table so they can be
	// rotated without redeploying; the config file is the fallback.
	creds := credentials.NewManager(store, log)
	apiKey, err := creds.GetOptional(ctx, "google", "api_key", "")
	if err != nil {
		log.Error("Failed to read Google API key", "error", err)
		return 1
	}
	accessToken, err := creds.GetOptional(ctx, "google", "access_token", "")
	if err != nil {
		log.Error("Failed to read Google access token", "error", err)
		return 1
	}
	documentID, err := creds.GetOptional(ctx, "google", "docs_knowledge_base_id", cfg.Knowledge.DocumentID)
	if err != nil {
		log.Error("Failed to read knowledge document ID", "error", err)
		return 1
	}
	spreadsheetID, err := creds.GetOptional(ctx, "google", "inventory_spreadsheet_id", cfg.Inventory.SpreadsheetID)
	if err != nil {
		log.Error("Failed to read inventory spreadsheet ID", "error", err)
		return 1
	}

	docsClient := knowledge.NewDocsClient(documentID, apiKey, accessToken, googleAPITimeout)
	knowledgeSvc := knowledge.NewService(docsClient, cfg.Knowledge.RefreshTTL, cfg.Knowledge.MaxSections, log)

	sheetsClient := inventory.NewSheetsClient(spreadsheetID, cfg.Inventory.Range, apiKey, googleAPITimeout)
	inventorySvc := inventory.NewService(sheetsClient, cfg.Inventory.RefreshTTL, log)

	responseCache := cache.New(cache.Options{
		TTL:                 cfg.Cache.TTL,
		MinFrequency:        cfg.Cache.MinFrequency,
		MaxSize:             cfg.Cache.MaxSize,
		SimilarityThreshold: cfg.Cache.SimilarityThreshold,
	}, store, log)

	dialogueMgr := dialogue.NewManager(cfg.Dialogue.MaxTurns, cfg.Dialogue.TurnTTL, store, log)

	aiClient, err := ai.NewClient(&cfg.AI, store, log)
	if err != nil {
		log.Error("Failed to initialize AI client", "error", err)
		return 1
	}

	hDeps := handlers.HandlerDeps{
		Logger:            log,
		Config:            cfg,
		Store:             store,
		AI:                aiClient,
		Cache:             responseCache,
		Dialogue:          dialogueMgr,
		Inventory:         inventorySvc,
		Knowledge:         knowledgeSvc,
		KnowledgeAppender: docsClient,
	}
	tDeps := tasks.TaskDeps{
		Logger:    log,
		Config:    cfg,
		Store:     store,
		Cache:     responseCache,
		Dialogue:  dialogueMgr,
		Inventory: inventorySvc,
		Knowledge: knowledgeSvc,
	}

	botOpts := []tgbot.Option{
		tgbot.WithMiddlewares(logger.Middleware(log)),
		tgbot.WithDefaultHandler(handlers.NewMessageHandler(hDeps)),
	}
	tg, err := telegram.NewTelegramBot(cfg.Telegram.Token, log, botOpts...)
	if err != nil {
		log.Error("Failed to create Telegram bot", "error", err)
		return 1
	}

	if cfg.Telegram.DropPendingUpdates {
		if _, err := tg.DeleteWebhook(ctx, &tgbot.DeleteWebhookParams{DropPendingUpdates: true}); err != nil {
			log.Warn("Failed to drop pending updates", "error", err)
		}
	}

	me, err := tg.GetMe(ctx)
	if err != nil {
		log.Error("Failed to get bot info", "error", err)
		return 1
	}
	cfg.Telegram.BotInfo = config.BotInfo{ID: me.ID, Username: me.Username, FirstName: me.FirstName}
	log.Info("Retrieved bot info", "bot_id", me.ID, "bot_username", me.Username)

	if err := telegram.RegisterHandlers(tg, log, handlers.RegisterAllCommands(hDeps)); err != nil {
		log.Error("Failed to register Telegram handlers", "error", err)
		return 1
	}

	sched, err := bot.NewScheduler(log, &cfg.Scheduler, tasks.RegisterAllTasks(tDeps))
	if err != nil {
		log.Error("Failed to create scheduler", "error", err)
		return 1
	}
	app := bot.NewBot(log, cfg, db, store, tg, sched)

	log.Info("Starting bot...")
	runErr := app.Run(ctx)

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Error("Bot stopped due to error", "error", runErr)
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Bot stopped gracefully.")
	time.Sleep(time.Second)
	return 0
}
