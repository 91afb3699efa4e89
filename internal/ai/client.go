// Package ai generates customer replies through an OpenAI-compatible chat
// completion API, layering shop context into the prompt and rotating between
// models when the primary one is throttled.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/cvetykz/flowerbot/internal/config"
	"github.com/cvetykz/flowerbot/internal/database"
)

// Client wraps the completion API with retry, model rotation, and token
// usage accounting.
type Client struct {
	api    *openai.Client
	store  database.Store
	logger *slog.Logger

	instruction      string
	models           []string
	temperature      float32
	maxTokens        int
	presencePenalty  float32
	frequencyPenalty float32
	timeout          time.Duration
	maxRetries       int
	retryDelay       time.Duration
}

// NewClient creates an AI client from configuration. store may be nil to
// skip token usage accounting.
func NewClient(cfg *config.AIConfig, store database.Store, logger *slog.Logger) (*Client, error) {
	if len(cfg.Models) == 0 {
		return nil, errors.New("at least one model is required")
	}

	apiConfig := openai.DefaultConfig(cfg.Token)
	if cfg.BaseURL != "" {
		apiConfig.BaseURL = cfg.BaseURL
	}

	return &Client{
		api:              openai.NewClientWithConfig(apiConfig),
		store:            store,
		logger:           logger.With("component", "ai"),
		instruction:      cfg.Instruction,
		models:           cfg.Models,
		temperature:      cfg.Temperature,
		maxTokens:        cfg.MaxTokens,
		presencePenalty:  cfg.PresencePenalty,
		frequencyPenalty: cfg.FrequencyPenalty,
		timeout:          cfg.Timeout,
		maxRetries:       cfg.MaxRetries,
		retryDelay:       cfg.RetryDelay,
	}, nil
}

// Respond generates a reply to a customer message. On throttling it first
// tries the next model in the priority list; once the whole list has been
// tried it backs off exponentially before the next round. messageID ties the
// token usage record to the Telegram message.
func (c *Client) Respond(ctx context.Context, messageID, userMessage string, pc PromptContext) (string, error) {
	scenario := DetectScenario(userMessage)
	messages := buildMessages(c.instruction, scenario, userMessage, pc)

	backoff := c.retryDelay
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 && attempt%len(c.models) == 0 {
			c.logger.WarnContext(ctx, "All models throttled, backing off",
				"attempt", attempt, "backoff", backoff)
			timer := time.NewTimer(backoff)
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", fmt.Errorf("context error: %w", ctx.Err())
			case <-timer.C:
				backoff *= 2
			}
		}

		model := c.models[attempt%len(c.models)]
		reply, usage, err := c.complete(ctx, model, messages)
		if err == nil {
			c.recordUsage(ctx, messageID, model, scenario, usage)
			return reply, nil
		}

		if isPermanentAPIError(err) {
			return "", fmt.Errorf("permanent API error: %w", err)
		}

		lastErr = err
		c.logger.WarnContext(ctx, "Completion attempt failed",
			"model", model, "attempt", attempt+1, "error", err)
	}

	return "", fmt.Errorf("all %d completion attempts failed: %w", c.maxRetries, lastErr)
}

func (c *Client) complete(ctx context.Context, model string, messages []openai.ChatCompletionMessage) (string, openai.Usage, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:            model,
		Messages:         messages,
		Temperature:      c.temperature,
		MaxTokens:        c.maxTokens,
		PresencePenalty:  c.presencePenalty,
		FrequencyPenalty: c.frequencyPenalty,
	})
	if err != nil {
		return "", openai.Usage{}, err
	}
	if len(resp.Choices) == 0 {
		return "", openai.Usage{}, errors.New("completion returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), resp.Usage, nil
}

func (c *Client) recordUsage(ctx context.Context, messageID, model string, scenario Scenario, usage openai.Usage) {
	if c.store == nil {
		return
	}
	record := &database.TokenUsage{
		MessageID:        messageID,
		Model:            model,
		Scenario:         string(scenario),
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
	}
	if err := c.store.RecordTokenUsage(ctx, record); err != nil {
		c.logger.WarnContext(ctx, "Failed to record token usage", "message_id", messageID, "error", err)
	}
}

// isPermanentAPIError reports whether retrying cannot help: authentication
// failures, bad requests, and missing models. Throttling and server errors
// stay retryable.
func isPermanentAPIError(err error) bool {
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.HTTPStatusCode {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return true
	}
	return false
}
