package ai

import (
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/cvetykz/flowerbot/internal/dialogue"
)

// PromptContext carries everything assembled around one customer message.
type PromptContext struct {
	Inventory   string
	Knowledge   string
	EmotionNote string
	History     []dialogue.Turn
}

// buildMessages assembles the chat completion request. The system message
// stacks the shop instruction, the scenario guidance, the live inventory,
// the knowledge excerpt, and the emotion note; the dialogue history follows
// in chronological order, the current message last.
func buildMessages(instruction string, scenario Scenario, userMessage string, pc PromptContext) []openai.ChatCompletionMessage {
	var system strings.Builder
	system.WriteString(instruction)

	if guidance := scenarioGuidance[scenario]; guidance != "" {
		system.WriteString("\n\n")
		system.WriteString(guidance)
	}

	if pc.Inventory != "" {
		system.WriteString("\n\n")
		system.WriteString(pc.Inventory)
	}
	if pc.Knowledge != "" {
		system.WriteString("\n\nИнформация из базы знаний:\n")
		system.WriteString(pc.Knowledge)
	}
	if pc.EmotionNote != "" {
		system.WriteString("\n\n")
		system.WriteString(pc.EmotionNote)
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(pc.History)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system.String(),
	})

	for _, turn := range pc.History {
		role := openai.ChatMessageRoleUser
		if turn.Role == "assistant" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    role,
			Content: turn.Content,
		})
	}

	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userMessage,
	})
	return messages
}
