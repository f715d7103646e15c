package agents

import (
	"encoding/json"
	"fmt"
	"strings"

	"minerva/internal/adapters/ai"
	"minerva/pkg/errors"
)

// defaultBudget bounds the estimated conversation size before old turns are
// folded into a summary.
const defaultBudget = 50000

// keepRecent is how many trailing messages survive a compression pass.
const keepRecent = 10

// Conversation accumulates the chat history of one agent session, with a
// rough token budget and history compression once the budget is exceeded.
type Conversation struct {
	systemPrompt string
	history      []ai.Message
	tokens       int
	maxTokens    int
}

// NewConversation creates a conversation seeded with a system prompt.
func NewConversation(systemPrompt string, maxTokens int) *Conversation {
	if maxTokens <= 0 {
		maxTokens = defaultBudget
	}
	return &Conversation{
		systemPrompt: systemPrompt,
		history:      make([]ai.Message, 0, 32),
		tokens:       estimateTokens(systemPrompt),
		maxTokens:    maxTokens,
	}
}

// AddUser appends a user turn.
func (c *Conversation) AddUser(content string) {
	c.append(ai.Message{Role: ai.RoleUser, Content: content})
}

// AddAssistant appends an assistant turn, including any tool calls it made.
func (c *Conversation) AddAssistant(msg ai.Message) {
	msg.Role = ai.RoleAssistant
	c.append(msg)
}

// AddToolResult appends a tool execution result keyed to the call that
// requested it.
func (c *Conversation) AddToolResult(callID, toolName string, result interface{}) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return errors.Wrap(err, "failed to marshal tool result")
	}
	c.append(ai.Message{
		Role:       ai.RoleTool,
		Content:    string(payload),
		ToolCallID: callID,
		Name:       toolName,
	})
	if c.tokens > c.maxTokens {
		c.compress()
	}
	return nil
}

// Messages returns the history prefixed with the system prompt, ready to send
// to the model.
func (c *Conversation) Messages() []ai.Message {
	out := make([]ai.Message, 0, len(c.history)+1)
	out = append(out, ai.Message{Role: ai.RoleSystem, Content: c.systemPrompt})
	out = append(out, c.history...)
	return out
}

// Len reports the number of history messages, system prompt excluded.
func (c *Conversation) Len() int { return len(c.history) }

// TokenEstimate reports the rough size of the conversation.
func (c *Conversation) TokenEstimate() int { return c.tokens }

// Reset clears the history, keeping the system prompt.
func (c *Conversation) Reset() {
	c.history = c.history[:0]
	c.tokens = estimateTokens(c.systemPrompt)
}

func (c *Conversation) append(msg ai.Message) {
	c.history = append(c.history, msg)
	c.tokens += estimateMessageTokens(msg)
}

// compress folds everything but the trailing messages into a single summary
// turn. The cut never lands between an assistant tool call and its tool
// results, since providers reject orphaned tool messages.
func (c *Conversation) compress() {
	if len(c.history) <= keepRecent {
		return
	}

	cut := len(c.history) - keepRecent
	for cut > 0 && c.history[cut].Role == ai.RoleTool {
		cut--
	}
	if cut == 0 {
		return
	}

	summary := summarize(c.history[:cut])
	rest := c.history[cut:]

	compressed := make([]ai.Message, 0, len(rest)+1)
	compressed = append(compressed, ai.Message{Role: ai.RoleAssistant, Content: summary})
	compressed = append(compressed, rest...)
	c.history = compressed

	c.tokens = estimateTokens(c.systemPrompt)
	for _, msg := range c.history {
		c.tokens += estimateMessageTokens(msg)
	}
}

func summarize(msgs []ai.Message) string {
	toolUse := make(map[string]int)
	var lastFinding string
	for _, msg := range msgs {
		if msg.Role != ai.RoleAssistant {
			continue
		}
		for _, tc := range msg.ToolCalls {
			toolUse[tc.Function.Name]++
		}
		if msg.Content != "" {
			lastFinding = msg.Content
		}
	}

	var b strings.Builder
	b.WriteString("[Earlier conversation compressed]\n")
	for name, n := range toolUse {
		fmt.Fprintf(&b, "- called %s %d time(s)\n", name, n)
	}
	if lastFinding != "" {
		if len(lastFinding) > 300 {
			lastFinding = lastFinding[:300] + "..."
		}
		b.WriteString("Last finding: " + lastFinding)
	}
	return b.String()
}

// estimateTokens is a rough character-based estimate, about four characters
// per token for English text.
func estimateTokens(text string) int {
	return len(text) / 4
}

func estimateMessageTokens(msg ai.Message) int {
	total := estimateTokens(msg.Content)
	for _, tc := range msg.ToolCalls {
		total += estimateTokens(tc.Function.Name) + estimateTokens(tc.Function.Arguments)
	}
	return total
}
