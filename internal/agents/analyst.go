package agents

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"minerva/internal/adapters/ai"
	"minerva/internal/metrics"
	"minerva/internal/tools"
	"minerva/pkg/errors"
	"minerva/pkg/logger"
)

// askUserTool is the built-in tool that lets the model pause and ask the user
// a clarifying question. It is handled by the agent, not the tool registry.
const askUserTool = "ask_user"

// maxIterationsReply is returned when the tool-calling loop runs out of
// iterations before the model produces a final answer.
const maxIterationsReply = "The analysis did not finish within the iteration budget. " +
	"Try a narrower question or split the request into smaller steps."

// AnalystOptions configures an Analyst agent.
type AnalystOptions struct {
	Model         string
	Temperature   float64
	MaxTokens     int
	MaxIterations int

	// WorkDir is the session working directory referenced in the system
	// prompt; datasets and generated artifacts live there.
	WorkDir string

	// AskUser answers the model's clarifying questions. When nil, the
	// question is returned from Run and the next Run call is treated as
	// the user's answer.
	AskUser AskUserFunc
}

// Analyst runs a tool-calling conversation loop against a chat provider,
// dispatching requested tools through the registry and feeding their results
// back until the model answers in plain text.
type Analyst struct {
	provider ai.ChatProvider
	registry *tools.Registry
	conv     *Conversation
	opts     AnalystOptions

	sessionID string
	log       *logger.Logger

	// pendingAskID is set while an ask_user question is awaiting the
	// user's answer across Run calls.
	pendingAskID string
}

// NewAnalyst constructs an analyst agent with a fresh session.
func NewAnalyst(provider ai.ChatProvider, registry *tools.Registry, opts AnalystOptions) *Analyst {
	if opts.MaxIterations <= 0 {
		opts.MaxIterations = 20
	}
	sessionID := uuid.NewString()
	return &Analyst{
		provider:  provider,
		registry:  registry,
		conv:      NewConversation(systemPrompt(opts.WorkDir), 0),
		opts:      opts,
		sessionID: sessionID,
		log: logger.Get().With(
			"agent", string(AgentAnalyst),
			"session_id", sessionID,
		),
	}
}

// Type implements Agent.
func (a *Analyst) Type() AgentType { return AgentAnalyst }

// SessionID identifies this conversation.
func (a *Analyst) SessionID() string { return a.sessionID }

// Reset implements Agent.
func (a *Analyst) Reset() {
	a.conv.Reset()
	a.pendingAskID = ""
	a.log.Info("session reset")
}

// Run implements Agent. When a clarifying question is pending, input is the
// user's answer to it; otherwise it starts a new turn.
func (a *Analyst) Run(ctx context.Context, input string) (string, error) {
	if a.pendingAskID != "" {
		callID := a.pendingAskID
		a.pendingAskID = ""
		if err := a.conv.AddToolResult(callID, askUserTool, input); err != nil {
			return "", err
		}
	} else {
		a.conv.AddUser(input)
	}

	for iteration := 0; iteration < a.opts.MaxIterations; iteration++ {
		a.log.Debugw("agent iteration",
			"iteration", iteration+1, "max", a.opts.MaxIterations,
			"tokens", a.conv.TokenEstimate())

		resp, err := a.chat(ctx)
		if err != nil {
			return "", err
		}

		if len(resp.Choices) == 0 {
			return "", errors.Wrap(errors.ErrExternal, "model returned no choices")
		}
		msg := resp.Choices[0].Message

		if len(msg.ToolCalls) == 0 {
			a.conv.AddAssistant(msg)
			a.log.Infow("analysis turn complete", "iterations", iteration+1)
			return msg.Content, nil
		}

		a.conv.AddAssistant(msg)

		for _, tc := range msg.ToolCalls {
			if tc.Function.Name == askUserTool {
				question, answered, err := a.handleAskUser(ctx, tc)
				if err != nil {
					return "", err
				}
				if !answered {
					// Hand the question back to the front-end; the
					// next Run call carries the answer.
					return question, nil
				}
				continue
			}
			if err := a.dispatch(ctx, tc); err != nil {
				return "", err
			}
		}
	}

	a.log.Warnw("iteration budget exhausted", "max", a.opts.MaxIterations)
	return maxIterationsReply, nil
}

// chat performs one model call with full tool definitions and records usage.
func (a *Analyst) chat(ctx context.Context) (*ai.ChatResponse, error) {
	req := ai.ChatRequest{
		Model:       a.opts.Model,
		Messages:    a.conv.Messages(),
		Tools:       a.toolDefinitions(),
		Temperature: a.opts.Temperature,
		MaxTokens:   a.opts.MaxTokens,
	}

	resp, err := a.provider.Chat(ctx, req)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.AgentCalls.WithLabelValues(string(AgentAnalyst), a.opts.Model, status).Inc()
	if err != nil {
		return nil, errors.Wrap(err, "chat provider failed")
	}

	metrics.AgentTokens.WithLabelValues(string(AgentAnalyst), a.opts.Model, "input").
		Add(float64(resp.Usage.PromptTokens))
	metrics.AgentTokens.WithLabelValues(string(AgentAnalyst), a.opts.Model, "output").
		Add(float64(resp.Usage.CompletionTokens))

	return resp, nil
}

// handleAskUser resolves an ask_user call. It either answers inline through
// the AskUser callback, or reports the question for the caller to surface.
func (a *Analyst) handleAskUser(ctx context.Context, tc ai.ToolCall) (string, bool, error) {
	var args struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
		return "", false, errors.Wrapf(errors.ErrInvalidInput, "malformed ask_user arguments: %v", err)
	}

	if a.opts.AskUser == nil {
		a.pendingAskID = tc.ID
		return args.Message, false, nil
	}

	answer, err := a.opts.AskUser(ctx, args.Message)
	if err != nil {
		return "", false, errors.Wrap(err, "ask_user callback failed")
	}
	if err := a.conv.AddToolResult(tc.ID, askUserTool, answer); err != nil {
		return "", false, err
	}
	return "", true, nil
}

// dispatch executes one requested tool and feeds its result back into the
// conversation. Tool failures are returned to the model as an error payload
// so it can correct itself, for example after a misspelled column name.
func (a *Analyst) dispatch(ctx context.Context, tc ai.ToolCall) error {
	tool, ok := a.registry.Get(tc.Function.Name)
	if !ok {
		a.log.Warnw("model requested unknown tool", "tool", tc.Function.Name)
		return a.conv.AddToolResult(tc.ID, tc.Function.Name, map[string]interface{}{
			"error": fmt.Sprintf("unknown tool %q", tc.Function.Name),
		})
	}

	var args map[string]interface{}
	if tc.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			return a.conv.AddToolResult(tc.ID, tc.Function.Name, map[string]interface{}{
				"error": fmt.Sprintf("malformed arguments: %v", err),
			})
		}
	}

	a.log.Infow("executing tool", "tool", tc.Function.Name)

	result, err := tool.Execute(ctx, args)
	if err != nil {
		a.log.Warnw("tool execution failed", "tool", tc.Function.Name, "error", err)
		return a.conv.AddToolResult(tc.ID, tc.Function.Name, map[string]interface{}{
			"error": err.Error(),
		})
	}
	return a.conv.AddToolResult(tc.ID, tc.Function.Name, result)
}

// toolDefinitions exposes the registered analysis tools plus the built-in
// ask_user tool to the model.
func (a *Analyst) toolDefinitions() []ai.ToolDefinition {
	defs := make([]ai.ToolDefinition, 0, len(tools.Catalog)+1)
	for _, def := range tools.Catalog {
		if _, ok := a.registry.Get(def.Name); !ok {
			continue
		}
		defs = append(defs, ai.ToolDefinition{
			Type: "function",
			Function: ai.FunctionDefinition{
				Name:        def.Name,
				Description: def.Description,
				Parameters:  def.Parameters,
			},
		})
	}

	defs = append(defs, ai.ToolDefinition{
		Type: "function",
		Function: ai.FunctionDefinition{
			Name:        askUserTool,
			Description: "Ask the user a clarifying question when the request is ambiguous, for example a missing file name, variable or model formula.",
			Parameters: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"message": map[string]interface{}{
						"type":        "string",
						"description": "The question to put to the user. Keep it specific and easy to answer.",
					},
				},
				"required": []string{"message"},
			},
		},
	})

	return defs
}

// systemPrompt renders the analyst's instructions, naming the working
// directory and each available tool.
func systemPrompt(workDir string) string {
	var b strings.Builder

	b.WriteString("You are a professional data analyst assistant. You answer analysis questions about tabular datasets by calling the available tools; all statistical computation is delegated to them.\n\n")
	fmt.Fprintf(&b, "Working directory: %s\n", workDir)
	b.WriteString("Uploaded datasets live there; refer to them by file name (for example \"meteorites.csv\"). Generated plots and CSVs are written to the same directory.\n\n")

	b.WriteString("Available tools:\n")
	for _, def := range tools.Catalog {
		fmt.Fprintf(&b, "- %s: %s\n", def.Name, def.Description)
	}
	b.WriteString("- ask_user: ask the user a clarifying question\n\n")

	b.WriteString("Workflow:\n")
	b.WriteString("1. Understand the request. If it is ambiguous (missing file, variable or formula), use ask_user before guessing.\n")
	b.WriteString("2. Load the dataset and run run_eda before fitting models.\n")
	b.WriteString("3. Column names in formulas may be given in canonical form (lowercase, underscores); the tools resolve them to the dataset's raw names. If a tool reports an unresolved variable, check list_columns and retry with a corrected name.\n")
	b.WriteString("4. Visualize key results.\n")
	b.WriteString("5. Explain statistical output in plain language and close with actionable takeaways.\n\n")

	b.WriteString("Never compute statistics yourself; always go through the tools.")

	return b.String()
}
