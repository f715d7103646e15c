// Package agents implements the conversational agents that drive analyses by
// calling registered tools through an LLM tool-calling loop.
package agents

import "context"

// AgentType enumerates supported agent specializations.
type AgentType string

const (
	AgentAnalyst AgentType = "analyst"
)

// Agent is the contract implemented by conversational agents.
type Agent interface {
	Type() AgentType

	// Run feeds one user turn into the agent and returns its reply. The
	// reply may be a clarifying question when the agent needs more input.
	Run(ctx context.Context, input string) (string, error)

	// Reset drops the conversation history, starting a fresh session.
	Reset()
}

// AskUserFunc surfaces a clarifying question to the front-end and blocks
// until the user's answer is available.
type AskUserFunc func(ctx context.Context, question string) (string, error)
