package agents

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minerva/internal/adapters/ai"
	"minerva/internal/tools"
)

// scriptedProvider replays canned responses and records every request.
type scriptedProvider struct {
	responses []*ai.ChatResponse
	requests  []ai.ChatRequest
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) Chat(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	p.requests = append(p.requests, req)
	idx := len(p.requests) - 1
	if idx >= len(p.responses) {
		idx = len(p.responses) - 1
	}
	return p.responses[idx], nil
}

func textResponse(content string) *ai.ChatResponse {
	return &ai.ChatResponse{
		Choices: []ai.Choice{{
			Message:      ai.Message{Role: ai.RoleAssistant, Content: content},
			FinishReason: ai.FinishReasonStop,
		}},
		Usage: ai.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}
}

func toolCallResponse(id, name, arguments string) *ai.ChatResponse {
	return &ai.ChatResponse{
		Choices: []ai.Choice{{
			Message: ai.Message{
				Role: ai.RoleAssistant,
				ToolCalls: []ai.ToolCall{{
					ID:   id,
					Type: "function",
					Function: ai.FunctionCall{
						Name:      name,
						Arguments: arguments,
					},
				}},
			},
			FinishReason: ai.FinishReasonToolCalls,
		}},
		Usage: ai.Usage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
	}
}

// recordingTool captures the arguments it was called with.
type recordingTool struct {
	name     string
	lastArgs map[string]interface{}
	calls    int
	result   map[string]interface{}
	err      error
}

func (t *recordingTool) Name() string        { return t.name }
func (t *recordingTool) Description() string { return "recording tool" }
func (t *recordingTool) Execute(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	t.calls++
	t.lastArgs = args
	if t.err != nil {
		return nil, t.err
	}
	return t.result, nil
}

func TestAnalyst_ToolCallLoop(t *testing.T) {
	provider := &scriptedProvider{responses: []*ai.ChatResponse{
		toolCallResponse("call_1", "load_dataset", `{"file":"meteorites.csv"}`),
		textResponse("Loaded the dataset; it has 4 rows."),
	}}

	registry := tools.NewRegistry()
	loader := &recordingTool{name: "load_dataset", result: map[string]interface{}{"rows": 4}}
	registry.Register("load_dataset", loader)

	agent := NewAnalyst(provider, registry, AnalystOptions{
		Model:         "gpt-4o",
		MaxIterations: 5,
		WorkDir:       "/tmp/session",
	})

	reply, err := agent.Run(context.Background(), "Load meteorites.csv")
	require.NoError(t, err)
	assert.Equal(t, "Loaded the dataset; it has 4 rows.", reply)

	assert.Equal(t, 1, loader.calls)
	assert.Equal(t, "meteorites.csv", loader.lastArgs["file"])

	// The second request must carry the tool result back to the model.
	require.Len(t, provider.requests, 2)
	second := provider.requests[1]
	last := second.Messages[len(second.Messages)-1]
	assert.Equal(t, ai.RoleTool, last.Role)
	assert.Equal(t, "call_1", last.ToolCallID)
	assert.Contains(t, last.Content, `"rows":4`)
}

func TestAnalyst_SystemPromptListsTools(t *testing.T) {
	provider := &scriptedProvider{responses: []*ai.ChatResponse{textResponse("hi")}}
	agent := NewAnalyst(provider, tools.NewRegistry(), AnalystOptions{WorkDir: "/data/session-1"})

	_, err := agent.Run(context.Background(), "hello")
	require.NoError(t, err)

	system := provider.requests[0].Messages[0]
	assert.Equal(t, ai.RoleSystem, system.Role)
	assert.Contains(t, system.Content, "/data/session-1")
	assert.Contains(t, system.Content, "ask_user")
	for _, def := range tools.Catalog {
		assert.Contains(t, system.Content, def.Name)
	}
}

func TestAnalyst_ToolDefinitionsMatchRegistry(t *testing.T) {
	provider := &scriptedProvider{responses: []*ai.ChatResponse{textResponse("done")}}
	registry := tools.NewRegistry()
	registry.Register("load_dataset", &recordingTool{name: "load_dataset"})

	agent := NewAnalyst(provider, registry, AnalystOptions{})
	_, err := agent.Run(context.Background(), "go")
	require.NoError(t, err)

	names := make([]string, 0)
	for _, def := range provider.requests[0].Tools {
		names = append(names, def.Function.Name)
	}
	// Only registered tools plus the built-in ask_user are advertised.
	assert.ElementsMatch(t, []string{"load_dataset", "ask_user"}, names)
}

func TestAnalyst_AskUserCallback(t *testing.T) {
	provider := &scriptedProvider{responses: []*ai.ChatResponse{
		toolCallResponse("call_q", "ask_user", `{"message":"Which file should I load?"}`),
		textResponse("Thanks, loading it now."),
	}}

	var asked string
	agent := NewAnalyst(provider, tools.NewRegistry(), AnalystOptions{
		AskUser: func(ctx context.Context, question string) (string, error) {
			asked = question
			return "meteorites.csv", nil
		},
	})

	reply, err := agent.Run(context.Background(), "Analyze my data")
	require.NoError(t, err)
	assert.Equal(t, "Thanks, loading it now.", reply)
	assert.Equal(t, "Which file should I load?", asked)

	second := provider.requests[1]
	last := second.Messages[len(second.Messages)-1]
	assert.Equal(t, ai.RoleTool, last.Role)
	assert.Contains(t, last.Content, "meteorites.csv")
}

func TestAnalyst_AskUserPendingAcrossRuns(t *testing.T) {
	provider := &scriptedProvider{responses: []*ai.ChatResponse{
		toolCallResponse("call_q", "ask_user", `{"message":"Which column?"}`),
		textResponse("Using the mass column."),
	}}

	agent := NewAnalyst(provider, tools.NewRegistry(), AnalystOptions{})

	question, err := agent.Run(context.Background(), "Plot a histogram")
	require.NoError(t, err)
	assert.Equal(t, "Which column?", question)

	reply, err := agent.Run(context.Background(), "mass_g")
	require.NoError(t, err)
	assert.Equal(t, "Using the mass column.", reply)

	// The answer arrives as a tool result tied to the original call.
	second := provider.requests[1]
	var found bool
	for _, msg := range second.Messages {
		if msg.Role == ai.RoleTool && msg.ToolCallID == "call_q" {
			found = true
			assert.Contains(t, msg.Content, "mass_g")
		}
	}
	assert.True(t, found)
}

func TestAnalyst_ToolErrorFedBackToModel(t *testing.T) {
	provider := &scriptedProvider{responses: []*ai.ChatResponse{
		toolCallResponse("call_1", "fit_linear_model", `{"formula":"mass ~ altitude"}`),
		textResponse("The variable altitude does not exist; did you mean year?"),
	}}

	registry := tools.NewRegistry()
	registry.Register("fit_linear_model", &recordingTool{
		name: "fit_linear_model",
		err:  assert.AnError,
	})

	agent := NewAnalyst(provider, registry, AnalystOptions{MaxIterations: 3})
	reply, err := agent.Run(context.Background(), "Fit mass ~ altitude")
	require.NoError(t, err)
	assert.Contains(t, reply, "altitude")

	second := provider.requests[1]
	last := second.Messages[len(second.Messages)-1]
	assert.Equal(t, ai.RoleTool, last.Role)
	assert.Contains(t, last.Content, "error")
}

func TestAnalyst_UnknownToolReported(t *testing.T) {
	provider := &scriptedProvider{responses: []*ai.ChatResponse{
		toolCallResponse("call_1", "no_such_tool", `{}`),
		textResponse("done"),
	}}

	agent := NewAnalyst(provider, tools.NewRegistry(), AnalystOptions{MaxIterations: 3})
	_, err := agent.Run(context.Background(), "go")
	require.NoError(t, err)

	second := provider.requests[1]
	last := second.Messages[len(second.Messages)-1]
	assert.Contains(t, last.Content, "unknown tool")
}

func TestAnalyst_IterationBudget(t *testing.T) {
	provider := &scriptedProvider{responses: []*ai.ChatResponse{
		toolCallResponse("call_1", "load_dataset", `{"file":"a.csv"}`),
	}}

	registry := tools.NewRegistry()
	registry.Register("load_dataset", &recordingTool{name: "load_dataset"})

	agent := NewAnalyst(provider, registry, AnalystOptions{MaxIterations: 2})
	reply, err := agent.Run(context.Background(), "loop forever")
	require.NoError(t, err)
	assert.Equal(t, maxIterationsReply, reply)
	assert.Len(t, provider.requests, 2)
}

func TestAnalyst_Reset(t *testing.T) {
	provider := &scriptedProvider{responses: []*ai.ChatResponse{textResponse("ok")}}
	agent := NewAnalyst(provider, tools.NewRegistry(), AnalystOptions{})

	_, err := agent.Run(context.Background(), "first")
	require.NoError(t, err)
	require.Greater(t, agent.conv.Len(), 0)

	agent.Reset()
	assert.Equal(t, 0, agent.conv.Len())

	_, err = agent.Run(context.Background(), "second")
	require.NoError(t, err)
	// After reset the new request must not contain the first turn.
	latest := provider.requests[len(provider.requests)-1]
	for _, msg := range latest.Messages {
		assert.NotEqual(t, "first", msg.Content)
	}
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry()
	provider := &scriptedProvider{responses: []*ai.ChatResponse{textResponse("ok")}}
	analyst := NewAnalyst(provider, tools.NewRegistry(), AnalystOptions{})

	registry.Register(AgentAnalyst, analyst)

	got, ok := registry.Get(AgentAnalyst)
	require.True(t, ok)
	assert.Equal(t, AgentAnalyst, got.Type())
	assert.Equal(t, []AgentType{AgentAnalyst}, registry.List())
}

func TestConversation_Compress(t *testing.T) {
	conv := NewConversation("system", 10)

	for i := 0; i < 30; i++ {
		conv.AddAssistant(ai.Message{
			Content: strings.Repeat("finding ", 20),
			ToolCalls: []ai.ToolCall{{
				ID:       "c",
				Function: ai.FunctionCall{Name: "run_eda", Arguments: "{}"},
			}},
		})
		require.NoError(t, conv.AddToolResult("c", "run_eda", map[string]interface{}{"ok": true}))
	}

	assert.LessOrEqual(t, conv.Len(), keepRecent+1)

	msgs := conv.Messages()
	assert.Equal(t, ai.RoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[1].Content, "compressed")

	// A tool result never leads the surviving window without its
	// assistant call.
	assert.NotEqual(t, ai.RoleTool, msgs[2].Role)
}
