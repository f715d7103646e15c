package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minerva/internal/dataset"
	"minerva/internal/tools/shared"
	"minerva/pkg/logger"
)

func TestRegistry_RegisterAndGet(t *testing.T) {
	registry := NewRegistry()

	mockTool := &mockToolImpl{name: "test_tool"}
	registry.Register("test_tool", mockTool)

	retrieved, ok := registry.Get("test_tool")
	require.True(t, ok)
	assert.Equal(t, mockTool, retrieved)

	_, ok = registry.Get("unknown_tool")
	assert.False(t, ok)
}

func TestRegistry_List(t *testing.T) {
	registry := NewRegistry()
	registry.Register("a", &mockToolImpl{name: "a"})
	registry.Register("b", &mockToolImpl{name: "b"})

	names := registry.List()
	assert.ElementsMatch(t, []string{"a", "b"}, names)
}

func TestRegisterAllTools_CoversCatalog(t *testing.T) {
	registry := NewRegistry()
	deps := shared.Deps{
		Store: dataset.NewStore(),
		Log:   logger.Get(),
	}

	RegisterAllTools(registry, deps)

	for _, def := range Catalog {
		tool, ok := registry.Get(def.Name)
		require.True(t, ok, "catalog tool %s should be registered", def.Name)
		assert.Equal(t, def.Name, tool.Name())
		assert.Equal(t, def.Description, tool.Description())
	}
	assert.Len(t, registry.List(), len(Catalog))
}

func TestFunctionTool(t *testing.T) {
	tool := New("echo", "Echo arguments back", func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
		return args, nil
	})

	out, err := tool.Execute(context.Background(), map[string]interface{}{"x": 1.0})
	require.NoError(t, err)
	assert.Equal(t, 1.0, out["x"])

	empty := New("nil", "No handler", nil)
	_, err = empty.Execute(context.Background(), nil)
	assert.Error(t, err)
}

// mockToolImpl is a minimal implementation of Tool for testing
type mockToolImpl struct {
	name string
}

func (m *mockToolImpl) Name() string        { return m.name }
func (m *mockToolImpl) Description() string { return "Test tool" }
func (m *mockToolImpl) Execute(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	return nil, nil
}
