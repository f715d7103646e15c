package shared

import (
	"context"
	"time"

	"minerva/internal/metrics"
)

// ToolBuilder provides a fluent API for creating tools with middleware.
type ToolBuilder struct {
	name        string
	description string
	fn          ToolFunc

	withRetry     bool
	retryAttempts int
	retryBackoff  time.Duration

	withTimeout bool
	timeout     time.Duration
}

// NewToolBuilder creates a builder for a tool.
func NewToolBuilder(name, description string, fn ToolFunc) *ToolBuilder {
	return &ToolBuilder{
		name:        name,
		description: description,
		fn:          fn,
		// Default configs
		retryAttempts: 3,
		retryBackoff:  500 * time.Millisecond,
		timeout:       30 * time.Second,
	}
}

// WithRetry enables retry middleware.
func (b *ToolBuilder) WithRetry(attempts int, backoff time.Duration) *ToolBuilder {
	b.withRetry = true
	b.retryAttempts = attempts
	b.retryBackoff = backoff
	return b
}

// WithTimeout enables timeout middleware.
func (b *ToolBuilder) WithTimeout(timeout time.Duration) *ToolBuilder {
	b.withTimeout = true
	b.timeout = timeout
	return b
}

// Build creates the tool with configured middleware applied.
// Middleware order, innermost first: retry, timeout, metrics.
func (b *ToolBuilder) Build() *BuiltTool {
	fn := b.fn

	if b.withRetry {
		fn = wrapWithRetry(b.retryAttempts, b.retryBackoff, fn)
	}
	if b.withTimeout {
		fn = wrapWithTimeout(b.timeout, fn)
	}
	fn = wrapWithMetrics(b.name, fn)

	return &BuiltTool{
		name:        b.name,
		description: b.description,
		fn:          fn,
	}
}

// BuiltTool is the middleware-wrapped tool produced by the builder.
type BuiltTool struct {
	name        string
	description string
	fn          ToolFunc
}

// Name returns the tool identifier.
func (t *BuiltTool) Name() string { return t.name }

// Description returns a human description of the tool.
func (t *BuiltTool) Description() string { return t.description }

// Execute runs the wrapped handler.
func (t *BuiltTool) Execute(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
	return t.fn(ctx, args)
}

func wrapWithRetry(attempts int, backoff time.Duration, fn ToolFunc) ToolFunc {
	return func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
		var result map[string]interface{}
		var err error

		if attempts <= 0 {
			attempts = 1
		}

		for i := 0; i < attempts; i++ {
			result, err = fn(ctx, args)
			if err == nil {
				return result, nil
			}

			if backoff > 0 && i < attempts-1 {
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(backoff):
				}
			}
		}

		return result, err
	}
}

func wrapWithTimeout(timeout time.Duration, fn ToolFunc) ToolFunc {
	if timeout <= 0 {
		return fn
	}

	return func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return fn(ctx, args)
	}
}

func wrapWithMetrics(name string, fn ToolFunc) ToolFunc {
	return func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error) {
		start := time.Now()
		result, err := fn(ctx, args)
		metrics.ObserveToolExecution(name, start, err)
		return result, err
	}
}
