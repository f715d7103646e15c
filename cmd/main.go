package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"minerva/internal/adapters/ai"
	"minerva/internal/adapters/config"
	"minerva/internal/adapters/errors/noop"
	"minerva/internal/adapters/errors/sentry"
	"minerva/internal/agents"
	"minerva/internal/api/mcpserver"
	"minerva/internal/classify"
	"minerva/internal/dataset"
	"minerva/internal/metrics"
	"minerva/internal/stats"
	"minerva/internal/tools"
	"minerva/internal/tools/shared"
	"minerva/pkg/errors"
	"minerva/pkg/logger"
)

const version = "0.1.0"

// stdin is shared between the CLI loop and ask_user prompts so buffered
// input is never split across readers.
var stdin = bufio.NewScanner(os.Stdin)

func main() {
	mode := flag.String("mode", "cli", "run mode: cli (interactive) or mcp (stdio server)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	if err := cfg.Validate(); err != nil {
		panic("invalid config: " + err.Error())
	}

	// Initialize logger
	if err := logger.Init(cfg.App.LogLevel, cfg.App.Env); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	defer logger.Sync()

	log := logger.Get()
	log.Infof("Starting %s %s in %s mode", cfg.App.Name, version, *mode)

	// Initialize error tracker
	errorTracker := initErrorTracker(cfg, log)
	logger.SetErrorTracker(errorTracker)
	defer errorTracker.Flush(context.Background())

	// Metrics endpoint
	if cfg.Metrics.Enabled {
		go func() {
			log.Infof("Metrics listening on %s", cfg.Metrics.Addr)
			if err := metrics.Serve(cfg.Metrics.Addr); err != nil {
				log.Errorf("Metrics server error: %v", err)
			}
		}()
	}

	// Tool dependencies: dataset store, classification rules, R runner
	deps := initDeps(cfg, log)

	// Tool registry
	registry := tools.NewRegistry()
	tools.RegisterAllTools(registry, deps)
	log.Infof("Registered %d tools", len(registry.List()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	switch *mode {
	case "mcp":
		runMCP(registry, log)
	case "cli":
		runCLI(ctx, cancel, cfg, registry, log)
	default:
		log.Fatalf("Unknown mode %q; expected cli or mcp", *mode)
	}
}

// initErrorTracker initializes error tracking (Sentry or no-op)
func initErrorTracker(cfg *config.Config, log *logger.Logger) errors.Tracker {
	if !cfg.ErrorTracking.Enabled || cfg.ErrorTracking.SentryDSN == "" {
		log.Info("Error tracking disabled")
		return noop.New()
	}

	tracker, err := sentry.New(cfg.ErrorTracking.SentryDSN, cfg.ErrorTracking.Environment)
	if err != nil {
		log.Warnf("Failed to initialize Sentry: %v", err)
		return noop.New()
	}

	log.Info("Error tracking initialized (Sentry)")
	return tracker
}

// initDeps builds the shared dependency bundle handed to every tool.
func initDeps(cfg *config.Config, log *logger.Logger) shared.Deps {
	if err := os.MkdirAll(cfg.Analysis.WorkDir, 0o755); err != nil {
		log.Fatalf("Failed to create working directory %s: %v", cfg.Analysis.WorkDir, err)
	}

	// A missing rule set disables class cleaning but is not fatal.
	rules, err := classify.LoadRuleSet(cfg.Analysis.RulesetPath)
	switch {
	case err == nil:
		log.Infof("Classification rules loaded from %s", cfg.Analysis.RulesetPath)
	case errors.Is(err, errors.ErrClassificationConfigMissing):
		log.Warnf("Classification rule set %s not found; class cleaning disabled", cfg.Analysis.RulesetPath)
	default:
		log.Fatalf("Failed to load classification rules: %v", err)
	}

	runner := stats.NewRscriptRunner(
		cfg.Analysis.RscriptBin,
		cfg.Analysis.ScriptDir,
		cfg.Analysis.WorkDir,
		cfg.Analysis.ScriptTimeout,
	)

	return shared.Deps{
		Store:   dataset.NewStore(),
		Rules:   rules,
		Stats:   runner,
		WorkDir: cfg.Analysis.WorkDir,
		Log:     log,
	}
}

// initAgents wires the chat provider and registers the available agents.
func initAgents(cfg *config.Config, registry *tools.Registry, log *logger.Logger) *agents.Registry {
	if cfg.AI.OpenAIKey == "" {
		log.Fatal("OPENAI_API_KEY is required in cli mode")
	}

	limiter := ai.NewLimiter("openai", cfg.AI.ReqPerMinute)
	provider := ai.NewOpenAIProvider(cfg.AI.OpenAIKey, cfg.AI.Timeout, limiter)

	analyst := agents.NewAnalyst(provider, registry, agents.AnalystOptions{
		Model:         cfg.AI.Model,
		Temperature:   cfg.AI.Temperature,
		MaxTokens:     cfg.AI.MaxTokens,
		MaxIterations: cfg.AI.MaxIterations,
		WorkDir:       cfg.Analysis.WorkDir,
		AskUser:       promptUser,
	})

	agentRegistry := agents.NewRegistry()
	agentRegistry.Register(agents.AgentAnalyst, analyst)

	log.Infof("Analyst agent ready (model=%s, session=%s)", cfg.AI.Model, analyst.SessionID())
	return agentRegistry
}

// runMCP serves the tool registry over stdio until the host disconnects.
func runMCP(registry *tools.Registry, log *logger.Logger) {
	srv := mcpserver.New(registry, version)
	if err := srv.ServeStdio(); err != nil {
		log.Fatalf("MCP server error: %v", err)
	}
}

// runCLI runs the interactive analysis loop on the terminal.
func runCLI(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, registry *tools.Registry, log *logger.Logger) {
	agentRegistry := initAgents(cfg, registry, log)
	analyst, ok := agentRegistry.Get(agents.AgentAnalyst)
	if !ok {
		log.Fatal("analyst agent is not registered")
	}

	// Cancel in-flight model calls on Ctrl-C.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		log.Info("Shutting down...")
		cancel()
	}()

	fmt.Println("Data analysis assistant. Type a request, 'reset' to start over, or 'exit' to quit.")
	fmt.Printf("Working directory: %s\n\n", cfg.Analysis.WorkDir)

	for {
		fmt.Print("> ")
		if !stdin.Scan() {
			return
		}
		line := strings.TrimSpace(stdin.Text())

		switch strings.ToLower(line) {
		case "":
			continue
		case "exit", "quit":
			return
		case "reset":
			analyst.Reset()
			fmt.Println("Session reset.")
			continue
		}

		reply, err := analyst.Run(ctx, line)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Errorf("Analysis failed: %v", err)
			fmt.Printf("Error: %v\n\n", err)
			continue
		}
		fmt.Println("\n" + reply + "\n")
	}
}

// promptUser answers the agent's clarifying questions from stdin.
func promptUser(ctx context.Context, question string) (string, error) {
	fmt.Printf("\n[Question] %s\n? ", question)

	if !stdin.Scan() {
		return "", errors.Wrap(errors.ErrInvalidInput, "input stream closed")
	}
	return strings.TrimSpace(stdin.Text()), nil
}
