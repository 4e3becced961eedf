// Command assistant chats with an OpenAI assistant on a thread in the
// terminal, answering the assistant's function calls with read-only tools
// over a local workspace.
//
// Usage:
//
//	OPENAI_API_KEY=sk-... assistant [flags]
//
// Flags:
//
//	-thread string        Thread ID to resume (default: create a new thread)
//	-assistant string     Assistant ID (overrides OPENAI_ASSISTANT_ID and the profile)
//	-model string         Model override for each run
//	-instructions string  Instructions override for each run
//	-workspace string     Directory the local tools may read (default: .)
//	-parallel int         Maximum tool calls executed at once (default: unlimited)
//	-profile string       Path to YAML profile (default: .assistant.yaml)
//	-env string           Path to dotenv file (default: .env)
//	-api-key string       API key (overrides OPENAI_API_KEY)
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/fwojciec/assistant"
	"github.com/fwojciec/assistant/agent"
	bt "github.com/fwojciec/assistant/bubbletea"
	"github.com/fwojciec/assistant/builtin"
	assistantjson "github.com/fwojciec/assistant/json"
	"github.com/fwojciec/assistant/openai"
)

const defaultEnvPath = ".env"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "assistant: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		f           flags
		profilePath = flag.String("profile", defaultProfilePath, "Path to YAML profile")
		envPath     = flag.String("env", defaultEnvPath, "Path to dotenv file")
	)
	flag.StringVar(&f.threadID, "thread", "", "Thread ID to resume (default: create a new thread)")
	flag.StringVar(&f.assistantID, "assistant", "", "Assistant ID")
	flag.StringVar(&f.model, "model", "", "Model override for each run")
	flag.StringVar(&f.instructions, "instructions", "", "Instructions override for each run")
	flag.StringVar(&f.workspace, "workspace", "", "Directory the local tools may read")
	flag.IntVar(&f.parallel, "parallel", 0, "Maximum tool calls executed at once (0: unlimited)")
	flag.StringVar(&f.apiKey, "api-key", "", "API key (overrides OPENAI_API_KEY)")
	flag.Parse()

	if err := loadEnv(*envPath, *envPath != defaultEnvPath); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	p, err := loadProfile(*profilePath)
	if err != nil {
		return err
	}
	cfg, err := resolveConfig(f, p, os.Getenv)
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(cfg.log)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	client := openai.New(cfg.client, openai.WithLogger(logger))
	cache := assistantjson.NewCache(cfg.cacheDir)

	thread, err := openThread(ctx, client, cache, cfg.threadID)
	if err != nil {
		return err
	}
	if removed, err := cache.Prune(); err != nil {
		logger.Warn("prune cache", "error", err)
	} else if len(removed) > 0 {
		logger.Info("pruned cached messages", "threads", removed)
	}
	history, err := syncMessages(ctx, client, cache, thread.ID, logger)
	if err != nil {
		return err
	}

	executor := builtin.NewExecutor(cfg.workspace, builtin.WithLogger(logger))
	params := assistant.RunParams{
		AssistantID:  cfg.assistantID,
		Model:        cfg.model,
		Instructions: cfg.instructions,
		Tools:        executor.Tools(),
	}
	loop := agent.New(client, executor)

	agentFn := func(ctx context.Context, prompt string, onEvent func(assistant.Event)) error {
		if _, err := client.CreateMessage(ctx, thread.ID, assistant.MessageParams{Role: assistant.RoleUser, Content: prompt}); err != nil {
			return fmt.Errorf("post message: %w", err)
		}
		r, err := loop.Run(ctx, thread.ID, params,
			agent.WithEventHandler(onEvent),
			agent.WithParallelism(cfg.parallel),
		)
		if r.ID != "" {
			logger.InfoContext(ctx, "run ended", "run", r.ID, "status", string(r.Status))
		}
		// Sync even when the run failed; the prompt is already on the thread.
		if _, syncErr := syncMessages(context.WithoutCancel(ctx), client, cache, thread.ID, logger); syncErr != nil {
			logger.WarnContext(ctx, "sync messages", "error", syncErr)
		}
		return err
	}

	if err := bt.Run(ctx, bt.New(agentFn, history, assistant.DefaultTheme())); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	fmt.Fprintf(os.Stderr, "Thread %s\n", thread.ID)
	return nil
}
