// Package main provides the piperun terminal chat client. It runs a
// server-stored pipe, executing the bundled local tools whenever the
// model requests them.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Cyclone1070/piperun/internal/config"
	"github.com/Cyclone1070/piperun/internal/dispatch"
	"github.com/Cyclone1070/piperun/internal/orchestrator"
	"github.com/Cyclone1070/piperun/internal/orchestrator/adapter"
	"github.com/Cyclone1070/piperun/internal/pipe/models"
	"github.com/Cyclone1070/piperun/internal/tool/gitrepo"
	"github.com/Cyclone1070/piperun/internal/tool/weather"
	"github.com/Cyclone1070/piperun/internal/tool/webpage"
	"github.com/Cyclone1070/piperun/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
)

// Dependencies holds the components required to run the application.
type Dependencies struct {
	Config       *config.Config
	Pipe         *models.Pipe
	Orchestrator *orchestrator.Orchestrator
	Renderer     ui.MarkdownRenderer
}

func buildTools(workdir string) []adapter.Tool {
	return []adapter.Tool{
		weather.New(),
		gitrepo.New(workdir),
		webpage.New(),
	}
}

func buildDependencies(pipeName, model string) (*Dependencies, error) {
	cfg, err := config.NewLoader().Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	apiKey := os.Getenv(cfg.Service.APIKeyEnv)
	if apiKey == "" {
		return nil, fmt.Errorf("%s environment variable is required", cfg.Service.APIKeyEnv)
	}

	workdir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	tools := buildTools(workdir)
	registry, err := orchestrator.NewRegistry(tools)
	if err != nil {
		return nil, fmt.Errorf("build tool registry: %w", err)
	}

	pipe := &models.Pipe{
		Name:  pipeName,
		Model: model,
		Tools: registry.Definitions(),
	}

	dispatcher := dispatch.NewClient(dispatch.Config{
		BaseURL:    cfg.Service.BaseURL,
		APIKey:     apiKey,
		Production: cfg.Service.Production,
		LLMKey:     os.Getenv(cfg.Service.LLMKeyEnv),
	}, pipe)

	orch := orchestrator.New(dispatcher, pipe, registry, orchestrator.Options{
		MaxCalls:        cfg.Run.MaxCalls,
		SendFullHistory: cfg.Run.SendFullHistory,
	})

	var renderer ui.MarkdownRenderer = ui.NewGlamourRenderer()
	if !cfg.UI.RenderMarkdown {
		renderer = ui.PlainRenderer{}
	}

	return &Dependencies{
		Config:       cfg,
		Pipe:         pipe,
		Orchestrator: orch,
		Renderer:     renderer,
	}, nil
}

func run() error {
	pipeName := flag.String("pipe", "", "name of the pipe to run (required)")
	model := flag.String("model", "", "model identifier, e.g. openai:gpt-4o-mini (local-dev mode)")
	stream := flag.Bool("stream", true, "stream responses")
	flag.Parse()

	if *pipeName == "" {
		flag.Usage()
		return fmt.Errorf("-pipe is required")
	}

	deps, err := buildDependencies(*pipeName, *model)
	if err != nil {
		return err
	}

	chat := ui.New(deps.Orchestrator, deps.Renderer, ui.Options{
		Stream:         *stream,
		RenderMarkdown: deps.Config.UI.RenderMarkdown,
	})

	program := tea.NewProgram(chat, tea.WithAltScreen())
	_, err = program.Run()
	return err
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
