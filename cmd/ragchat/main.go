// Command ragchat answers questions about a text document using Gemini.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/custodia-labs/ragchat/internal/adapters/driven/ai"
	"github.com/custodia-labs/ragchat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragchat/internal/adapters/driving/cli"
	"github.com/custodia-labs/ragchat/internal/core/ports/driven"
	"github.com/custodia-labs/ragchat/internal/core/services"
)

func main() {
	// A missing .env is normal.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code := run(ctx)
	stop()
	os.Exit(code)
}

// run wires the services and executes the command line, returning the
// process exit code.
func run(ctx context.Context) int {
	dataDir, err := file.DefaultDir()
	if err != nil {
		dataDir = ""
	}

	var configStore driven.ConfigStore
	if store, err := file.NewConfigStore(dataDir); err == nil {
		configStore = store
	} else {
		fmt.Fprintf(os.Stderr, "Warning: settings not persisted: %v\n", err)
		configStore = memory.NewConfigStore()
	}

	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator(dataDir))
	cli.SetServices(cli.Services{Settings: settingsService})
	cli.SetConnector(connector(settingsService, dataDir))

	// cobra has already printed the error.
	if err := cli.ExecuteContext(ctx); err != nil {
		return 1
	}
	return 0
}

// connector opens the embedder, index and Gemini client from the current
// settings. Only commands that use the session call it.
func connector(settingsService *services.SettingsService, dataDir string) cli.Connector {
	return func(ctx context.Context) (cli.Services, func(), error) {
		settings, err := settingsService.Get()
		if err != nil {
			return cli.Services{}, nil, fmt.Errorf("load settings: %w", err)
		}

		res, err := ai.Initialise(ctx, settings, dataDir)
		if err != nil {
			return cli.Services{}, nil, err
		}

		deps := services.SessionDeps{
			Embedder:  res.EmbeddingService,
			Index:     res.VectorIndex,
			Registry:  res.Gemini,
			Generator: res.Gemini,
		}
		svc := cli.Services{Warnings: res.Warnings}
		if res.PromptStore != nil {
			deps.Prompts = res.PromptStore
			svc.Prompts = res.PromptStore
			svc.Watcher = file.NewPromptWatcher(res.PromptStore.Dir(), res.PromptStore)
		}

		session := services.NewSession(deps, services.SessionOptions{
			Policy:       settings.Ingest.Policy,
			DefaultModel: settings.Generation.DefaultModel,
			TopK:         settings.Query.TopK,
		})
		svc.Session = session
		svc.Models = session.Models()
		return svc, res.Close, nil
	}
}
