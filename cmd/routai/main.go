// Command routai is a terminal client for the RoutAI trip planning service.
//
// Usage:
//
//	routai [flags]
//
// Flags:
//
//	-base-url string   Backend base URL (default: $ROUTAI_API_URL or http://localhost:8000)
//	-config string     Path to TOML config file (default: user config dir)
//	-new-session       Discard the stored session and start a fresh one
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/routai/routai"
	"github.com/routai/routai/backend"
	bt "github.com/routai/routai/bubbletea"
	"github.com/routai/routai/chat"
	"github.com/routai/routai/pacer"
	"github.com/routai/routai/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "routai: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		baseURL    = flag.String("base-url", "", "Backend base URL")
		configPath = flag.String("config", "", "Path to TOML config file")
		newSession = flag.Bool("new-session", false, "Discard the stored session and start a fresh one")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	path := *configPath
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}
	cfg, err := loadConfig(path, explicit, *baseURL)
	if err != nil {
		return err
	}

	var clientOpts []backend.Option
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, backend.WithBaseURL(cfg.BaseURL))
	}
	if cfg.LegacyPaths {
		clientOpts = append(clientOpts, backend.WithLegacyPaths())
	}
	client := backend.New(clientOpts...)

	session, err := loadOrCreateSession(ctx, client, *newSession)
	if err != nil {
		return err
	}

	var loopOpts []chat.Option
	if cfg.PacingInterval > 0 {
		loopOpts = append(loopOpts, chat.WithPacerOptions(pacer.WithInterval(cfg.PacingInterval)))
	}
	loop := chat.New(client, loopOpts...)

	send := func(ctx context.Context, s *routai.Session, text string, onAppend func(string), onState func(routai.EventStateUpdate), onProcessing func(string)) error {
		return loop.Send(ctx, s, text,
			chat.WithOnAppend(onAppend),
			chat.WithOnState(onState),
			chat.WithOnProcessing(onProcessing),
		)
	}

	model := bt.New(send, client.Segments, session, routai.DefaultTheme())
	if err := bt.Run(ctx, model); err != nil {
		return fmt.Errorf("TUI: %w", err)
	}
	return nil
}

// loadOrCreateSession reuses the durably stored session ID when present,
// otherwise asks the backend for a new one and stores it.
func loadOrCreateSession(ctx context.Context, client *backend.Client, fresh bool) (*routai.Session, error) {
	path, pathErr := store.DefaultPath()

	if !fresh && pathErr == nil {
		if id := store.Load(path); id != "" {
			return routai.NewSession(id), nil
		}
	}

	id, err := client.CreateSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if pathErr == nil {
		if err := store.Save(path, id); err != nil {
			fmt.Fprintf(os.Stderr, "routai: could not store session: %v\n", err)
		}
	}
	return routai.NewSession(id), nil
}
