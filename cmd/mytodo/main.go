// Package main is the entry point for the mytodo CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"mytodo/internal/backend/httpapi"
	"mytodo/internal/cli"
	"mytodo/internal/commands"
	"mytodo/internal/config"
	"mytodo/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		client, err := httpapi.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}
