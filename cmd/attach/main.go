package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gophattach/internal/app"
	"github.com/dmitrijs2005/gophattach/internal/config"
	"github.com/dmitrijs2005/gophattach/internal/flagx"
)

// Usage:
//
//	attach [flags] file...
//
// Uploads the files as complaint evidence and prints one URL per line.
// Exits with status 1 if any file was not attached.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	logger, err := app.NewLogger(cfg, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	paths := flagx.Positionals(os.Args[1:], config.ValueFlags())
	err = app.Attach(ctx, cfg, logger, paths, os.Stdout, os.Stderr)
	if errors.Is(err, app.ErrAttachFailed) {
		stop()
		os.Exit(1)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}
