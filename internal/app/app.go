// Package app wires configuration, logging, the upload transport, the
// gallery controller and the console server together.
package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophattach/internal/auth"
	"github.com/dmitrijs2005/gophattach/internal/common"
	"github.com/dmitrijs2005/gophattach/internal/config"
	"github.com/dmitrijs2005/gophattach/internal/console"
	"github.com/dmitrijs2005/gophattach/internal/console/notifyhub"
	"github.com/dmitrijs2005/gophattach/internal/gallery"
	"github.com/dmitrijs2005/gophattach/internal/logging"
	"github.com/dmitrijs2005/gophattach/internal/preview"
	"github.com/dmitrijs2005/gophattach/internal/upload"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	gallery  *gallery.Controller
	previews *preview.Store
	console  *console.Server
}

// NewLogger builds the process logger from the configured format and level.
func NewLogger(cfg *config.Config, w io.Writer) (logging.Logger, error) {
	logger, err := logging.New(w, cfg.LogFormat, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}
	return logger, nil
}

// NewApp builds the console application. The gallery lives until Run
// returns.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := NewLogger(c, os.Stderr)
	if err != nil {
		return nil, err
	}

	t, err := newTransport(ctx, c)
	if err != nil {
		return nil, err
	}

	previews := preview.NewStore()
	hub := notifyhub.New()
	uploader := upload.NewUploader(c.Rules(), t, logger)

	g := gallery.New(ctx, uploader, previews, logger, gallery.Options{
		MaxItems:       c.MaxItems,
		Disabled:       c.Disabled,
		OnItemsChange:  console.PublishItems(hub, logger),
		OnImagesChange: console.PublishImages(hub, logger),
	})

	srv := console.NewServer(g, previews, hub, logger, console.Options{
		Addr:      c.ListenAddr,
		SecretKey: []byte(c.SecretKey),
	})

	return &App{config: c, logger: logger, gallery: g, previews: previews, console: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves the console until ctx is canceled or a termination signal
// arrives, then cancels in-flight uploads.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...",
		"transport", app.config.Transport,
		"max_items", app.config.MaxItems,
		"max_file_size_mb", app.config.MaxFileSizeMB,
	)

	app.initSignalHandler(cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.console.Run(ctx); err != nil {
			app.logger.Error(ctx, "console error", "error", err)
			runErr = err
			cancelFunc()
		}
	}()

	wg.Wait()

	app.gallery.Close()
	app.logger.Info(context.Background(), "app stopped", "live_previews", app.previews.Live())
	return runErr
}

// reporterIDSize is the random byte count behind a generated reporter ID.
const reporterIDSize = 8

// IssueToken signs a console access token for reporterID. An empty
// reporterID gets a random hex one, returned alongside the token.
func IssueToken(c *config.Config, reporterID string) (token string, id string, err error) {
	if c.SecretKey == "" {
		return "", "", fmt.Errorf("no secret key configured, console auth is off")
	}
	if reporterID == "" {
		reporterID, err = common.MakeRandHexString(reporterIDSize)
		if err != nil {
			return "", "", fmt.Errorf("reporter id: %w", err)
		}
	}
	token, err = auth.GenerateToken(reporterID, []byte(c.SecretKey), c.AccessTokenValidityDuration)
	if err != nil {
		return "", "", err
	}
	return token, reporterID, nil
}
