// Package console serves one evidence gallery over HTTP: file submission
// (picker or drop), retry and removal, the completed URL list, preview
// bytes and a websocket feed of state changes.
package console

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophattach/internal/console/notifyhub"
	"github.com/dmitrijs2005/gophattach/internal/logging"
	"github.com/dmitrijs2005/gophattach/internal/media"
)

// FormField is the multipart field the form submits files under.
const FormField = "files"

const maxMultipartMemory = 32 << 20

// Gallery is the controller surface the console drives.
// *gallery.Controller satisfies it.
type Gallery interface {
	Ingest(files []media.File) []string
	Retry(id string) error
	Remove(id string) error
	Items() []media.Item
	Images() []string
	SetDisabled(disabled bool)
	Disabled() bool
}

// PreviewSource serves the bytes behind a live preview reference.
// *preview.Store satisfies it.
type PreviewSource interface {
	Open(ref string) (media.File, bool)
}

type Options struct {
	Addr string
	// SecretKey enables access-token checks on the API when set.
	SecretKey []byte
}

type Server struct {
	gallery  Gallery
	previews PreviewSource
	hub      *notifyhub.Hub
	logger   logging.Logger
	opts     Options

	engine *gin.Engine
	server *http.Server
}

func NewServer(g Gallery, previews PreviewSource, hub *notifyhub.Hub, logger logging.Logger, opts Options) *Server {
	s := &Server{
		gallery:  g,
		previews: previews,
		hub:      hub,
		logger:   logger,
		opts:     opts,
	}
	s.engine = s.setupRoutes()
	s.server = &http.Server{
		Addr:              opts.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(s.requestLogger())
	engine.MaxMultipartMemory = maxMultipartMemory

	engine.GET("/blob/:id", s.handlePreview)

	v1 := engine.Group("/api/v1", s.authMiddleware())
	{
		v1.GET("/uploads", s.handleList)
		v1.POST("/uploads", s.handleIngest)
		v1.POST("/uploads/:id/retry", s.handleRetry)
		v1.DELETE("/uploads/:id", s.handleRemove)
		v1.GET("/images", s.handleImages)
		v1.GET("/state", s.handleState)
		v1.PUT("/state", s.handleSetState)
		v1.GET("/ws", notifyhub.HandleNotifyWS(s.hub))
	}

	return engine
}

// Run serves until ctx is done, then shuts the server down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "console listening", "addr", s.opts.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	s.logger.Info(ctx, "console stopped")
	return nil
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		if len(c.Errors) > 0 {
			s.logger.Warn(c.Request.Context(), "request failed", append(args, "error", c.Errors.String())...)
			return
		}
		s.logger.Debug(c.Request.Context(), "request", args...)
	}
}
