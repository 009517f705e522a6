package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gepes/criagil/internal/app"
	"github.com/gepes/criagil/internal/config"
	"github.com/gepes/criagil/internal/logging"
	"github.com/gepes/criagil/internal/mcp"
	"github.com/gepes/criagil/internal/transport"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	// Use stderr for logs in stdio mode to keep stdout clean for JSON-RPC.
	fallback := io.Writer(os.Stdout)
	if cfg.Transport.Mode == config.TransportStdio {
		fallback = os.Stderr
	}
	logger, logFile := logging.New(logging.Options{
		Level:    cfg.Log.Level,
		Path:     cfg.Log.Path,
		Fallback: fallback,
	})
	defer logFile.Close()

	board, err := app.Open(context.Background(), app.Options{
		DBPath:   cfg.DB.Path,
		Seed:     cfg.Seed.Enabled,
		SeedPath: cfg.Seed.Path,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("failed to open board", "db", cfg.DB.Path, "error", err)
		os.Exit(1)
	}
	defer board.Close()

	services := board.Services()
	mcpServer := mcp.NewServer(mcp.Config{
		Services:      services,
		TransportMode: cfg.Transport.Mode,
		Version:       version,
		Logger:        logger,
	})

	if cfg.Transport.Mode == config.TransportStdio {
		runStdioMode(logger, mcpServer)
	} else {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		err := runHTTPMode(ctx, logger, newHTTPServer(cfg.Server, mcpServer, services.Handler(), logger))
		stop()
		if err != nil {
			logger.Error("server error", "error", err)
			_ = board.Close()
			_ = logFile.Close()
			os.Exit(1)
		}
	}
}

func runStdioMode(logger *slog.Logger, mcpServer *sdkmcp.Server) {
	logger.Info("starting stdio transport")

	transport := &sdkmcp.StdioTransport{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-stop
		logger.Info("shutting down")
		cancel()
	}()

	// Run blocks until stdin closes or context is canceled
	if err := mcpServer.Run(ctx, transport); err != nil {
		logger.Error("stdio server error", "error", err)
		os.Exit(1)
	}
}

// newHTTPServer serves streamable MCP on /mcp and plain JSON-RPC on /rpc.
func newHTTPServer(cfg config.ServerConfig, mcpServer *sdkmcp.Server, handler *mcp.Handler, logger *slog.Logger) *http.Server {
	mcpHandler := sdkmcp.NewStreamableHTTPHandler(
		func(r *http.Request) *sdkmcp.Server { return mcpServer },
		&sdkmcp.StreamableHTTPOptions{
			Stateless:      false,
			SessionTimeout: 30 * time.Minute,
		},
	)

	return &http.Server{
		Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler: transport.NewServer(handler, transport.Options{
			MCP:    mcpHandler,
			Logger: logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// runHTTPMode serves until ctx is canceled, then shuts down gracefully. A
// listener that fails to start is returned instead of waiting for a signal.
func runHTTPMode(ctx context.Context, logger *slog.Logger, httpServer *http.Server) error {
	listenErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
		close(listenErr)
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("listening on %s: %w", httpServer.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
