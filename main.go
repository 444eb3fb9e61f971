// Command repcoach serves the exercise rep-counting session API. The external
// capture/pose-estimation layer posts landmark frames per session and renders
// the returned draw operations; this process owns the classification core.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/formsense/repcoach/api"
	"github.com/formsense/repcoach/internal/monitoring"
)

var (
	listen = flag.String("listen", ":8080", "Listen address")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	cmd := flag.Arg(0)
	if cmd == "" {
		cmd = "serve"
	}

	run, ok := commands[cmd]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		usage()
		os.Exit(2)
	}
	if err := run(); err != nil {
		monitoring.Logf("repcoach: %v", err)
		os.Exit(1)
	}
}

func serve() error {
	server := api.NewServer()

	httpServer := &http.Server{
		Addr:              *listen,
		Handler:           server.ServeMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		monitoring.Logf("repcoach: listening on %s", *listen)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	monitoring.Logf("repcoach: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
