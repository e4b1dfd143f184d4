package bootstrap

import (
	"context"
	stderrors "errors"
	"flag"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"convocast-go/internal/platform/config"
	"convocast-go/internal/platform/errors"
	"convocast-go/internal/platform/logging"
	httptransport "convocast-go/internal/transport/http"
)

// runServe starts the HTTP API and blocks until SIGINT or SIGTERM. The
// server runs inside an errgroup so a listener failure tears the process
// down the same way a signal does.
func runServe(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("serve", flag.ContinueOnError)
	port := flags.Int("port", 0, "listen port")
	if err := flags.Parse(args); err != nil {
		return flagError("serve", err)
	}

	state, err := loadFull(ctx, func(cfg *config.Config) {
		if *port > 0 {
			cfg.Server.Port = *port
		}
	})
	if err != nil {
		return err
	}
	defer state.Close()
	logger := state.logger

	rootCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	signalCtx, stop := signal.NotifyContext(rootCtx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, groupCtx := errgroup.WithContext(rootCtx)

	if _, err := startHTTPServer(state, group, groupCtx); err != nil {
		cancel()
		return err
	}

	if err := waitForShutdown(signalCtx, cancel, logger, group); err != nil {
		return err
	}

	logger.InfoTag("boot", "server stopped")
	return nil
}

func startHTTPServer(state *appState, g *errgroup.Group, groupCtx context.Context) (*http.Server, error) {
	cfg := state.config
	logger := state.logger

	router, err := httptransport.Build(httptransport.Options{
		Config:     cfg,
		Logger:     logger,
		StaticRoot: cfg.TTS.OutputDir,
	})
	if err != nil {
		return nil, err
	}

	service, err := httptransport.NewService(cfg, logger, state.generator, state.records)
	if err != nil {
		return nil, err
	}
	if err := service.Register(groupCtx, router); err != nil {
		return nil, err
	}

	server := &http.Server{
		Addr:    net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler: router.Engine,
	}

	g.Go(func() error {
		logger.InfoTag("HTTP", "listening on %s", server.Addr)

		go func() {
			<-groupCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.ErrorTag("HTTP", "server shutdown failed: %v", err)
			} else {
				logger.InfoTag("HTTP", "server shut down cleanly")
			}
		}()

		if err := server.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			logger.ErrorTag("HTTP", "server failed: %v", err)
			return err
		}
		return nil
	})

	return server, nil
}

// waitForShutdown blocks until the signal context fires, then gives the
// group a bounded window to drain before forcing the exit.
func waitForShutdown(
	ctx context.Context,
	cancel context.CancelFunc,
	logger *logging.Logger,
	g *errgroup.Group,
) error {
	<-ctx.Done()
	logger.InfoTag("boot", "received %v, shutting down", context.Cause(ctx))

	cancel()

	done := make(chan error, 1)
	go func() {
		done <- g.Wait()
	}()

	select {
	case err := <-done:
		if err != nil {
			logger.ErrorTag("boot", "shutdown finished with error: %v", err)
			return err
		}
		logger.InfoTag("boot", "all services stopped")
	case <-time.After(15 * time.Second):
		logger.ErrorTag("boot", "shutdown timed out, forcing exit")
		return errors.New(errors.KindTimeout, "serve", "shutdown timed out")
	}
	return nil
}
