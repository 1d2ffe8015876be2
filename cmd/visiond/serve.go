package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"visiond/internal/config"
	"visiond/internal/httpapi"
	"visiond/internal/runtime/onnx"
	"visiond/internal/vision"
)

const shutdownTimeout = 5 * time.Second

func serveCmdRun(cmd *cobra.Command, fv flagValues) error {
	cfg, err := fv.resolve()
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return serve(ctx, cfg, newLogger(cfg))
}

func loadOptions(cfg config.Config) vision.LoadOptions {
	return vision.LoadOptions{
		Version:       cfg.Version,
		Alpha:         cfg.Alpha,
		ImageSize:     cfg.ImageSize,
		ModelPath:     cfg.ModelPath,
		ModelURL:      cfg.ModelURL,
		CacheDir:      cfg.CacheDir,
		LabelsPath:    cfg.LabelsPath,
		InputName:     cfg.InputName,
		OutputName:    cfg.OutputName,
		SharedLibrary: cfg.ORTLibrary,
	}
}

func newManager(cfg config.Config, log zerolog.Logger, pub vision.EventPublisher) *vision.Manager {
	return vision.NewWithConfig(vision.ManagerConfig{
		Runtime:    onnx.New(onnx.WithLogger(log)),
		Options:    loadOptions(cfg),
		TopK:       cfg.TopK,
		SessionTTL: time.Duration(cfg.SessionTTLSeconds) * time.Second,
		Publisher:  pub,
		Logger:     &log,
	})
}

// serve runs the HTTP server and the background model load until ctx ends.
// A failed load does not stop the server; the page reports it instead.
func serve(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	mgr := newManager(cfg, log, vision.MultiPublisher{httpapi.MetricsPublisher{}})
	defer mgr.Close()

	httpapi.SetLogger(log)
	httpapi.SetBaseContext(ctx)
	httpapi.SetMaxBodyBytes(int64(cfg.MaxUploadMB) << 20)
	httpapi.SetCORSOptions(cfg.CORSEnabled, cfg.CORSOrigins,
		[]string{http.MethodGet, http.MethodPost, http.MethodOptions},
		[]string{"Accept", "Content-Type", "X-Log-Level"})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(mgr),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Load failures are logged and kept by the manager.
		_ = mgr.Load(gctx)
		return nil
	})
	g.Go(func() error {
		log.Info().Str("addr", cfg.Addr).Str("model", mgr.ModelID()).Msg("visiond listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("graceful shutdown error")
		}
		return nil
	})
	err := g.Wait()
	log.Info().Msg("visiond stopped")
	return err
}
