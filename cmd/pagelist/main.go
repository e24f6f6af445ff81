package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/Sternrassler/pagelist/internal/config"
	"github.com/Sternrassler/pagelist/pkg/loader"
	"github.com/Sternrassler/pagelist/pkg/logging"
	"github.com/Sternrassler/pagelist/pkg/metrics"
	"github.com/Sternrassler/pagelist/pkg/view"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(os.Args[1:], os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "pagelist: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, getenv func(string) string) error {
	settings, err := config.Parse(args, getenv, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	logOut, err := logging.OpenFile(settings.LogFile)
	if err != nil {
		return err
	}
	defer logOut.Close()

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(settings.LogLevel),
		Output: logOut,
	})
	logger := logging.NewLogger("pagelist")

	if settings.MetricsAddr != "" {
		srv := startMetricsServer(settings.MetricsAddr, logger)
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(ctx)
		}()
	}

	model, err := newModel(settings)
	if err != nil {
		return err
	}
	defer model.Close()

	logger.Info().
		Str("url", settings.URL).
		Int("items_per_page", settings.ItemsPerPage).
		Msg("Starting pagelist")

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}

	logger.Info().Msg("Exiting pagelist")
	return nil
}

// newModel wires the loader and view from settings.
func newModel(s config.Settings) (*view.Model, error) {
	ldCfg := loader.DefaultConfig()
	ldCfg.UserAgent = s.UserAgent

	ld, err := loader.New(ldCfg)
	if err != nil {
		return nil, fmt.Errorf("create loader: %w", err)
	}

	m, err := view.New(ld, view.Options{
		URL:          s.URL,
		Method:       s.Method,
		Headers:      s.Headers,
		ItemsPerPage: s.ItemsPerPage,
		Title:        s.Title,
	})
	if err != nil {
		return nil, fmt.Errorf("create view: %w", err)
	}
	return m, nil
}

func startMetricsServer(addr string, logger zerolog.Logger) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           metrics.NewMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Str("addr", addr).Msg("Metrics server failed")
		}
	}()

	return srv
}
