package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/pizzalog/eventgen/pkg/menu"
	"github.com/pizzalog/eventgen/pkg/server"
	"github.com/spf13/cobra"
)

var (
	listenAddr string
	maxCases   int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve event log generation over HTTP",
	Long: `Starts an HTTP API exposing the generator:

  GET  /healthz   liveness probe
  GET  /menu      the catalog requests generate from by default
  POST /generate  JSON configuration overrides in, CSV (or ?format=jsonl) out`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().IntVar(&maxCases, "max-cases", server.DefaultMaxCases, "Largest numberOfCases a request may ask for")
}

func runServe(cmd *cobra.Command, args []string) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Close()

	// Only the config's inline menu matters here; requests carry their own settings
	cfg, err := readConfig()
	if err != nil {
		return err
	}

	items, err := menu.Resolve(&cfg, menuFile)
	if err != nil {
		return fmt.Errorf("failed to load menu: %w", err)
	}

	srv := &http.Server{
		Addr:              listenAddr,
		Handler:           server.NewRouter(server.NewHandler(items, maxCases, log)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", listenAddr, "menu_items", len(items))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-cmd.Context().Done():
	}

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
