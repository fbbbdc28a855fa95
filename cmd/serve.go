package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"casereport/storage"
	"casereport/web"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	serveAddr   string
	serveDBPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the report JSON API on the local SQLite database",
	Long: `Start an HTTP server that accepts report uploads and serves stored records,
filtered tables, and summaries as JSON.

The server always stores into the local SQLite database; other casereport instances reach it
by setting backend.url.`,
	Example: `
  # Serve on the configured server.addr
  casereport serve

  # Serve on all interfaces with a custom database
  casereport serve --addr :9090 --db ./casereport.db
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime()
		if err != nil {
			return err
		}
		defer logger.Sync()

		dbPath := cfg.Storage.Path
		if strings.TrimSpace(serveDBPath) != "" {
			dbPath = serveDBPath
		}
		store, err := storage.OpenSQLite(dbPath)
		if err != nil {
			return err
		}
		defer store.Close()

		addr := cfg.Server.Addr
		if strings.TrimSpace(serveAddr) != "" {
			addr = serveAddr
		}
		server := &http.Server{
			Addr:              addr,
			Handler:           web.NewServer(store, *cfg, logger),
			ReadHeaderTimeout: 10 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.ListenAndServe()
		}()

		logger.Info("server listening", zap.String("addr", addr), zap.String("db", dbPath))
		fmt.Printf("Listening on http://%s\n", addr)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err := <-errCh:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := server.Shutdown(ctx); err != nil {
				return fmt.Errorf("shutdown server: %w", err)
			}
			err := <-errCh
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.addr)")
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "Path to local SQLite database (overrides storage.path)")
}
