package cmd

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"casereport/backend"
	"casereport/config"
	"casereport/internal/logging"
	"casereport/report"
	"casereport/storage"
	"casereport/upload"

	"go.uber.org/zap"
)

// loadRuntime loads the validated config and the logger every data command
// needs.
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadAndValidate()
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// openStore returns the remote backend when backend.url is set, otherwise the
// local SQLite database. dbOverride replaces storage.path when non-empty.
func openStore(cfg config.Config, dbOverride string) (upload.Store, func() error, error) {
	if strings.TrimSpace(cfg.Backend.URL) != "" {
		client, err := backend.NewClient(backend.ClientConfig{
			BaseURL:   cfg.Backend.URL,
			Token:     cfg.Backend.Token,
			UserAgent: "casereport-cli/1.0",
			Timeout:   time.Duration(cfg.Backend.TimeoutSeconds) * time.Second,
		})
		if err != nil {
			return nil, nil, err
		}
		return client, func() error { return nil }, nil
	}

	path := cfg.Storage.Path
	if strings.TrimSpace(dbOverride) != "" {
		path = dbOverride
	}
	store, err := storage.OpenSQLite(path)
	if err != nil {
		return nil, nil, err
	}
	return store, store.Close, nil
}

// parseWhere turns repeated key=value flags into filter criteria values, for
// example "q.individual=doe" or "from.startDate=2024-01-01".
func parseWhere(pairs []string) (url.Values, error) {
	values := url.Values{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("%w: expected key=value, got %q", report.ErrInvalidCriteria, pair)
		}
		values.Add(key, strings.TrimSpace(value))
	}
	return values, nil
}
