// Package board moves the scoreboard document between its two homes: the
// raw-content view of the canonical repository (reads) and the local
// checkout the bot commits from (writes).
package board

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/nomic/pkg/logger"
	"github.com/okian/nomic/pkg/metrics"
)

const (
	// Filename is the scoreboard document name inside the rules repository.
	Filename = "SCOREBOARD.md"

	defaultRawHost = "https://raw.githubusercontent.com"
	defaultTimeout = 5 * time.Second
	filePerm       = 0o644
)

// Store fetches and persists the scoreboard document.
type Store struct {
	httpClient *http.Client
	rawHost    string
	org        string
	repo       string
	repoPath   string
	logger     logger.Logger
}

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithHTTPClient sets a custom HTTP client, mainly for tests.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Store) {
		if c != nil {
			s.httpClient = c
		}
	}
}

// WithRawHost overrides the raw-content host.
func WithRawHost(host string) Option {
	return func(s *Store) {
		if host != "" {
			s.rawHost = host
		}
	}
}

// WithLogger sets a custom logger for the store.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a Store for org/repo with a local checkout at repoPath.
func New(org, repo, repoPath string, opts ...Option) *Store {
	s := &Store{
		httpClient: &http.Client{Timeout: defaultTimeout},
		rawHost:    defaultRawHost,
		org:        org,
		repo:       repo,
		repoPath:   repoPath,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Named("board")
	}
	return s
}

// Fetch retrieves the scoreboard document from the default branch.
func (s *Store) Fetch(ctx context.Context) (string, error) {
	url := fmt.Sprintf("%s/%s/%s/master/%s", s.rawHost, s.org, s.repo, Filename)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("build scoreboard request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.RecordScoreboardFetchError()
		return "", fmt.Errorf("fetch scoreboard: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordScoreboardFetchError()
		return "", fmt.Errorf("fetch scoreboard: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordScoreboardFetchError()
		return "", fmt.Errorf("read scoreboard: %w", err)
	}
	return string(body), nil
}

// Write persists a rendered scoreboard document into the local checkout.
func (s *Store) Write(ctx context.Context, doc string) error {
	path := filepath.Join(s.repoPath, Filename)
	if err := os.WriteFile(path, []byte(doc), filePerm); err != nil {
		return fmt.Errorf("write scoreboard: %w", err)
	}
	s.logger.Info(ctx, "scoreboard written", logger.String("path", path))
	return nil
}
