// Package roster resolves the current player set from fork ownership.
//
// Anyone holding a fork of the canonical rules repository is a player,
// unless denylisted. The canonical organization is always first in the
// roster. Resolution is never cached; forks appear and disappear between
// events and eligibility must reflect the present.
package roster

import (
	"context"
	"fmt"

	"github.com/google/go-github/v72/github"

	"github.com/okian/nomic/pkg/logger"
	"github.com/okian/nomic/pkg/metrics"
)

const forksPerPage = 100

// Resolver lists forks of the canonical repository to build the roster.
type Resolver struct {
	client   *github.Client
	org      string
	repo     string
	denylist map[string]struct{}
	logger   logger.Logger
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithDenylist excludes the given identities from every resolved roster.
func WithDenylist(identities []string) Option {
	return func(r *Resolver) {
		for _, id := range identities {
			r.denylist[id] = struct{}{}
		}
	}
}

// WithLogger sets a custom logger for the resolver.
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// New creates a Resolver for the canonical org/repo.
func New(client *github.Client, org, repo string, opts ...Option) *Resolver {
	r := &Resolver{
		client:   client,
		org:      org,
		repo:     repo,
		denylist: make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = logger.Named("roster")
	}
	return r
}

// Resolve returns the current player roster, canonical org first.
// Pagination is drained eagerly; any page failure discards the partial
// accumulation and surfaces ErrUnavailable.
func (r *Resolver) Resolve(ctx context.Context) ([]string, error) {
	metrics.RecordRosterRequest()

	players := []string{r.org}
	opts := &github.RepositoryListForksOptions{
		ListOptions: github.ListOptions{PerPage: forksPerPage},
	}

	pages := 0
	for {
		forks, resp, err := r.client.Repositories.ListForks(ctx, r.org, r.repo, opts)
		if err != nil {
			metrics.RecordRosterError()
			return nil, fmt.Errorf("%w: page %d: %w", ErrUnavailable, pages+1, err)
		}
		pages++

		for _, fork := range forks {
			owner := fork.GetOwner().GetLogin()
			if owner == "" {
				continue
			}
			if _, banned := r.denylist[owner]; banned {
				continue
			}
			players = append(players, owner)
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	metrics.RecordRosterPages(pages)
	r.logger.Debug(ctx, "roster resolved",
		logger.Int("players", len(players)),
		logger.Int("pages", pages),
	)
	return players, nil
}
