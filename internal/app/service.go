// Package app implements the game engine that adjudicates nomic events.
//
// The engine consumes classified webhook events, gates votes on roster
// membership, records tallies, and announces outcomes through an injected
// notifier. It holds no process-wide state; every collaborator comes in
// through the constructor.
package app

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/okian/nomic/internal/domain/event"
	"github.com/okian/nomic/internal/domain/scoreboard"
	"github.com/okian/nomic/internal/domain/vote"
	"github.com/okian/nomic/pkg/logger"
	"github.com/okian/nomic/pkg/metrics"
)

// Generic channel messages for remote-API failures. Raw error detail
// stays in the logs, not the channel.
const (
	msgPlayersUnavailable = "Unable to retrieve players."
	msgScoresUnavailable  = "Error getting scores."
)

// RosterResolver returns the current player set, canonical org first.
type RosterResolver interface {
	Resolve(ctx context.Context) ([]string, error)
}

// TallyStore records and reads per-proposal votes.
type TallyStore interface {
	Record(ctx context.Context, proposal int, player string, delta vote.Delta) error
	Get(ctx context.Context, proposal int) (map[string]int, error)
}

// Board fetches and persists the scoreboard document.
type Board interface {
	Fetch(ctx context.Context) (string, error)
	Write(ctx context.Context, doc string) error
}

// Notifier delivers one fully formatted announcement per call.
type Notifier interface {
	Say(ctx context.Context, text string) error
}

// Engine orchestrates roster checks, vote tallies and announcements.
type Engine struct {
	roster   RosterResolver
	tally    TallyStore
	board    Board
	notifier Notifier
	logger   logger.Logger
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// New constructs an Engine from its collaborators.
func New(roster RosterResolver, tally TallyStore, board Board, notifier Notifier, opts ...Option) *Engine {
	e := &Engine{
		roster:   roster,
		tally:    tally,
		board:    board,
		notifier: notifier,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = logger.Named("engine")
	}
	return e
}

// HandleMessage classifies one raw bus message and dispatches it.
// All failures are recovered here; a bad message must never take down
// the listener loop.
func (e *Engine) HandleMessage(ctx context.Context, raw []byte) {
	ev, err := event.Classify(raw)
	if err != nil {
		metrics.RecordEventMalformed()
		e.logger.Warn(ctx, "dropping malformed message", logger.Error(err))
		return
	}
	if ev == nil {
		metrics.RecordEventSkipped()
		return
	}
	metrics.RecordEventClassified(ev.Kind())

	switch ev := ev.(type) {
	case event.CommentPosted:
		e.handleComment(ctx, ev)
	case event.ProposalOpened:
		e.handleOpened(ctx, ev)
	case event.ProposalClosed:
		e.handleClosed(ctx, ev)
	}
}

// handleComment records a vote if the commenter is an eligible player and
// the comment body is exactly one vote token.
func (e *Engine) handleComment(ctx context.Context, ev event.CommentPosted) {
	players, err := e.roster.Resolve(ctx)
	if err != nil {
		e.logger.Error(ctx, "vote dropped: roster unavailable",
			logger.String("commenter", ev.Author),
			logger.Error(err),
		)
		return
	}
	if !slices.Contains(players, ev.Author) {
		e.logger.Debug(ctx, "comment from non-player ignored", logger.String("commenter", ev.Author))
		return
	}

	delta, ok := vote.Parse(ev.Body)
	if !ok {
		// Not a clean vote token; ordinary discussion, not an error.
		return
	}

	if err := e.tally.Record(ctx, ev.IssueNumber, ev.Author, delta); err != nil {
		// Logged by the store; the announcement still goes out.
		e.logger.Warn(ctx, "vote not persisted", logger.Error(err))
	}

	e.say(ctx, fmt.Sprintf("%s voted %s on %s - %s", ev.Author, delta, ev.IssueTitle, ev.IssueURL))
}

// handleOpened registers the proposer's implicit +1 when eligible and
// announces the proposal either way.
func (e *Engine) handleOpened(ctx context.Context, ev event.ProposalOpened) {
	players, err := e.roster.Resolve(ctx)
	switch {
	case err != nil:
		e.logger.Error(ctx, "self-vote skipped: roster unavailable",
			logger.String("proposer", ev.Author),
			logger.Error(err),
		)
	case slices.Contains(players, ev.Author):
		if err := e.tally.Record(ctx, ev.Number, ev.Author, vote.Up); err != nil {
			e.logger.Warn(ctx, "self-vote not persisted", logger.Error(err))
		}
	default:
		e.logger.Debug(ctx, "proposal by non-player, no self-vote", logger.String("proposer", ev.Author))
	}

	e.say(ctx, fmt.Sprintf("New PR %q by %s at %s", ev.Title, ev.Author, ev.URL))
}

// handleClosed announces the close. Closing is not a vote; no roster or
// tally call happens here.
func (e *Engine) handleClosed(ctx context.Context, ev event.ProposalClosed) {
	e.say(ctx, fmt.Sprintf("PR %d closed by %s", ev.Number, ev.MergedBy))
}

// Players announces the current roster, comma-joined.
func (e *Engine) Players(ctx context.Context) error {
	players, err := e.roster.Resolve(ctx)
	if err != nil {
		e.say(ctx, msgPlayersUnavailable)
		return err
	}
	e.say(ctx, strings.Join(players, ", "))
	return nil
}

// Scores announces the scoreboard, one "player: score" line per player in
// descending score order.
func (e *Engine) Scores(ctx context.Context) error {
	doc, err := e.board.Fetch(ctx)
	if err != nil {
		e.say(ctx, msgScoresUnavailable)
		return err
	}
	scores, err := scoreboard.Parse(doc)
	if err != nil {
		metrics.RecordScoreboardParseError()
		e.say(ctx, msgScoresUnavailable)
		return err
	}

	names := make([]string, 0, len(scores))
	for name := range scores {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if scores[names[i]] != scores[names[j]] {
			return scores[names[i]] > scores[names[j]]
		}
		return names[i] < names[j]
	})
	for _, name := range names {
		e.say(ctx, fmt.Sprintf("%s: %d", name, scores[name]))
	}
	return nil
}

// WriteScoreboard renders a score mapping and persists it into the local
// rules checkout. The tally store is deliberately not consulted; the
// scoreboard is its own scoring mechanism, maintained explicitly.
func (e *Engine) WriteScoreboard(ctx context.Context, scores map[string]int) error {
	return e.board.Write(ctx, scoreboard.Render(scores))
}

// say delivers one announcement, logging delivery failures.
func (e *Engine) say(ctx context.Context, text string) {
	if err := e.notifier.Say(ctx, text); err != nil {
		e.logger.Error(ctx, "announcement not delivered", logger.Error(err))
	}
}
