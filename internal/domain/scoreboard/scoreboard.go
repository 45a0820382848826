// Package scoreboard implements the codec for the SCOREBOARD.md document.
//
// Score rows are lines whose first character is '@', formatted
// "@player | score | optional note". Everything else in the document is
// prose and is ignored on parse. Render fully regenerates the document
// from a fixed template rather than merging into the previous text.
package scoreboard

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"text/template"
)

const sigil = '@'

const documentTemplate = `# Scoreboard

Scores in the nomic game. This file is regenerated by the adjudicator;
do not edit rows by hand.

{{range .}}@{{.Player}} | {{.Score}}
{{end}}`

var tmpl = template.Must(template.New("scoreboard").Parse(documentTemplate))

// Entry is one rendered scoreboard row.
type Entry struct {
	Player string
	Score  int
}

// Parse extracts the player -> score mapping from a scoreboard document.
// A non-numeric score field makes the whole document corrupt; a partially
// parsed leaderboard is worse than a refused update.
func Parse(doc string) (map[string]int, error) {
	scores := make(map[string]int)
	for _, line := range strings.Split(doc, "\n") {
		if len(line) == 0 || line[0] != sigil {
			continue
		}
		fields := strings.Split(line, "|")
		if len(fields) < 2 {
			return nil, fmt.Errorf("%w: missing score field in %q", ErrCorrupt, line)
		}
		player := strings.TrimSpace(fields[0])[1:]
		score, err := strconv.Atoi(strings.TrimSpace(fields[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: bad score for %q: %w", ErrCorrupt, player, err)
		}
		scores[player] = score
	}
	return scores, nil
}

// Render produces the canonical document for a score mapping, ordered by
// descending score with ties broken by player name ascending.
func Render(scores map[string]int) string {
	entries := make([]Entry, 0, len(scores))
	for player, score := range scores {
		entries = append(entries, Entry{Player: player, Score: score})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].Player < entries[j].Player
	})

	var b strings.Builder
	// Execute cannot fail against a Builder with this template.
	_ = tmpl.Execute(&b, entries)
	return b.String()
}
