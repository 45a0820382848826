// Package vote defines the vote token language for proposal comments.
//
// A comment casts a vote only when its entire trimmed body is one of the
// four accepted tokens. Anything else is not a vote; surrounding prose
// disqualifies the comment rather than being stripped.
package vote

import "strings"

// Delta is a single vote's score contribution.
type Delta int

// Accepted vote values.
const (
	Up   Delta = 1
	Down Delta = -1
)

// String returns the canonical sign token for announcements.
func (d Delta) String() string {
	if d < 0 {
		return "-1"
	}
	return "+1"
}

// Parse resolves a comment body to a vote. The body is trimmed of
// surrounding whitespace and must match one of {:+1:, +1, -1, :-1:}
// exactly; ok reports whether it did.
func Parse(body string) (Delta, bool) {
	switch strings.TrimSpace(body) {
	case "+1", ":+1:":
		return Up, true
	case "-1", ":-1:":
		return Down, true
	}
	return 0, false
}
