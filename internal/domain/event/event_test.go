package event_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/okian/nomic/internal/domain/event"
	. "github.com/smartystreets/goconvey/convey"
)

// envelope wraps a payload the way the webhook republisher does:
// the provider payload is JSON-encoded into the envelope's body string.
func envelope(payload map[string]any) []byte {
	inner, err := json.Marshal(payload)
	if err != nil {
		panic(err)
	}
	outer, err := json.Marshal(map[string]string{"body": string(inner)})
	if err != nil {
		panic(err)
	}
	return outer
}

func TestClassify(t *testing.T) {
	Convey("Given webhook bus messages", t, func() {
		Convey("When a comment is created on an open issue by a non-author", func() {
			raw := envelope(map[string]any{
				"action":  "created",
				"comment": map[string]any{"body": " +1 ", "user": map[string]any{"login": "alice"}},
				"issue": map[string]any{
					"number":   7,
					"title":    "Rule 12 amendment",
					"html_url": "https://example.com/pr/7",
					"state":    "open",
					"user":     map[string]any{"login": "bob"},
				},
			})

			ev, err := event.Classify(raw)

			Convey("Then it classifies as CommentPosted", func() {
				So(err, ShouldBeNil)
				posted, ok := ev.(event.CommentPosted)
				So(ok, ShouldBeTrue)
				So(posted.Author, ShouldEqual, "alice")
				So(posted.Body, ShouldEqual, " +1 ")
				So(posted.IssueNumber, ShouldEqual, 7)
				So(posted.IssueTitle, ShouldEqual, "Rule 12 amendment")
				So(posted.IssueURL, ShouldEqual, "https://example.com/pr/7")
				So(posted.IssueOpen, ShouldBeTrue)
				So(posted.IssueAuthor, ShouldEqual, "bob")
			})
		})

		Convey("When the issue author comments on their own issue", func() {
			raw := envelope(map[string]any{
				"action":  "created",
				"comment": map[string]any{"body": "+1", "user": map[string]any{"login": "bob"}},
				"issue": map[string]any{
					"number": 7,
					"state":  "open",
					"user":   map[string]any{"login": "bob"},
				},
			})

			ev, err := event.Classify(raw)

			Convey("Then the message is skipped", func() {
				So(err, ShouldBeNil)
				So(ev, ShouldBeNil)
			})
		})

		Convey("When a comment arrives on a closed issue", func() {
			raw := envelope(map[string]any{
				"action":  "created",
				"comment": map[string]any{"body": "+1", "user": map[string]any{"login": "alice"}},
				"issue": map[string]any{
					"number": 7,
					"state":  "closed",
					"user":   map[string]any{"login": "bob"},
				},
			})

			ev, err := event.Classify(raw)

			Convey("Then the message is skipped", func() {
				So(err, ShouldBeNil)
				So(ev, ShouldBeNil)
			})
		})

		Convey("When a pull request is opened", func() {
			raw := envelope(map[string]any{
				"action": "opened",
				"pull_request": map[string]any{
					"number":   42,
					"title":    "Add rule 301",
					"html_url": "https://example.com/pr/42",
					"body":     "Let there be a new rule.",
					"user":     map[string]any{"login": "carol"},
				},
			})

			ev, err := event.Classify(raw)

			Convey("Then it classifies as ProposalOpened", func() {
				So(err, ShouldBeNil)
				opened, ok := ev.(event.ProposalOpened)
				So(ok, ShouldBeTrue)
				So(opened.Author, ShouldEqual, "carol")
				So(opened.Number, ShouldEqual, 42)
				So(opened.Title, ShouldEqual, "Add rule 301")
				So(opened.URL, ShouldEqual, "https://example.com/pr/42")
				So(opened.Body, ShouldEqual, "Let there be a new rule.")
			})
		})

		Convey("When a pull request is closed", func() {
			raw := envelope(map[string]any{
				"action": "closed",
				"number": 42,
				"pull_request": map[string]any{
					"merged_by": map[string]any{"login": "carol"},
				},
			})

			ev, err := event.Classify(raw)

			Convey("Then it classifies as ProposalClosed", func() {
				So(err, ShouldBeNil)
				closed, ok := ev.(event.ProposalClosed)
				So(ok, ShouldBeTrue)
				So(closed.Number, ShouldEqual, 42)
				So(closed.MergedBy, ShouldEqual, "carol")
			})
		})

		Convey("When the action is unrecognized", func() {
			raw := envelope(map[string]any{"action": "labeled"})

			ev, err := event.Classify(raw)

			Convey("Then the message is skipped without error", func() {
				So(err, ShouldBeNil)
				So(ev, ShouldBeNil)
			})
		})

		Convey("When the outer envelope is not JSON", func() {
			ev, err := event.Classify([]byte("not json"))

			Convey("Then it reports ErrMalformed", func() {
				So(errors.Is(err, event.ErrMalformed), ShouldBeTrue)
				So(ev, ShouldBeNil)
			})
		})

		Convey("When the inner payload is not JSON", func() {
			raw, merr := json.Marshal(map[string]string{"body": "{broken"})
			So(merr, ShouldBeNil)

			ev, err := event.Classify(raw)

			Convey("Then it reports ErrMalformed", func() {
				So(errors.Is(err, event.ErrMalformed), ShouldBeTrue)
				So(ev, ShouldBeNil)
			})
		})
	})
}
