// Package event decodes webhook bus messages into typed game events.
package event

// Event is the tagged union of recognized webhook events.
type Event interface {
	// Kind names the variant for logging and metrics.
	Kind() string
}

// CommentPosted is an issue comment on an open proposal by someone other
// than the proposal's author.
type CommentPosted struct {
	Author      string
	Body        string
	IssueNumber int
	IssueTitle  string
	IssueURL    string
	IssueOpen   bool
	IssueAuthor string
}

// Kind implements Event.
func (CommentPosted) Kind() string { return "comment_posted" }

// ProposalOpened is a newly opened pull request against the rules repository.
type ProposalOpened struct {
	Author string
	Number int
	Title  string
	URL    string
	Body   string
}

// Kind implements Event.
func (ProposalOpened) Kind() string { return "proposal_opened" }

// ProposalClosed is a pull request that was closed, naming the merger.
type ProposalClosed struct {
	Number   int
	MergedBy string
}

// Kind implements Event.
func (ProposalClosed) Kind() string { return "proposal_closed" }
