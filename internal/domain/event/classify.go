package event

import (
	"encoding/json"
	"fmt"
)

// envelope is the outer bus message. The republisher wraps the provider's
// webhook payload as a JSON-encoded string, so decoding happens twice.
type envelope struct {
	Body string `json:"body"`
}

type userRef struct {
	Login string `json:"login"`
}

type commentRef struct {
	Body string  `json:"body"`
	User userRef `json:"user"`
}

type issueRef struct {
	Number  int     `json:"number"`
	Title   string  `json:"title"`
	HTMLURL string  `json:"html_url"`
	State   string  `json:"state"`
	User    userRef `json:"user"`
}

type pullRequestRef struct {
	Number   int      `json:"number"`
	Title    string   `json:"title"`
	HTMLURL  string   `json:"html_url"`
	Body     string   `json:"body"`
	User     userRef  `json:"user"`
	MergedBy *userRef `json:"merged_by"`
}

// payload is the provider's native webhook document, reduced to the fields
// this service consumes.
type payload struct {
	Action      string          `json:"action"`
	Number      int             `json:"number"`
	Comment     *commentRef     `json:"comment"`
	Issue       *issueRef       `json:"issue"`
	PullRequest *pullRequestRef `json:"pull_request"`
}

// Classify decodes a raw bus message and maps it to a typed event.
// Unrecognized shapes return (nil, nil): a shared webhook channel carries
// plenty of actions this game does not care about, and those are not errors.
// Decode failures return ErrMalformed wrapped with detail.
func Classify(raw []byte) (Event, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: envelope: %w", ErrMalformed, err)
	}
	var p payload
	if err := json.Unmarshal([]byte(env.Body), &p); err != nil {
		return nil, fmt.Errorf("%w: payload: %w", ErrMalformed, err)
	}

	switch p.Action {
	case "created":
		if p.Comment == nil || p.Issue == nil {
			return nil, nil
		}
		if p.Issue.State != "open" || p.Comment.User.Login == p.Issue.User.Login {
			return nil, nil
		}
		return CommentPosted{
			Author:      p.Comment.User.Login,
			Body:        p.Comment.Body,
			IssueNumber: p.Issue.Number,
			IssueTitle:  p.Issue.Title,
			IssueURL:    p.Issue.HTMLURL,
			IssueOpen:   true,
			IssueAuthor: p.Issue.User.Login,
		}, nil
	case "opened":
		if p.PullRequest == nil {
			return nil, nil
		}
		return ProposalOpened{
			Author: p.PullRequest.User.Login,
			Number: p.PullRequest.Number,
			Title:  p.PullRequest.Title,
			URL:    p.PullRequest.HTMLURL,
			Body:   p.PullRequest.Body,
		}, nil
	case "closed":
		if p.PullRequest == nil || p.PullRequest.MergedBy == nil {
			return nil, nil
		}
		return ProposalClosed{
			Number:   p.Number,
			MergedBy: p.PullRequest.MergedBy.Login,
		}, nil
	}
	return nil, nil
}
