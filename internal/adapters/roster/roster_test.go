package roster_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/google/go-github/v72/github"

	"github.com/okian/nomic/internal/adapters/roster"
	"github.com/okian/nomic/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

// newClient points a go-github client at the test server.
func newClient(t *testing.T, ts *httptest.Server) *github.Client {
	t.Helper()
	client := github.NewClient(nil)
	base, err := url.Parse(ts.URL + "/")
	if err != nil {
		t.Fatalf("parse test server url: %v", err)
	}
	client.BaseURL = base
	return client
}

func forksJSON(owners ...string) string {
	out := "["
	for i, o := range owners {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf(`{"owner":{"login":%q}}`, o)
	}
	return out + "]"
}

func TestResolve(t *testing.T) {
	t.Run("drains all pages and prepends the org", func(t *testing.T) {
		var requests int
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests++
			w.Header().Set("Content-Type", "application/json")
			switch r.URL.Query().Get("page") {
			case "", "1":
				w.Header().Set("Link", fmt.Sprintf(`<%s/repos/rules-org/rules/forks?page=2&per_page=100>; rel="next"`, "http://"+r.Host))
				io.WriteString(w, forksJSON("alice", "bob"))
			case "2":
				io.WriteString(w, forksJSON("carol"))
			default:
				t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
			}
		}))
		defer ts.Close()

		r := roster.New(newClient(t, ts), "rules-org", "rules")
		players, err := r.Resolve(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"rules-org", "alice", "bob", "carol"}
		if len(players) != len(want) {
			t.Fatalf("got %v, want %v", players, want)
		}
		for i := range want {
			if players[i] != want[i] {
				t.Errorf("players[%d] = %q, want %q", i, players[i], want[i])
			}
		}
		if requests != 2 {
			t.Errorf("fetched %d pages, want 2", requests)
		}
	})

	t.Run("excludes denylisted identities", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			io.WriteString(w, forksJSON("alice", "spambot", "bob"))
		}))
		defer ts.Close()

		r := roster.New(newClient(t, ts), "rules-org", "rules",
			roster.WithDenylist([]string{"spambot"}),
		)
		players, err := r.Resolve(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		for _, p := range players {
			if p == "spambot" {
				t.Errorf("denylisted identity present in roster: %v", players)
			}
		}
	})

	t.Run("fails all-or-nothing on a bad page", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("page") == "2" {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Link", fmt.Sprintf(`<%s/repos/rules-org/rules/forks?page=2&per_page=100>; rel="next"`, "http://"+r.Host))
			io.WriteString(w, forksJSON("alice"))
		}))
		defer ts.Close()

		r := roster.New(newClient(t, ts), "rules-org", "rules")
		players, err := r.Resolve(context.Background())
		if !errors.Is(err, roster.ErrUnavailable) {
			t.Fatalf("got err %v, want ErrUnavailable", err)
		}
		if players != nil {
			t.Errorf("partial roster returned on failure: %v", players)
		}
	})
}
