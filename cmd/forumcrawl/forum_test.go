package main_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/forumcrawl"
	"github.com/fwojciec/forumcrawl/mock"
	"github.com/stretchr/testify/require"
)

const (
	forumURL   = "https://forum.example"
	sessionKey = "wordpress_logged_in"
)

// forumPages is a two-page forum section keyed by path. The broken thread
// has more timestamps than bodies and is skipped by the crawler.
func forumPages() map[string]string {
	return map[string]string{
		"/community/":         listHTML("/community/paged/2/", "/t/a/", "/t/b/"),
		"/community/paged/2/": listHTML("", "/t/c/", "/t/broken/"),
		"/t/a/":               postHTML(2, 2),
		"/t/b/":               postHTML(2, 2),
		"/t/c/":               postHTML(1, 1),
		"/t/broken/":          postHTML(3, 2),
	}
}

func listHTML(next string, posts ...string) string {
	var b strings.Builder
	b.WriteString("<html><body><div class=\"wpforo-topic-list\">")
	for _, p := range posts {
		fmt.Fprintf(&b, `<div class="topic-wrap"><div class="wpforo-topic-title"><a href="%s">Topic %s</a></div></div>`, p, path.Base(p))
	}
	b.WriteString("</div>")
	if next != "" {
		fmt.Fprintf(&b, `<div class="wpf-navi"><a class="wpf-next-button" href="%s">next</a></div>`, next)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func postHTML(stamps, bodies int) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 1; i <= stamps; i++ {
		fmt.Fprintf(&b, `<div class="cbleft wpfcl-0">2024-03-0%d 10:00 am</div>`, i)
	}
	for i := 1; i <= bodies; i++ {
		fmt.Fprintf(&b, `<div class="wpforo-post-content"><p>Reply <b>%d</b></p></div>`, i)
	}
	b.WriteString("</body></html>")
	return b.String()
}

// forumFetcher serves forumPages under forumURL.
func forumFetcher() *mock.Fetcher {
	pages := forumPages()
	return &mock.Fetcher{
		FetchFn: func(_ context.Context, url string) (string, error) {
			html, ok := pages[strings.TrimPrefix(url, forumURL)]
			if !ok {
				return "", forumcrawl.Errorf(forumcrawl.EFETCH, "HTTP 404 for %s", url)
			}
			return html, nil
		},
	}
}

// newForumServer serves forumPages over HTTP. The home page shows the login
// button unless the request carries the session cookie with value session.
func newForumServer(t *testing.T, session string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(sessionKey); err == nil && session != "" && c.Value == session {
			fmt.Fprint(w, `<html><body><a class="wpf-profile">me</a></body></html>`)
			return
		}
		fmt.Fprint(w, `<html><body><a class="btn-login" href="/login/">Login</a></body></html>`)
	})
	for p, html := range forumPages() {
		mux.HandleFunc("GET "+p+"{$}", func(w http.ResponseWriter, _ *http.Request) {
			fmt.Fprint(w, html)
		})
	}

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// readArtifacts decodes every post file in dir, keyed by URL slug.
func readArtifacts(t *testing.T, dir string) map[string]map[string]string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	out := make(map[string]map[string]string, len(entries))
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		require.NoError(t, err)

		var fields map[string]string
		require.NoError(t, json.Unmarshal(data, &fields))

		parts := strings.SplitN(strings.TrimSuffix(e.Name(), ".json"), "_", 3)
		require.Len(t, parts, 3, "file %s", e.Name())
		out[parts[2]] = fields
	}
	return out
}
