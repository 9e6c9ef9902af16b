package main_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/forumcrawl"
	main "github.com/fwojciec/forumcrawl/cmd/forumcrawl"
	"github.com/fwojciec/forumcrawl/config"
	"github.com/fwojciec/forumcrawl/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyLogin(t *testing.T) {
	t.Parallel()

	fetcher := func(html string, err error) *mock.Fetcher {
		return &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				assert.Equal(t, "https://forum.example/", url)
				return html, err
			},
		}
	}
	detector := func(ok bool, err error) *mock.LoginDetector {
		return &mock.LoginDetector{
			LoggedInFn: func(html string) (bool, error) {
				assert.Equal(t, "<html>home</html>", html)
				return ok, err
			},
		}
	}

	t.Run("succeeds when logged in", func(t *testing.T) {
		t.Parallel()

		err := main.VerifyLogin(context.Background(), fetcher("<html>home</html>", nil), detector(true, nil), "https://forum.example/")

		assert.NoError(t, err)
	})

	t.Run("fails when the login button is shown", func(t *testing.T) {
		t.Parallel()

		err := main.VerifyLogin(context.Background(), fetcher("<html>home</html>", nil), detector(false, nil), "https://forum.example/")

		assert.Equal(t, forumcrawl.EUNAUTHORIZED, forumcrawl.ErrorCode(err))
	})

	t.Run("fails when the home page cannot be fetched", func(t *testing.T) {
		t.Parallel()

		err := main.VerifyLogin(context.Background(),
			fetcher("", forumcrawl.Errorf(forumcrawl.EFETCH, "HTTP 503")),
			detector(true, nil),
			"https://forum.example/",
		)

		assert.Equal(t, forumcrawl.EUNAUTHORIZED, forumcrawl.ErrorCode(err))
		assert.Contains(t, forumcrawl.ErrorMessage(err), "HTTP 503")
	})

	t.Run("fails when the page cannot be parsed", func(t *testing.T) {
		t.Parallel()

		err := main.VerifyLogin(context.Background(),
			fetcher("<html>home</html>", nil),
			detector(false, forumcrawl.Errorf(forumcrawl.EMALFORMED, "bad html")),
			"https://forum.example/",
		)

		assert.Equal(t, forumcrawl.EUNAUTHORIZED, forumcrawl.ErrorCode(err))
	})
}

func TestNewSession(t *testing.T) {
	t.Parallel()

	t.Run("loads cookies for the home URL", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c, err := r.Cookie("wordpress_logged_in"); err == nil {
				_, _ = io.WriteString(w, c.Value)
			}
		}))
		t.Cleanup(srv.Close)

		dir := t.TempDir()
		cfg := config.Default()
		cfg.URLs.Home = srv.URL
		cfg.Session.CookiesJSON = filepath.Join(dir, "cookies.json")
		cfg.Session.CookiesCSV = filepath.Join(dir, "cookies.csv")
		require.NoError(t, os.WriteFile(cfg.Session.CookiesCSV, []byte("wordpress_logged_in,abc\n"), 0o600))

		jar, err := main.NewSession(cfg)
		require.NoError(t, err)

		client := &http.Client{Jar: jar}
		resp, err := client.Get(srv.URL + "/community/")
		require.NoError(t, err)
		defer resp.Body.Close()
		got, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		assert.Equal(t, "abc", string(got))
		assert.FileExists(t, cfg.Session.CookiesJSON, "CSV cookies are cached as JSON")
	})

	t.Run("fails without cookie files", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfg := config.Default()
		cfg.URLs.Home = "https://forum.example/"
		cfg.Session.CookiesJSON = filepath.Join(dir, "cookies.json")
		cfg.Session.CookiesCSV = filepath.Join(dir, "cookies.csv")

		_, err := main.NewSession(cfg)

		assert.Equal(t, forumcrawl.EUNAUTHORIZED, forumcrawl.ErrorCode(err))
	})
}
