package main

import (
	"context"
	"net/http"

	"github.com/fwojciec/forumcrawl"
	"github.com/fwojciec/forumcrawl/config"
	fchttp "github.com/fwojciec/forumcrawl/http"
)

// NewSession loads the exported forum cookies into a cookie jar scoped to
// the forum home URL.
func NewSession(cfg *config.Config) (http.CookieJar, error) {
	cookies, err := fchttp.LoadCookies(cfg.Session.CookiesJSON, cfg.Session.CookiesCSV)
	if err != nil {
		return nil, forumcrawl.Errorf(forumcrawl.EUNAUTHORIZED, "load cookies: %s", forumcrawl.ErrorMessage(err))
	}
	return fchttp.NewSessionJar(cfg.URLs.Home, cookies)
}

// VerifyLogin fetches the forum home page and checks that it was rendered
// for a logged-in session.
func VerifyLogin(ctx context.Context, fetcher forumcrawl.Fetcher, detector forumcrawl.LoginDetector, homeURL string) error {
	html, err := fetcher.Fetch(ctx, homeURL)
	if err != nil {
		return forumcrawl.Errorf(forumcrawl.EUNAUTHORIZED, "fetch home page: %s", forumcrawl.ErrorMessage(err))
	}
	ok, err := detector.LoggedIn(html)
	if err != nil {
		return forumcrawl.Errorf(forumcrawl.EUNAUTHORIZED, "check login: %s", forumcrawl.ErrorMessage(err))
	}
	if !ok {
		return forumcrawl.Errorf(forumcrawl.EUNAUTHORIZED, "not logged in: %s shows the login button", homeURL)
	}
	return nil
}
