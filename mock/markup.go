package mock

import "github.com/fwojciec/forumcrawl"

var (
	_ forumcrawl.Markup        = (*Markup)(nil)
	_ forumcrawl.LoginDetector = (*LoginDetector)(nil)
)

// Markup is a mock implementation of forumcrawl.Markup.
type Markup struct {
	ParseListPageFn func(html, pageURL string) (*forumcrawl.ListPage, error)
	ParsePostPageFn func(html string) (*forumcrawl.PostPage, error)
}

func (m *Markup) ParseListPage(html, pageURL string) (*forumcrawl.ListPage, error) {
	return m.ParseListPageFn(html, pageURL)
}

func (m *Markup) ParsePostPage(html string) (*forumcrawl.PostPage, error) {
	return m.ParsePostPageFn(html)
}

// LoginDetector is a mock implementation of forumcrawl.LoginDetector.
type LoginDetector struct {
	LoggedInFn func(html string) (bool, error)
}

func (d *LoginDetector) LoggedIn(html string) (bool, error) {
	return d.LoggedInFn(html)
}
