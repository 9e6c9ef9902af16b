// Package goquery implements forum markup parsing using goquery CSS selectors.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/forumcrawl"
)

var (
	_ forumcrawl.Markup        = (*Markup)(nil)
	_ forumcrawl.LoginDetector = (*Markup)(nil)
)

// Selectors locate the parts of a forum page. Every field is a CSS selector.
type Selectors struct {
	// Post is the container of one post summary on a list page. The first
	// anchor inside it carries the post name and link.
	Post string

	// Next is the pagination link to the following list page.
	Next string

	// Published matches the timestamp of each entry on a post page.
	Published string

	// Content matches the body of each entry on a post page.
	Content string

	// LoginButton is only present for anonymous visitors.
	LoginButton string
}

// DefaultSelectors returns the selectors of the stock wpForo theme.
func DefaultSelectors() Selectors {
	return Selectors{
		Post:        "div.topic-wrap",
		Next:        "a.wpf-next-button",
		Published:   "div.cbleft.wpfcl-0",
		Content:     "div.wpforo-post-content",
		LoginButton: "a.btn-login",
	}
}

// Markup parses wpForo list and post pages.
type Markup struct {
	sel Selectors
}

// NewMarkup creates a Markup. Empty fields in sel fall back to DefaultSelectors.
func NewMarkup(sel Selectors) *Markup {
	def := DefaultSelectors()
	if sel.Post == "" {
		sel.Post = def.Post
	}
	if sel.Next == "" {
		sel.Next = def.Next
	}
	if sel.Published == "" {
		sel.Published = def.Published
	}
	if sel.Content == "" {
		sel.Content = def.Content
	}
	if sel.LoginButton == "" {
		sel.LoginButton = def.LoginButton
	}
	return &Markup{sel: sel}
}

// Selectors returns the selectors in use.
func (m *Markup) Selectors() Selectors {
	return m.sel
}

// ParseListPage returns the next page link and one stub per post container.
// A container without an anchor still yields a stub, with an empty URL.
// Relative links are resolved against pageURL.
func (m *Markup) ParseListPage(html string, pageURL string) (*forumcrawl.ListPage, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, forumcrawl.Errorf(forumcrawl.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := parse(html)
	if err != nil {
		return nil, err
	}

	page := &forumcrawl.ListPage{}
	if href, ok := doc.Find(m.sel.Next).First().Attr("href"); ok {
		page.NextURL = resolveURL(base, href)
	}

	doc.Find(m.sel.Post).Each(func(_ int, post *goquery.Selection) {
		var stub forumcrawl.PostStub
		if a := post.Find("a").First(); a.Length() > 0 {
			stub.Name = strings.TrimSpace(a.Text())
			if href, ok := a.Attr("href"); ok && !isNonHTTPLink(href) {
				stub.URL = resolveURL(base, href)
			}
		}
		page.Posts = append(page.Posts, stub)
	})

	return page, nil
}

// ParsePostPage returns the timestamps and bodies of a post thread in
// document order. Timestamp text is trimmed and cut at the first double tab,
// where wpForo appends edit markers.
func (m *Markup) ParsePostPage(html string) (*forumcrawl.PostPage, error) {
	doc, err := parse(html)
	if err != nil {
		return nil, err
	}

	page := &forumcrawl.PostPage{}
	doc.Find(m.sel.Published).Each(func(_ int, s *goquery.Selection) {
		page.Published = append(page.Published, timestampKey(s.Text()))
	})
	doc.Find(m.sel.Content).Each(func(_ int, s *goquery.Selection) {
		inner, _ := s.Html()
		page.Contents = append(page.Contents, forumcrawl.PostContent{
			Text: s.Text(),
			HTML: inner,
		})
	})

	return page, nil
}

// LoggedIn reports whether the page was rendered for a logged-in session,
// judged by the absence of the login button.
func (m *Markup) LoggedIn(html string) (bool, error) {
	doc, err := parse(html)
	if err != nil {
		return false, err
	}
	return doc.Find(m.sel.LoginButton).Length() == 0, nil
}

func parse(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, forumcrawl.Errorf(forumcrawl.EMALFORMED, "failed to parse HTML: %v", err)
	}
	return doc, nil
}

func timestampKey(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.Index(text, "\t\t"); i >= 0 {
		text = text[:i]
	}
	return text
}

// resolveURL resolves a relative URL against a base URL.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// isNonHTTPLink reports links that cannot be fetched, like javascript: or mailto:.
func isNonHTTPLink(href string) bool {
	lower := strings.ToLower(strings.TrimSpace(href))
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}
