package forumcrawl

// PostStub is a post discovered on a list page but not yet processed.
type PostStub struct {
	Name string
	URL  string
}

// Validate returns an error if the stub lacks the link needed to fetch the post.
func (s *PostStub) Validate() error {
	if s.URL == "" {
		return Errorf(EINVALID, "post link missing")
	}
	return nil
}

// ListPage holds what a list page contributes to the crawl.
type ListPage struct {
	// NextURL is the absolute URL of the following list page.
	// Empty on the last page.
	NextURL string

	// Posts are the post summaries in document order.
	Posts []PostStub
}

// PostContent is the body of one entry in a post thread.
type PostContent struct {
	Text string
	HTML string
}

// PostPage holds the entries of a post's own page. Published and Contents
// are parallel lists: the i-th timestamp belongs to the i-th content.
type PostPage struct {
	Published []string
	Contents  []PostContent
}

// Validate returns EMALFORMED if the timestamp and content lists differ in length.
func (p *PostPage) Validate() error {
	if len(p.Published) != len(p.Contents) {
		return Errorf(EMALFORMED, "post page has %d timestamps and %d contents", len(p.Published), len(p.Contents))
	}
	return nil
}

// Markup understands the HTML structure of a forum.
type Markup interface {
	// ParseListPage extracts the pagination link and post summaries.
	// The pageURL is used to resolve relative links.
	ParseListPage(html string, pageURL string) (*ListPage, error)

	// ParsePostPage extracts the published times and contents of a post thread.
	ParsePostPage(html string) (*PostPage, error)
}

// LoginDetector decides whether a page was served to a logged-in session.
type LoginDetector interface {
	LoggedIn(html string) (bool, error)
}
