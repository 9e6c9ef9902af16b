package forumcrawl

import "context"

// Fetcher retrieves the HTML of a forum page.
type Fetcher interface {
	// Fetch issues one GET request for the URL and returns the response body.
	// Non-success responses and transport failures are reported as EFETCH.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)
}
