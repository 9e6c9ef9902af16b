package mock

import "github.com/fwojciec/forumcrawl"

var _ forumcrawl.Converter = (*Converter)(nil)

// Converter is a mock implementation of forumcrawl.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
