package forumcrawl

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms an HTML fragment, such as a post body,
	// into its Markdown representation.
	Convert(html string) (string, error)
}
