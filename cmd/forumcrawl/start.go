package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fwojciec/forumcrawl"
)

// PromptStart asks for the first list page until the answer is a URL or a
// quit command. Quitting, including end of input, yields the termination
// signal so the workers stop without fetching anything.
func PromptStart(r io.Reader, w io.Writer) (forumcrawl.FrontierItem, error) {
	scanner := bufio.NewScanner(r)
	for {
		fmt.Fprint(w, "Type URL to start the crawler work. [Q]uit to exit:\n")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return forumcrawl.FrontierItem{}, fmt.Errorf("read start URL: %w", err)
			}
			return forumcrawl.TerminationSignal, nil
		}

		input := strings.TrimSpace(scanner.Text())
		switch upper := strings.ToUpper(input); {
		case upper == "Q" || upper == "QUIT":
			return forumcrawl.TerminationSignal, nil
		case strings.HasPrefix(input, "http"):
			return forumcrawl.PageItem(input), nil
		}
		fmt.Fprintln(w, "Input is not valid.")
	}
}
