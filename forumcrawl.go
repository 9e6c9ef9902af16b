// Package forumcrawl archives discussion forums. It walks a forum's list
// pages one after another, discovers the posts on each page, and stores
// every post together with its threaded responses as one JSON artifact.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, http/), and the
// concurrent crawl orchestration lives in crawl/.
package forumcrawl
