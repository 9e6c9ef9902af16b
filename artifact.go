package forumcrawl

import (
	"context"
	"encoding/json"
	"time"
)

// WorkerIdentity names the worker and pool thread that produced an artifact.
// It only feeds artifact filenames.
type WorkerIdentity struct {
	WorkerID string
	ThreadID string
}

// PostArtifact is the persisted record of one post and its responses.
type PostArtifact struct {
	Name string
	URL  string

	// Responses maps each entry's published time to its content.
	Responses map[string]string
}

// NewPostArtifact merges a stub with the parallel timestamp and content lists
// of its post page. Entries sharing a timestamp overwrite each other, last wins.
func NewPostArtifact(stub PostStub, published []string, contents []string) (*PostArtifact, error) {
	if len(published) != len(contents) {
		return nil, Errorf(EMALFORMED, "post %q has %d timestamps and %d contents", stub.URL, len(published), len(contents))
	}
	a := &PostArtifact{
		Name:      stub.Name,
		URL:       stub.URL,
		Responses: make(map[string]string, len(published)),
	}
	for i, ts := range published {
		a.Responses[ts] = contents[i]
	}
	return a, nil
}

// MarshalJSON encodes the artifact as one flat object: "name", "url", and one
// key per response timestamp. The fixed keys win over a timestamp with the same text.
func (a *PostArtifact) MarshalJSON() ([]byte, error) {
	m := make(map[string]string, len(a.Responses)+2)
	for ts, content := range a.Responses {
		m[ts] = content
	}
	m["name"] = a.Name
	m["url"] = a.URL
	return json.Marshal(m)
}

// UnmarshalJSON decodes the flat object written by MarshalJSON.
func (a *PostArtifact) UnmarshalJSON(data []byte) error {
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	a.Name = m["name"]
	a.URL = m["url"]
	delete(m, "name")
	delete(m, "url")
	a.Responses = m
	return nil
}

// ArtifactStore persists post artifacts.
type ArtifactStore interface {
	// SaveArtifact writes the artifact under a name derived from the worker
	// identity and the post URL, and returns where it was written.
	SaveArtifact(ctx context.Context, id WorkerIdentity, artifact *PostArtifact) (string, error)
}

// ArtifactRecord describes an artifact that was written during a run.
type ArtifactRecord struct {
	ID          string
	RunID       string
	Path        string
	URL         string
	WorkerID    string
	ThreadID    string
	ContentHash string
	SavedAt     time.Time
}

// ArtifactFilter represents a filter for finding artifact records.
type ArtifactFilter struct {
	RunID *string
	URL   *string

	Offset int
	Limit  int
}

// ArtifactLedger lists the artifacts recorded in a state file.
type ArtifactLedger interface {
	// FindArtifacts returns records matching the filter, oldest first.
	FindArtifacts(ctx context.Context, filter ArtifactFilter) ([]*ArtifactRecord, error)
}
