// Package fs provides file-based storage for post artifacts.
package fs

import (
	"context"
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/forumcrawl"
)

// maxSlugBytes keeps filenames well under common filesystem limits.
const maxSlugBytes = 120

// Ensure ArtifactStore implements forumcrawl.ArtifactStore at compile time.
var _ forumcrawl.ArtifactStore = (*ArtifactStore)(nil)

// ArtifactStore writes each post artifact as a JSON file in one directory.
// The directory is created on first save.
type ArtifactStore struct {
	dir string
}

// NewArtifactStore creates an ArtifactStore writing into dir.
func NewArtifactStore(dir string) *ArtifactStore {
	return &ArtifactStore{dir: dir}
}

// Dir returns the output directory.
func (s *ArtifactStore) Dir() string {
	return s.dir
}

// SaveArtifact encodes the artifact and writes it to
// {worker_id}_{thread_id}_{slug}.json. The file is written under a temporary
// name and renamed into place, so readers never see a partial artifact.
// An existing file with the same name is replaced.
func (s *ArtifactStore) SaveArtifact(ctx context.Context, id forumcrawl.WorkerIdentity, a *forumcrawl.PostArtifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := json.Marshal(a)
	if err != nil {
		return "", forumcrawl.Errorf(forumcrawl.EINTERNAL, "encode artifact %s: %v", a.URL, err)
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", forumcrawl.Errorf(forumcrawl.EINTERNAL, "create output directory: %v", err)
	}

	path := filepath.Join(s.dir, ArtifactFilename(id, a.URL))

	tmp, err := os.CreateTemp(s.dir, ".artifact-*.tmp")
	if err != nil {
		return "", forumcrawl.Errorf(forumcrawl.EINTERNAL, "create temp file: %v", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", forumcrawl.Errorf(forumcrawl.EINTERNAL, "write %s: %v", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", forumcrawl.Errorf(forumcrawl.EINTERNAL, "close %s: %v", path, err)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		os.Remove(tmp.Name())
		return "", forumcrawl.Errorf(forumcrawl.EINTERNAL, "chmod %s: %v", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return "", forumcrawl.Errorf(forumcrawl.EINTERNAL, "rename to %s: %v", path, err)
	}

	return path, nil
}

// ArtifactFilename returns the base filename for a post artifact:
// {worker_id}_{thread_id}_{slug}.json.
func ArtifactFilename(id forumcrawl.WorkerIdentity, postURL string) string {
	return id.WorkerID + "_" + id.ThreadID + "_" + Slug(postURL) + ".json"
}

// Slug derives a filesystem-safe name from the last non-empty path segment
// of a post URL. Query and fragment are ignored. URLs without a usable
// segment get the hex xxhash of the full URL.
// Example: https://forum.example/community/general/my-topic/ → my-topic
func Slug(postURL string) string {
	u, err := url.Parse(postURL)
	if err != nil {
		return hashSlug(postURL)
	}

	var last string
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			last = seg
		}
	}

	slug := sanitize(last)
	if slug == "" || strings.Trim(slug, ".") == "" {
		return hashSlug(postURL)
	}
	return slug
}

func sanitize(s string) string {
	var b strings.Builder
	for _, r := range s {
		if b.Len() >= maxSlugBytes {
			break
		}
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

func hashSlug(s string) string {
	return strconv.FormatUint(xxhash.Sum64String(s), 16)
}
