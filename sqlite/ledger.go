package sqlite

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/forumcrawl"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ forumcrawl.ArtifactStore = (*Ledger)(nil)
var _ forumcrawl.ArtifactLedger = (*Ledger)(nil)

// Ledger wraps an ArtifactStore and records every artifact it writes in the
// artifacts table of the run.
type Ledger struct {
	db    *DB
	runID string
	next  forumcrawl.ArtifactStore
}

// NewLedger creates a Ledger that saves through next.
func NewLedger(db *DB, runID string, next forumcrawl.ArtifactStore) *Ledger {
	return &Ledger{db: db, runID: runID, next: next}
}

// SaveArtifact saves through the wrapped store, then records the result.
// If recording fails the file stays on disk and the error is returned.
func (l *Ledger) SaveArtifact(ctx context.Context, id forumcrawl.WorkerIdentity, a *forumcrawl.PostArtifact) (string, error) {
	path, err := l.next.SaveArtifact(ctx, id, a)
	if err != nil {
		return "", err
	}

	data, err := json.Marshal(a)
	if err != nil {
		return path, forumcrawl.Errorf(forumcrawl.EINTERNAL, "encode artifact %s: %v", a.URL, err)
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO artifacts (id, run_id, path, url, worker_id, thread_id, content_hash, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), l.runID, path, a.URL, id.WorkerID, id.ThreadID,
		hashContent(data), time.Now().UTC().Format(timeFormat))
	if err != nil {
		return path, err
	}
	return path, nil
}

// FindArtifacts retrieves artifact records matching the filter, oldest first.
func (l *Ledger) FindArtifacts(ctx context.Context, filter forumcrawl.ArtifactFilter) ([]*forumcrawl.ArtifactRecord, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, run_id, path, url, worker_id, thread_id, content_hash, saved_at FROM artifacts WHERE 1=1`)

	if filter.RunID != nil {
		query.WriteString(" AND run_id = ?")
		args = append(args, *filter.RunID)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}

	query.WriteString(" ORDER BY saved_at, rowid")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := l.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*forumcrawl.ArtifactRecord
	for rows.Next() {
		var r forumcrawl.ArtifactRecord
		var savedAt string
		if err := rows.Scan(&r.ID, &r.RunID, &r.Path, &r.URL, &r.WorkerID, &r.ThreadID,
			&r.ContentHash, &savedAt); err != nil {
			return nil, err
		}
		if r.SavedAt, err = parseTime(savedAt, "saved_at"); err != nil {
			return nil, err
		}
		records = append(records, &r)
	}
	return records, rows.Err()
}

// hashContent computes xxHash of content and returns a 16-digit hex string.
func hashContent(content []byte) string {
	s := strconv.FormatUint(xxhash.Sum64(content), 16)
	return strings.Repeat("0", 16-len(s)) + s
}
