// Package index turns file patterns into a queryable remote vector
// store: resolve, upload, create store, submit one batch, poll to a
// terminal status.
package index

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/ragcli/internal/rag"
	"github.com/hyperifyio/ragcli/internal/resolver"
)

// ErrNoFilesFound is returned when pattern resolution yields nothing;
// no remote call has been made at that point.
var ErrNoFilesFound = errors.New("no supported files found")

// ErrIndexingFailed is the terminal failed status of the remote batch.
var ErrIndexingFailed = errors.New("vector store indexing failed")

// ErrPollTimeout is returned when the batch stays pending past PollTimeout.
var ErrPollTimeout = errors.New("timed out waiting for indexing to complete")

// UploadError identifies the file whose upload aborted the pipeline.
// Files uploaded before the failure are left behind remotely; they are
// orphaned objects no index references.
type UploadError struct {
	Path string
	Err  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Path, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// StoreName labels every vector store this tool creates.
const StoreName = "cli-rag-store"

// Indexer uploads a resolved corpus and drives one remote batch job to a
// terminal state.
type Indexer struct {
	Client rag.Client
	// PollInterval defaults to one second; there is no backoff.
	PollInterval time.Duration
	// PollTimeout bounds the wait for a terminal batch status.
	// Zero means wait forever, matching the remote job's own pace.
	PollTimeout time.Duration
	// Resolve is swappable for tests; nil uses resolver.Resolve.
	Resolve func(patterns []string) ([]string, []string)
	// Progress, when set, receives human-readable step updates.
	Progress func(msg string)
}

// Index resolves patterns, uploads every file in resolution order, creates
// a fresh vector store and blocks until the batch completes. On success it
// returns the vector store id; the caller owns persisting it. Re-indexing
// is a full replacement: prior stores are abandoned, not deleted.
func (ix *Indexer) Index(ctx context.Context, patterns []string) (string, error) {
	resolve := ix.Resolve
	if resolve == nil {
		resolve = resolver.Resolve
	}
	files, warnings := resolve(patterns)
	for _, w := range warnings {
		log.Warn().Msg(w)
	}
	if len(files) == 0 {
		return "", ErrNoFilesFound
	}

	fileIDs := make([]string, 0, len(files))
	for i, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", &UploadError{Path: path, Err: err}
		}
		id, err := ix.Client.UploadFile(ctx, filepath.Base(path), data)
		if err != nil {
			return "", &UploadError{Path: path, Err: err}
		}
		fileIDs = append(fileIDs, id)
		ix.progress(fmt.Sprintf("uploaded (%d/%d) %s", i+1, len(files), path))
	}

	storeID, err := ix.Client.CreateVectorStore(ctx, StoreName)
	if err != nil {
		return "", fmt.Errorf("create vector store: %w", err)
	}
	ix.progress("vector store created: " + storeID)

	batchID, err := ix.Client.CreateFileBatch(ctx, storeID, fileIDs)
	if err != nil {
		return "", fmt.Errorf("submit batch: %w", err)
	}
	ix.progress(fmt.Sprintf("indexing %d files", len(files)))

	if err := ix.awaitBatch(ctx, storeID, batchID); err != nil {
		return "", err
	}
	return storeID, nil
}

// awaitBatch polls at a fixed interval until the batch reaches a terminal
// status, the context is cancelled, or the configured timeout elapses.
func (ix *Indexer) awaitBatch(ctx context.Context, storeID, batchID string) error {
	interval := ix.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	var cancel context.CancelFunc
	if ix.PollTimeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, ix.PollTimeout)
		defer cancel()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		status, err := ix.Client.RetrieveFileBatch(ctx, storeID, batchID)
		if err != nil {
			if ix.PollTimeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ErrPollTimeout
			}
			return fmt.Errorf("poll batch: %w", err)
		}
		switch status {
		case rag.BatchCompleted:
			return nil
		case rag.BatchFailed:
			return ErrIndexingFailed
		}
		select {
		case <-ctx.Done():
			if ix.PollTimeout > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return ErrPollTimeout
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (ix *Indexer) progress(msg string) {
	if ix.Progress != nil {
		ix.Progress(msg)
	}
}
