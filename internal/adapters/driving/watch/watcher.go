// Package watch ingests documents dropped into a directory. New files
// with a recognised extension are fed through the ingest service as
// they appear.
package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/meridian-labs/grounded/internal/core/ports/driving"
	"github.com/meridian-labs/grounded/internal/extractors"
	"github.com/meridian-labs/grounded/internal/logger"
)

// DefaultSettleDelay is how long a new file is left alone before
// ingestion, so slow writers can finish.
const DefaultSettleDelay = 500 * time.Millisecond

// Watcher ingests files dropped into a watched directory.
type Watcher struct {
	ingest      driving.IngestService
	dir         string
	settleDelay time.Duration
}

// NewWatcher creates a watcher over the given directory.
func NewWatcher(ingest driving.IngestService, dir string) *Watcher {
	return &Watcher{
		ingest:      ingest,
		dir:         dir,
		settleDelay: DefaultSettleDelay,
	}
}

// SetSettleDelay overrides the delay between a file appearing and its
// ingestion.
func (w *Watcher) SetSettleDelay(d time.Duration) {
	w.settleDelay = d
}

// Run watches the directory until ctx is cancelled. Each created file
// with a recognised extension is ingested; per-file failures are logged
// and the watch continues.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.dir, err)
	}

	logger.Info("Watching %s for documents", w.dir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if extractors.MIMETypeForPath(event.Name) == "" {
				logger.Debug("Ignoring %s: unrecognised extension", event.Name)
				continue
			}
			w.ingestFile(ctx, event.Name)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watch error: %v", err)
		}
	}
}

// ingestFile waits for the file to settle, then runs one ingestion.
func (w *Watcher) ingestFile(ctx context.Context, path string) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(w.settleDelay):
	}

	report, err := w.ingest.IngestFile(ctx, path)
	if err != nil {
		logger.Warn("Ingesting %s: %v", path, err)
		return
	}
	logger.Info("Ingested %s as %s: %d indexed, %d failed",
		path, report.DocumentID, report.PagesIndexed(), report.PagesFailed())
}
