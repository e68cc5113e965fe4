// Package uploads runs batches of file uploads against the remote store.
package uploads

import (
	"context"
	"errors"
	"io"
	"strconv"

	"github.com/dalemusser/stratadrive/internal/app/gateway"
	"github.com/dalemusser/stratadrive/internal/app/system/notify"
	"github.com/dalemusser/stratadrive/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// NamedFile is one file to upload: a display name and its content.
type NamedFile struct {
	Name string
	Data io.Reader
}

// Uploader stores a single file. *gateway.Client satisfies it.
type Uploader interface {
	Upload(ctx context.Context, name string, r io.Reader, folderID *string) (*models.Item, error)
}

// Config holds Runner dependencies.
type Config struct {
	Uploader Uploader

	// Refresh is invoked exactly once after each batch settles, success
	// or failure, so the view resyncs with the server.
	Refresh func(ctx context.Context)

	// Concurrency caps in-flight uploads per batch. Zero means every
	// file uploads at once.
	Concurrency int

	Notifier notify.Notifier
	Logger   *zap.Logger
}

// Runner uploads batches of files concurrently and reports each batch as
// a single unit.
type Runner struct {
	up      Uploader
	refresh func(ctx context.Context)
	limit   int
	notify  notify.Notifier
	log     *zap.Logger
}

// NewRunner creates a batch upload Runner.
func NewRunner(cfg Config) *Runner {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.NewLog(cfg.Logger)
	}
	if cfg.Refresh == nil {
		cfg.Refresh = func(context.Context) {}
	}
	return &Runner{
		up:      cfg.Uploader,
		refresh: cfg.Refresh,
		limit:   cfg.Concurrency,
		notify:  cfg.Notifier,
		log:     cfg.Logger,
	}
}

// UploadBatch uploads files into folderID (nil means root), one request
// per file, all in flight together. The batch succeeds only if every
// file succeeds; a failed file fails the whole batch even though other
// files may have persisted server-side. One refresh fires after the batch
// settles regardless of size or outcome.
//
// An empty batch is rejected before any request or refresh.
func (r *Runner) UploadBatch(ctx context.Context, files []NamedFile, folderID *string) error {
	if len(files) == 0 {
		return errors.New("uploads: empty batch")
	}

	// Plain group, no shared cancellation: a failed file must not abort
	// its siblings mid-flight.
	var g errgroup.Group
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}
	for _, f := range files {
		f := f
		g.Go(func() error {
			_, err := r.up.Upload(ctx, f.Name, f.Data, folderID)
			if err != nil {
				r.log.Warn("upload failed",
					zap.String("name", f.Name),
					zap.Error(err))
			}
			return err
		})
	}

	err := g.Wait()
	r.refresh(ctx)

	if err != nil {
		r.notify.Error("Upload failed: " + gateway.UserMessage(err))
		return err
	}
	if len(files) == 1 {
		r.notify.Success("Uploaded " + notify.TruncateName(files[0].Name))
	} else {
		r.notify.Success("Uploaded " + strconv.Itoa(len(files)) + " files")
	}
	return nil
}
