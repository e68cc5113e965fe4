package uploads_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/stratadrive/internal/app/features/uploads"
	"github.com/dalemusser/stratadrive/internal/app/gateway"
	"github.com/dalemusser/stratadrive/internal/app/system/notify"
	"github.com/dalemusser/stratadrive/internal/app/system/session"
	"github.com/dalemusser/stratadrive/internal/domain/models"
	"github.com/dalemusser/stratadrive/internal/testutil"
	"go.uber.org/zap"
)

// stubUploader fails selected names and tracks in-flight concurrency.
type stubUploader struct {
	mu       sync.Mutex
	inFlight int
	peak     int
	calls    int
	failName string
	delay    time.Duration
}

func (s *stubUploader) Upload(ctx context.Context, name string, r io.Reader, folderID *string) (*models.Item, error) {
	s.mu.Lock()
	s.calls++
	s.inFlight++
	if s.inFlight > s.peak {
		s.peak = s.inFlight
	}
	s.mu.Unlock()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}

	s.mu.Lock()
	s.inFlight--
	s.mu.Unlock()

	if name == s.failName {
		return nil, errors.New("disk full")
	}
	return &models.Item{ID: name, Type: models.ItemFile, Name: name}, nil
}

func TestUploadBatchAllSucceed(t *testing.T) {
	drive := testutil.NewFakeDrive(t)
	folder := drive.AddFolder("inbox", nil)

	client, err := gateway.New(gateway.Config{
		BaseURL: drive.URL(),
		Session: session.NewStatic(testutil.TestToken, zap.NewNop()),
		Logger:  zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("gateway.New: %v", err)
	}

	refreshes := 0
	rec := notify.NewRecorder()
	runner := uploads.NewRunner(uploads.Config{
		Uploader: client,
		Refresh:  func(context.Context) { refreshes++ },
		Notifier: rec,
		Logger:   zap.NewNop(),
	})

	ctx, cancel := testutil.TestContext()
	defer cancel()

	files := []uploads.NamedFile{
		{Name: "a.txt", Data: strings.NewReader("aa")},
		{Name: "b.txt", Data: strings.NewReader("bb")},
		{Name: "c.txt", Data: strings.NewReader("cc")},
	}
	if err := runner.UploadBatch(ctx, files, &folder.ID); err != nil {
		t.Fatalf("UploadBatch: %v", err)
	}

	if refreshes != 1 {
		t.Errorf("refreshes = %d, want exactly 1", refreshes)
	}
	if n := drive.RequestCount(testutil.OpUpload); n != 3 {
		t.Errorf("upload requests = %d, want 3", n)
	}
	if len(rec.Successes()) != 1 {
		t.Errorf("successes = %v", rec.Successes())
	}
}

func TestUploadBatchFailsWhenAnyFileFails(t *testing.T) {
	stub := &stubUploader{failName: "two"}
	refreshes := 0
	rec := notify.NewRecorder()
	runner := uploads.NewRunner(uploads.Config{
		Uploader: stub,
		Refresh:  func(context.Context) { refreshes++ },
		Notifier: rec,
		Logger:   zap.NewNop(),
	})

	ctx, cancel := testutil.TestContext()
	defer cancel()

	files := []uploads.NamedFile{
		{Name: "one", Data: strings.NewReader("1")},
		{Name: "two", Data: strings.NewReader("2")},
		{Name: "three", Data: strings.NewReader("3")},
	}
	err := runner.UploadBatch(ctx, files, nil)
	if err == nil {
		t.Fatal("expected batch failure")
	}

	// every file is attempted; the failure does not abort siblings
	if stub.calls != 3 {
		t.Errorf("upload calls = %d, want 3", stub.calls)
	}
	if refreshes != 1 {
		t.Errorf("refreshes = %d, want exactly 1", refreshes)
	}
	if errs := rec.Errors(); len(errs) != 1 || !strings.Contains(errs[0], "disk full") {
		t.Errorf("errors = %v", errs)
	}
	if len(rec.Successes()) != 0 {
		t.Errorf("successes = %v, want none", rec.Successes())
	}
}

func TestUploadBatchEmptyIsRejected(t *testing.T) {
	stub := &stubUploader{}
	refreshes := 0
	runner := uploads.NewRunner(uploads.Config{
		Uploader: stub,
		Refresh:  func(context.Context) { refreshes++ },
		Notifier: notify.NewRecorder(),
		Logger:   zap.NewNop(),
	})

	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := runner.UploadBatch(ctx, nil, nil); err == nil {
		t.Fatal("expected error for empty batch")
	}
	if stub.calls != 0 || refreshes != 0 {
		t.Errorf("calls = %d refreshes = %d, want 0 and 0", stub.calls, refreshes)
	}
}

func TestUploadBatchConcurrencyCap(t *testing.T) {
	stub := &stubUploader{delay: 20 * time.Millisecond}
	runner := uploads.NewRunner(uploads.Config{
		Uploader:    stub,
		Concurrency: 2,
		Notifier:    notify.NewRecorder(),
		Logger:      zap.NewNop(),
	})

	ctx, cancel := testutil.TestContext()
	defer cancel()

	files := make([]uploads.NamedFile, 6)
	for i := range files {
		files[i] = uploads.NamedFile{Name: string(rune('a' + i)), Data: strings.NewReader("x")}
	}
	if err := runner.UploadBatch(ctx, files, nil); err != nil {
		t.Fatalf("UploadBatch: %v", err)
	}

	if stub.peak > 2 {
		t.Errorf("peak concurrency = %d, want at most 2", stub.peak)
	}
	if stub.calls != 6 {
		t.Errorf("calls = %d, want 6", stub.calls)
	}
}
