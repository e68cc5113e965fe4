package testutil

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/stratadrive/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// Logical operation names used for request counting and failure injection.
const (
	OpContents        = "contents"
	OpSearch          = "search"
	OpTrashList       = "trash_list"
	OpSharedList      = "shared_list"
	OpCreateFolder    = "create_folder"
	OpRename          = "rename"
	OpTrash           = "trash"
	OpRestore         = "restore"
	OpPermanentDelete = "permanent_delete"
	OpUpload          = "upload"
	OpShare           = "share"
	OpPublicLink      = "public_link"
	OpSignedURL       = "signed_url"
)

// record is one stored item plus its server-side lifecycle state.
type record struct {
	item      models.Item
	trashed   bool
	grants    []models.ShareGrant
	publicURL string
}

// failure is an injected error response for one operation.
type failure struct {
	status  int
	message string
}

// FakeDrive is an in-memory implementation of the remote content API used
// by tests. It enforces bearer auth, tracks request counts per operation,
// and lets tests inject failures and block requests mid-flight.
type FakeDrive struct {
	mu       sync.Mutex
	records  map[string]*record // keyed by item ID
	shared   map[string]bool    // item IDs listed by /files/shared-with-me
	token    string
	requests map[string]int
	failures map[string]failure

	// hook, when set, runs inside the handler for the named operation
	// after the failure check and before the response is built. Tests use
	// it to hold a request in flight.
	hook func(op string)

	server *httptest.Server
}

// NewFakeDrive starts a fake drive server. It is shut down via t.Cleanup.
func NewFakeDrive(t *testing.T) *FakeDrive {
	t.Helper()

	f := &FakeDrive{
		records:  make(map[string]*record),
		shared:   make(map[string]bool),
		token:    TestToken,
		requests: make(map[string]int),
		failures: make(map[string]failure),
	}

	r := chi.NewRouter()
	r.Use(f.requireBearer)
	r.Get("/files/contents", f.handleContents)
	r.Get("/files/search", f.handleSearch)
	r.Get("/files/trash", f.handleTrashList)
	r.Get("/files/shared-with-me", f.handleSharedList)
	r.Post("/files/folders", f.handleCreateFolder)
	r.Patch("/files/{type}/{id}", f.handleRename)
	r.Post("/files/{type}/{id}/trash", f.handleTrash)
	r.Post("/files/{type}/{id}/restore", f.handleRestore)
	r.Delete("/files/{type}/{id}/permanent", f.handlePermanentDelete)
	r.Post("/files/upload", f.handleUpload)
	r.Post("/files/share", f.handleShare)
	r.Get("/files/{id}/public-link", f.handlePublicLink)
	r.Post("/files/signed-url", f.handleSignedURL)

	f.server = httptest.NewServer(r)
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the base URL of the fake server.
func (f *FakeDrive) URL() string { return f.server.URL }

// SetToken changes the bearer token the server accepts.
func (f *FakeDrive) SetToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

// AddFolder seeds a folder and returns it. A nil parent means root.
func (f *FakeDrive) AddFolder(name string, parent *string) models.Item {
	item := models.Item{
		ID:             uuid.NewString(),
		Type:           models.ItemFolder,
		Name:           name,
		CreatedAt:      time.Now().UTC(),
		ParentFolderID: parent,
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[item.ID] = &record{item: item}
	return item
}

// AddFile seeds a file and returns it. A nil parent means root.
func (f *FakeDrive) AddFile(name string, size int64, fileType string, parent *string) models.Item {
	id := uuid.NewString()
	item := models.Item{
		ID:             id,
		Type:           models.ItemFile,
		Name:           name,
		CreatedAt:      time.Now().UTC(),
		ParentFolderID: parent,
		File: &models.FileInfo{
			Size:        size,
			FileType:    fileType,
			StoragePath: "store/" + id,
		},
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[item.ID] = &record{item: item}
	return item
}

// SeedShared marks an existing item as shared with the caller so it shows
// up in the shared-with-me listing.
func (f *FakeDrive) SeedShared(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.shared[id] = true
}

// Item returns a copy of a stored item and whether it exists.
func (f *FakeDrive) Item(id string) (models.Item, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return models.Item{}, false
	}
	return rec.item, true
}

// IsTrashed reports whether a stored item is in the trashed state.
func (f *FakeDrive) IsTrashed(id string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	return ok && rec.trashed
}

// Grants returns the share grants recorded for an item.
func (f *FakeDrive) Grants(id string) []models.ShareGrant {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		return nil
	}
	return append([]models.ShareGrant(nil), rec.grants...)
}

// RequestCount returns how many requests the named operation received.
func (f *FakeDrive) RequestCount(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[op]
}

// TotalRequests returns the number of requests across all operations.
func (f *FakeDrive) TotalRequests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.requests {
		total += n
	}
	return total
}

// ResetCounts clears all request counters.
func (f *FakeDrive) ResetCounts() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = make(map[string]int)
}

// Fail makes the named operation return the given error response until
// ClearFail is called.
func (f *FakeDrive) Fail(op string, status int, message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op] = failure{status: status, message: message}
}

// ClearFail removes an injected failure.
func (f *FakeDrive) ClearFail(op string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, op)
}

// SetHook installs fn to run inside handlers for all operations. Pass nil
// to remove it.
func (f *FakeDrive) SetHook(fn func(op string)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hook = fn
}

// begin records the request, applies any injected failure, and runs the
// hook. It returns false if a failure response was written.
func (f *FakeDrive) begin(w http.ResponseWriter, op string) bool {
	f.mu.Lock()
	f.requests[op]++
	fail, failing := f.failures[op]
	hook := f.hook
	f.mu.Unlock()

	if failing {
		writeError(w, fail.status, fail.message)
		return false
	}
	if hook != nil {
		hook(op)
	}
	return true
}

// requireBearer rejects requests without the expected bearer token.
func (f *FakeDrive) requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		want := "Bearer " + f.token
		f.mu.Unlock()

		if r.Header.Get("Authorization") != want {
			writeError(w, http.StatusUnauthorized, "invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}
