package browse

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dalemusser/stratadrive/internal/app/features/uploads"
	"github.com/dalemusser/stratadrive/internal/app/gateway"
	"github.com/dalemusser/stratadrive/internal/app/system/notify"
	"github.com/dalemusser/stratadrive/internal/domain/models"
	"go.uber.org/zap"
)

// Gateway is the slice of the remote content API the browse feature uses.
// *gateway.Client satisfies it.
type Gateway interface {
	ListContents(ctx context.Context, folderID *string, sort models.SortOption) ([]models.Item, error)
	Search(ctx context.Context, q string) ([]models.Item, error)
	CreateFolder(ctx context.Context, name string, parentFolderID *string) (*models.Item, error)
	Rename(ctx context.Context, itemType models.ItemType, id, name string) error
	Trash(ctx context.Context, itemType models.ItemType, id string) error
}

// FileOpener mints a direct-access URL for a file item.
type FileOpener interface {
	OpenFile(ctx context.Context, item models.Item) (string, error)
}

// BatchUploader runs a batch of uploads and triggers its own refresh when
// the batch settles.
type BatchUploader interface {
	UploadBatch(ctx context.Context, files []uploads.NamedFile, folderID *string) error
}

// Config holds Controller dependencies.
type Config struct {
	Gateway  Gateway
	Uploader BatchUploader // optional; Upload commands fail without it
	Opener   FileOpener    // optional; OpenFile fails without it
	Notifier notify.Notifier
	Logger   *zap.Logger
	Sort     models.SortOption // zero value uses models.DefaultSort
}

// Controller owns the navigation state and the visible listing for the
// main browsing view. All methods are safe for concurrent use; listing
// responses are committed latest-wins so a stale response is discarded,
// never applied over a newer one.
type Controller struct {
	gw       Gateway
	uploader BatchUploader
	opener   FileOpener
	notifier notify.Notifier
	log      *zap.Logger

	mu            sync.Mutex
	nav           NavState
	sort          models.SortOption
	listing       Listing
	seq           uint64
	pendingDelete *models.Item
}

// New creates a browse Controller positioned at the root. The first
// listing is not fetched until Refresh is called.
func New(cfg Config) *Controller {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Notifier == nil {
		cfg.Notifier = notify.NewLog(cfg.Logger)
	}
	sort := cfg.Sort
	if sort == "" {
		sort = models.DefaultSort
	}
	return &Controller{
		gw:       cfg.Gateway,
		uploader: cfg.Uploader,
		opener:   cfg.Opener,
		notifier: cfg.Notifier,
		log:      cfg.Logger,
		nav:      NewNavState(),
		sort:     sort,
		listing:  Listing{Phase: PhaseLoading, Items: []models.Item{}},
	}
}

// SetNav replaces the navigation state wholesale. Used when another view
// hands control back with a seeded position (entering a shared folder).
func (c *Controller) SetNav(nav NavState) {
	c.mu.Lock()
	c.nav = nav
	c.mu.Unlock()
}

// Nav returns the current navigation state.
func (c *Controller) Nav() NavState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.nav
}

// Sort returns the active sort selector.
func (c *Controller) Sort() models.SortOption {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sort
}

// Listing returns the current view state.
func (c *Controller) Listing() Listing {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listing
}

// PendingDelete returns the item awaiting soft-delete confirmation, or
// nil when none is pending.
func (c *Controller) PendingDelete() *models.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingDelete
}

// RequestSoftDelete marks item as awaiting confirmation.
func (c *Controller) RequestSoftDelete(item models.Item) {
	c.mu.Lock()
	c.pendingDelete = &item
	c.mu.Unlock()
}

// CancelSoftDelete clears any pending confirmation.
func (c *Controller) CancelSoftDelete() {
	c.mu.Lock()
	c.pendingDelete = nil
	c.mu.Unlock()
}

// Refresh re-fetches the listing for the current navigation and sort.
// When a search query is active it issues a flat search instead of a
// folder listing. The result is committed only if no newer refresh has
// started in the meantime.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	nav := c.nav
	sort := c.sort
	c.seq++
	seq := c.seq
	c.listing.Phase = PhaseLoading
	c.mu.Unlock()

	var (
		items []models.Item
		err   error
	)
	if nav.Searching() {
		items, err = c.gw.Search(ctx, nav.SearchQuery)
	} else {
		items, err = c.gw.ListContents(ctx, nav.CurrentFolderID, sort)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		c.log.Debug("discarding superseded listing response",
			zap.Uint64("seq", seq),
			zap.Uint64("latest", c.seq))
		return
	}
	if err != nil {
		c.listing.Phase = PhaseFailed
		c.listing.Err = gateway.UserMessage(err)
		return
	}
	if items == nil {
		items = []models.Item{}
	}
	c.listing = Listing{Phase: PhaseReady, Items: items}
}

// EnterFolder descends into item and refreshes.
func (c *Controller) EnterFolder(ctx context.Context, item models.Item) error {
	c.mu.Lock()
	next, err := c.nav.EnterFolder(item)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.nav = next
	c.mu.Unlock()

	c.Refresh(ctx)
	return nil
}

// JumpToBreadcrumb moves back up the trail and refreshes.
func (c *Controller) JumpToBreadcrumb(ctx context.Context, index int) error {
	c.mu.Lock()
	next, err := c.nav.JumpToBreadcrumb(index)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.nav = next
	c.mu.Unlock()

	c.Refresh(ctx)
	return nil
}

// SetSearchQuery updates the search override and refreshes. Clearing the
// query returns to the folder that was active before the search.
func (c *Controller) SetSearchQuery(ctx context.Context, q string) {
	c.mu.Lock()
	c.nav = c.nav.SetSearchQuery(q)
	c.mu.Unlock()

	c.Refresh(ctx)
}

// SetSort changes the sort selector and refreshes.
func (c *Controller) SetSort(ctx context.Context, sort models.SortOption) {
	c.mu.Lock()
	c.sort = sort
	c.mu.Unlock()

	c.Refresh(ctx)
}

// Rename changes item's display name. An empty or unchanged name is a
// no-op with zero requests. The local list is never patched; on success
// the refresh picks up the new name from the server.
func (c *Controller) Rename(ctx context.Context, item models.Item, newName string) error {
	name := strings.TrimSpace(newName)
	if name == "" || name == item.Name {
		return nil
	}

	if err := c.gw.Rename(ctx, item.Type, item.ID, name); err != nil {
		c.notifier.Error("Rename failed: " + gateway.UserMessage(err))
		return err
	}

	c.notifier.Success("Renamed to " + notify.TruncateName(name))
	c.Refresh(ctx)
	return nil
}

// CreateFolder creates a folder under the current location. An empty name
// is a no-op with zero requests.
func (c *Controller) CreateFolder(ctx context.Context, name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil
	}

	c.mu.Lock()
	parent := c.nav.CurrentFolderID
	c.mu.Unlock()

	if _, err := c.gw.CreateFolder(ctx, trimmed, parent); err != nil {
		c.notifier.Error("Could not create folder: " + gateway.UserMessage(err))
		return err
	}

	c.notifier.Success("Created folder " + notify.TruncateName(trimmed))
	c.Refresh(ctx)
	return nil
}

// SoftDelete moves item to the trash. On success any pending confirmation
// for it is cleared and the listing is refreshed.
func (c *Controller) SoftDelete(ctx context.Context, item models.Item) error {
	if err := c.gw.Trash(ctx, item.Type, item.ID); err != nil {
		c.notifier.Error("Could not move to trash: " + gateway.UserMessage(err))
		return err
	}

	c.mu.Lock()
	if c.pendingDelete != nil && c.pendingDelete.ID == item.ID {
		c.pendingDelete = nil
	}
	c.mu.Unlock()

	c.notifier.Success("Moved " + notify.TruncateName(item.Name) + " to trash")
	c.Refresh(ctx)
	return nil
}

// OpenFile mints a direct-access URL for item. Navigation state is never
// altered, even on failure.
func (c *Controller) OpenFile(ctx context.Context, item models.Item) (string, error) {
	if c.opener == nil {
		return "", errors.New("browse: no file opener configured")
	}
	return c.opener.OpenFile(ctx, item)
}

// Upload runs a batch upload into the current folder. The uploader
// triggers its own single refresh when the batch settles.
func (c *Controller) Upload(ctx context.Context, files []uploads.NamedFile) error {
	if c.uploader == nil {
		return errors.New("browse: no uploader configured")
	}

	c.mu.Lock()
	target := c.nav.CurrentFolderID
	c.mu.Unlock()

	return c.uploader.UploadBatch(ctx, files, target)
}
