// Package trash implements the flat recovery view over trashed items.
package trash

import (
	"context"
	"sync"

	"github.com/dalemusser/stratadrive/internal/app/features/browse"
	"github.com/dalemusser/stratadrive/internal/app/gateway"
	"github.com/dalemusser/stratadrive/internal/app/system/notify"
	"github.com/dalemusser/stratadrive/internal/domain/models"
	"go.uber.org/zap"
)

// Gateway is the slice of the remote content API the trash view uses.
// *gateway.Client satisfies it.
type Gateway interface {
	ListTrash(ctx context.Context) ([]models.Item, error)
	Restore(ctx context.Context, itemType models.ItemType, id string) error
	PermanentDelete(ctx context.Context, itemType models.ItemType, id string) error
}

// Controller owns the trash listing. There is no folder descent: the view
// is a flat list of everything trashed, refreshed after each mutation.
// Listing responses commit latest-wins like the browse view.
type Controller struct {
	gw     Gateway
	notify notify.Notifier
	log    *zap.Logger

	mu           sync.Mutex
	listing      browse.Listing
	seq          uint64
	pendingPurge *models.Item
}

// New creates a trash Controller. The first listing is not fetched until
// Refresh is called.
func New(gw Gateway, notifier notify.Notifier, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if notifier == nil {
		notifier = notify.NewLog(log)
	}
	return &Controller{
		gw:      gw,
		notify:  notifier,
		log:     log,
		listing: browse.Listing{Phase: browse.PhaseLoading, Items: []models.Item{}},
	}
}

// Listing returns the current view state.
func (c *Controller) Listing() browse.Listing {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listing
}

// PendingPurge returns the item awaiting permanent-delete confirmation,
// or nil when none is pending.
func (c *Controller) PendingPurge() *models.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingPurge
}

// RequestPurge marks item as awaiting confirmation.
func (c *Controller) RequestPurge(item models.Item) {
	c.mu.Lock()
	c.pendingPurge = &item
	c.mu.Unlock()
}

// CancelPurge clears any pending confirmation.
func (c *Controller) CancelPurge() {
	c.mu.Lock()
	c.pendingPurge = nil
	c.mu.Unlock()
}

// Refresh re-fetches the trash listing, committing only if no newer
// refresh started in the meantime. Failures keep the previous items.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.listing.Phase = browse.PhaseLoading
	c.mu.Unlock()

	items, err := c.gw.ListTrash(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if seq != c.seq {
		return
	}
	if err != nil {
		c.listing.Phase = browse.PhaseFailed
		c.listing.Err = gateway.UserMessage(err)
		return
	}
	if items == nil {
		items = []models.Item{}
	}
	c.listing = browse.Listing{Phase: browse.PhaseReady, Items: items}
}

// Restore clears item's trashed state; the server returns it to its
// original parent folder. The trash listing is refreshed on success.
func (c *Controller) Restore(ctx context.Context, item models.Item) error {
	if err := c.gw.Restore(ctx, item.Type, item.ID); err != nil {
		c.notify.Error("Could not restore: " + gateway.UserMessage(err))
		return err
	}

	c.notify.Success("Restored " + notify.TruncateName(item.Name))
	c.Refresh(ctx)
	return nil
}

// PermanentDelete destroys item irreversibly. On success any pending
// confirmation for it is cleared and the listing is refreshed.
func (c *Controller) PermanentDelete(ctx context.Context, item models.Item) error {
	if err := c.gw.PermanentDelete(ctx, item.Type, item.ID); err != nil {
		c.notify.Error("Could not delete: " + gateway.UserMessage(err))
		return err
	}

	c.mu.Lock()
	if c.pendingPurge != nil && c.pendingPurge.ID == item.ID {
		c.pendingPurge = nil
	}
	c.mu.Unlock()

	c.notify.Success("Deleted " + notify.TruncateName(item.Name) + " forever")
	c.Refresh(ctx)
	return nil
}
