// Package shared implements the flat view over items shared with the
// caller.
package shared

import (
	"context"
	"fmt"
	"sync"

	"github.com/dalemusser/stratadrive/internal/app/features/browse"
	"github.com/dalemusser/stratadrive/internal/app/gateway"
	"github.com/dalemusser/stratadrive/internal/app/system/notify"
	"github.com/dalemusser/stratadrive/internal/domain/models"
	"go.uber.org/zap"
)

// Gateway is the slice of the remote content API the shared view uses.
// *gateway.Client satisfies it.
type Gateway interface {
	ListShared(ctx context.Context) ([]models.Item, error)
}

// Controller owns the shared-with-me listing. Descending into a shared
// folder is not handled here: EnterSharedFolder hands a seeded navigation
// state back to the browse view, the one cross-context transition in the
// system.
type Controller struct {
	gw     Gateway
	notify notify.Notifier
	log    *zap.Logger

	mu      sync.Mutex
	listing browse.Listing
	seq     uint64
}

// New creates a shared-view Controller. The first listing is not fetched
// until Refresh is called.
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

// Refresh re-fetches the shared listing, committing only if no newer
// refresh started in the meantime. Failures keep the previous items.
func (c *Controller) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.listing.Phase = browse.PhaseLoading
	c.mu.Unlock()

	items, err := c.gw.ListShared(ctx)

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

// EnterSharedFolder builds the navigation state the browse view should
// adopt when the user descends into a shared folder: the trail becomes
// root followed by that folder, with no search override. The caller
// installs it on the browse controller and refreshes there.
func EnterSharedFolder(item models.Item) (browse.NavState, error) {
	if item.Type != models.ItemFolder {
		return browse.NavState{}, fmt.Errorf("cannot enter %q: not a folder", item.Name)
	}
	return browse.NewNavState().EnterFolder(item)
}
