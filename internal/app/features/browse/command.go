package browse

import (
	"context"
	"fmt"

	"github.com/dalemusser/stratadrive/internal/app/features/uploads"
	"github.com/dalemusser/stratadrive/internal/domain/models"
)

// Command is a presentation-independent action against the browse view.
// Shells translate user input into these messages and hand them to Apply.
type Command interface {
	isCommand()
}

// EnterFolderCmd descends into a folder item.
type EnterFolderCmd struct{ Item models.Item }

// JumpToCmd moves back to a breadcrumb by index.
type JumpToCmd struct{ Index int }

// SetQueryCmd sets or clears the search override.
type SetQueryCmd struct{ Query string }

// SetSortCmd changes the sort selector.
type SetSortCmd struct{ Sort models.SortOption }

// RenameCmd renames an item.
type RenameCmd struct {
	Item models.Item
	Name string
}

// CreateFolderCmd creates a folder under the current location.
type CreateFolderCmd struct{ Name string }

// SoftDeleteCmd moves an item to the trash.
type SoftDeleteCmd struct{ Item models.Item }

// UploadCmd uploads a batch of files into the current folder.
type UploadCmd struct{ Files []uploads.NamedFile }

// RefreshCmd re-fetches the current listing.
type RefreshCmd struct{}

func (EnterFolderCmd) isCommand()  {}
func (JumpToCmd) isCommand()       {}
func (SetQueryCmd) isCommand()     {}
func (SetSortCmd) isCommand()      {}
func (RenameCmd) isCommand()       {}
func (CreateFolderCmd) isCommand() {}
func (SoftDeleteCmd) isCommand()   {}
func (UploadCmd) isCommand()       {}
func (RefreshCmd) isCommand()      {}

// Apply executes one command against the controller.
func (c *Controller) Apply(ctx context.Context, cmd Command) error {
	switch cmd := cmd.(type) {
	case EnterFolderCmd:
		return c.EnterFolder(ctx, cmd.Item)
	case JumpToCmd:
		return c.JumpToBreadcrumb(ctx, cmd.Index)
	case SetQueryCmd:
		c.SetSearchQuery(ctx, cmd.Query)
		return nil
	case SetSortCmd:
		c.SetSort(ctx, cmd.Sort)
		return nil
	case RenameCmd:
		return c.Rename(ctx, cmd.Item, cmd.Name)
	case CreateFolderCmd:
		return c.CreateFolder(ctx, cmd.Name)
	case SoftDeleteCmd:
		return c.SoftDelete(ctx, cmd.Item)
	case UploadCmd:
		return c.Upload(ctx, cmd.Files)
	case RefreshCmd:
		c.Refresh(ctx)
		return nil
	default:
		return fmt.Errorf("browse: unknown command %T", cmd)
	}
}
