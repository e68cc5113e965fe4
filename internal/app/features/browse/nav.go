// Package browse implements folder navigation, listing coordination, and
// the mutation operations that act on the current view.
//
// NavState tracks where the user is in the folder tree. The Controller
// owns the visible item list and keeps it consistent with the remote
// store: every mutation is a round trip followed by a full re-fetch, and
// when listing responses race only the most recently requested one is
// applied.
package browse

import (
	"fmt"

	"github.com/dalemusser/stratadrive/internal/domain/models"
)

// NavState is the current position in the folder tree. It is a value:
// transitions return a new state and never mutate the receiver, so a
// snapshot taken before an async operation stays stable.
//
// The trail always starts with the synthetic root entry and its last
// element's ID always equals CurrentFolderID.
type NavState struct {
	CurrentFolderID *string
	Trail           []models.Breadcrumb
	SearchQuery     string
}

// NewNavState returns the root navigation state.
func NewNavState() NavState {
	return NavState{
		Trail: []models.Breadcrumb{models.RootBreadcrumb()},
	}
}

// EnterFolder descends into item, pushing it onto the trail and clearing
// any active search. Only folders can be entered.
func (s NavState) EnterFolder(item models.Item) (NavState, error) {
	if item.Type != models.ItemFolder {
		return s, fmt.Errorf("cannot enter %q: not a folder", item.Name)
	}

	id := item.ID
	trail := make([]models.Breadcrumb, len(s.Trail), len(s.Trail)+1)
	copy(trail, s.Trail)
	trail = append(trail, models.Breadcrumb{ID: &id, Name: item.Name})

	return NavState{
		CurrentFolderID: &id,
		Trail:           trail,
	}, nil
}

// JumpToBreadcrumb truncates the trail so index is the last entry and
// moves there, clearing any active search.
func (s NavState) JumpToBreadcrumb(index int) (NavState, error) {
	if index < 0 || index >= len(s.Trail) {
		return s, fmt.Errorf("breadcrumb index %d out of range [0,%d)", index, len(s.Trail))
	}

	trail := make([]models.Breadcrumb, index+1)
	copy(trail, s.Trail[:index+1])

	return NavState{
		CurrentFolderID: trail[index].ID,
		Trail:           trail,
	}, nil
}

// SetSearchQuery sets the search override. The folder position and trail
// are untouched so clearing the query returns to the prior folder view.
func (s NavState) SetSearchQuery(q string) NavState {
	s.SearchQuery = q
	return s
}

// Searching reports whether the search override is active.
func (s NavState) Searching() bool {
	return s.SearchQuery != ""
}
