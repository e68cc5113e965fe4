package browse

import "github.com/dalemusser/stratadrive/internal/domain/models"

// Phase is the lifecycle state of a listing.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
	PhaseFailed  Phase = "failed"
)

// Listing is what a view renders. Items always holds the last good
// result: a failed or in-flight refresh leaves the previous items on
// screen rather than blanking them.
type Listing struct {
	Phase Phase
	Items []models.Item

	// Err is the user-facing reason for the most recent failure. Only
	// meaningful when Phase is PhaseFailed.
	Err string
}
