package shared_test

import (
	"testing"

	"github.com/dalemusser/stratadrive/internal/app/features/browse"
	"github.com/dalemusser/stratadrive/internal/app/features/shared"
	"github.com/dalemusser/stratadrive/internal/app/gateway"
	"github.com/dalemusser/stratadrive/internal/app/system/notify"
	"github.com/dalemusser/stratadrive/internal/app/system/session"
	"github.com/dalemusser/stratadrive/internal/domain/models"
	"github.com/dalemusser/stratadrive/internal/testutil"
	"go.uber.org/zap"
)

func newFixture(t *testing.T, drive *testutil.FakeDrive) (*gateway.Client, *shared.Controller) {
	t.Helper()
	client, err := gateway.New(gateway.Config{
		BaseURL: drive.URL(),
		Session: session.NewStatic(testutil.TestToken, zap.NewNop()),
		Logger:  zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("gateway.New: %v", err)
	}
	return client, shared.New(client, notify.NewRecorder(), zap.NewNop())
}

func TestSharedListing(t *testing.T) {
	drive := testutil.NewFakeDrive(t)
	folder := drive.AddFolder("Team Docs", nil)
	drive.AddFile("private.txt", 7, "text/plain", nil)
	drive.SeedShared(folder.ID)

	_, ctrl := newFixture(t, drive)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ctrl.Refresh(ctx)
	l := ctrl.Listing()
	if l.Phase != browse.PhaseReady || len(l.Items) != 1 || l.Items[0].ID != folder.ID {
		t.Fatalf("shared listing = %+v", l)
	}
}

func TestEnterSharedFolderSeedsBrowseState(t *testing.T) {
	drive := testutil.NewFakeDrive(t)
	folder := drive.AddFolder("Team Docs", nil)
	inside := drive.AddFile("roadmap.txt", 7, "text/plain", &folder.ID)
	drive.SeedShared(folder.ID)

	client, ctrl := newFixture(t, drive)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ctrl.Refresh(ctx)
	entry := ctrl.Listing().Items[0]

	nav, err := shared.EnterSharedFolder(entry)
	if err != nil {
		t.Fatalf("EnterSharedFolder: %v", err)
	}
	if len(nav.Trail) != 2 || nav.Trail[0].Name != models.RootFolderName || nav.Trail[1].Name != "Team Docs" {
		t.Fatalf("trail = %+v, want [My Files, Team Docs]", nav.Trail)
	}
	if nav.CurrentFolderID == nil || *nav.CurrentFolderID != folder.ID {
		t.Errorf("current folder = %v, want %s", nav.CurrentFolderID, folder.ID)
	}
	if nav.Searching() {
		t.Error("seeded state has a search override")
	}

	// the browse controller adopts the seeded state and lists the folder
	b := browse.New(browse.Config{
		Gateway:  client,
		Notifier: notify.NewRecorder(),
		Logger:   zap.NewNop(),
	})
	b.SetNav(nav)
	b.Refresh(ctx)

	l := b.Listing()
	if l.Phase != browse.PhaseReady || len(l.Items) != 1 || l.Items[0].ID != inside.ID {
		t.Fatalf("browse listing = %+v", l)
	}
}

func TestEnterSharedFileRejected(t *testing.T) {
	file := models.Item{ID: "a1", Type: models.ItemFile, Name: "a.txt"}
	if _, err := shared.EnterSharedFolder(file); err == nil {
		t.Error("expected error for a file")
	}
}
