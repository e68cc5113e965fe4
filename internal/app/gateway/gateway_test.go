package gateway_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/dalemusser/stratadrive/internal/app/gateway"
	"github.com/dalemusser/stratadrive/internal/app/system/session"
	"github.com/dalemusser/stratadrive/internal/domain/models"
	"github.com/dalemusser/stratadrive/internal/testutil"
	"go.uber.org/zap"
)

func newClient(t *testing.T, drive *testutil.FakeDrive) *gateway.Client {
	t.Helper()
	c, err := gateway.New(gateway.Config{
		BaseURL: drive.URL(),
		Session: session.NewStatic(testutil.TestToken, zap.NewNop()),
		Logger:  zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestNewRejectsBadConfig(t *testing.T) {
	sess := session.NewStatic(testutil.TestToken, zap.NewNop())

	if _, err := gateway.New(gateway.Config{BaseURL: "not a url", Session: sess}); err == nil {
		t.Error("expected error for malformed base URL")
	}
	if _, err := gateway.New(gateway.Config{BaseURL: "/no-host", Session: sess}); err == nil {
		t.Error("expected error for base URL without scheme and host")
	}
	if _, err := gateway.New(gateway.Config{BaseURL: "https://drive.example.com"}); err == nil {
		t.Error("expected error for missing session provider")
	}
}

func TestListContentsRootAndSubfolder(t *testing.T) {
	drive := testutil.NewFakeDrive(t)
	folder := drive.AddFolder("docs", nil)
	drive.AddFile("notes.txt", 120, "text/plain", nil)
	nested := drive.AddFile("report.pdf", 2048, "application/pdf", &folder.ID)

	client := newClient(t, drive)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	root, err := client.ListContents(ctx, nil, models.DefaultSort)
	if err != nil {
		t.Fatalf("ListContents root: %v", err)
	}
	if len(root) != 2 {
		t.Fatalf("root items = %d, want 2", len(root))
	}
	// name-asc default ordering
	if root[0].Name != "docs" || root[1].Name != "notes.txt" {
		t.Errorf("root order = %q, %q, want docs, notes.txt", root[0].Name, root[1].Name)
	}

	inside, err := client.ListContents(ctx, &folder.ID, models.DefaultSort)
	if err != nil {
		t.Fatalf("ListContents subfolder: %v", err)
	}
	if len(inside) != 1 || inside[0].ID != nested.ID {
		t.Fatalf("subfolder items = %+v, want just %s", inside, nested.ID)
	}
	if inside[0].File == nil || inside[0].File.Size != 2048 {
		t.Errorf("file payload not carried through listing: %+v", inside[0].File)
	}
}

func TestListContentsSortOrders(t *testing.T) {
	drive := testutil.NewFakeDrive(t)
	drive.AddFile("alpha.txt", 1, "text/plain", nil)
	drive.AddFile("zulu.txt", 1, "text/plain", nil)

	client := newClient(t, drive)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	items, err := client.ListContents(ctx, nil, models.SortNameDesc)
	if err != nil {
		t.Fatalf("ListContents: %v", err)
	}
	if items[0].Name != "zulu.txt" {
		t.Errorf("name-desc first item = %q, want zulu.txt", items[0].Name)
	}
}

func TestSearch(t *testing.T) {
	drive := testutil.NewFakeDrive(t)
	drive.AddFile("Quarterly Report.pdf", 10, "application/pdf", nil)
	drive.AddFile("holiday.jpg", 10, "image/jpeg", nil)
	trashed := drive.AddFile("old report.txt", 10, "text/plain", nil)

	client := newClient(t, drive)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := client.Trash(ctx, models.ItemFile, trashed.ID); err != nil {
		t.Fatalf("Trash: %v", err)
	}

	items, err := client.Search(ctx, "report")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Quarterly Report.pdf" {
		t.Fatalf("search results = %+v, want only the active report", items)
	}
}

func TestCreateFolder(t *testing.T) {
	drive := testutil.NewFakeDrive(t)
	client := newClient(t, drive)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := client.CreateFolder(ctx, "projects", nil)
	if err != nil {
		t.Fatalf("CreateFolder: %v", err)
	}
	if created.Type != models.ItemFolder || created.Name != "projects" {
		t.Errorf("created = %+v", created)
	}
	if _, ok := drive.Item(created.ID); !ok {
		t.Error("created folder not stored on server")
	}
}

func TestRename(t *testing.T) {
	drive := testutil.NewFakeDrive(t)
	file := drive.AddFile("draft.txt", 5, "text/plain", nil)

	client := newClient(t, drive)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := client.Rename(ctx, models.ItemFile, file.ID, "final.txt"); err != nil {
		t.Fatalf("Rename: %v", err)
	}
	got, _ := drive.Item(file.ID)
	if got.Name != "final.txt" {
		t.Errorf("name = %q, want final.txt", got.Name)
	}
}

func TestTrashRestorePermanentDelete(t *testing.T) {
	drive := testutil.NewFakeDrive(t)
	file := drive.AddFile("doomed.txt", 5, "text/plain", nil)

	client := newClient(t, drive)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := client.Trash(ctx, models.ItemFile, file.ID); err != nil {
		t.Fatalf("Trash: %v", err)
	}
	if !drive.IsTrashed(file.ID) {
		t.Fatal("item not trashed on server")
	}

	trash, err := client.ListTrash(ctx)
	if err != nil {
		t.Fatalf("ListTrash: %v", err)
	}
	if len(trash) != 1 || trash[0].ID != file.ID {
		t.Fatalf("trash listing = %+v", trash)
	}

	if err := client.Restore(ctx, models.ItemFile, file.ID); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if drive.IsTrashed(file.ID) {
		t.Fatal("item still trashed after restore")
	}

	// permanent delete is only valid for trashed items
	if err := client.PermanentDelete(ctx, models.ItemFile, file.ID); err == nil {
		t.Fatal("expected error deleting an active item permanently")
	}
	if err := client.Trash(ctx, models.ItemFile, file.ID); err != nil {
		t.Fatalf("Trash: %v", err)
	}
	if err := client.PermanentDelete(ctx, models.ItemFile, file.ID); err != nil {
		t.Fatalf("PermanentDelete: %v", err)
	}
	if _, ok := drive.Item(file.ID); ok {
		t.Error("item still present after permanent delete")
	}
}

func TestUpload(t *testing.T) {
	drive := testutil.NewFakeDrive(t)
	folder := drive.AddFolder("inbox", nil)

	client := newClient(t, drive)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	body := "hello, drive"
	created, err := client.Upload(ctx, "greeting.txt", strings.NewReader(body), &folder.ID)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if created.Type != models.ItemFile || created.Name != "greeting.txt" {
		t.Fatalf("created = %+v", created)
	}
	if created.File == nil || created.File.Size != int64(len(body)) {
		t.Errorf("file info = %+v, want size %d", created.File, len(body))
	}
	if created.ParentFolderID == nil || *created.ParentFolderID != folder.ID {
		t.Errorf("parent = %v, want %s", created.ParentFolderID, folder.ID)
	}
}

func TestShare(t *testing.T) {
	drive := testutil.NewFakeDrive(t)
	file := drive.AddFile("plan.txt", 5, "text/plain", nil)

	client := newClient(t, drive)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	msg, err := client.Share(ctx, gateway.ShareInput{
		ItemID:   file.ID,
		ItemType: models.ItemFile,
		Email:    "bob@example.com",
		Role:     models.RoleViewer,
	})
	if err != nil {
		t.Fatalf("Share: %v", err)
	}
	if msg == "" {
		t.Error("expected a confirmation message")
	}

	grants := drive.Grants(file.ID)
	if len(grants) != 1 || grants[0].Email != "bob@example.com" || grants[0].Role != models.RoleViewer {
		t.Fatalf("grants = %+v", grants)
	}

	// sharing again with a different role updates, not duplicates
	if _, err := client.Share(ctx, gateway.ShareInput{
		ItemID:   file.ID,
		ItemType: models.ItemFile,
		Email:    "bob@example.com",
		Role:     models.RoleEditor,
	}); err != nil {
		t.Fatalf("Share update: %v", err)
	}
	grants = drive.Grants(file.ID)
	if len(grants) != 1 || grants[0].Role != models.RoleEditor {
		t.Fatalf("grants after update = %+v", grants)
	}
}

func TestListShared(t *testing.T) {
	drive := testutil.NewFakeDrive(t)
	file := drive.AddFile("shared.txt", 5, "text/plain", nil)
	drive.AddFile("private.txt", 5, "text/plain", nil)
	drive.SeedShared(file.ID)

	client := newClient(t, drive)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	items, err := client.ListShared(ctx)
	if err != nil {
		t.Fatalf("ListShared: %v", err)
	}
	if len(items) != 1 || items[0].ID != file.ID {
		t.Fatalf("shared listing = %+v", items)
	}
}

func TestPublicLink(t *testing.T) {
	drive := testutil.NewFakeDrive(t)
	file := drive.AddFile("photo.jpg", 5, "image/jpeg", nil)
	folder := drive.AddFolder("album", nil)

	client := newClient(t, drive)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	link, err := client.PublicLink(ctx, file.ID)
	if err != nil {
		t.Fatalf("PublicLink: %v", err)
	}
	if link == "" {
		t.Fatal("empty public URL")
	}

	// the link is persistent: asking again returns the same URL
	again, err := client.PublicLink(ctx, file.ID)
	if err != nil {
		t.Fatalf("PublicLink again: %v", err)
	}
	if again != link {
		t.Errorf("second link %q differs from first %q", again, link)
	}

	if _, err := client.PublicLink(ctx, folder.ID); err == nil {
		t.Error("expected error for a folder public link")
	}
}

func TestSignedURL(t *testing.T) {
	drive := testutil.NewFakeDrive(t)
	file := drive.AddFile("video.mp4", 5, "video/mp4", nil)

	client := newClient(t, drive)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u, err := client.SignedURL(ctx, "store/"+file.ID)
	if err != nil {
		t.Fatalf("SignedURL: %v", err)
	}
	if u == "" {
		t.Fatal("empty signed URL")
	}

	if _, err := client.SignedURL(ctx, "store/missing"); err == nil {
		t.Error("expected error for unknown storage path")
	}
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	drive := testutil.NewFakeDrive(t)
	drive.Fail(testutil.OpContents, http.StatusForbidden, "You do not have access to this folder")

	client := newClient(t, drive)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := client.ListContents(ctx, nil, models.DefaultSort)
	if err == nil {
		t.Fatal("expected error")
	}

	var apiErr *gateway.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("error %T is not *APIError", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d, want 403", apiErr.StatusCode)
	}
	if apiErr.Message != "You do not have access to this folder" {
		t.Errorf("message = %q, want server message verbatim", apiErr.Message)
	}
	if got := gateway.UserMessage(err); got != "You do not have access to this folder" {
		t.Errorf("UserMessage = %q", got)
	}
}

func TestInvalidTokenRejected(t *testing.T) {
	drive := testutil.NewFakeDrive(t)
	drive.AddFile("secret.txt", 5, "text/plain", nil)

	client, err := gateway.New(gateway.Config{
		BaseURL: drive.URL(),
		Session: session.NewStatic("wrong-token", zap.NewNop()),
		Logger:  zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err = client.ListContents(ctx, nil, models.DefaultSort)
	var apiErr *gateway.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401 *APIError", err)
	}
}

func TestAuthRequiredShortCircuitsRequest(t *testing.T) {
	drive := testutil.NewFakeDrive(t)

	client, err := gateway.New(gateway.Config{
		BaseURL: drive.URL(),
		Session: session.NewStatic("", zap.NewNop()),
		Logger:  zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err = client.ListContents(ctx, nil, models.DefaultSort)
	if !errors.Is(err, session.ErrAuthRequired) {
		t.Fatalf("err = %v, want ErrAuthRequired", err)
	}
	if drive.TotalRequests() != 0 {
		t.Errorf("server saw %d requests, want 0", drive.TotalRequests())
	}
}
