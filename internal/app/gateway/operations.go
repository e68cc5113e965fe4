package gateway

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/dalemusser/stratadrive/internal/domain/models"
)

// ListContents lists active items in a folder. A nil folderID means root.
func (c *Client) ListContents(ctx context.Context, folderID *string, sort models.SortOption) ([]models.Item, error) {
	sortBy, sortOrder := sort.Split()
	query := url.Values{
		"sortBy":    {sortBy},
		"sortOrder": {sortOrder},
	}
	if folderID != nil {
		query.Set("folderId", *folderID)
	}

	var items []models.Item
	if err := c.getJSON(ctx, "/files/contents", query, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Search returns a flat, folder-independent result across active items.
// Ordering is the server default; no sort parameters are applied.
func (c *Client) Search(ctx context.Context, q string) ([]models.Item, error) {
	var items []models.Item
	if err := c.getJSON(ctx, "/files/search", url.Values{"q": {q}}, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListTrash lists trashed items owned by the caller.
func (c *Client) ListTrash(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := c.getJSON(ctx, "/files/trash", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListShared lists items shared with the caller.
func (c *Client) ListShared(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	if err := c.getJSON(ctx, "/files/shared-with-me", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// CreateFolder creates a folder under parentFolderID (nil means root).
func (c *Client) CreateFolder(ctx context.Context, name string, parentFolderID *string) (*models.Item, error) {
	body := struct {
		Name           string  `json:"name"`
		ParentFolderID *string `json:"parentFolderId"`
	}{Name: name, ParentFolderID: parentFolderID}

	var created models.Item
	if err := c.postJSON(ctx, http.MethodPost, "/files/folders", body, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Rename changes an item's display name. The item keeps its identity.
func (c *Client) Rename(ctx context.Context, itemType models.ItemType, id, name string) error {
	body := struct {
		Name string `json:"name"`
	}{Name: name}
	return c.postJSON(ctx, http.MethodPatch, itemPath(itemType, id), body, nil)
}

// Trash soft-deletes an item. It remains referenceable and shows up in the
// trash listing until restored or permanently deleted.
func (c *Client) Trash(ctx context.Context, itemType models.ItemType, id string) error {
	return c.postJSON(ctx, http.MethodPost, itemPath(itemType, id)+"/trash", nil, nil)
}

// Restore clears an item's trashed state; the server puts it back in its
// original parent folder.
func (c *Client) Restore(ctx context.Context, itemType models.ItemType, id string) error {
	return c.postJSON(ctx, http.MethodPost, itemPath(itemType, id)+"/restore", nil, nil)
}

// PermanentDelete destroys a trashed item irreversibly.
func (c *Client) PermanentDelete(ctx context.Context, itemType models.ItemType, id string) error {
	return c.postJSON(ctx, http.MethodDelete, itemPath(itemType, id)+"/permanent", nil, nil)
}

// Upload stores one file in the target folder (nil folderID means root).
// The body is streamed; r is read exactly once.
func (c *Client) Upload(ctx context.Context, name string, r io.Reader, folderID *string) (*models.Item, error) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		part, err := mw.CreateFormFile("file", name)
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, r); err != nil {
			pw.CloseWithError(err)
			return
		}
		if folderID != nil {
			if err := mw.WriteField("folderId", *folderID); err != nil {
				pw.CloseWithError(err)
				return
			}
		}
		pw.CloseWithError(mw.Close())
	}()

	req, err := c.newRequest(ctx, http.MethodPost, "/files/upload", nil, pr)
	if err != nil {
		pr.CloseWithError(err)
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var created models.Item
	if err := c.doJSON(req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// ShareInput is the request to grant or update access for a principal.
type ShareInput struct {
	ItemID   string          `json:"itemId"`
	ItemType models.ItemType `json:"itemType"`
	Email    string          `json:"email"`
	Role     models.Role     `json:"role"`
}

// Share grants or updates a principal's role on an item. On success the
// server's confirmation message is returned for display.
func (c *Client) Share(ctx context.Context, in ShareInput) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	if err := c.postJSON(ctx, http.MethodPost, "/files/share", in, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

// PublicLink mints or retrieves the persistent public URL for a file.
// The server rejects folders; callers should filter those out first.
func (c *Client) PublicLink(ctx context.Context, fileID string) (string, error) {
	var out struct {
		PublicURL string `json:"publicUrl"`
	}
	if err := c.getJSON(ctx, "/files/"+url.PathEscape(fileID)+"/public-link", nil, &out); err != nil {
		return "", err
	}
	return out.PublicURL, nil
}

// SignedURL mints a short-lived direct-access URL for a file's backend
// storage path, used for preview and download.
func (c *Client) SignedURL(ctx context.Context, storagePath string) (string, error) {
	body := struct {
		Path string `json:"path"`
	}{Path: storagePath}

	var out struct {
		SignedURL string `json:"signedUrl"`
	}
	if err := c.postJSON(ctx, http.MethodPost, "/files/signed-url", body, &out); err != nil {
		return "", err
	}
	return out.SignedURL, nil
}

func itemPath(itemType models.ItemType, id string) string {
	return fmt.Sprintf("/files/%s/%s", itemType, url.PathEscape(id))
}
