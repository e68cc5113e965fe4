package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/stratadrive/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// sameParent compares an item's parent against the requested folder scope.
func sameParent(item models.Item, folderID *string) bool {
	if folderID == nil {
		return item.ParentFolderID == nil
	}
	return item.ParentFolderID != nil && *item.ParentFolderID == *folderID
}

func sortItems(items []models.Item, sortBy, sortOrder string) {
	less := func(a, b models.Item) bool {
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}
	if sortBy == "date" {
		less = func(a, b models.Item) bool {
			return a.CreatedAt.Before(b.CreatedAt)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if sortOrder == "desc" {
			return less(items[j], items[i])
		}
		return less(items[i], items[j])
	})
}

func (f *FakeDrive) handleContents(w http.ResponseWriter, r *http.Request) {
	if !f.begin(w, OpContents) {
		return
	}

	var folderID *string
	if r.URL.Query().Has("folderId") {
		id := r.URL.Query().Get("folderId")
		folderID = &id
	}

	f.mu.Lock()
	items := make([]models.Item, 0)
	for _, rec := range f.records {
		if !rec.trashed && sameParent(rec.item, folderID) {
			items = append(items, rec.item)
		}
	}
	f.mu.Unlock()

	sortItems(items, r.URL.Query().Get("sortBy"), r.URL.Query().Get("sortOrder"))
	writeJSON(w, http.StatusOK, items)
}

func (f *FakeDrive) handleSearch(w http.ResponseWriter, r *http.Request) {
	if !f.begin(w, OpSearch) {
		return
	}

	q := strings.ToLower(r.URL.Query().Get("q"))

	f.mu.Lock()
	items := make([]models.Item, 0)
	for _, rec := range f.records {
		if !rec.trashed && q != "" && strings.Contains(strings.ToLower(rec.item.Name), q) {
			items = append(items, rec.item)
		}
	}
	f.mu.Unlock()

	sortItems(items, "name", "asc") // server-default ordering
	writeJSON(w, http.StatusOK, items)
}

func (f *FakeDrive) handleTrashList(w http.ResponseWriter, r *http.Request) {
	if !f.begin(w, OpTrashList) {
		return
	}

	f.mu.Lock()
	items := make([]models.Item, 0)
	for _, rec := range f.records {
		if rec.trashed {
			items = append(items, rec.item)
		}
	}
	f.mu.Unlock()

	sortItems(items, "name", "asc")
	writeJSON(w, http.StatusOK, items)
}

func (f *FakeDrive) handleSharedList(w http.ResponseWriter, r *http.Request) {
	if !f.begin(w, OpSharedList) {
		return
	}

	f.mu.Lock()
	items := make([]models.Item, 0)
	for id, rec := range f.records {
		if rec.trashed {
			continue
		}
		if f.shared[id] || len(rec.grants) > 0 {
			items = append(items, rec.item)
		}
	}
	f.mu.Unlock()

	sortItems(items, "name", "asc")
	writeJSON(w, http.StatusOK, items)
}

func (f *FakeDrive) handleCreateFolder(w http.ResponseWriter, r *http.Request) {
	if !f.begin(w, OpCreateFolder) {
		return
	}

	var in struct {
		Name           string  `json:"name"`
		ParentFolderID *string `json:"parentFolderId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		writeError(w, http.StatusBadRequest, "folder name is required")
		return
	}

	item := models.Item{
		ID:             uuid.NewString(),
		Type:           models.ItemFolder,
		Name:           in.Name,
		CreatedAt:      time.Now().UTC(),
		ParentFolderID: in.ParentFolderID,
	}

	f.mu.Lock()
	f.records[item.ID] = &record{item: item}
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, item)
}

// lookup finds an active-or-trashed record matching the path type and id.
// Caller must hold f.mu.
func (f *FakeDrive) lookup(itemType, id string) *record {
	rec, ok := f.records[id]
	if !ok || string(rec.item.Type) != itemType {
		return nil
	}
	return rec
}

func (f *FakeDrive) handleRename(w http.ResponseWriter, r *http.Request) {
	if !f.begin(w, OpRename) {
		return
	}

	var in struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || strings.TrimSpace(in.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.lookup(chi.URLParam(r, "type"), chi.URLParam(r, "id"))
	if rec == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	rec.item.Name = in.Name
	writeJSON(w, http.StatusOK, rec.item)
}

func (f *FakeDrive) handleTrash(w http.ResponseWriter, r *http.Request) {
	if !f.begin(w, OpTrash) {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.lookup(chi.URLParam(r, "type"), chi.URLParam(r, "id"))
	if rec == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	rec.trashed = true
	writeJSON(w, http.StatusOK, map[string]string{"message": "moved to trash"})
}

func (f *FakeDrive) handleRestore(w http.ResponseWriter, r *http.Request) {
	if !f.begin(w, OpRestore) {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.lookup(chi.URLParam(r, "type"), chi.URLParam(r, "id"))
	if rec == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if !rec.trashed {
		writeError(w, http.StatusBadRequest, "item is not in trash")
		return
	}
	rec.trashed = false
	writeJSON(w, http.StatusOK, map[string]string{"message": "restored"})
}

func (f *FakeDrive) handlePermanentDelete(w http.ResponseWriter, r *http.Request) {
	if !f.begin(w, OpPermanentDelete) {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.lookup(chi.URLParam(r, "type"), chi.URLParam(r, "id"))
	if rec == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	if !rec.trashed {
		writeError(w, http.StatusBadRequest, "item must be in trash before permanent deletion")
		return
	}
	delete(f.records, rec.item.ID)
	delete(f.shared, rec.item.ID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted forever"})
}

func (f *FakeDrive) handleUpload(w http.ResponseWriter, r *http.Request) {
	if !f.begin(w, OpUpload) {
		return
	}

	mr, err := r.MultipartReader()
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart body required")
		return
	}

	var (
		name     string
		fileType string
		size     int64
		folderID *string
		gotFile  bool
	)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, "malformed multipart body")
			return
		}
		switch part.FormName() {
		case "file":
			gotFile = true
			name = part.FileName()
			fileType = part.Header.Get("Content-Type")
			n, err := io.Copy(io.Discard, part)
			if err != nil {
				writeError(w, http.StatusBadRequest, "reading file failed")
				return
			}
			size = n
		case "folderId":
			buf, _ := io.ReadAll(part)
			id := string(buf)
			folderID = &id
		}
	}
	if !gotFile || name == "" {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	if fileType == "" {
		fileType = "application/octet-stream"
	}

	id := uuid.NewString()
	item := models.Item{
		ID:             id,
		Type:           models.ItemFile,
		Name:           name,
		CreatedAt:      time.Now().UTC(),
		ParentFolderID: folderID,
		File: &models.FileInfo{
			Size:        size,
			FileType:    fileType,
			StoragePath: "store/" + id,
		},
	}

	f.mu.Lock()
	f.records[id] = &record{item: item}
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, item)
}

func (f *FakeDrive) handleShare(w http.ResponseWriter, r *http.Request) {
	if !f.begin(w, OpShare) {
		return
	}

	var in struct {
		ItemID   string          `json:"itemId"`
		ItemType models.ItemType `json:"itemType"`
		Email    string          `json:"email"`
		Role     models.Role     `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Email == "" || !in.Role.IsValid() {
		writeError(w, http.StatusBadRequest, "email and role are required")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	rec := f.lookup(string(in.ItemType), in.ItemID)
	if rec == nil {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}

	updated := false
	for i := range rec.grants {
		if rec.grants[i].Email == in.Email {
			rec.grants[i].Role = in.Role
			updated = true
			break
		}
	}
	if !updated {
		rec.grants = append(rec.grants, models.ShareGrant{Email: in.Email, Role: in.Role})
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Shared with " + in.Email + " as " + string(in.Role),
	})
}

func (f *FakeDrive) handlePublicLink(w http.ResponseWriter, r *http.Request) {
	if !f.begin(w, OpPublicLink) {
		return
	}

	id := chi.URLParam(r, "id")

	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[id]
	if !ok {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	if rec.item.Type != models.ItemFile {
		writeError(w, http.StatusBadRequest, "public links are only available for files")
		return
	}
	if rec.publicURL == "" {
		rec.publicURL = f.server.URL + "/public/" + id
	}
	writeJSON(w, http.StatusOK, map[string]string{"publicUrl": rec.publicURL})
}

func (f *FakeDrive) handleSignedURL(w http.ResponseWriter, r *http.Request) {
	if !f.begin(w, OpSignedURL) {
		return
	}

	var in struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.Path == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for _, rec := range f.records {
		if rec.item.File != nil && rec.item.File.StoragePath == in.Path {
			writeJSON(w, http.StatusOK, map[string]string{
				"signedUrl": f.server.URL + "/signed/" + rec.item.ID + "?t=" + uuid.NewString(),
			})
			return
		}
	}
	writeError(w, http.StatusNotFound, "file not found")
}
