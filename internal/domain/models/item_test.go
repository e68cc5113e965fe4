package models

import (
	"encoding/json"
	"testing"
)

func TestItem_UnmarshalJSON_File(t *testing.T) {
	data := []byte(`{
		"id": "a1",
		"type": "file",
		"name": "a.txt",
		"size": 120,
		"file_type": "text/plain",
		"created_at": "2025-03-01T10:00:00Z",
		"storage_path": "u1/a1.txt",
		"parent_folder_id": "f1"
	}`)

	var it Item
	if err := json.Unmarshal(data, &it); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if it.ID != "a1" {
		t.Errorf("ID = %q, want a1", it.ID)
	}
	if !it.IsFile() {
		t.Errorf("Type = %q, want file", it.Type)
	}
	if it.File == nil {
		t.Fatal("File payload should be set for files")
	}
	if it.File.Size != 120 {
		t.Errorf("Size = %d, want 120", it.File.Size)
	}
	if it.File.StoragePath != "u1/a1.txt" {
		t.Errorf("StoragePath = %q, want u1/a1.txt", it.File.StoragePath)
	}
	if it.ParentFolderID == nil || *it.ParentFolderID != "f1" {
		t.Errorf("ParentFolderID = %v, want f1", it.ParentFolderID)
	}
}

func TestItem_UnmarshalJSON_Folder(t *testing.T) {
	data := []byte(`{"id":"f1","type":"folder","name":"Docs","created_at":"2025-03-01T10:00:00Z"}`)

	var it Item
	if err := json.Unmarshal(data, &it); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if !it.IsFolder() {
		t.Errorf("Type = %q, want folder", it.Type)
	}
	if it.File != nil {
		t.Error("File payload should be nil for folders")
	}
	if it.ParentFolderID != nil {
		t.Errorf("ParentFolderID = %v, want nil (root)", it.ParentFolderID)
	}
}

func TestItem_UnmarshalJSON_UnknownType(t *testing.T) {
	data := []byte(`{"id":"x1","type":"symlink","name":"weird"}`)

	var it Item
	if err := json.Unmarshal(data, &it); err == nil {
		t.Error("Unmarshal() should reject unknown item types")
	}
}

func TestItem_MarshalJSON_RoundTrip(t *testing.T) {
	parent := "f1"
	orig := Item{
		ID:             "a1",
		Type:           ItemFile,
		Name:           "a.txt",
		ParentFolderID: &parent,
		File: &FileInfo{
			Size:        120,
			FileType:    "text/plain",
			StoragePath: "u1/a1.txt",
		},
	}

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got Item
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if got.ID != orig.ID || got.Name != orig.Name {
		t.Errorf("round trip changed identity: got %+v", got)
	}
	if got.File == nil || got.File.Size != 120 {
		t.Errorf("round trip lost file payload: got %+v", got.File)
	}
}

func TestRole_IsValid(t *testing.T) {
	if !RoleViewer.IsValid() || !RoleEditor.IsValid() {
		t.Error("viewer and editor should be valid roles")
	}
	if Role("admin").IsValid() {
		t.Error("admin is not a recognized role")
	}
	if Role("").IsValid() {
		t.Error("empty role should be invalid")
	}
}

func TestParseSortOption(t *testing.T) {
	for _, s := range []string{"name-asc", "name-desc", "date-asc", "date-desc"} {
		if _, err := ParseSortOption(s); err != nil {
			t.Errorf("ParseSortOption(%q) error = %v", s, err)
		}
	}
	if _, err := ParseSortOption("size-asc"); err == nil {
		t.Error("ParseSortOption should reject unknown selectors")
	}
}

func TestSortOption_Split(t *testing.T) {
	tests := []struct {
		opt       SortOption
		by, order string
	}{
		{SortNameAsc, "name", "asc"},
		{SortNameDesc, "name", "desc"},
		{SortDateAsc, "date", "asc"},
		{SortDateDesc, "date", "desc"},
		{SortOption(""), "name", "asc"}, // falls back to default
	}
	for _, tc := range tests {
		by, order := tc.opt.Split()
		if by != tc.by || order != tc.order {
			t.Errorf("Split(%q) = (%q, %q), want (%q, %q)", tc.opt, by, order, tc.by, tc.order)
		}
	}
}
