// Package models defines the domain entities shared across the client:
// drive items, share grants, breadcrumbs, and sort selectors.
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// ItemType discriminates the two item variants.
type ItemType string

// Item variants. Folders and files have independent ID spaces on the
// server; an ID is only meaningful together with its type.
const (
	ItemFolder ItemType = "folder"
	ItemFile   ItemType = "file"
)

// IsValid returns true if t is a recognized item type.
func (t ItemType) IsValid() bool {
	return t == ItemFolder || t == ItemFile
}

// FileInfo is the file-only payload of an Item.
type FileInfo struct {
	Size        int64  `json:"size"`
	FileType    string `json:"file_type"`
	StoragePath string `json:"storage_path"`
}

// Item is a single entry in a listing: a folder or a file. The variant is
// discriminated by Type; File is set only for files and nil for folders.
//
// The server returns items as a flat JSON object (id, type, name, size,
// file_type, created_at, storage_path, parent_folder_id); Unmarshal/Marshal
// translate between that wire shape and the tagged form.
type Item struct {
	ID             string
	Type           ItemType
	Name           string
	CreatedAt      time.Time
	ParentFolderID *string

	// File holds the file-only payload; nil when Type is ItemFolder.
	File *FileInfo
}

// IsFolder returns true if the item is a folder.
func (it *Item) IsFolder() bool { return it.Type == ItemFolder }

// IsFile returns true if the item is a file.
func (it *Item) IsFile() bool { return it.Type == ItemFile }

// wireItem is the flat JSON shape used by the remote API.
type wireItem struct {
	ID             string    `json:"id"`
	Type           ItemType  `json:"type"`
	Name           string    `json:"name"`
	Size           int64     `json:"size,omitempty"`
	FileType       string    `json:"file_type,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	StoragePath    string    `json:"storage_path,omitempty"`
	ParentFolderID *string   `json:"parent_folder_id,omitempty"`
}

// UnmarshalJSON decodes the flat wire shape into the tagged variant.
// Unknown type values are rejected rather than defaulting to a variant.
func (it *Item) UnmarshalJSON(data []byte) error {
	var w wireItem
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if !w.Type.IsValid() {
		return fmt.Errorf("item %q: unknown type %q", w.ID, w.Type)
	}

	it.ID = w.ID
	it.Type = w.Type
	it.Name = w.Name
	it.CreatedAt = w.CreatedAt
	it.ParentFolderID = w.ParentFolderID
	it.File = nil
	if w.Type == ItemFile {
		it.File = &FileInfo{
			Size:        w.Size,
			FileType:    w.FileType,
			StoragePath: w.StoragePath,
		}
	}
	return nil
}

// MarshalJSON encodes the tagged variant back to the flat wire shape.
func (it Item) MarshalJSON() ([]byte, error) {
	w := wireItem{
		ID:             it.ID,
		Type:           it.Type,
		Name:           it.Name,
		CreatedAt:      it.CreatedAt,
		ParentFolderID: it.ParentFolderID,
	}
	if it.File != nil {
		w.Size = it.File.Size
		w.FileType = it.File.FileType
		w.StoragePath = it.File.StoragePath
	}
	return json.Marshal(w)
}

// Role is the permission level granted to a principal on an item.
type Role string

// Recognized roles.
const (
	RoleViewer Role = "viewer"
	RoleEditor Role = "editor"
)

// IsValid returns true if r is a recognized role.
func (r Role) IsValid() bool {
	return r == RoleViewer || r == RoleEditor
}

// ShareGrant is a single (principal, role) grant on an item.
type ShareGrant struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}
