package models

// RootFolderName is the display name of the synthetic root crumb.
const RootFolderName = "My Files"

// Breadcrumb is one entry in the navigation trail. A nil ID denotes the
// synthetic root ("My Files").
type Breadcrumb struct {
	ID   *string
	Name string
}

// RootBreadcrumb returns the synthetic root entry every trail starts with.
func RootBreadcrumb() Breadcrumb {
	return Breadcrumb{ID: nil, Name: RootFolderName}
}
