package models

// Scope bounds which paid-tier rows are visible and mutated. A nil FolderID
// is the project's root (rows whose folder_id is null).
type Scope struct {
	ProjectID string
	FolderID  *string
}

// NewScope builds a scope; an empty folder means the project root.
func NewScope(projectID, folderID string) Scope {
	s := Scope{ProjectID: projectID}
	if folderID != "" {
		f := folderID
		s.FolderID = &f
	}
	return s
}

// Folder returns the folder id or "" for the project root.
func (s Scope) Folder() string {
	if s.FolderID == nil {
		return ""
	}
	return *s.FolderID
}

// Equal compares project and folder by value.
func (s Scope) Equal(o Scope) bool {
	return s.ProjectID == o.ProjectID && s.SameFolder(o.FolderID)
}

// SameFolder reports whether folderID names this scope's folder, treating
// two nils as equal.
func (s Scope) SameFolder(folderID *string) bool {
	if s.FolderID == nil || folderID == nil {
		return s.FolderID == nil && folderID == nil
	}
	return *s.FolderID == *folderID
}

// Contains reports whether r lives in this scope.
func (s Scope) Contains(r Row) bool {
	return r.ProjectID == s.ProjectID && s.SameFolder(r.FolderID)
}

func (s Scope) String() string {
	if s.FolderID == nil {
		return s.ProjectID + "/"
	}
	return s.ProjectID + "/" + *s.FolderID
}
