package drive

// FolderMimeType is the Drive mime type that marks an item as a folder.
const FolderMimeType = "application/vnd.google-apps.folder"

// File is a Drive v3 file resource, limited to the fields the inventory
// requests. Drive serializes int64 fields (size, quotaBytesUsed) as JSON
// strings; they are kept as strings because the output is verbatim TSV.
type File struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	MimeType       string   `json:"mimeType"`
	Size           string   `json:"size"`
	CreatedTime    string   `json:"createdTime"`
	QuotaBytesUsed string   `json:"quotaBytesUsed"`
	Spaces         []string `json:"spaces"`
	Parents        []string `json:"parents"`
}

// IsFolder reports whether the file is a folder.
func (f *File) IsFolder() bool {
	return f.MimeType == FolderMimeType
}

// Page is one page of a files.list response.
type Page struct {
	Files         []File `json:"files"`
	NextPageToken string `json:"nextPageToken"`
}
