package media

// Status is the lifecycle state of an Item.
type Status string

const (
	StatusUploading Status = "uploading"
	StatusCompleted Status = "completed"
	StatusError     Status = "error"
)

// Item is the per-file unit of gallery state.
//
// PreviewURL is the local preview reference; it is owned by the item until the
// upload completes or the item is removed. RemoteURL is set only when Status
// is StatusCompleted, ErrorMessage only when Status is StatusError.
type Item struct {
	ID           string
	File         File
	PreviewURL   string
	Status       Status
	Progress     int
	RemoteURL    string
	ErrorMessage string
}

// CurrentURL is the URL the UI should render: the remote URL once the upload
// completed, the local preview before that.
func (i Item) CurrentURL() string {
	if i.Status == StatusCompleted {
		return i.RemoteURL
	}
	return i.PreviewURL
}
