package console

import (
	"strings"

	"github.com/dmitrijs2005/gophattach/internal/common"
	"github.com/dmitrijs2005/gophattach/internal/media"
	"github.com/dmitrijs2005/gophattach/internal/preview"
)

// ItemDTO is the wire form of a gallery item.
type ItemDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Size     int64  `json:"size"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	// URL is what the form renders: the remote URL once completed, the
	// preview route before that.
	URL       string `json:"url"`
	RemoteURL string `json:"remote_url,omitempty"`
	Error     string `json:"error,omitempty"`
}

func toItemDTO(it media.Item) ItemDTO {
	url := it.CurrentURL()
	if it.Status != media.StatusCompleted {
		url = previewPath(url)
	}
	return ItemDTO{
		ID:        it.ID,
		Name:      it.File.Name,
		Type:      it.File.Type,
		Size:      it.File.Size,
		Status:    string(it.Status),
		Progress:  it.Progress,
		URL:       url,
		RemoteURL: it.RemoteURL,
		Error:     it.ErrorMessage,
	}
}

func toItemDTOs(items []media.Item) []ItemDTO {
	out := make([]ItemDTO, 0, len(items))
	for _, it := range items {
		out = append(out, toItemDTO(it))
	}
	return out
}

// previewPath maps a "blob:<id>" reference onto the console route serving it.
func previewPath(ref string) string {
	if ref == "" {
		return ""
	}
	return common.PreviewRoute + strings.TrimPrefix(ref, preview.Scheme)
}

type ingestResponse struct {
	Accepted []string  `json:"accepted"`
	Items    []ItemDTO `json:"items"`
}

type imagesResponse struct {
	Images []string `json:"images"`
}

type stateRequest struct {
	Disabled *bool `json:"disabled" binding:"required"`
}

type stateResponse struct {
	Disabled bool `json:"disabled"`
	Count    int  `json:"count"`
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
