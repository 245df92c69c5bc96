package console

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophattach/internal/common"
	"github.com/dmitrijs2005/gophattach/internal/gallery"
	"github.com/dmitrijs2005/gophattach/internal/media"
	"github.com/dmitrijs2005/gophattach/internal/preview"
)

func (s *Server) handleList(c *gin.Context) {
	c.JSON(http.StatusOK, toItemDTOs(s.gallery.Items()))
}

func (s *Server) handleImages(c *gin.Context) {
	c.JSON(http.StatusOK, imagesResponse{Images: s.gallery.Images()})
}

// handleIngest accepts one or more files from the picker or a drop. Files
// over the item limit are dropped by the gallery, so Accepted may be shorter
// than what was sent.
func (s *Server) handleIngest(c *gin.Context) {
	if s.gallery.Disabled() {
		c.JSON(http.StatusConflict, errorBody("uploads are disabled"))
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusBadRequest, errorBody("invalid multipart form"))
		return
	}

	headers := form.File[FormField]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, errorBody("no files submitted"))
		return
	}

	files := make([]media.File, 0, len(headers))
	for _, fh := range headers {
		f, err := media.FromMultipart(fh)
		if err != nil {
			_ = c.Error(err)
			c.JSON(http.StatusBadRequest, errorBody("failed to read "+fh.Filename))
			return
		}
		files = append(files, f)
	}

	accepted := s.gallery.Ingest(files)
	c.JSON(http.StatusAccepted, ingestResponse{
		Accepted: accepted,
		Items:    toItemDTOs(s.gallery.Items()),
	})
}

func (s *Server) handleRetry(c *gin.Context) {
	if err := s.gallery.Retry(c.Param("id")); err != nil {
		s.abortWithGalleryError(c, err)
		return
	}
	c.Status(http.StatusAccepted)
}

func (s *Server) handleRemove(c *gin.Context) {
	if err := s.gallery.Remove(c.Param("id")); err != nil {
		s.abortWithGalleryError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, stateResponse{Disabled: s.gallery.Disabled(), Count: len(s.gallery.Items())})
}

func (s *Server) handleSetState(c *gin.Context) {
	var req stateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
		return
	}
	s.gallery.SetDisabled(*req.Disabled)
	s.handleState(c)
}

// handlePreview serves the bytes behind a live preview. Released previews
// are gone.
func (s *Server) handlePreview(c *gin.Context) {
	f, ok := s.previews.Open(preview.Scheme + c.Param("id"))
	if !ok {
		c.Status(http.StatusNotFound)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, f.Type, f.Data)
}

func (s *Server) abortWithGalleryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, gallery.ErrItemNotFound):
		c.JSON(http.StatusNotFound, errorBody(err.Error()))
	case errors.Is(err, gallery.ErrNotRetryable):
		c.JSON(http.StatusConflict, errorBody(err.Error()))
	case errors.Is(err, gallery.ErrClosed):
		c.JSON(http.StatusServiceUnavailable, errorBody(err.Error()))
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorBody(common.ErrorInternal.Error()))
	}
}
