package gallery

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/gophattach/internal/logging"
	"github.com/dmitrijs2005/gophattach/internal/media"
	"github.com/dmitrijs2005/gophattach/internal/upload"
	"github.com/google/uuid"
)

const DefaultMaxItems = 5

// Attempter runs one upload attempt and reports through callbacks.
// *upload.Uploader satisfies it.
type Attempter interface {
	Attempt(ctx context.Context, f media.File, itemID string, cb upload.Callbacks)
}

// Previewer creates and releases local preview references.
// *preview.Store satisfies it.
type Previewer interface {
	Create(f media.File) string
	Revoke(ref string) error
}

type Options struct {
	MaxItems       int
	Disabled       bool
	OnImagesChange func(urls []string)
	OnItemsChange  func(items []media.Item)
}

type Controller struct {
	uploader Attempter
	previews Previewer
	logger   logging.Logger
	maxItems int

	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	idle     *sync.Cond
	items    []media.Item // replaced, never mutated in place
	inflight int
	disabled bool
	closed   bool

	emitMu         sync.Mutex
	lastImages     []string
	onImagesChange func([]string)
	onItemsChange  func([]media.Item)
}

func New(ctx context.Context, uploader Attempter, previews Previewer, logger logging.Logger, opts Options) *Controller {
	if opts.MaxItems <= 0 {
		opts.MaxItems = DefaultMaxItems
	}

	ctx, cancel := context.WithCancel(ctx)

	c := &Controller{
		uploader:       uploader,
		previews:       previews,
		logger:         logger.With("component", "gallery"),
		maxItems:       opts.MaxItems,
		ctx:            ctx,
		cancel:         cancel,
		disabled:       opts.Disabled,
		onImagesChange: opts.OnImagesChange,
		onItemsChange:  opts.OnItemsChange,
	}
	c.idle = sync.NewCond(&c.mu)

	return c
}

// Ingest admits up to the remaining capacity from the front of files, appends
// a new uploading item for each and starts uploading them in order. Files
// beyond capacity are dropped silently. It returns the ids of the new items
// and does not wait for the uploads.
func (c *Controller) Ingest(files []media.File) []string {
	c.mu.Lock()

	if c.closed || c.disabled || len(files) == 0 {
		c.mu.Unlock()
		return nil
	}

	remaining := c.maxItems - len(c.items)
	if remaining <= 0 {
		c.mu.Unlock()
		c.logger.Debug(c.ctx, "batch dropped, gallery is full", "files", len(files), "max", c.maxItems)
		return nil
	}

	accepted := files[:min(len(files), remaining)]

	next := slices.Clone(c.items)
	jobs := make([]job, 0, len(accepted))
	ids := make([]string, 0, len(accepted))

	for _, f := range accepted {
		id := uuid.NewString()
		next = append(next, media.Item{
			ID:         id,
			File:       f,
			PreviewURL: c.previews.Create(f),
			Status:     media.StatusUploading,
		})
		jobs = append(jobs, job{itemID: id, file: f})
		ids = append(ids, id)
	}

	c.items = next
	c.inflight++
	c.mu.Unlock()

	c.logger.Info(c.ctx, "files admitted", "accepted", len(accepted), "dropped", len(files)-len(accepted))

	c.notify()
	go c.drain(newBatch(jobs...))

	return ids
}

// Retry starts a new attempt for a failed item. Progress and error are reset
// before Retry returns.
func (c *Controller) Retry(id string) error {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}

	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return ErrItemNotFound
	}

	it := c.items[idx]
	if it.Status != media.StatusError {
		c.mu.Unlock()
		return ErrNotRetryable
	}

	it.Status = media.StatusUploading
	it.Progress = 0
	it.ErrorMessage = ""
	c.replace(idx, it)
	c.inflight++
	c.mu.Unlock()

	c.logger.Info(c.ctx, "retrying upload", "item", id)

	c.notify()
	go c.drain(newBatch(job{itemID: id, file: it.File}))

	return nil
}

// Remove drops the item whatever its status. A preview reference still owned
// by the item is released.
func (c *Controller) Remove(id string) error {
	c.mu.Lock()

	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return ErrItemNotFound
	}

	it := c.items[idx]
	c.items = slices.Delete(slices.Clone(c.items), idx, idx+1)
	c.mu.Unlock()

	if it.PreviewURL != "" {
		c.release(it.PreviewURL)
	}

	c.logger.Info(c.ctx, "item removed", "item", id, "status", it.Status)

	c.notify()
	return nil
}

// Items returns a snapshot of the items in list order.
func (c *Controller) Items() []media.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.items)
}

// Images returns the remote URLs of completed items in list order.
func (c *Controller) Images() []string {
	return completedURLs(c.Items())
}

// SetDisabled toggles ingestion. Existing items stay visible and removable.
func (c *Controller) SetDisabled(disabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disabled = disabled
}

func (c *Controller) Disabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disabled
}

// Wait blocks until every started batch and retry has settled.
func (c *Controller) Wait() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.inflight > 0 {
		c.idle.Wait()
	}
}

// Close stops accepting work, cancels in-flight attempts and waits for them.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.Wait()
}

// drain runs the batch's attempts one after another.
func (c *Controller) drain(b batch) {
	defer func() {
		c.mu.Lock()
		c.inflight--
		if c.inflight == 0 {
			c.idle.Broadcast()
		}
		c.mu.Unlock()
	}()

	cb := upload.Callbacks{
		OnProgress: c.onProgress,
		OnSuccess:  c.onSuccess,
		OnError:    c.onError,
	}

	for j := range b {
		if !c.exists(j.itemID) {
			c.logger.Debug(c.ctx, "skipping removed item", "item", j.itemID)
			continue
		}
		c.uploader.Attempt(c.ctx, j.file, j.itemID, cb)
	}
}

func (c *Controller) onProgress(id string, percent int) {
	percent = max(0, min(100, percent))
	c.update(id, func(it *media.Item) bool {
		if it.Status != media.StatusUploading || percent <= it.Progress {
			return false
		}
		it.Progress = percent
		return true
	})
}

func (c *Controller) onSuccess(id string, url string) {
	var released string
	ok := c.update(id, func(it *media.Item) bool {
		if it.Status != media.StatusUploading {
			return false
		}
		released = it.PreviewURL
		it.Status = media.StatusCompleted
		it.Progress = 100
		it.RemoteURL = url
		it.PreviewURL = ""
		return true
	})
	if !ok {
		c.logger.Debug(c.ctx, "dropping stale success", "item", id)
		return
	}
	if released != "" {
		c.release(released)
	}
}

func (c *Controller) onError(id string, message string) {
	ok := c.update(id, func(it *media.Item) bool {
		if it.Status != media.StatusUploading {
			return false
		}
		it.Status = media.StatusError
		it.ErrorMessage = message
		return true
	})
	if !ok {
		c.logger.Debug(c.ctx, "dropping stale failure", "item", id)
	}
}

// update applies fn to a copy of the matching item and, if fn reports a
// change, swaps in a new list and notifies observers.
func (c *Controller) update(id string, fn func(it *media.Item) bool) bool {
	c.mu.Lock()

	idx := c.indexOf(id)
	if idx < 0 {
		c.mu.Unlock()
		return false
	}

	it := c.items[idx]
	if !fn(&it) {
		c.mu.Unlock()
		return false
	}

	c.replace(idx, it)
	c.mu.Unlock()

	c.notify()
	return true
}

func (c *Controller) release(ref string) {
	if err := c.previews.Revoke(ref); err != nil {
		c.logger.Warn(c.ctx, "failed to release preview", "preview", ref, "error", err)
	}
}

// notify publishes the current state. The images callback fires only when the
// completed URL list differs from the last one published.
func (c *Controller) notify() {
	c.emitMu.Lock()
	defer c.emitMu.Unlock()

	items := c.Items()

	if c.onItemsChange != nil {
		c.onItemsChange(items)
	}

	urls := completedURLs(items)
	if slices.Equal(urls, c.lastImages) {
		return
	}
	c.lastImages = urls

	if c.onImagesChange != nil {
		c.onImagesChange(slices.Clone(urls))
	}
}

// replace must be called with mu held.
func (c *Controller) replace(idx int, it media.Item) {
	next := slices.Clone(c.items)
	next[idx] = it
	c.items = next
}

// indexOf must be called with mu held.
func (c *Controller) indexOf(id string) int {
	return slices.IndexFunc(c.items, func(it media.Item) bool { return it.ID == id })
}

func (c *Controller) exists(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexOf(id) >= 0
}

func completedURLs(items []media.Item) []string {
	urls := make([]string, 0, len(items))
	for _, it := range items {
		if it.Status == media.StatusCompleted {
			urls = append(urls, it.RemoteURL)
		}
	}
	return urls
}
