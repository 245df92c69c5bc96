package gallery

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophattach/internal/logging"
	"github.com/dmitrijs2005/gophattach/internal/media"
	"github.com/dmitrijs2005/gophattach/internal/preview"
	"github.com/dmitrijs2005/gophattach/internal/upload"
	"github.com/dmitrijs2005/gophattach/internal/validation"
)

// pendingSend is one transport call parked until the test answers it.
type pendingSend struct {
	file     media.File
	progress upload.ProgressFunc
	reply    chan sendResult
}

type sendResult struct {
	url string
	err error
}

func (p *pendingSend) succeed(url string) { p.reply <- sendResult{url: url} }
func (p *pendingSend) fail(err error) { p.reply <- sendResult{err: err} }

// blockingTransport hands every Send to the test through calls.
type blockingTransport struct {
	calls chan *pendingSend
}

func newBlockingTransport() *blockingTransport {
	return &blockingTransport{calls: make(chan *pendingSend, 16)}
}

func (b *blockingTransport) Send(ctx context.Context, f media.File, onProgress upload.ProgressFunc) (string, error) {
	p := &pendingSend{file: f, progress: onProgress, reply: make(chan sendResult, 1)}
	b.calls <- p
	select {
	case r := <-p.reply:
		return r.url, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (b *blockingTransport) next(t *testing.T) *pendingSend {
	t.Helper()
	select {
	case p := <-b.calls:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for transport call")
		return nil
	}
}

func (b *blockingTransport) assertIdle(t *testing.T) {
	t.Helper()
	select {
	case p := <-b.calls:
		t.Fatalf("unexpected transport call for %s", p.file.Name)
	case <-time.After(50 * time.Millisecond):
	}
}

// countingPreviews wraps a real store and counts revocations per reference.
type countingPreviews struct {
	*preview.Store
	mu      sync.Mutex
	revokes map[string]int
}

func newCountingPreviews() *countingPreviews {
	return &countingPreviews{Store: preview.NewStore(), revokes: make(map[string]int)}
}

func (c *countingPreviews) Revoke(ref string) error {
	c.mu.Lock()
	c.revokes[ref]++
	c.mu.Unlock()
	return c.Store.Revoke(ref)
}

func (c *countingPreviews) count(ref string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.revokes[ref]
}

// imageLog records every OnImagesChange emission.
type imageLog struct {
	mu    sync.Mutex
	calls [][]string
}

func (l *imageLog) record(urls []string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, urls)
}

func (l *imageLog) last() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.calls) == 0 {
		return nil
	}
	return l.calls[len(l.calls)-1]
}

func (l *imageLog) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.calls)
}

type fixture struct {
	ctrl     *Controller
	previews *countingPreviews
	images   *imageLog
}

func newFixture(t *testing.T, tr upload.Transport, opts Options) *fixture {
	t.Helper()

	f := &fixture{previews: newCountingPreviews(), images: &imageLog{}}
	opts.OnImagesChange = f.images.record

	u := upload.NewUploader(validation.NewRules(validation.DefaultAllowedTypes, 3), tr, logging.Discard())
	f.ctrl = New(context.Background(), u, f.previews, logging.Discard(), opts)
	t.Cleanup(f.ctrl.Close)

	return f
}

func (f *fixture) item(t *testing.T, id string) media.Item {
	t.Helper()
	for _, it := range f.ctrl.Items() {
		if it.ID == id {
			return it
		}
	}
	t.Fatalf("item %s not found", id)
	return media.Item{}
}

func jpegs(names ...string) []media.File {
	files := make([]media.File, 0, len(names))
	for _, n := range names {
		files = append(files, media.FromBytes(n, "image/jpeg", []byte("jpeg:"+n)))
	}
	return files
}

func names(items []media.Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.File.Name)
	}
	return out
}
