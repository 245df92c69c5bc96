package netx

import (
	"io"
	"sync"
)

// ProgressReader wraps a reader of known size and reports the share already
// consumed as a percentage. Reports are monotonic and emitted only when the
// percentage changes.
//
// Without a source reader it acts as a sink: every Read counts len(b) bytes
// as transferred. minio-go drives its Progress hook that way.
type ProgressReader struct {
	r          io.Reader
	total      int64
	onProgress func(percent int)

	mu   sync.Mutex
	read int64
	last int
}

func NewProgressReader(r io.Reader, total int64, onProgress func(percent int)) *ProgressReader {
	return &ProgressReader{r: r, total: total, onProgress: onProgress, last: -1}
}

func (p *ProgressReader) Read(b []byte) (int, error) {
	if p.r == nil {
		p.Advance(int64(len(b)))
		return len(b), nil
	}
	n, err := p.r.Read(b)
	if n > 0 {
		p.Advance(int64(n))
	}
	return n, err
}

// Advance records n more bytes as transferred.
func (p *ProgressReader) Advance(n int64) {
	p.mu.Lock()
	p.read += n
	percent := Percent(p.read, p.total)
	if percent <= p.last {
		p.mu.Unlock()
		return
	}
	p.last = percent
	p.mu.Unlock()

	if p.onProgress != nil {
		p.onProgress(percent)
	}
}

// Percent returns done/total in whole percent, clamped to [0, 100].
// An empty payload counts as complete.
func Percent(done, total int64) int {
	if total <= 0 {
		return 100
	}
	p := int(done * 100 / total)
	return max(0, min(100, p))
}
