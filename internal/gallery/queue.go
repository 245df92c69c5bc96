package gallery

import "github.com/dmitrijs2005/gophattach/internal/media"

type job struct {
	itemID string
	file   media.File
}

// batch is a closed FIFO of pending uploads drained by exactly one worker.
type batch chan job

func newBatch(jobs ...job) batch {
	b := make(batch, len(jobs))
	for _, j := range jobs {
		b <- j
	}
	close(b)
	return b
}
