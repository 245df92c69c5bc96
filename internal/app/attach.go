package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/gophattach/internal/config"
	"github.com/dmitrijs2005/gophattach/internal/filex"
	"github.com/dmitrijs2005/gophattach/internal/gallery"
	"github.com/dmitrijs2005/gophattach/internal/logging"
	"github.com/dmitrijs2005/gophattach/internal/media"
	"github.com/dmitrijs2005/gophattach/internal/preview"
	"github.com/dmitrijs2005/gophattach/internal/upload"
)

// ErrAttachFailed is returned by Attach when at least one file did not end
// up uploaded.
var ErrAttachFailed = errors.New("some files were not attached")

// Attach runs the files at paths (directories contribute the files directly
// inside them) through a gallery under the same admission
// policy as the console and waits for every upload to settle. Completed URLs
// go to out one per line, in submission order. Failures, unreadable paths
// and files over the item limit are reported to errOut.
func Attach(ctx context.Context, c *config.Config, logger logging.Logger, paths []string, out, errOut io.Writer) error {
	t, err := newTransport(ctx, c)
	if err != nil {
		return err
	}
	return attach(ctx, c, t, logger, paths, out, errOut)
}

func attach(ctx context.Context, c *config.Config, t upload.Transport, logger logging.Logger, paths []string, out, errOut io.Writer) error {
	paths, err := filex.Expand(paths)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files given")
	}

	files := make([]media.File, 0, len(paths))
	failed := 0
	for _, p := range paths {
		f, err := media.FromPath(p)
		if err != nil {
			fmt.Fprintf(errOut, "%s: %v\n", p, err)
			failed++
			continue
		}
		files = append(files, f)
	}

	g := gallery.New(ctx, upload.NewUploader(c.Rules(), t, logger), preview.NewStore(), logger, gallery.Options{
		MaxItems: c.MaxItems,
		Disabled: c.Disabled,
	})
	defer g.Close()

	if g.Disabled() {
		return fmt.Errorf("uploads are disabled")
	}

	ids := g.Ingest(files)
	if skipped := len(files) - len(ids); skipped > 0 {
		fmt.Fprintf(errOut, "skipped %d file(s): limit is %d\n", skipped, c.MaxItems)
		failed += skipped
	}

	g.Wait()

	for _, it := range g.Items() {
		switch it.Status {
		case media.StatusCompleted:
			fmt.Fprintln(out, it.RemoteURL)
		default:
			fmt.Fprintf(errOut, "%s: %s\n", it.File.Name, it.ErrorMessage)
			failed++
		}
	}

	if failed > 0 {
		return ErrAttachFailed
	}
	return nil
}
