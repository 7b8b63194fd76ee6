package site

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"github.com/ziadkadry99/navtree/internal/navtree"
	"github.com/ziadkadry99/navtree/internal/progress"
)

// Writer writes an Output into a documentation output directory.
type Writer struct {
	OutputDir   string
	Concurrency int
	Reporter    progress.Reporter
	Log         logr.Logger
}

// NewWriter creates a Writer with the given output directory.
func NewWriter(outputDir string, log logr.Logger) *Writer {
	return &Writer{
		OutputDir:   outputDir,
		Concurrency: 8,
		Reporter:    progress.Nop{},
		Log:         log,
	}
}

type fileJob struct {
	name   string
	encode func(*navtree.Encoder) error
}

// Write encodes every file of out and writes it below OutputDir. Each file
// is written to a temporary name first and renamed into place, so a viewer
// never loads a half-written file. Returns the number of files written.
func (w *Writer) Write(ctx context.Context, out *Output) (int, error) {
	jobs := []fileJob{{
		name:   navtree.DataFileName,
		encode: func(e *navtree.Encoder) error { return e.EncodeBundle(out.Bundle) },
	}}
	for _, sub := range out.Subtrees {
		sub := sub
		jobs = append(jobs, fileJob{
			name:   filepath.FromSlash(sub.FileName()),
			encode: func(e *navtree.Encoder) error { return e.EncodeSubtree(sub) },
		})
	}
	for _, sh := range out.Shards {
		sh := sh
		jobs = append(jobs, fileJob{
			name:   sh.FileName(),
			encode: func(e *navtree.Encoder) error { return e.EncodeShard(sh.Number, sh.Entries) },
		})
	}

	if err := os.MkdirAll(w.OutputDir, 0o755); err != nil {
		return 0, fmt.Errorf("creating output dir: %w", err)
	}

	limit := w.Concurrency
	if limit <= 0 {
		limit = 8
	}
	w.Reporter.Start(len(jobs))
	defer w.Reporter.Finish()

	var done atomic.Int64
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, job := range jobs {
		job := job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := w.writeFile(job); err != nil {
				return fmt.Errorf("writing %s: %w", job.name, err)
			}
			w.Reporter.Update(int(done.Add(1)), job.name)
			w.Log.V(1).Info("wrote file", "file", job.name)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(jobs), nil
}

func (w *Writer) writeFile(job fileJob) error {
	var buf bytes.Buffer
	if err := job.encode(navtree.NewEncoder(&buf)); err != nil {
		return err
	}

	path := filepath.Join(w.OutputDir, job.name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".navtree-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
