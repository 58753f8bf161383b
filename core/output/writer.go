// Package output handles file naming and delivery of rendered exports.
// Files are named after the local time of the export,
// e.g. transactions_20240115_093000.csv, and optionally copied to GCS.
package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	filePrefix = "transactions_"
	timeLayout = "20060102_150405"
)

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
	// Now is the clock used for file names.
	Now func() time.Time
	// Uploader, when set, receives a copy of every written file.
	Uploader Uploader
}

// Delivery describes where an export ended up.
type Delivery struct {
	Path   string
	Object string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir, Now: time.Now}, nil
}

// Filename returns the export file name for the current time.
func (w *Writer) Filename(ext string) string {
	return Filename(w.now(), ext)
}

// Filename formats the export file name for t.
func Filename(t time.Time, ext string) string {
	return filePrefix + t.Format(timeLayout) + ext
}

// Write stores data under a timestamped name and uploads it when an
// Uploader is configured. The local file is kept even if the upload fails.
func (w *Writer) Write(ctx context.Context, data []byte, ext string) (*Delivery, error) {
	name := w.Filename(ext)
	path := filepath.Join(w.OutputDir, name)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return nil, fmt.Errorf("writing file %s: %w", path, err)
	}
	d := &Delivery{Path: path}

	if w.Uploader == nil {
		return d, nil
	}
	object, err := w.Uploader.Upload(ctx, name, data, ContentType(ext))
	if err != nil {
		return d, fmt.Errorf("uploading %s: %w", name, err)
	}
	d.Object = object
	return d, nil
}

func (w *Writer) now() time.Time {
	if w.Now == nil {
		return time.Now()
	}
	return w.Now()
}
