package exporter

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/cposada23/BDDPlaywrightFramework/internal/allure"
)

const maxParallelCopies = 8

// Attachment is a file referenced by a result. The content is either Body or,
// when Body is nil, the file at Path.
type Attachment struct {
	Name   string
	Mime   string
	Source string
	Body   []byte
	Path   string
}

type Writer interface {
	WriteReport(ctx context.Context, tests []allure.Test) error
	WriteAttachments(ctx context.Context, attachments []Attachment) error
}

type WriterOption func(*writer)

func WriteToFile(pth string) WriterOption {
	return func(w *writer) {
		w.pth = pth
	}
}

func WriteReportTo(writers ...io.Writer) WriterOption {
	return func(w *writer) {
		w.reportWriters = append(w.reportWriters, writers...)
	}
}

func NewWriter(opts ...WriterOption) Writer {
	w := writer{reportWriters: []io.Writer{io.Discard}}
	for _, o := range opts {
		o(&w)
	}

	return &w
}

type writer struct {
	pth           string
	reportWriters []io.Writer
}

// WriteReport writes one <uuid>-result.json file per test.
func (o *writer) WriteReport(ctx context.Context, tests []allure.Test) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(o.pth) > 0 {
		if err := mkdir(o.pth); err != nil {
			return err
		}
	}

	for _, tc := range tests {
		if err := o.writeReport(tc); err != nil {
			return fmt.Errorf("writeReport test: %w", err)
		}
	}

	return nil
}

// WriteAttachments copies the attachments next to the results. Nothing is
// written without an output path.
func (o *writer) WriteAttachments(ctx context.Context, attachments []Attachment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if o.pth == "" {
		return nil
	}

	if err := mkdir(o.pth); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelCopies)

	for _, attachment := range attachments {
		attachment := attachment
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			return o.writeAttachmentFile(attachment)
		})
	}

	return g.Wait()
}

func (o *writer) writeAttachmentFile(attachment Attachment) error {
	pth := filepath.Join(o.pth, attachment.Source)

	file, err := os.OpenFile(pth, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("os.OpenFile: %w", err)
	}

	defer file.Close()

	if attachment.Body == nil && attachment.Path != "" {
		src, err := os.Open(attachment.Path)
		if err != nil {
			return fmt.Errorf("os.Open: %w", err)
		}

		defer src.Close()

		if _, err = io.Copy(file, src); err != nil {
			return fmt.Errorf("io.Copy %s: %w", attachment.Path, err)
		}
	} else if _, err = file.Write(attachment.Body); err != nil {
		return fmt.Errorf("os.OpenFile Write: %w", err)
	}

	if err = file.Sync(); err != nil {
		return fmt.Errorf("os.OpenFile Sync: %w", err)
	}

	return nil
}

func (o *writer) writeReport(tc allure.Test) (err error) {
	writers := make([]io.Writer, len(o.reportWriters))
	copy(writers, o.reportWriters)

	if o.pth != "" {
		pth := filepath.Join(o.pth, fmt.Sprintf("%s-result.json", tc.UUID))
		file, openErr := os.OpenFile(pth, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
		if openErr != nil {
			return fmt.Errorf("os.OpenFile: %w", openErr)
		}

		defer func() {
			if syncErr := file.Sync(); syncErr != nil && err == nil {
				err = fmt.Errorf("file Sync: %w", syncErr)
			}

			_ = file.Close()
		}()

		writers = append(writers, file)
	}

	w := io.MultiWriter(writers...)

	if encErr := json.NewEncoder(w).Encode(tc); encErr != nil {
		return fmt.Errorf("json.NewEncoder.Encode: %w", encErr)
	}

	return nil
}
