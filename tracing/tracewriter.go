// Package tracing exports simulation traces into files.
package tracing

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/rs/xid"
	"github.com/sarchlab/pagesim/paging"
	"github.com/tebeka/atexit"
)

// A TraceWriter stores traces. Traces are identified by the ID of the run
// that produced them.
type TraceWriter interface {
	Write(runID string, trace paging.Trace) error
	Close() error
}

// NewTraceWriter creates a writer that encodes traces in the given format.
func NewTraceWriter(w io.Writer, format Format) (TraceWriter, error) {
	switch format {
	case FormatCSV:
		return NewCSVTraceWriter(w), nil
	case FormatJSON:
		return NewJSONTraceWriter(w), nil
	default:
		return nil, fmt.Errorf("%w format %q", ErrUnsupported, format)
	}
}

// FileName returns the name of a trace file. An empty base is replaced by a
// unique name.
func FileName(base string, format Format, c Compression) string {
	if base == "" {
		base = "pagesim_trace_" + xid.New().String()
	}

	return base + "." + string(format) + c.Extension()
}

// CreateFile creates a new trace file and returns a writer to it. Existing
// files are never overwritten. The file is also closed when the program
// exits through atexit.
func CreateFile(
	base string,
	format Format,
	c Compression,
) (TraceWriter, string, error) {
	filename := FileName(base, format, c)

	_, err := os.Stat(filename)
	if err == nil {
		return nil, "", fmt.Errorf("file %s already exists", filename)
	}

	file, err := os.Create(filename)
	if err != nil {
		return nil, "", err
	}

	compressed := NewCompressedWriter(file, c)

	encoder, err := NewTraceWriter(compressed, format)
	if err != nil {
		file.Close()
		os.Remove(filename)

		return nil, "", err
	}

	w := &fileTraceWriter{
		TraceWriter: encoder,
		closers:     []io.Closer{encoder, compressed, file},
	}

	atexit.Register(func() { _ = w.Close() })

	return w, filename, nil
}

// fileTraceWriter closes the encoder, the compressor, and the file, in that
// order, exactly once.
type fileTraceWriter struct {
	TraceWriter

	once     sync.Once
	closers  []io.Closer
	closeErr error
}

func (w *fileTraceWriter) Close() error {
	w.once.Do(func() {
		var errs []error
		for _, c := range w.closers {
			errs = append(errs, c.Close())
		}

		w.closeErr = errors.Join(errs...)
	})

	return w.closeErr
}
