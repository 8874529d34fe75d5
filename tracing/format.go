package tracing

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/golang/snappy"
	"github.com/pierrec/lz4/v4"
)

// Format is the encoding of an exported trace.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Compression is applied on top of the trace encoding.
type Compression string

// Supported compressions.
const (
	CompressionNone   Compression = "none"
	CompressionSnappy Compression = "snappy"
	CompressionLZ4    Compression = "lz4"
)

// ErrUnsupported is returned for an unknown format or compression.
var ErrUnsupported = errors.New("unsupported")

// ParseFormat turns a name into a Format.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w format %q", ErrUnsupported, s)
	}
}

// ParseCompression turns a name into a Compression. An empty name means no
// compression.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(strings.ToLower(strings.TrimSpace(s))); c {
	case "", CompressionNone:
		return CompressionNone, nil
	case CompressionSnappy, CompressionLZ4:
		return c, nil
	default:
		return "", fmt.Errorf("%w compression %q", ErrUnsupported, s)
	}
}

// Extension returns the file name suffix of the compression, including the
// dot, or "" for no compression.
func (c Compression) Extension() string {
	switch c {
	case CompressionSnappy:
		return ".sz"
	case CompressionLZ4:
		return ".lz4"
	default:
		return ""
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// NewCompressedWriter wraps w so that everything written is compressed.
// Closing the returned writer flushes the compressor but does not close w.
func NewCompressedWriter(w io.Writer, c Compression) io.WriteCloser {
	switch c {
	case CompressionSnappy:
		return snappy.NewBufferedWriter(w)
	case CompressionLZ4:
		return lz4.NewWriter(w)
	default:
		return nopWriteCloser{w}
	}
}

// NewDecompressedReader reverses NewCompressedWriter.
func NewDecompressedReader(r io.Reader, c Compression) io.Reader {
	switch c {
	case CompressionSnappy:
		return snappy.NewReader(r)
	case CompressionLZ4:
		return lz4.NewReader(r)
	default:
		return r
	}
}
