// Package refstring turns user input into page reference sequences.
package refstring

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"github.com/sarchlab/pagesim/paging"
)

// ErrReservedToken is returned for a token that reads as an empty frame.
var ErrReservedToken = errors.New("token is reserved for empty frames")

// reserved is how empty frames are displayed, so it cannot name a page.
const reserved = "-"

// Parse splits a comma-separated reference string. Tokens are trimmed and
// empty tokens are dropped.
func Parse(s string) ([]paging.Page, error) {
	return collect(strings.Split(s, ","))
}

// ParseFields accepts commas, spaces, tabs, and newlines as separators.
func ParseFields(s string) ([]paging.Page, error) {
	return collect(strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	}))
}

func collect(tokens []string) ([]paging.Page, error) {
	refs := make([]paging.Page, 0, len(tokens))

	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}

		if t == reserved {
			return nil, fmt.Errorf("%w: %q", ErrReservedToken, t)
		}

		refs = append(refs, paging.Page(t))
	}

	return refs, nil
}

// Load reads a reference file. Every line may hold any number of references.
// Everything after a '#' is a comment.
func Load(r io.Reader) ([]paging.Page, error) {
	var refs []paging.Page

	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}

		lineRefs, err := ParseFields(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		refs = append(refs, lineRefs...)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return refs, nil
}

// LoadFile reads a reference file from disk.
func LoadFile(path string) ([]paging.Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	refs, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return refs, nil
}

// Format joins references back into the comma-separated form.
func Format(refs []paging.Page) string {
	s := make([]string, len(refs))
	for i, p := range refs {
		s[i] = string(p)
	}

	return strings.Join(s, ",")
}

// ClampFrames limits a frame count to [lo, hi].
func ClampFrames(n, lo, hi int) int {
	if n < lo {
		return lo
	}

	if n > hi {
		return hi
	}

	return n
}
