// Package paging simulates virtual-memory page replacement. A Simulator feeds
// a reference sequence through a fixed set of frames and asks a pluggable
// Strategy which resident page to evict whenever all frames are occupied.
package paging

import "strings"

// Page is an opaque reference token. Pages are compared by value only.
type Page string

// Empty is the content of a frame slot that does not hold a page.
const Empty Page = ""

// emptyMark is how an empty slot is rendered.
const emptyMark = "-"

// IsEmpty tells if the page is the empty-slot sentinel.
func (p Page) IsEmpty() bool {
	return p == Empty
}

// String renders the page, using "-" for the empty sentinel.
func (p Page) String() string {
	if p.IsEmpty() {
		return emptyMark
	}

	return string(p)
}

// Frames is the ordered list of memory frame slots. Slot order only matters
// when filling empty slots and when breaking ties between victims.
type Frames []Page

// NewFrames returns n empty slots.
func NewFrames(n int) Frames {
	return make(Frames, n)
}

// IndexOf returns the slot that holds the page, or -1.
func (f Frames) IndexOf(p Page) int {
	for i, slot := range f {
		if slot == p {
			return i
		}
	}

	return -1
}

// Contains tells if the page is resident.
func (f Frames) Contains(p Page) bool {
	return !p.IsEmpty() && f.IndexOf(p) >= 0
}

// FirstEmpty returns the lowest-indexed empty slot, or -1 if all slots are
// occupied.
func (f Frames) FirstEmpty() int {
	return f.IndexOf(Empty)
}

// Resident returns the resident pages in slot order.
func (f Frames) Resident() []Page {
	pages := make([]Page, 0, len(f))
	for _, p := range f {
		if !p.IsEmpty() {
			pages = append(pages, p)
		}
	}

	return pages
}

// Clone returns a copy that shares no memory with f.
func (f Frames) Clone() Frames {
	c := make(Frames, len(f))
	copy(c, f)

	return c
}

// Strings renders every slot, empty slots included.
func (f Frames) Strings() []string {
	s := make([]string, len(f))
	for i, p := range f {
		s[i] = p.String()
	}

	return s
}

func (f Frames) String() string {
	return "[" + strings.Join(f.Strings(), " ") + "]"
}

// MarshalText lets empty slots appear as "-" in encoded output.
func (p Page) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText reverses MarshalText.
func (p *Page) UnmarshalText(b []byte) error {
	if string(b) == emptyMark {
		*p = Empty
		return nil
	}

	*p = Page(b)

	return nil
}
