// Package idgen generates run IDs.
package idgen

import (
	"strconv"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator can generate IDs.
type IDGenerator interface {
	Generate() string
}

// NewSequentialGenerator returns a generator that produces "1", "2", ...
// It is safe for concurrent use and makes output reproducible.
func NewSequentialGenerator() IDGenerator {
	return &sequentialIDGenerator{}
}

// NewUniqueGenerator returns a generator of globally unique, sortable IDs.
func NewUniqueGenerator() IDGenerator {
	return uniqueIDGenerator{}
}

type sequentialIDGenerator struct {
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	idNumber := atomic.AddUint64(&g.nextID, 1)
	return strconv.FormatUint(idNumber, 10)
}

type uniqueIDGenerator struct{}

func (uniqueIDGenerator) Generate() string {
	return xid.New().String()
}
