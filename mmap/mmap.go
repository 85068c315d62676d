// Package mmap maps files into memory read-only, so that blobs can be served
// from the page cache without being read into the heap.
package mmap

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

type Options uint

const (
	// SequentialAccess is a hint requesting aggressive read-ahead.
	// Incompatible with RandomAccess. Maps to MADV_SEQUENTIAL on Unix.
	SequentialAccess Options = 1 << iota

	// RandomAccess is a hint that read-ahead is less useful than normally.
	// Maps to MADV_RANDOM on Unix.
	RandomAccess

	// Prefault loads the entire file at map time. Maps to MAP_POPULATE on
	// Linux and is ignored elsewhere.
	Prefault
)

func (o Options) Has(v Options) bool {
	return o&v != 0
}

// MaxSize is the largest mapping we attempt: half the address space on
// 32-bit platforms, 128 TiB on 64-bit ones.
const MaxSize = 1<<min(strconv.IntSize-1, 47) - 1

// ErrTooLarge is returned when a file does not fit into the address space.
var ErrTooLarge = errors.New("file too large to mmap")

// Map maps the first size bytes of f read-only. The mapping stays valid
// after f is closed and must be released with Unmap.
func Map(f *os.File, size int, opt Options) ([]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("mmap: invalid size %d", size)
	}
	if int64(size) > MaxSize {
		return nil, ErrTooLarge
	}
	return mmap(f, size, opt)
}

// Unmap releases a mapping returned by Map.
func Unmap(b []byte) error {
	return munmap(b)
}
