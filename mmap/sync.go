package mmap

import "os"

// Fdatasync flushes the data written to f to stable storage, skipping
// metadata updates where the platform allows it.
//
// An error means the file contents on disk are unknown. Writers should
// discard the file rather than retry.
func Fdatasync(f *os.File) error {
	return fdatasync(f)
}
