//go:build !unix && !windows

package mmap

import (
	"errors"
	"os"
)

func mmap(*os.File, int, Options) ([]byte, error) {
	return nil, errors.ErrUnsupported
}

func munmap([]byte) error {
	return errors.ErrUnsupported
}
