package mmap

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/andreyvit/zerovec/yoke"
)

// OpenCart maps the whole file at path read-only and returns it as a
// reference-counted cart. The mapping is removed when the last reference is
// released.
//
// The file must not be truncated while the cart is alive.
func OpenCart(path string, opt Options) (*yoke.RcCart, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	if size == 0 {
		return yoke.NewRcCart(nil, nil), nil
	}
	if size > MaxSize {
		return nil, fmt.Errorf("%s: %w (%d bytes)", path, ErrTooLarge, size)
	}

	b, err := Map(f, int(size), opt)
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	return yoke.NewRcCart(b, func(data []byte) {
		if err := Unmap(data); err != nil {
			slog.Default().LogAttrs(context.Background(), slog.LevelWarn, "mmap: munmap failed", slog.String("path", path), slog.Any("err", err))
		}
	}), nil
}
