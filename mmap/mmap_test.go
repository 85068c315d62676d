package mmap

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/andreyvit/zerovec/yoke"
)

func TestOptionsHas(t *testing.T) {
	var o Options = RandomAccess | Prefault
	if !o.Has(Prefault) || o.Has(SequentialAccess) {
		t.Fatalf("Options.Has returned unexpected results for %v", o)
	}
}

func TestMapAndUnmap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	f := must(os.Create(path))
	defer f.Close()

	data := make([]byte, 4096)
	data[0], data[4095] = 0x42, 0x43
	must(f.Write(data))
	if err := Fdatasync(f); err != nil {
		t.Fatalf("Fdatasync: %v", err)
	}

	for _, opt := range []Options{0, SequentialAccess, RandomAccess | Prefault} {
		b, err := Map(f, len(data), opt)
		if err != nil {
			t.Fatalf("Map(%v): %v", opt, err)
		}
		if len(b) != len(data) || b[0] != 0x42 || b[4095] != 0x43 {
			t.Fatalf("Map(%v) returned wrong contents", opt)
		}
		if err := Unmap(b); err != nil {
			t.Fatalf("Unmap: %v", err)
		}
	}

	if _, err := Map(f, 0, 0); err == nil {
		t.Fatalf("Map with zero size succeeded")
	}
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func TestOpenCart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.bin")
	if err := os.WriteFile(path, []byte("zero-copy"), 0o644); err != nil {
		t.Fatal(err)
	}

	cart, err := OpenCart(path, RandomAccess)
	if err != nil {
		t.Fatalf("OpenCart: %v", err)
	}
	if s := string(cart.Bytes()); s != "zero-copy" {
		t.Fatalf("cart.Bytes() = %q, wanted %q", s, "zero-copy")
	}

	y := yoke.Attach(cart.Retain(), func(data []byte) []byte { return data[5:] })
	cart.Release()
	if s := string(y.Get()); s != "copy" {
		t.Fatalf("y.Get() = %q, wanted %q", s, "copy")
	}
	y.Close()
	if cart.Refs() != 0 {
		t.Fatalf("cart.Refs() = %d, wanted 0", cart.Refs())
	}
}

func TestOpenCart_emptyAndMissing(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.bin")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cart := must(OpenCart(path, 0))
	if len(cart.Bytes()) != 0 {
		t.Fatalf("len = %d, wanted 0", len(cart.Bytes()))
	}
	cart.Release()

	if _, err := OpenCart(filepath.Join(dir, "missing.bin"), 0); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, wanted not-exist", err)
	}
}
