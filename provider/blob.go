package provider

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/andreyvit/zerovec"
	"github.com/andreyvit/zerovec/mmap"
	"github.com/andreyvit/zerovec/yoke"
)

// Blob layout:
//
//	magic "ZVB1" | indexLen:u32 | index | buffers
//
// index is Map<u32 key hash, Map<string locale, u32 buffer number>>, buffers
// is VarVec<bytes>, and every buffer is format:u8 followed by the data.
const blobMagic = "ZVB1"

var (
	localeLayout = zerovec.VarLayout(zerovec.String)
	bufIdxLayout = zerovec.FixedLayout(zerovec.Uint32)
	innerIndex   = zerovec.MapOf(localeLayout, bufIdxLayout)
	hashLayout   = zerovec.FixedLayout(zerovec.Uint32)
	indexLayout  = zerovec.VarLayout(innerIndex)
)

type blobIndex = zerovec.Map[uint32, zerovec.Map[string, uint32]]

// Compression of a blob file. Compressed blobs are detected by their magic
// numbers when loading, so readers need no configuration.
type Compression uint8

const (
	NoCompression Compression = iota
	Zstd
	LZ4
)

var (
	zstdMagic = []byte{0x28, 0xB5, 0x2F, 0xFD}
	lz4Magic  = []byte{0x04, 0x22, 0x4D, 0x18}
)

var errBlobClosed = errors.New("blob provider closed")

type ExportOptions struct {
	Logger      *slog.Logger
	Compression Compression
}

// BlobExporter collects buffers and writes them as one blob. Identical
// buffers are stored once.
type BlobExporter struct {
	opt     ExportOptions
	keys    map[DataKeyHash]DataKey
	entries map[DataKeyHash]map[string]uint32
	buffers [][]byte
	dedup   map[uint64][]uint32
}

func NewBlobExporter(opt ExportOptions) *BlobExporter {
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	return &BlobExporter{
		opt:     opt,
		keys:    make(map[DataKeyHash]DataKey),
		entries: make(map[DataKeyHash]map[string]uint32),
		dedup:   make(map[uint64][]uint32),
	}
}

// Put adds a buffer. Adding the same key and locale twice fails with
// zerovec.ErrDuplicateKey, and so do two key paths with the same hash.
func (e *BlobExporter) Put(key DataKey, locale DataLocale, format BufferFormat, data []byte) error {
	if !format.IsValid() {
		de := ErrUnavailableBufferFormat.WithKey(key)
		de.Str = format.String()
		return de
	}
	h := key.Hash()
	if prev, ok := e.keys[h]; ok && prev.Path() != key.Path() {
		return ErrInvalidState.WithKey(key).Wrap(fmt.Errorf("%w: hash %v also used by %v", zerovec.ErrDuplicateKey, h, prev))
	}
	e.keys[h] = key
	byLocale := e.entries[h]
	if byLocale == nil {
		byLocale = make(map[string]uint32)
		e.entries[h] = byLocale
	}
	loc := locale.String()
	if _, ok := byLocale[loc]; ok {
		return ErrInvalidState.WithRequest(key, RequestFor(locale)).Wrap(zerovec.ErrDuplicateKey)
	}

	buf := make([]byte, 0, 1+len(data))
	buf = append(append(buf, byte(format)), data...)
	byLocale[loc] = e.intern(buf)
	return nil
}

func (e *BlobExporter) intern(buf []byte) uint32 {
	sum := xxhash.Sum64(buf)
	for _, i := range e.dedup[sum] {
		if bytes.Equal(e.buffers[i], buf) {
			return i
		}
	}
	i := uint32(len(e.buffers))
	e.buffers = append(e.buffers, buf)
	e.dedup[sum] = append(e.dedup[sum], i)
	return i
}

// Bytes serializes the blob, compressing it if configured.
func (e *BlobExporter) Bytes() ([]byte, error) {
	outer := zerovec.NewMapBuilder(hashLayout, indexLayout)
	for h, byLocale := range e.entries {
		inner, err := zerovec.MapFromGoMap(localeLayout, bufIdxLayout, byLocale)
		if err != nil {
			return nil, err
		}
		if err := outer.Insert(h.Uint32(), inner); err != nil {
			return nil, err
		}
	}
	index := outer.Freeze().Bytes()

	raw := make([]byte, 0, len(blobMagic)+4+len(index))
	raw = append(raw, blobMagic...)
	raw = binary.LittleEndian.AppendUint32(raw, uint32(len(index)))
	raw = append(raw, index...)
	raw = zerovec.AppendVarVec(raw, zerovec.Bytes, e.buffers)

	out, err := compress(raw, e.opt.Compression)
	if err != nil {
		return nil, err
	}
	e.opt.Logger.LogAttrs(context.Background(), slog.LevelDebug, "provider: blob exported",
		slog.Int("keys", len(e.entries)),
		slog.Int("buffers", len(e.buffers)),
		slog.Int("size", len(raw)),
		slog.Int("stored", len(out)))
	return out, nil
}

// WriteFile writes the blob to path atomically and syncs it to disk.
func (e *BlobExporter) WriteFile(path string) error {
	data, err := e.Bytes()
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer os.Remove(tmp)

	_, err = f.Write(data)
	if err == nil {
		err = mmap.Fdatasync(f)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("provider: writing %s: %w", path, err)
	}
	return os.Rename(tmp, path)
}

func compress(raw []byte, c Compression) ([]byte, error) {
	switch c {
	case NoCompression:
		return raw, nil
	case Zstd:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, err
		}
		defer enc.Close()
		return enc.EncodeAll(raw, nil), nil
	case LZ4:
		var buf bytes.Buffer
		w := lz4.NewWriter(&buf)
		if _, err := w.Write(raw); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unknown compression %d", c)
	}
}

type BlobOptions struct {
	Logger *slog.Logger

	// Mmap makes OpenBlobFile map uncompressed files instead of reading them.
	Mmap        bool
	MmapOptions mmap.Options

	// MaxDecompressedSize bounds the size of decompressed blobs. Defaults to
	// 1 GiB.
	MaxDecompressedSize int64
}

const defaultMaxDecompressedSize = 1 << 30

// BlobProvider serves buffers from a blob. The whole blob is validated when
// the provider is created, and payloads share its memory.
type BlobProvider struct {
	cart    *yoke.RcCart
	index   blobIndex
	buffers zerovec.VarVec[[]byte]
	logger  *slog.Logger
	closed  atomic.Bool
}

// OpenBlobFile reads or maps the blob at path.
func OpenBlobFile(path string, opt BlobOptions) (*BlobProvider, error) {
	var cart *yoke.RcCart
	if opt.Mmap {
		c, err := mmap.OpenCart(path, opt.MmapOptions)
		if err != nil {
			return nil, ErrIo.WithStr(path).Wrap(err)
		}
		cart = c
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, ErrIo.WithStr(path).Wrap(err)
		}
		cart = yoke.NewRcCart(data, nil)
	}
	return NewBlobProvider(cart, opt)
}

// NewBlobProvider takes ownership of cart, which is released on failure or
// when the provider and all its payloads are closed.
func NewBlobProvider(cart *yoke.RcCart, opt BlobOptions) (*BlobProvider, error) {
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	if opt.MaxDecompressedSize <= 0 {
		opt.MaxDecompressedSize = defaultMaxDecompressedSize
	}

	cart, err := decompressCart(cart, opt.MaxDecompressedSize)
	if err != nil {
		return nil, ErrInvalidState.WithStr("decompressing blob").Wrap(err)
	}
	data := cart.Bytes()
	index, buffers, err := parseBlob(data)
	if err != nil {
		cart.Release()
		return nil, ErrInvalidState.WithStr("parsing blob").Wrap(err)
	}

	opt.Logger.LogAttrs(context.Background(), slog.LevelDebug, "provider: blob opened",
		slog.Int("size", len(data)),
		slog.Int("keys", index.Len()),
		slog.Int("buffers", buffers.Len()))
	return &BlobProvider{cart: cart, index: index, buffers: buffers, logger: opt.Logger}, nil
}

func decompressCart(cart *yoke.RcCart, limit int64) (*yoke.RcCart, error) {
	data := cart.Bytes()
	var out []byte
	var err error
	switch {
	case bytes.HasPrefix(data, zstdMagic):
		var dec *zstd.Decoder
		dec, err = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(uint64(limit)))
		if err == nil {
			out, err = dec.DecodeAll(data, nil)
			dec.Close()
		}
	case bytes.HasPrefix(data, lz4Magic):
		out, err = io.ReadAll(io.LimitReader(lz4.NewReader(bytes.NewReader(data)), limit+1))
		if err == nil && int64(len(out)) > limit {
			err = fmt.Errorf("decompressed blob exceeds %d bytes", limit)
		}
	default:
		return cart, nil
	}
	cart.Release()
	if err != nil {
		return nil, err
	}
	return yoke.NewRcCart(out, nil), nil
}

func parseBlob(data []byte) (blobIndex, zerovec.VarVec[[]byte], error) {
	hdr := len(blobMagic) + 4
	if len(data) < hdr || string(data[:len(blobMagic)]) != blobMagic {
		return blobIndex{}, zerovec.VarVec[[]byte]{}, fmt.Errorf("not a blob")
	}
	indexLen := uint64(binary.LittleEndian.Uint32(data[len(blobMagic):]))
	if indexLen > uint64(len(data)-hdr) {
		return blobIndex{}, zerovec.VarVec[[]byte]{}, fmt.Errorf("index of %d bytes does not fit: %w", indexLen, zerovec.ErrLengthMismatch)
	}
	split := hdr + int(indexLen)
	index, err := zerovec.ParseMap(hashLayout, indexLayout, data[hdr:split:split])
	if err != nil {
		return blobIndex{}, zerovec.VarVec[[]byte]{}, fmt.Errorf("index: %w", err)
	}
	buffers, err := zerovec.ParseVarVec(zerovec.Bytes, data[split:])
	if err != nil {
		return blobIndex{}, zerovec.VarVec[[]byte]{}, fmt.Errorf("buffers: %w", err)
	}
	for i, buf := range buffers.Indexed() {
		if len(buf) == 0 || !BufferFormat(buf[0]).IsValid() {
			return blobIndex{}, zerovec.VarVec[[]byte]{}, fmt.Errorf("buffer %d has no valid format byte", i)
		}
	}
	for _, byLocale := range index.All() {
		for loc, i := range byLocale.All() {
			if int64(i) >= int64(buffers.Len()) {
				return blobIndex{}, zerovec.VarVec[[]byte]{}, fmt.Errorf("locale %q refers to buffer %d of %d: %w", loc, i, buffers.Len(), zerovec.ErrIndexOutOfRange)
			}
		}
	}
	return index, buffers, nil
}

func (p *BlobProvider) LoadBuffer(key DataKey, req DataRequest) (DataResponse[[]byte], error) {
	if err := key.checkLocale(req); err != nil {
		return DataResponse[[]byte]{}, err
	}
	// the reference keeps the blob mapped while we read the index, even if
	// Close runs concurrently
	cart, ok := p.cart.TryRetain()
	if !ok || p.closed.Load() {
		if ok {
			cart.Release()
		}
		return DataResponse[[]byte]{}, ErrInvalidState.WithRequest(key, req).Wrap(errBlobClosed)
	}
	byLocale, ok := p.index.Get(key.Hash().Uint32())
	if !ok {
		cart.Release()
		return DataResponse[[]byte]{}, ErrMissingDataKey.WithRequest(key, req)
	}
	i, ok := byLocale.Get(req.Locale.String())
	if !ok {
		cart.Release()
		return DataResponse[[]byte]{}, ErrMissingLocale.WithRequest(key, req)
	}
	buf := p.buffers.At(int(i))

	// buf was parsed from the cart's bytes when the provider was created
	payload := FromYoke(yoke.AttachUnchecked(cart, buf[1:]))
	return DataResponse[[]byte]{
		Metadata: DataResponseMetadata{BufferFormat: BufferFormat(buf[0])},
		Payload:  payload,
	}, nil
}

// Keys returns the number of distinct keys in the blob.
func (p *BlobProvider) Keys() int {
	return p.index.Len()
}

// Close drops the provider's reference to the blob. Payloads loaded earlier
// stay valid until they are closed themselves.
func (p *BlobProvider) Close() {
	if p.closed.CompareAndSwap(false, true) {
		p.cart.Release()
	}
}
