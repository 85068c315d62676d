package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.etcd.io/bbolt"

	"github.com/andreyvit/zerovec/yoke"
)

// StoreOptions configures a StoreProvider.
type StoreOptions struct {
	Logger *slog.Logger

	// Timeout for acquiring the Bolt file lock. Zero waits forever.
	Timeout time.Duration

	// ReadOnly rejects Put, PutValue and Delete.
	ReadOnly bool
}

// StoreProvider keeps buffers in a record store, one bucket per key path,
// keyed by locale. Each record remembers its BufferFormat.
type StoreProvider struct {
	recs     recordStore
	logger   *slog.Logger
	name     string
	readOnly bool
}

// ErrReadOnlyStore is wrapped by the errors of writes to a store opened with
// StoreOptions.ReadOnly.
var ErrReadOnlyStore = errors.New("store is read-only")

// record is the stored value of a buffer.
type record struct {
	Format BufferFormat `msgpack:"f"`
	Data   []byte       `msgpack:"d"`
}

// OpenBolt opens or creates a Bolt-backed store at path.
func OpenBolt(path string, opt StoreOptions) (*StoreProvider, error) {
	db, err := bbolt.Open(path, 0o644, &bbolt.Options{
		Timeout:  opt.Timeout,
		ReadOnly: opt.ReadOnly,
	})
	if err != nil {
		return nil, ErrIo.WithStr(path).Wrap(err)
	}
	return newStoreProvider(boltRecords{db}, path, opt), nil
}

// NewMemStore returns a store that keeps everything in memory.
func NewMemStore(opt StoreOptions) *StoreProvider {
	return newStoreProvider(newMemRecords(), "(memory)", opt)
}

func newStoreProvider(recs recordStore, name string, opt StoreOptions) *StoreProvider {
	if opt.Logger == nil {
		opt.Logger = slog.Default()
	}
	opt.Logger.LogAttrs(context.Background(), slog.LevelDebug, "provider: store opened", slog.String("store", name))
	return &StoreProvider{recs: recs, logger: opt.Logger, name: name, readOnly: opt.ReadOnly}
}

func (p *StoreProvider) checkWritable(key DataKey, locale DataLocale) error {
	if p.readOnly {
		return ErrInvalidState.WithRequest(key, RequestFor(locale)).Wrap(fmt.Errorf("%s: %w", p.name, ErrReadOnlyStore))
	}
	return nil
}

func (p *StoreProvider) Close() error {
	p.logger.LogAttrs(context.Background(), slog.LevelDebug, "provider: store closed", slog.String("store", p.name))
	return p.recs.Close()
}

// Put stores a buffer for key and locale, replacing any existing one.
func (p *StoreProvider) Put(key DataKey, locale DataLocale, format BufferFormat, data []byte) error {
	if err := p.checkWritable(key, locale); err != nil {
		return err
	}
	if !format.IsValid() {
		e := ErrUnavailableBufferFormat.WithKey(key)
		e.Str = format.String()
		return e
	}
	val, err := encodeMsgpack(nil, &record{format, data})
	if err != nil {
		return ErrCustom.WithKey(key).Wrap(err)
	}
	err = p.recs.Update(key.Path(), true, func(b recordBucket) error {
		return b.Put(locale.String(), val)
	})
	if err != nil {
		return ErrIo.WithRequest(key, RequestFor(locale)).Wrap(err)
	}
	return nil
}

// PutValue serializes v as Msgpack and stores it.
func (p *StoreProvider) PutValue(key DataKey, locale DataLocale, v any) error {
	data, err := EncodeMsgpack(v)
	if err != nil {
		return ErrCustom.WithKey(key).Wrap(err)
	}
	return p.Put(key, locale, Msgpack, data)
}

// Delete removes the buffer for key and locale, if any.
func (p *StoreProvider) Delete(key DataKey, locale DataLocale) error {
	if err := p.checkWritable(key, locale); err != nil {
		return err
	}
	err := p.recs.Update(key.Path(), false, func(b recordBucket) error {
		if b == nil {
			return nil
		}
		return b.Delete(locale.String())
	})
	if err != nil {
		return ErrIo.WithRequest(key, RequestFor(locale)).Wrap(err)
	}
	return nil
}

// Locales lists the locales stored for key, in byte order of their tags.
func (p *StoreProvider) Locales(key DataKey) ([]DataLocale, error) {
	var result []DataLocale
	err := p.recs.View(key.Path(), func(b recordBucket) error {
		if b == nil {
			return nil
		}
		for tag := range b.Locales() {
			l, err := ParseLocale(tag)
			if err != nil {
				return ErrInvalidState.WithKey(key).Wrap(err)
			}
			result = append(result, l)
		}
		return nil
	})
	if err != nil {
		if KindOf(err) != 0 {
			return nil, err
		}
		return nil, ErrIo.WithKey(key).Wrap(err)
	}
	return result, nil
}

func (p *StoreProvider) LoadBuffer(key DataKey, req DataRequest) (DataResponse[[]byte], error) {
	if err := key.checkLocale(req); err != nil {
		return DataResponse[[]byte]{}, err
	}
	var rec record
	err := p.recs.View(key.Path(), func(b recordBucket) error {
		if b == nil {
			return ErrMissingDataKey.WithRequest(key, req)
		}
		raw := b.Get(req.Locale.String())
		if raw == nil {
			return ErrMissingLocale.WithRequest(key, req)
		}
		// decoding copies Data out of the transaction's memory
		if err := decodeMsgpack(raw, &rec); err != nil {
			p.logger.LogAttrs(context.Background(), slog.LevelWarn, "provider: corrupted record",
				slog.String("key", key.Path()),
				slog.String("locale", req.Locale.String()),
				slog.Any("err", err))
			return ErrInvalidState.WithRequest(key, req).Wrap(err)
		}
		return nil
	})
	if err != nil {
		if KindOf(err) != 0 {
			return DataResponse[[]byte]{}, err
		}
		return DataResponse[[]byte]{}, ErrIo.WithRequest(key, req).Wrap(fmt.Errorf("%s: %w", p.name, err))
	}
	return DataResponse[[]byte]{
		Metadata: DataResponseMetadata{BufferFormat: rec.Format},
		Payload:  FromCart(yoke.NewRcCart(rec.Data, nil)),
	}, nil
}
