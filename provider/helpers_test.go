package provider

import (
	"sync/atomic"
	"testing"

	"github.com/andreyvit/zerovec/internal/hexspec"
	"github.com/andreyvit/zerovec/yoke"
)

var (
	testKey    = MustKey("test/words@1")
	testMsgKey = MustKey("test/numbers@1")
	testSingle = MustKey("test/config@1", Singleton)
	en         = MustLocale("en")
	enGB       = MustLocale("en-GB")
	deCH       = MustLocale("de-CH")
	de         = MustLocale("de")
)

// countingProvider hands out buffers backed by fresh RcCarts and counts
// loads and releases.
type countingProvider struct {
	data     map[DataLocale][]byte
	loads    atomic.Int64
	releases atomic.Int64
	gate     chan struct{}
}

func (p *countingProvider) LoadBuffer(key DataKey, req DataRequest) (DataResponse[[]byte], error) {
	if p.gate != nil {
		<-p.gate
	}
	p.loads.Add(1)
	b, ok := p.data[req.Locale]
	if !ok {
		return DataResponse[[]byte]{}, ErrMissingLocale.WithRequest(key, req)
	}
	cart := yoke.NewRcCart(b, func([]byte) { p.releases.Add(1) })
	return DataResponse[[]byte]{
		Metadata: DataResponseMetadata{BufferFormat: Zerovec},
		Payload:  FromCart(cart),
	}, nil
}

func testOptions(t testing.TB) StoreOptions {
	return StoreOptions{Logger: hexspec.Logger(t)}
}
