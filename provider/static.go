package provider

import (
	"sync"
)

// StaticProvider serves owned values registered at startup. It is safe for
// concurrent use.
type StaticProvider struct {
	mu   sync.RWMutex
	data map[DataKeyHash]map[DataLocale]staticEntry
}

type staticEntry func() AnyPayload

func NewStaticProvider() *StaticProvider {
	return &StaticProvider{data: make(map[DataKeyHash]map[DataLocale]staticEntry)}
}

// Register stores v for key and locale, replacing any previous value.
func Register[T any](p *StaticProvider, key DataKey, locale DataLocale, v T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	byLocale := p.data[key.Hash()]
	if byLocale == nil {
		byLocale = make(map[DataLocale]staticEntry)
		p.data[key.Hash()] = byLocale
	}
	byLocale[locale] = func() AnyPayload { return WrapAny(FromOwned(v)) }
}

func (p *StaticProvider) LoadAny(key DataKey, req DataRequest) (AnyResponse, error) {
	if err := key.checkLocale(req); err != nil {
		return AnyResponse{}, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	byLocale := p.data[key.Hash()]
	if byLocale == nil {
		return AnyResponse{}, ErrMissingDataKey.WithRequest(key, req)
	}
	wrap, ok := byLocale[req.Locale]
	if !ok {
		return AnyResponse{}, ErrMissingLocale.WithRequest(key, req)
	}
	payload := wrap()
	return AnyResponse{Payload: &payload}, nil
}
