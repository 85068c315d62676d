package provider

import "errors"

// FallbackProvider retries requests that fail with ErrMissingLocale using
// parent locales, down to und.
type FallbackProvider struct {
	inner BufferProvider
}

func WithFallback(inner BufferProvider) *FallbackProvider {
	return &FallbackProvider{inner}
}

func (p *FallbackProvider) LoadBuffer(key DataKey, req DataRequest) (DataResponse[[]byte], error) {
	if key.IsSingleton() {
		return p.inner.LoadBuffer(key, req)
	}
	r := req
	for {
		resp, err := p.inner.LoadBuffer(key, r)
		if err == nil {
			if r.Locale != req.Locale {
				found := r.Locale
				resp.Metadata.Locale = &found
			}
			return resp, nil
		}
		if !errors.Is(err, ErrMissingLocale) || r.Locale.IsUnd() {
			var de *DataError
			if errors.As(err, &de) {
				de.Locale = req.Locale
			}
			return resp, err
		}
		r.Locale = r.Locale.Parent()
	}
}
