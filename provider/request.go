package provider

// DataRequest is what a provider is asked for, in addition to the key.
type DataRequest struct {
	Locale   DataLocale
	Metadata DataRequestMetadata
}

type DataRequestMetadata struct {
	// RequireLocale makes requests with the und locale fail with
	// ErrNeedsLocale for keys that are not singletons.
	RequireLocale bool
}

func RequestFor(locale DataLocale) DataRequest {
	return DataRequest{Locale: locale}
}

// DataResponseMetadata describes where a response came from.
type DataResponseMetadata struct {
	// Locale is the locale the data was actually found for, if it differs
	// from the requested one (after fallback).
	Locale *DataLocale

	// BufferFormat is set by buffer providers.
	BufferFormat BufferFormat
}

// DataResponse carries a payload. The receiver owns Payload and must Close
// it when done.
type DataResponse[T any] struct {
	Metadata DataResponseMetadata
	Payload  *DataPayload[T]
}

// Close closes the payload, if any.
func (r DataResponse[T]) Close() {
	if r.Payload != nil {
		r.Payload.Close()
	}
}

// TakePayload returns the payload or ErrMissingPayload.
func (r DataResponse[T]) TakePayload() (*DataPayload[T], error) {
	if r.Payload == nil {
		return nil, ErrMissingPayload.WithStr(typeName[T]())
	}
	return r.Payload, nil
}
