package provider

// AnyPayload is a type-erased DataPayload. Recover the typed payload with
// DowncastAny.
type AnyPayload struct {
	typeName string
	payload  any
	close    func()
}

// WrapAny erases the type of p. The AnyPayload takes ownership of p.
func WrapAny[T any](p *DataPayload[T]) AnyPayload {
	return AnyPayload{typeName[T](), p, p.Close}
}

// TypeName returns the Go type of the wrapped data.
func (a AnyPayload) TypeName() string {
	return a.typeName
}

func (a AnyPayload) Close() {
	if a.close != nil {
		a.close()
	}
}

// DowncastAny returns the typed payload, or fails with ErrMismatchedType.
// On success ownership moves to the returned payload.
func DowncastAny[T any](a AnyPayload) (*DataPayload[T], error) {
	p, ok := a.payload.(*DataPayload[T])
	if !ok {
		return nil, ErrMismatchedType.WithStr(typeName[T]() + " != " + a.typeName)
	}
	return p, nil
}

// AnyResponse is DataResponse for AnyPayload.
type AnyResponse struct {
	Metadata DataResponseMetadata
	Payload  *AnyPayload
}

// AnyProvider serves type-erased payloads.
type AnyProvider interface {
	LoadAny(key DataKey, req DataRequest) (AnyResponse, error)
}

// LoadAny loads key from p and downcasts the payload to T.
func LoadAny[T any](p AnyProvider, key DataKey, req DataRequest) (DataResponse[T], error) {
	resp, err := p.LoadAny(key, req)
	if err != nil {
		return DataResponse[T]{}, err
	}
	if resp.Payload == nil {
		return DataResponse[T]{Metadata: resp.Metadata}, nil
	}
	payload, err := DowncastAny[T](*resp.Payload)
	if err != nil {
		resp.Payload.Close()
		de := err.(*DataError)
		de.Key = key
		return DataResponse[T]{}, de
	}
	return DataResponse[T]{resp.Metadata, payload}, nil
}
