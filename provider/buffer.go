package provider

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// BufferFormat says how a serialized buffer is to be deserialized.
type BufferFormat uint8

const (
	// Zerovec buffers hold zero-copy container bytes and are parsed in place.
	Zerovec BufferFormat = iota + 1

	// Msgpack buffers are decoded into owned values.
	Msgpack
)

func (f BufferFormat) String() string {
	switch f {
	case Zerovec:
		return "zerovec"
	case Msgpack:
		return "msgpack"
	default:
		return fmt.Sprintf("BufferFormat(%d)", uint8(f))
	}
}

func (f BufferFormat) IsValid() bool {
	return f == Zerovec || f == Msgpack
}

// BufferProvider serves serialized data. The payload references the
// provider's storage without copying whenever that storage allows it.
type BufferProvider interface {
	LoadBuffer(key DataKey, req DataRequest) (DataResponse[[]byte], error)
}

// Marker ties a data key to the Go type its buffers deserialize into.
type Marker[T any] struct {
	Key DataKey

	// Parse builds a zero-copy view over a Zerovec buffer. The result may
	// borrow from data.
	Parse func(data []byte) (T, error)
}

func NewMarker[T any](key DataKey, parse func(data []byte) (T, error)) Marker[T] {
	return Marker[T]{key, parse}
}

// Load requests m.Key from p and deserializes the buffer according to its
// format. Zerovec buffers are parsed in place and the result keeps sharing
// the buffer; Msgpack ones are decoded into an owned value and the buffer is
// released.
func Load[T any](p BufferProvider, m Marker[T], req DataRequest) (DataResponse[T], error) {
	resp, err := p.LoadBuffer(m.Key, req)
	if err != nil {
		return DataResponse[T]{}, err
	}
	if resp.Payload == nil {
		return DataResponse[T]{}, ErrMissingPayload.WithRequest(m.Key, req)
	}

	var payload *DataPayload[T]
	switch resp.Metadata.BufferFormat {
	case Zerovec:
		if m.Parse == nil {
			resp.Close()
			return DataResponse[T]{}, ErrUnavailableBufferFormat.WithRequest(m.Key, req)
		}
		payload, err = TryMapProject(resp.Payload, func(buf []byte, _ []byte) (T, error) {
			return m.Parse(buf)
		})
	case Msgpack:
		var v T
		err = decodeMsgpack(resp.Payload.Get(), &v)
		resp.Close()
		if err == nil {
			payload = FromOwned(v)
		}
	default:
		resp.Close()
		e := ErrUnavailableBufferFormat.WithRequest(m.Key, req)
		e.Str = resp.Metadata.BufferFormat.String()
		return DataResponse[T]{}, e
	}
	if err != nil {
		return DataResponse[T]{}, ErrCustom.WithRequest(m.Key, req).Wrap(fmt.Errorf("deserializing %s: %w", typeName[T](), err))
	}
	return DataResponse[T]{resp.Metadata, payload}, nil
}

// encodeMsgpack appends the msgpack form of v to buf, with map keys sorted so
// the output is deterministic.
func encodeMsgpack(buf []byte, v any) ([]byte, error) {
	w := bytes.NewBuffer(buf)
	enc := msgpack.GetEncoder()
	enc.Reset(w)
	enc.SetSortMapKeys(true)
	err := enc.Encode(v)
	msgpack.PutEncoder(enc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %T using msgpack: %w", v, err)
	}
	return w.Bytes(), nil
}

func decodeMsgpack(buf []byte, v any) error {
	var r bytes.Reader
	r.Reset(buf)
	dec := msgpack.GetDecoder()
	dec.Reset(&r)
	err := dec.Decode(v)
	msgpack.PutDecoder(dec)
	if err != nil {
		return fmt.Errorf("failed to decode msgpack into %T: %w", v, err)
	}
	return nil
}

// EncodeMsgpack serializes v as a Msgpack buffer.
func EncodeMsgpack(v any) ([]byte, error) {
	return encodeMsgpack(nil, v)
}
