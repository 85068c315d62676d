package provider

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// DataKeyHash is a stable 4-byte digest of a key path, used as the key of
// serialized indexes.
type DataKeyHash [4]byte

func (h DataKeyHash) Uint32() uint32 {
	return binary.LittleEndian.Uint32(h[:])
}

func (h DataKeyHash) String() string {
	return fmt.Sprintf("%08x", h.Uint32())
}

// DataKey identifies a kind of data, for example "calendar/japanese@1".
type DataKey struct {
	path      string
	hash      DataKeyHash
	singleton bool
}

// KeyOption customizes NewDataKey.
type KeyOption func(*DataKey)

// Singleton marks data that does not vary by locale. Requests for singleton
// keys must use the undetermined locale.
func Singleton(k *DataKey) {
	k.singleton = true
}

// NewDataKey validates path, which must look like "segment/segment@version"
// with lowercase ASCII letters, digits and underscores in segments.
func NewDataKey(path string, opts ...KeyOption) (DataKey, error) {
	if err := validateKeyPath(path); err != nil {
		return DataKey{}, fmt.Errorf("invalid data key %q: %w", path, err)
	}
	var h DataKeyHash
	binary.LittleEndian.PutUint32(h[:], uint32(xxhash.Sum64String(path)))
	k := DataKey{path: path, hash: h}
	for _, o := range opts {
		o(&k)
	}
	return k, nil
}

// MustKey is NewDataKey for compile-time constant paths.
func MustKey(path string, opts ...KeyOption) DataKey {
	k, err := NewDataKey(path, opts...)
	if err != nil {
		panic(err)
	}
	return k
}

func validateKeyPath(path string) error {
	body, version, ok := strings.Cut(path, "@")
	if !ok {
		return fmt.Errorf("missing @version")
	}
	if version == "" {
		return fmt.Errorf("empty version")
	}
	for _, c := range []byte(version) {
		if c < '0' || c > '9' {
			return fmt.Errorf("version must be numeric")
		}
	}
	for seg := range strings.SplitSeq(body, "/") {
		if seg == "" {
			return fmt.Errorf("empty path segment")
		}
		for _, c := range []byte(seg) {
			if !(c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c == '_') {
				return fmt.Errorf("invalid character %q", c)
			}
		}
	}
	return nil
}

func (k DataKey) Path() string {
	return k.path
}

func (k DataKey) Hash() DataKeyHash {
	return k.hash
}

func (k DataKey) IsSingleton() bool {
	return k.singleton
}

func (k DataKey) IsZero() bool {
	return k.path == ""
}

func (k DataKey) String() string {
	return k.path
}

// checkLocale rejects requests whose locale does not fit the key.
func (k DataKey) checkLocale(req DataRequest) error {
	switch {
	case k.singleton && !req.Locale.IsUnd():
		return ErrExtraneousLocale.WithRequest(k, req)
	case !k.singleton && req.Locale.IsUnd() && req.Metadata.RequireLocale:
		return ErrNeedsLocale.WithRequest(k, req)
	}
	return nil
}
