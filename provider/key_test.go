package provider

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataKey(t *testing.T) {
	k, err := NewDataKey("calendar/japanese@1")
	require.NoError(t, err)
	assert.Equal(t, "calendar/japanese@1", k.Path())
	assert.False(t, k.IsSingleton())
	assert.False(t, k.IsZero())

	h := k.Hash()
	assert.Equal(t, uint32(xxhash.Sum64String("calendar/japanese@1")), binary.LittleEndian.Uint32(h[:]))
	assert.Equal(t, h.Uint32(), binary.LittleEndian.Uint32(h[:]))

	assert.True(t, MustKey("a@1", Singleton).IsSingleton())
	assert.True(t, DataKey{}.IsZero())
}

func TestDataKey_invalid(t *testing.T) {
	for _, path := range []string{"", "calendar", "calendar@", "calendar@x", "Calendar@1", "a//b@1", "a/b-c@1", "/a@1"} {
		_, err := NewDataKey(path)
		assert.Error(t, err, "path %q", path)
	}
	assert.Panics(t, func() { MustKey("bad") })
}

func TestDataLocale(t *testing.T) {
	l, err := ParseLocale("en-us")
	require.NoError(t, err)
	assert.Equal(t, "en-US", l.String())

	und, err := ParseLocale("")
	require.NoError(t, err)
	assert.True(t, und.IsUnd())
	assert.Equal(t, "und", und.String())
	assert.Equal(t, Und, MustLocale("und"))

	assert.Equal(t, de, deCH.Parent())
	assert.Equal(t, Und, de.Parent())

	_, err = ParseLocale("not a locale!")
	assert.Error(t, err)
}

func TestDataError(t *testing.T) {
	cause := errors.New("disk on fire")
	err := error(ErrIo.WithRequest(testKey, RequestFor(en)).Wrap(cause))

	assert.ErrorIs(t, err, ErrIo)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrMissingLocale)
	assert.Equal(t, ErrIo, KindOf(err))
	assert.Equal(t, "provider: I/O error: test/words@1/en: disk on fire", err.Error())

	assert.Equal(t, "provider: mismatched types (int)", ErrMismatchedType.WithStr("int").Error())
	assert.Equal(t, DataErrorKind(0), KindOf(cause))
}
