package provider

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreyvit/zerovec/yoke"
)

func TestDataPayload_owned(t *testing.T) {
	p := FromOwned([]string{"a"})
	assert.True(t, p.IsOwned())
	v, err := p.TryUnwrapOwned()
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, v)
	assert.Panics(t, func() { p.Get() })
}

func TestDataPayload_borrowed(t *testing.T) {
	var released int
	cart := yoke.NewRcCart([]byte("hello,world"), func([]byte) { released++ })
	p := FromCart(cart)
	assert.False(t, p.IsOwned())

	_, err := p.TryUnwrapOwned()
	assert.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, "hello,world", string(p.Get()))

	c := p.Clone()
	assert.Equal(t, 2, cart.Refs())

	words := MapProject(p, func(b []byte, _ []byte) []string { return strings.Split(string(b), ",") })
	first := MapProject(words, func(w []string, _ []byte) string { return w[0] })
	n, err := TryMapProject(first, func(s string, data []byte) (int, error) { return len(s) + len(data), nil })
	require.NoError(t, err)
	assert.Equal(t, 16, n.Get())
	assert.Equal(t, 2, cart.Refs())

	n.Close()
	assert.Equal(t, 0, released)
	c.Close()
	assert.Equal(t, 1, released)
}

func TestDataPayload_tryMapProjectFailureReleases(t *testing.T) {
	var released int
	p := FromCart(yoke.NewRcCart([]byte("x"), func([]byte) { released++ }))
	_, err := TryMapProject(p, func([]byte, []byte) (int, error) { return 0, ErrCustom.WithStr("nope") })
	assert.ErrorIs(t, err, ErrCustom)
	assert.Equal(t, 1, released)
}

func TestAnyPayload(t *testing.T) {
	a := WrapAny(FromOwned(42))
	assert.Equal(t, "int", a.TypeName())

	_, err := DowncastAny[string](a)
	assert.ErrorIs(t, err, ErrMismatchedType)

	p, err := DowncastAny[int](a)
	require.NoError(t, err)
	assert.Equal(t, 42, p.Get())
	p.Close()
}

func TestStaticProvider(t *testing.T) {
	sp := NewStaticProvider()
	Register(sp, testKey, en, []string{"one", "two"})
	Register(sp, testSingle, Und, 7)

	resp, err := LoadAny[[]string](sp, testKey, RequestFor(en))
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two"}, resp.Payload.Get())
	assert.True(t, resp.Payload.IsOwned())
	resp.Close()

	_, err = LoadAny[int](sp, testKey, RequestFor(en))
	assert.ErrorIs(t, err, ErrMismatchedType)
	assert.Contains(t, err.Error(), "test/words@1")

	_, err = LoadAny[[]string](sp, testKey, RequestFor(de))
	assert.ErrorIs(t, err, ErrMissingLocale)

	_, err = LoadAny[int](sp, MustKey("test/none@1"), RequestFor(en))
	assert.ErrorIs(t, err, ErrMissingDataKey)

	_, err = LoadAny[int](sp, testSingle, RequestFor(en))
	assert.ErrorIs(t, err, ErrExtraneousLocale)

	_, err = LoadAny[[]string](sp, testKey, DataRequest{Metadata: DataRequestMetadata{RequireLocale: true}})
	assert.ErrorIs(t, err, ErrNeedsLocale)

	single, err := LoadAny[int](sp, testSingle, RequestFor(Und))
	require.NoError(t, err)
	assert.Equal(t, 7, single.Payload.Get())
}
