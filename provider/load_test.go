package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andreyvit/zerovec"
)

var wordsMarker = NewMarker(testKey, func(data []byte) (zerovec.VarVec[string], error) {
	return zerovec.ParseVarVec(zerovec.String, data)
})

func TestLoad_zerovec(t *testing.T) {
	p := NewMemStore(testOptions(t))
	defer p.Close()
	require.NoError(t, p.Put(testKey, en, Zerovec, zerovec.AppendVarVec(nil, zerovec.String, []string{"one", "two", "three"})))

	resp, err := Load(p, wordsMarker, RequestFor(en))
	require.NoError(t, err)
	defer resp.Close()
	assert.False(t, resp.Payload.IsOwned())
	assert.Equal(t, []string{"one", "two", "three"}, resp.Payload.Get().ToSlice())
}

func TestLoad_msgpack(t *testing.T) {
	p := NewMemStore(testOptions(t))
	defer p.Close()
	require.NoError(t, p.PutValue(testMsgKey, en, []int{1, 2, 3}))

	resp, err := Load(p, Marker[[]int]{Key: testMsgKey}, RequestFor(en))
	require.NoError(t, err)
	v, err := resp.Payload.TryUnwrapOwned()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, v)
}

func TestLoad_errors(t *testing.T) {
	p := NewMemStore(testOptions(t))
	defer p.Close()
	require.NoError(t, p.Put(testKey, en, Zerovec, []byte{1, 0, 0, 0}))
	require.NoError(t, p.Put(testMsgKey, en, Msgpack, []byte{0xc1}))

	_, err := Load(p, wordsMarker, RequestFor(en))
	assert.ErrorIs(t, err, ErrCustom)
	assert.ErrorIs(t, err, zerovec.ErrLengthMismatch)

	_, err = Load(p, Marker[[]int]{Key: testKey}, RequestFor(en))
	assert.ErrorIs(t, err, ErrUnavailableBufferFormat)

	_, err = Load(p, Marker[[]int]{Key: testMsgKey}, RequestFor(en))
	assert.ErrorIs(t, err, ErrCustom)

	_, err = Load(p, wordsMarker, RequestFor(de))
	assert.ErrorIs(t, err, ErrMissingLocale)
}

func TestLoad_releasesBufferOnFailure(t *testing.T) {
	cp := &countingProvider{data: map[DataLocale][]byte{en: {0xff}}}
	_, err := Load(cp, wordsMarker, RequestFor(en))
	assert.ErrorIs(t, err, ErrCustom)
	assert.Equal(t, int64(1), cp.releases.Load())
}
