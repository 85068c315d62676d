package provider

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func forEachStore(t *testing.T, f func(t *testing.T, p *StoreProvider)) {
	t.Run("mem", func(t *testing.T) {
		p := NewMemStore(testOptions(t))
		defer p.Close()
		f(t, p)
	})
	t.Run("bolt", func(t *testing.T) {
		p, err := OpenBolt(filepath.Join(t.TempDir(), "data.db"), testOptions(t))
		require.NoError(t, err)
		defer p.Close()
		f(t, p)
	})
}

func TestStoreProvider_putLoad(t *testing.T) {
	forEachStore(t, func(t *testing.T, p *StoreProvider) {
		require.NoError(t, p.Put(testKey, en, Zerovec, []byte("hello")))
		require.NoError(t, p.Put(testKey, de, Zerovec, []byte("hallo")))
		require.NoError(t, p.Put(testKey, en, Zerovec, []byte("howdy")))

		resp, err := p.LoadBuffer(testKey, RequestFor(en))
		require.NoError(t, err)
		assert.Equal(t, Zerovec, resp.Metadata.BufferFormat)
		assert.Equal(t, "howdy", string(resp.Payload.Get()))
		resp.Close()

		locales, err := p.Locales(testKey)
		require.NoError(t, err)
		assert.Equal(t, []DataLocale{de, en}, locales)

		require.NoError(t, p.Delete(testKey, de))
		_, err = p.LoadBuffer(testKey, RequestFor(de))
		assert.ErrorIs(t, err, ErrMissingLocale)

		_, err = p.LoadBuffer(testMsgKey, RequestFor(en))
		assert.ErrorIs(t, err, ErrMissingDataKey)

		locales, err = p.Locales(testMsgKey)
		require.NoError(t, err)
		assert.Empty(t, locales)
	})
}

func TestStoreProvider_payloadOutlivesTx(t *testing.T) {
	forEachStore(t, func(t *testing.T, p *StoreProvider) {
		require.NoError(t, p.Put(testKey, en, Zerovec, []byte("first")))
		resp, err := p.LoadBuffer(testKey, RequestFor(en))
		require.NoError(t, err)
		defer resp.Close()

		require.NoError(t, p.Put(testKey, en, Zerovec, []byte("second")))
		assert.Equal(t, "first", string(resp.Payload.Get()))
	})
}

func TestStoreProvider_singleton(t *testing.T) {
	forEachStore(t, func(t *testing.T, p *StoreProvider) {
		require.NoError(t, p.PutValue(testSingle, Und, map[string]int{"b": 2, "a": 1}))

		_, err := p.LoadBuffer(testSingle, RequestFor(en))
		assert.ErrorIs(t, err, ErrExtraneousLocale)

		resp, err := Load(p, Marker[map[string]int]{Key: testSingle}, RequestFor(Und))
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"a": 1, "b": 2}, resp.Payload.Get())
		assert.True(t, resp.Payload.IsOwned())
		resp.Close()
	})
}

func TestStoreProvider_invalidFormat(t *testing.T) {
	p := NewMemStore(testOptions(t))
	defer p.Close()
	err := p.Put(testKey, en, BufferFormat(9), []byte("x"))
	assert.ErrorIs(t, err, ErrUnavailableBufferFormat)
	assert.Contains(t, err.Error(), "BufferFormat(9)")
}

func TestStoreProvider_reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.db")
	p, err := OpenBolt(path, testOptions(t))
	require.NoError(t, err)
	require.NoError(t, p.Put(testKey, en, Zerovec, []byte("kept")))
	require.NoError(t, p.Close())

	p, err = OpenBolt(path, StoreOptions{Logger: testOptions(t).Logger, ReadOnly: true})
	require.NoError(t, err)
	defer p.Close()
	resp, err := p.LoadBuffer(testKey, RequestFor(en))
	require.NoError(t, err)
	assert.Equal(t, "kept", string(resp.Payload.Get()))
	resp.Close()
}

func TestStoreProvider_readOnly(t *testing.T) {
	readOnly := func(t *testing.T) StoreOptions {
		opt := testOptions(t)
		opt.ReadOnly = true
		return opt
	}
	check := func(t *testing.T, p *StoreProvider) {
		err := p.Put(testKey, en, Zerovec, nil)
		assert.ErrorIs(t, err, ErrReadOnlyStore)
		assert.ErrorIs(t, err, ErrInvalidState)
		assert.ErrorIs(t, p.PutValue(testSingle, Und, 1), ErrReadOnlyStore)
		assert.ErrorIs(t, p.Delete(testKey, en), ErrReadOnlyStore)
	}

	t.Run("mem", func(t *testing.T) {
		p := NewMemStore(readOnly(t))
		defer p.Close()
		check(t, p)
		_, err := p.LoadBuffer(testKey, RequestFor(en))
		assert.ErrorIs(t, err, ErrMissingDataKey)
	})
	t.Run("bolt", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "data.db")
		p, err := OpenBolt(path, testOptions(t))
		require.NoError(t, err)
		require.NoError(t, p.Put(testKey, en, Zerovec, []byte("kept")))
		require.NoError(t, p.Close())

		p, err = OpenBolt(path, readOnly(t))
		require.NoError(t, err)
		defer p.Close()
		check(t, p)
		resp, err := p.LoadBuffer(testKey, RequestFor(en))
		require.NoError(t, err)
		assert.Equal(t, "kept", string(resp.Payload.Get()))
		resp.Close()
	})
}
