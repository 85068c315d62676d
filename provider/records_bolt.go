package provider

import (
	"iter"
	"unsafe"

	"go.etcd.io/bbolt"
)

type boltRecords struct {
	db *bbolt.DB
}

func (s boltRecords) View(path string, fn func(recordBucket) error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		if b := tx.Bucket(unsafeBytes(path)); b != nil {
			return fn(boltBucket{b})
		}
		return fn(nil)
	})
}

func (s boltRecords) Update(path string, create bool, fn func(recordBucket) error) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if !create {
			if b := tx.Bucket(unsafeBytes(path)); b != nil {
				return fn(boltBucket{b})
			}
			return fn(nil)
		}
		b, err := tx.CreateBucketIfNotExists([]byte(path))
		if err != nil {
			return err
		}
		return fn(boltBucket{b})
	})
}

func (s boltRecords) Close() error {
	return s.db.Close()
}

type boltBucket struct {
	b *bbolt.Bucket
}

func (b boltBucket) Get(locale string) []byte {
	return b.b.Get(unsafeBytes(locale))
}

func (b boltBucket) Put(locale string, rec []byte) error {
	return b.b.Put([]byte(locale), rec)
}

func (b boltBucket) Delete(locale string) error {
	return b.b.Delete(unsafeBytes(locale))
}

func (b boltBucket) Locales() iter.Seq[string] {
	return func(yield func(string) bool) {
		c := b.b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			if !yield(string(k)) {
				return
			}
		}
	}
}

// unsafeBytes is for lookups only; bbolt does not retain or modify the key.
func unsafeBytes(s string) []byte {
	return unsafe.Slice(unsafe.StringData(s), len(s))
}
