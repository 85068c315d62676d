/*
Package provider loads locale data for a data key and locale, handing out
payloads that borrow from the underlying storage whenever possible.

Providers:

1. BlobProvider serves a single validated blob file (optionally zstd or lz4
compressed, optionally mmap'ed). Payloads point directly into the blob.

2. StoreProvider keeps buffers in a Bolt database (OpenBolt) or in memory
(NewMemStore), one bucket per key path.

3. StaticProvider serves owned Go values registered at startup.

4. CachingProvider and FallbackProvider wrap another buffer provider.

Buffers are deserialized by Load according to their BufferFormat: Zerovec
buffers are parsed in place and keep sharing the buffer, Msgpack buffers are
decoded into owned values.

Every *DataPayload returned to the caller must be closed exactly once.
*/
package provider
