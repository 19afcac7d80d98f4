/*
Package storage persists filesystem snapshots in a key-value backend.

Backends:
  - memory: process-local map, for tests and throwaway sessions
  - file: one file per key, written atomically and zstd-compressed
  - s3: one object per key in an S3-compatible bucket
  - postgres: a single kv table with upsert on write

Remote backends (s3, postgres) are wrapped by Guard, which fails fast
with resilience.ErrCircuitOpen after repeated errors.

Adapter bridges a KV to the vfs package: it implements vfs.Loader and
vfs.Persister, encoding the tree with the snapshot codec.

Example Usage:

	kv, err := storage.New(ctx, cfg.Storage, nil)
	if err != nil {
		return err
	}
	defer kv.Close()

	adapter := storage.NewAdapter(kv, storage.WithLogger(logger))
	store := vfs.Open(adapter, vfs.WithLogger(logger))
*/
package storage
