package cslpq

import (
	"io"

	"github.com/mewais/cslpq/internal/compression"
	"github.com/mewais/cslpq/internal/mempool"
)

// SnapshotCodec selects the compression codec used by Snapshot. It is a
// thin, root-package-facing re-export of internal/compression.Type so
// callers never need to import the internal package.
type SnapshotCodec = compression.Type

const (
	// SnapshotCodecSnappy compresses with Google Snappy.
	SnapshotCodecSnappy = compression.SnappyCompression
	// SnapshotCodecLZ4 compresses with LZ4 raw block format.
	SnapshotCodecLZ4 = compression.LZ4Compression
	// SnapshotCodecZstd compresses with Zstandard.
	SnapshotCodecZstd = compression.ZstdCompression
)

// Snapshot writes a compressed, point-in-time dump of q's live keys to w,
// one keyBytes(key) record per line. Encoded bytes are written verbatim:
// an encoding that contains a newline byte spans more than one line. This
// is a diagnostic export, not a
// durability mechanism: spec.md excludes persistence from scope, and
// there is deliberately no matching Load/Restore — compare the teacher's
// real backup.go, which this is explicitly NOT modeled to replace.
func (q *Queue[K]) Snapshot(w io.Writer, codec SnapshotCodec, keyBytes func(K) []byte) error {
	cw, err := compression.NewWriter(w, codec)
	if err != nil {
		return err
	}

	buf := mempool.Get(256)
	defer mempool.Put(buf)

	for _, k := range q.eng.SnapshotKeys() {
		buf = buf[:0]
		buf = append(buf, keyBytes(k)...)
		buf = append(buf, '\n')
		if _, err := cw.Write(buf); err != nil {
			_ = cw.Close()
			return err
		}
	}
	return cw.Close()
}

// Snapshot is Queue.Snapshot's key+value counterpart: each live entry is
// written as keyBytes(key), a tab, then valueBytes(value), newline
// terminated.
func (q *KVQueue[K, V]) Snapshot(w io.Writer, codec SnapshotCodec, keyBytes func(K) []byte, valueBytes func(V) []byte) error {
	cw, err := compression.NewWriter(w, codec)
	if err != nil {
		return err
	}

	buf := mempool.Get(256)
	defer mempool.Put(buf)

	for _, entry := range q.eng.SnapshotEntries() {
		buf = buf[:0]
		buf = append(buf, keyBytes(entry.Key)...)
		buf = append(buf, '\t')
		buf = append(buf, valueBytes(entry.Value)...)
		buf = append(buf, '\n')
		if _, err := cw.Write(buf); err != nil {
			_ = cw.Close()
			return err
		}
	}
	return cw.Close()
}
