// Package compression provides the codecs backing the root package's
// diagnostic Snapshot dump.
//
// A CSLPQ queue holds no durable, on-disk representation of its own
// (spec.md explicitly excludes persistence as a non-goal) — this
// package exists purely so a caller can ask for a compressed snapshot
// of the live key set for diagnostics or transport to another process,
// not to recover a queue's state from one. Each Type maps to exactly
// one third-party codec; there is no NoCompression passthrough left
// unexercised and no codec retained that nothing calls.
package compression

import (
	"bytes"
	"fmt"
	"io"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Type identifies a snapshot compression codec.
type Type uint8

const (
	// SnappyCompression uses Google Snappy, via github.com/golang/snappy.
	SnappyCompression Type = iota + 1

	// LZ4Compression uses LZ4 raw block format, via github.com/pierrec/lz4/v4.
	LZ4Compression

	// ZstdCompression uses Zstandard, via github.com/klauspost/compress/zstd.
	ZstdCompression
)

// String returns the codec's human-readable name.
func (t Type) String() string {
	switch t {
	case SnappyCompression:
		return "Snappy"
	case LZ4Compression:
		return "LZ4"
	case ZstdCompression:
		return "ZSTD"
	default:
		return fmt.Sprintf("Unknown(%d)", t)
	}
}

// Compress encodes data with the codec named by t.
func Compress(t Type, data []byte) ([]byte, error) {
	switch t {
	case SnappyCompression:
		return snappy.Encode(nil, data), nil

	case LZ4Compression:
		dst := make([]byte, lz4.CompressBlockBound(len(data)))
		var ht [1 << 16]int
		n, err := lz4.CompressBlock(data, dst, ht[:])
		if err != nil {
			return nil, fmt.Errorf("lz4 compress block: %w", err)
		}
		if n == 0 {
			// Incompressible input: lz4 signals this by returning n == 0
			// rather than an error; store it as an oversized literal block
			// so Decompress's round trip stays uniform.
			return append([]byte{0}, data...), nil
		}
		return append([]byte{1}, dst[:n]...), nil

	case ZstdCompression:
		enc, err := zstd.NewWriter(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd encoder: %w", err)
		}
		defer enc.Close()
		return enc.EncodeAll(data, nil), nil

	default:
		return nil, fmt.Errorf("unsupported compression type: %s", t)
	}
}

// Decompress decodes data with the codec named by t. expectedSize, if
// known, lets the LZ4 path size its output buffer exactly; pass 0 when
// unknown and it grows the buffer until decoding succeeds.
func Decompress(t Type, data []byte, expectedSize int) ([]byte, error) {
	switch t {
	case SnappyCompression:
		return snappy.Decode(nil, data)

	case LZ4Compression:
		return decompressLZ4(data, expectedSize)

	case ZstdCompression:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("zstd decoder: %w", err)
		}
		defer dec.Close()
		return dec.DecodeAll(data, nil)

	default:
		return nil, fmt.Errorf("unsupported compression type: %s", t)
	}
}

func decompressLZ4(data []byte, expectedSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("lz4 decompress: empty input")
	}
	literal, payload := data[0], data[1:]
	if literal == 0 {
		out := make([]byte, len(payload))
		copy(out, payload)
		return out, nil
	}

	if expectedSize > 0 {
		dst := make([]byte, expectedSize)
		n, err := lz4.UncompressBlock(payload, dst)
		if err != nil {
			return nil, fmt.Errorf("lz4 uncompress block: %w", err)
		}
		return dst[:n], nil
	}

	bufSize := max(len(payload)*4, 256)
	var lastErr error
	for range 10 {
		dst := make([]byte, bufSize)
		n, err := lz4.UncompressBlock(payload, dst)
		if err == nil {
			return dst[:n], nil
		}
		lastErr = err
		bufSize *= 2
	}
	return nil, fmt.Errorf("lz4 uncompress block: buffer too small after retries: %w", lastErr)
}

// NewWriter and bufferedWriter exist only so callers dealing with an
// io.Writer (the root package's Snapshot, which streams rather than
// building one []byte up front) don't have to buffer twice. There is no
// reader counterpart; decoding goes through Decompress.

// NewWriter wraps w so that bytes written to the result are encoded with
// t before reaching w, in exactly the format Decompress(t, ...) expects.
// The caller MUST Close the returned writer to flush the codec.
//
// Snappy and LZ4 have no block-compatible streaming writer in the
// versions of their libraries this module carries (lz4.Writer emits its
// own framed format, not the raw block Compress/Decompress use), so both
// buffer their input and encode the whole buffer on Close via Compress;
// only Zstd streams directly, since zstd.NewWriter's frame output is
// exactly what zstd.NewReader.DecodeAll already consumes.
func NewWriter(w io.Writer, t Type) (io.WriteCloser, error) {
	switch t {
	case SnappyCompression, LZ4Compression:
		return &bufferedWriter{w: w, codec: t}, nil
	case ZstdCompression:
		return zstd.NewWriter(w)
	default:
		return nil, fmt.Errorf("unsupported compression type: %s", t)
	}
}

// bufferedWriter adapts Compress's whole-buffer codecs to io.WriteCloser
// by buffering and encoding the full buffer on Close.
type bufferedWriter struct {
	w     io.Writer
	codec Type
	buf   bytes.Buffer
}

func (b *bufferedWriter) Write(p []byte) (int, error) {
	return b.buf.Write(p)
}

func (b *bufferedWriter) Close() error {
	encoded, err := Compress(b.codec, b.buf.Bytes())
	if err != nil {
		return err
	}
	_, err = b.w.Write(encoded)
	return err
}
