package compression

import (
	"bytes"
	"testing"
)

func TestCompressionTypeString(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{SnappyCompression, "Snappy"},
		{LZ4Compression, "LZ4"},
		{ZstdCompression, "ZSTD"},
		{Type(99), "Unknown(99)"},
	}

	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("Type(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestRoundTripAllCodecs(t *testing.T) {
	data := bytes.Repeat([]byte("cslpq snapshot record "), 200)

	for _, typ := range []Type{SnappyCompression, LZ4Compression, ZstdCompression} {
		t.Run(typ.String(), func(t *testing.T) {
			compressed, err := Compress(typ, data)
			if err != nil {
				t.Fatalf("Compress failed: %v", err)
			}

			decompressed, err := Decompress(typ, compressed, len(data))
			if err != nil {
				t.Fatalf("Decompress failed: %v", err)
			}

			if !bytes.Equal(decompressed, data) {
				t.Error("decompressed data does not match original")
			}
		})
	}
}

func TestRoundTripEmptyData(t *testing.T) {
	for _, typ := range []Type{SnappyCompression, LZ4Compression, ZstdCompression} {
		compressed, err := Compress(typ, nil)
		if err != nil {
			t.Errorf("%s: Compress(nil) failed: %v", typ, err)
			continue
		}
		decompressed, err := Decompress(typ, compressed, 0)
		if err != nil {
			t.Errorf("%s: Decompress failed: %v", typ, err)
			continue
		}
		if len(decompressed) != 0 {
			t.Errorf("%s: decompressed empty input should be empty, got %d bytes", typ, len(decompressed))
		}
	}
}

func TestUnsupportedCompressionType(t *testing.T) {
	data := []byte("test data")

	if _, err := Compress(Type(0), data); err == nil {
		t.Error("Compress with unsupported type should fail")
	}
	if _, err := Decompress(Type(0), data, 0); err == nil {
		t.Error("Decompress with unsupported type should fail")
	}
}

func TestLZ4UnknownSizeGrowsBuffer(t *testing.T) {
	data := bytes.Repeat([]byte("grow the buffer until it fits "), 5000)

	compressed, err := Compress(LZ4Compression, data)
	if err != nil {
		t.Fatalf("Compress failed: %v", err)
	}

	decompressed, err := Decompress(LZ4Compression, compressed, 0)
	if err != nil {
		t.Fatalf("Decompress with unknown size failed: %v", err)
	}
	if !bytes.Equal(decompressed, data) {
		t.Error("decompressed data does not match original")
	}
}

func TestNewWriterRoundTrip(t *testing.T) {
	data := bytes.Repeat([]byte("streamed snapshot entry\n"), 50)

	for _, typ := range []Type{SnappyCompression, LZ4Compression, ZstdCompression} {
		t.Run(typ.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := NewWriter(&buf, typ)
			if err != nil {
				t.Fatalf("NewWriter failed: %v", err)
			}
			if _, err := w.Write(data); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if err := w.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			decompressed, err := Decompress(typ, buf.Bytes(), len(data))
			if err != nil {
				t.Fatalf("Decompress failed: %v", err)
			}
			if !bytes.Equal(decompressed, data) {
				t.Error("decompressed stream does not match original")
			}
		})
	}
}

func BenchmarkSnappyCompress(b *testing.B) {
	data := bytes.Repeat([]byte("benchmark data for snappy compression "), 1000)

	for b.Loop() {
		_, _ = Compress(SnappyCompression, data)
	}
}

func BenchmarkSnappyDecompress(b *testing.B) {
	data := bytes.Repeat([]byte("benchmark data for snappy compression "), 1000)
	compressed, _ := Compress(SnappyCompression, data)

	for b.Loop() {
		_, _ = Decompress(SnappyCompression, compressed, len(data))
	}
}
