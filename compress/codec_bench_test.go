package compress

import (
	"fmt"
	"testing"
)

func BenchmarkCodecs_Compress(b *testing.B) {
	data := meshLikePayload(64 * 1024)

	for _, ct := range allTypes {
		codec, err := GetCodec(ct)
		if err != nil {
			b.Fatal(err)
		}

		b.Run(fmt.Sprintf("%s/64KB", ct), func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			b.ReportAllocs()
			for b.Loop() {
				if _, err := codec.Compress(data); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkDeflate_DecompressSize(b *testing.B) {
	data := meshLikePayload(64 * 1024)
	codec := NewDeflateCompressor(DefaultDeflateLevel)
	compressed, err := codec.Compress(data)
	if err != nil {
		b.Fatal(err)
	}

	b.SetBytes(int64(len(data)))
	b.ReportAllocs()
	for b.Loop() {
		if _, err := codec.DecompressSize(compressed, len(data)); err != nil {
			b.Fatal(err)
		}
	}
}
