// Zstd decompression for segment payloads.
//
// Segments are stored as one or more zstd frames. The decoder is created
// once and shared: zstd.Decoder is safe for concurrent DecodeAll calls and
// building one allocates its tables, which would dominate the cost of
// small chunks if done per segment.
package region

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// maxDecoderMemory bounds what a single DecodeAll may allocate. Segment
// headers are checked against Config.MaxSourceLength before decoding, this
// is the backstop for frames that lie about their content size.
const maxDecoderMemory = 1 << 30

var zstdDecoder *zstd.Decoder

func init() {
	var err error
	zstdDecoder, err = zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(0),
		zstd.WithDecoderMaxMemory(maxDecoderMemory),
	)
	if err != nil {
		panic("region: zstd decoder initialization failed: " + err.Error())
	}
}

// preallocLimit caps the destination buffer reserved up front. A corrupt
// header can claim a huge source length; the decoder grows the buffer if
// the payload really is that large.
const preallocLimit = 16 * 1024 * 1024

// decompress decodes compressed and checks the result is exactly expected
// bytes long.
func decompress(compressed []byte, expected int) ([]byte, error) {
	dst := make([]byte, 0, min(expected, preallocLimit))
	out, err := zstdDecoder.DecodeAll(compressed, dst)
	if err != nil {
		return nil, fmt.Errorf("%w: zstd: %w", ErrDecompress, err)
	}
	if len(out) != expected {
		return nil, fmt.Errorf("%w: got %d bytes, expected %d", ErrSizeMismatch, len(out), expected)
	}
	return out, nil
}
