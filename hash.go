// Payload digests.
//
// Every decoded segment carries a 16 hex character digest of its
// decompressed bytes. Digests make reports comparable across runs and let
// recovery spot discarded copies of chunks that are still live elsewhere.
package region

import (
	"encoding/binary"
	"encoding/hex"
	"hash/fnv"

	"github.com/zeebo/blake3"
	"github.com/zeebo/xxh3"
	"golang.org/x/crypto/blake2b"
)

// Digest algorithms for Config.Digest.
const (
	AlgXXHash3 = 1 // Default
	AlgFNV1a   = 2
	AlgBlake2b = 3
	AlgBlake3  = 4
)

const digestSize = 8

// hash returns the digest of a decompressed payload, or "" when alg is not
// one of the Alg constants.
func hash(payload []byte, alg int) string {
	var sum [digestSize]byte
	switch alg {
	case AlgXXHash3:
		binary.BigEndian.PutUint64(sum[:], xxh3.Hash(payload))
	case AlgFNV1a:
		h := fnv.New64a()
		h.Write(payload)
		h.Sum(sum[:0])
	case AlgBlake2b:
		h, _ := blake2b.New(digestSize, nil)
		h.Write(payload)
		h.Sum(sum[:0])
	case AlgBlake3:
		full := blake3.Sum256(payload)
		copy(sum[:], full[:])
	default:
		return ""
	}
	return hex.EncodeToString(sum[:])
}
