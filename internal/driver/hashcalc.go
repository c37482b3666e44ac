package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Digest is a sha256 value used as a disk cache key.
type Digest [32]byte

func (d Digest) String() string { return hex.EncodeToString(d[:]) }

// cacheKey: H(schema || flags || content). Всё, что влияет на вывод, должно
// попасть в ключ; путь файла не влияет.
func cacheKey(content [32]byte, keepComments bool) Digest {
	h := sha256.New()
	var hdr [3]byte
	binary.BigEndian.PutUint16(hdr[:2], diskCacheSchemaVersion)
	if keepComments {
		hdr[2] = 1
	}
	_, _ = h.Write(hdr[:])
	_, _ = h.Write(content[:])
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}
