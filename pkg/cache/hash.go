package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Hash returns the hex SHA-256 of data. Rendered documents are identified
// by it, so it is also the SVGHash reported to callers.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "kind:" followed by the hash of parts. Each part is length
// prefixed, so ("ab", "c") and ("a", "bc") never collide.
func hashKey(kind string, parts ...string) string {
	h := sha256.New()
	var n [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(n[:], uint64(len(p)))
		h.Write(n[:])
		h.Write([]byte(p))
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}
