package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strings"
)

// DeriveKey generates a cache key from the semantically relevant fields of a
// request. Each part is length-prefixed so ("ab","c") and ("a","bc") differ,
// and text is normalized for surrounding whitespace only.
func DeriveKey(parts ...string) string {
	h := sha256.New()
	var lenBuf [8]byte
	for _, p := range parts {
		p = strings.TrimSpace(p)
		binary.BigEndian.PutUint64(lenBuf[:], uint64(len(p)))
		h.Write(lenBuf[:])
		h.Write([]byte(p))
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:16]) // Use first 16 bytes for shorter keys
}
