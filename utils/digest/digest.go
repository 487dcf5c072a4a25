package digest

import (
	"crypto/sha256"
	"encoding/hex"
)

// Content 回傳內容的 sha256 十六進位摘要，作為快取與比對鍵
func Content(parts ...string) string {
	h := sha256.New()
	for _, part := range parts {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
