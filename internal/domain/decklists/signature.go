package decklists

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"
)

// Signature computes the content signature of a card-quantity mapping:
// md5 over a canonical JSON object with keys in sorted order. Two decks
// with the same content produce the same signature regardless of the
// order their slots were inserted in.
func Signature(content map[string]int) string {
	return md5Hex(CanonicalContent(content))
}

// CanonicalContent renders the slot mapping as a deterministic JSON
// object. Card codes are plain identifiers so they need no escaping.
func CanonicalContent(content map[string]int) string {
	codes := make([]string, 0, len(content))
	for code := range content {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var b strings.Builder
	b.WriteByte('{')
	for i, code := range codes {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(code)
		b.WriteString(`":`)
		b.WriteString(strconv.Itoa(content[code]))
	}
	b.WriteByte('}')
	return b.String()
}

// SameContent reports whether two slot mappings are identical. Used to
// confirm a signature match is a true duplicate and not a hash collision.
func SameContent(a, b map[string]int) bool {
	if len(a) != len(b) {
		return false
	}
	for code, qty := range a {
		if b[code] != qty {
			return false
		}
	}
	return true
}

func md5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}
