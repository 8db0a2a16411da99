package utils

import "bytes"

// InjectBefore inserts snippet before the last occurrence of closingTag
// (matched case-insensitively), or appends it when the tag is missing.
func InjectBefore(page []byte, closingTag string, snippet string) []byte {
	idx := bytes.LastIndex(bytes.ToLower(page), bytes.ToLower([]byte(closingTag)))
	if idx < 0 {
		return append(append([]byte(nil), page...), snippet...)
	}
	out := make([]byte, 0, len(page)+len(snippet))
	out = append(out, page[:idx]...)
	out = append(out, snippet...)
	out = append(out, page[idx:]...)
	return out
}
