package utils

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// HeaderRule is one path block of a Cloudflare Pages _headers file.
type HeaderRule struct {
	Path    string
	Headers map[string]string
}

// DefaultHeaderRules caches fingerprinted and generated assets.
func DefaultHeaderRules() []HeaderRule {
	return []HeaderRule{
		{Path: "/images/*", Headers: map[string]string{"Cache-Control": "public, max-age=31536000, immutable"}},
		{Path: "/static/*", Headers: map[string]string{"Cache-Control": "public, max-age=3600"}},
		{Path: "/theme.css", Headers: map[string]string{"Cache-Control": "public, max-age=3600"}},
		{Path: "/*", Headers: map[string]string{
			"X-Content-Type-Options": "nosniff",
			"X-Frame-Options":        "DENY",
			"Referrer-Policy":        "strict-origin-when-cross-origin",
		}},
	}
}

// HeadersContent renders rules in the _headers format. Header names are
// written in sorted order.
func HeadersContent(rules []HeaderRule) string {
	var b strings.Builder
	for _, r := range rules {
		b.WriteString(r.Path)
		b.WriteByte('\n')
		for _, name := range sortedKeys(r.Headers) {
			b.WriteString("  ")
			b.WriteString(name)
			b.WriteString(": ")
			b.WriteString(r.Headers[name])
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// WriteHeaders writes publicDir/_headers for the Cloudflare Pages adapter.
func WriteHeaders(publicDir string, rules []HeaderRule) error {
	p := filepath.Join(publicDir, "_headers")
	if err := os.WriteFile(p, []byte(HeadersContent(rules)), 0644); err != nil {
		return errors.Wrapf(err, "writing %s", p)
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
