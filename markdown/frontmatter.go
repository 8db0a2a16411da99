package markdown

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

var ErrInvalidFormat = errors.New("invalid Markdown file format")

// Frontmatter is the YAML block at the top of a markdown page.
type Frontmatter map[string]interface{}

func (f Frontmatter) String(key string) string {
	v, ok := f[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// SplitFrontmatter separates the frontmatter from the markdown body. Pages
// are written as YAML, a line holding ---, then the body. A leading --- line
// is tolerated.
func SplitFrontmatter(content []byte) (Frontmatter, []byte, error) {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")
	text = strings.TrimPrefix(text, "---\n")

	parts := strings.SplitN(text, "\n---\n", 2)
	if len(parts) != 2 {
		return nil, nil, errors.WithStack(ErrInvalidFormat)
	}

	meta := Frontmatter{}
	if err := yaml.Unmarshal([]byte(parts[0]), &meta); err != nil {
		return nil, nil, errors.Wrap(err, "error parsing frontmatter")
	}

	return meta, []byte(parts[1]), nil
}
