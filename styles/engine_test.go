package styles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZacxDev/go-blog-site/theme"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	e, err := New(theme.Default(), opts, zaptest.NewLogger(t))
	require.NoError(t, err)
	return e
}

func TestGenerateOnDemand(t *testing.T) {
	e := newTestEngine(t, Options{Presets: []string{"uno"}})

	css := string(e.Generate([]string{"text-brand-100", "font-sans", "unknown", "gap-3"}))

	assert.Equal(t, `.text-brand-100 {
  color: var(--brand-100);
}
.font-sans {
  font-family: var(--font-family-sans);
}
.gap-3 {
  gap: var(--gap-3);
}
`, reorder(css, ".text-brand-100", ".font-sans", ".gap-3"))
	assert.NotContains(t, css, "unknown")
}

// reorder returns the rules of css in the given order, to keep the
// expectation independent of preset rule order.
func reorder(css string, selectors ...string) string {
	blocks := map[string]string{}
	for _, b := range strings.SplitAfter(css, "}\n") {
		if b == "" {
			continue
		}
		sel := strings.TrimSpace(b[:strings.Index(b, "{")])
		blocks[sel] = b
	}
	var out strings.Builder
	for _, s := range selectors {
		out.WriteString(blocks[s])
	}
	return out.String()
}

func TestGenerateVariants(t *testing.T) {
	e := newTestEngine(t, Options{Presets: []string{"uno"}})

	css := string(e.Generate([]string{"hover:bg-body-100", "dark:text-highlight", "dark:hover:border-text-900", "wobble:text-brand-100"}))

	assert.Contains(t, css, ".hover\\:bg-body-100:hover {\n  background-color: var(--body-100);\n}")
	assert.Contains(t, css, ".dark .dark\\:text-highlight {\n  color: var(--highlight);\n}")
	assert.Contains(t, css, ".dark .dark\\:hover\\:border-text-900:hover {")
	assert.NotContains(t, css, "wobble")
}

func TestGenerateAll(t *testing.T) {
	e := newTestEngine(t, Options{Presets: []string{"uno"}})

	css := string(e.Generate(nil))
	for _, c := range []string{".text-brand-900", ".bg-body-100", ".border-text-500", ".text-gap-5", ".text-highlight", ".font-serif", ".gap-1"} {
		assert.Contains(t, css, c+" {")
	}
	assert.Contains(t, e.Utilities(), "font-display")
}

func TestTypography(t *testing.T) {
	e := newTestEngine(t, Options{Presets: []string{"typography"}, Typography: DefaultTypography()})

	css := string(e.Generate([]string{"prose"}))
	assert.Contains(t, css, ".prose {\n  color: var(--text-900);\n  max-width: 65ch;\n}")
	assert.Contains(t, css, ".prose code {\n  line-height: 150%;\n}")
	assert.Contains(t, css, ".prose p {\n  line-height: 200%;\n}")

	assert.Empty(t, e.Generate([]string{"text-brand-100"}))
}

func TestIcons(t *testing.T) {
	dir := t.TempDir()
	svg := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24"><path fill="#000" d="M0 0h24v24H0z"/></svg>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rss.svg"), []byte(svg), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.svg"), []byte("<svg><path"), 0644))

	e := newTestEngine(t, Options{Presets: []string{"icons"}, IconsDir: dir})
	assert.Equal(t, []string{"i-rss"}, e.Utilities())

	css := string(e.Generate([]string{"i-rss"}))
	assert.Contains(t, css, `--un-icon: url("data:image/svg+xml;utf8,%3Csvg xmlns='http://www.w3.org/2000/svg'`)
	assert.Contains(t, css, "fill='%23000'")
	assert.Contains(t, css, "mask: var(--un-icon) no-repeat;")
}

func TestIconsMissingDir(t *testing.T) {
	e := newTestEngine(t, Options{Presets: []string{"icons"}, IconsDir: filepath.Join(t.TempDir(), "none")})
	assert.Empty(t, e.Utilities())
}

func TestUnknownPresetAndTransformer(t *testing.T) {
	_, err := New(theme.Default(), Options{Presets: []string{"wind"}}, nil)
	assert.Equal(t, ErrUnknownPreset, errors.Cause(err))

	_, err = New(theme.Default(), Options{Transformers: []string{"directives"}}, nil)
	assert.Equal(t, ErrUnknownTransformer, errors.Cause(err))
}

func TestGenerateMinified(t *testing.T) {
	e := newTestEngine(t, Options{Presets: []string{"uno"}, Minify: true})

	css := string(e.Generate([]string{"hover:text-brand-100"}))
	assert.Equal(t, `.hover\:text-brand-100:hover{color:var(--brand-100);}`, css)
}

func TestClassSet(t *testing.T) {
	s := NewClassSet()
	assert.Equal(t, []string{}, s.List())
	s.Add("b", "a", "b")
	assert.Equal(t, []string{"a", "b"}, s.List())
}
