// Package styles generates utility CSS from the site theme. Pages use
// classes such as text-brand-500 or hover:bg-body-100 and only the rules
// for classes that actually appear are emitted.
package styles

import (
	"bytes"
	"sort"
	"strings"

	"github.com/ZacxDev/go-blog-site/theme"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	ErrUnknownPreset      = errors.New("unknown preset")
	ErrUnknownTransformer = errors.New("unknown transformer")
)

// Decl is a single property: value pair.
type Decl struct {
	Prop  string
	Value string
}

// Rule belongs to a utility class. Selector is relative to the class
// selector, which is written as &; an empty Selector means "&".
type Rule struct {
	Utility  string
	Selector string
	Decls    []Decl
}

// Preset contributes utility rules derived from the theme.
type Preset interface {
	Name() string
	Rules(th *theme.Theme) ([]Rule, error)
}

type Options struct {
	Presets      []string
	Transformers []string
	Typography   TypographyOptions
	IconsDir     string
	Minify       bool
}

// DefaultOptions matches the blog's stock setup.
func DefaultOptions() Options {
	return Options{
		Presets:      []string{"uno", "typography", "icons"},
		Transformers: []string{"variant-group"},
		Typography:   DefaultTypography(),
		IconsDir:     "icons",
		Minify:       true,
	}
}

type Engine struct {
	rules        []Rule
	byUtility    map[string][]int
	transformers []Transformer
	minify       bool
	log          *zap.Logger
}

func New(th *theme.Theme, opts Options, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		byUtility: map[string][]int{},
		minify:    opts.Minify,
		log:       log.Named("styles"),
	}

	for _, name := range opts.Presets {
		preset, err := newPreset(name, opts, e.log)
		if err != nil {
			return nil, err
		}
		rules, err := preset.Rules(th)
		if err != nil {
			return nil, errors.Wrapf(err, "preset %s", name)
		}
		for _, r := range rules {
			e.byUtility[r.Utility] = append(e.byUtility[r.Utility], len(e.rules))
			e.rules = append(e.rules, r)
		}
		e.log.Debug("Loaded preset", zap.String("preset", name), zap.Int("rules", len(rules)))
	}

	for _, name := range opts.Transformers {
		t, err := LookupTransformer(name)
		if err != nil {
			return nil, err
		}
		e.transformers = append(e.transformers, t)
	}

	return e, nil
}

func newPreset(name string, opts Options, log *zap.Logger) (Preset, error) {
	switch name {
	case "uno":
		return unoPreset{}, nil
	case "typography":
		return typographyPreset{opts: opts.Typography}, nil
	case "icons":
		return iconsPreset{dir: opts.IconsDir, log: log}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownPreset, "%q", name)
	}
}

// Utilities lists every utility class the engine knows, sorted.
func (e *Engine) Utilities() []string {
	out := make([]string, 0, len(e.byUtility))
	for u := range e.byUtility {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// Generate writes CSS for the given classes. Classes may carry variant
// prefixes (hover:, focus:, active:, dark:). Unknown classes are ignored. A
// nil list generates every base utility.
func (e *Engine) Generate(classes []string) []byte {
	var buf bytes.Buffer

	if classes == nil {
		for _, r := range e.rules {
			writeRule(&buf, r, r.Utility, nil)
		}
		return e.finish(buf.Bytes())
	}

	base := map[string]bool{}
	var variants []string
	for _, c := range classes {
		if _, ok := e.byUtility[c]; ok {
			base[c] = true
			continue
		}
		if vs, u := splitVariants(c); len(vs) > 0 {
			if _, ok := e.byUtility[u]; ok {
				variants = append(variants, c)
			}
		}
	}

	for _, r := range e.rules {
		if base[r.Utility] {
			writeRule(&buf, r, r.Utility, nil)
		}
	}

	sort.Strings(variants)
	seen := map[string]bool{}
	for _, c := range variants {
		if seen[c] {
			continue
		}
		seen[c] = true
		vs, u := splitVariants(c)
		for _, i := range e.byUtility[u] {
			writeRule(&buf, e.rules[i], c, vs)
		}
	}

	return e.finish(buf.Bytes())
}

func (e *Engine) finish(css []byte) []byte {
	if !e.minify {
		return css
	}
	return Minify(css)
}

var pseudoVariants = map[string]string{
	"hover":  ":hover",
	"focus":  ":focus",
	"active": ":active",
}

// splitVariants splits "dark:hover:bg-x" into [dark hover] and "bg-x". It
// returns no variants when any prefix is not a known variant.
func splitVariants(class string) ([]string, string) {
	parts := strings.Split(class, ":")
	if len(parts) < 2 {
		return nil, class
	}
	vs := parts[:len(parts)-1]
	for _, v := range vs {
		if _, ok := pseudoVariants[v]; !ok && v != "dark" {
			return nil, class
		}
	}
	return vs, parts[len(parts)-1]
}

func writeRule(buf *bytes.Buffer, r Rule, class string, variants []string) {
	sel := "." + escapeClass(class)
	prefix := ""
	for _, v := range variants {
		if v == "dark" {
			prefix = ".dark "
			continue
		}
		sel += pseudoVariants[v]
	}

	pattern := r.Selector
	if pattern == "" {
		pattern = "&"
	}
	buf.WriteString(prefix)
	buf.WriteString(strings.ReplaceAll(pattern, "&", sel))
	buf.WriteString(" {\n")
	for _, d := range r.Decls {
		buf.WriteString("  ")
		buf.WriteString(d.Prop)
		buf.WriteString(": ")
		buf.WriteString(d.Value)
		buf.WriteString(";\n")
	}
	buf.WriteString("}\n")
}

// escapeClass escapes a class name for use in a selector.
func escapeClass(class string) string {
	var b strings.Builder
	for _, r := range class {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}
