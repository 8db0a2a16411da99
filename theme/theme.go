package theme

import (
	"sort"

	"github.com/maruel/natural"
)

// Color is either a single reference or a whole scale.
type Color struct {
	Ref   string
	Scale Scale
}

// Theme holds the design tokens consumed by the styling engine. It is built
// once while loading configuration and treated as read-only afterwards.
type Theme struct {
	FontFamily map[string]string
	Colors     map[string]Color
}

// Token is one flattened entry of a theme, e.g. colors/brand-100.
type Token struct {
	Category string
	Name     string
	Value    string
}

var (
	hundreds = []int{100, 200, 300, 400, 500, 600, 700, 800, 900}
	gaps     = []int{1, 2, 3, 4, 5}
)

// Default returns the blog's stock theme.
func Default() *Theme {
	return &Theme{
		FontFamily: map[string]string{
			"display": Ref("font-family-sans"),
			"sans":    Ref("font-family-sans"),
			"serif":   Ref("font-family-serif"),
		},
		Colors: map[string]Color{
			"highlight": {Ref: Ref("highlight")},
			"brand":     {Scale: GenerateScale("brand", hundreds...)},
			"body":      {Scale: GenerateScale("body", hundreds...)},
			"text":      {Scale: GenerateScale("text", hundreds...)},
			"gap":       {Scale: GenerateScale("gap", gaps...)},
		},
	}
}

// Merge returns a new theme with the entries of other layered over t.
func (t *Theme) Merge(other *Theme) *Theme {
	out := &Theme{
		FontFamily: make(map[string]string, len(t.FontFamily)),
		Colors:     make(map[string]Color, len(t.Colors)),
	}
	for k, v := range t.FontFamily {
		out.FontFamily[k] = v
	}
	for k, v := range t.Colors {
		out.Colors[k] = v
	}
	if other == nil {
		return out
	}
	for k, v := range other.FontFamily {
		out.FontFamily[k] = v
	}
	for k, v := range other.Colors {
		out.Colors[k] = v
	}
	return out
}

// Tokens flattens the theme into a sorted list. Scale entries are named
// <color>-<step>.
func (t *Theme) Tokens() []Token {
	var tokens []Token
	for _, name := range sortedKeys(t.FontFamily) {
		tokens = append(tokens, Token{Category: "fontFamily", Name: name, Value: t.FontFamily[name]})
	}
	colorNames := make([]string, 0, len(t.Colors))
	for name := range t.Colors {
		colorNames = append(colorNames, name)
	}
	sort.Sort(natural.StringSlice(colorNames))
	for _, name := range colorNames {
		c := t.Colors[name]
		if c.Scale == nil {
			tokens = append(tokens, Token{Category: "colors", Name: name, Value: c.Ref})
			continue
		}
		for _, step := range c.Scale.Keys() {
			tokens = append(tokens, Token{Category: "colors", Name: name + "-" + step, Value: c.Scale[step]})
		}
	}
	return tokens
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Sort(natural.StringSlice(keys))
	return keys
}
