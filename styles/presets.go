package styles

import (
	"sort"

	"github.com/ZacxDev/go-blog-site/theme"
	"github.com/maruel/natural"
)

// unoPreset emits color, font and gap utilities for every theme token.
type unoPreset struct{}

func (unoPreset) Name() string { return "uno" }

func (unoPreset) Rules(th *theme.Theme) ([]Rule, error) {
	var rules []Rule
	for _, tok := range th.Tokens() {
		switch tok.Category {
		case "fontFamily":
			rules = append(rules, Rule{
				Utility: "font-" + tok.Name,
				Decls:   []Decl{{"font-family", tok.Value}},
			})
		case "colors":
			rules = append(rules,
				Rule{Utility: "text-" + tok.Name, Decls: []Decl{{"color", tok.Value}}},
				Rule{Utility: "bg-" + tok.Name, Decls: []Decl{{"background-color", tok.Value}}},
				Rule{Utility: "border-" + tok.Name, Decls: []Decl{{"border-color", tok.Value}}},
			)
		}
	}

	if gap, ok := th.Colors["gap"]; ok {
		for _, step := range gap.Scale.Keys() {
			rules = append(rules, Rule{
				Utility: "gap-" + step,
				Decls:   []Decl{{"gap", gap.Scale[step]}},
			})
		}
	}

	return rules, nil
}

type TypographyOptions struct {
	// CSSExtend maps an element selector inside .prose to extra declarations.
	CSSExtend map[string]map[string]string `yaml:"css_extend"`
}

func DefaultTypography() TypographyOptions {
	return TypographyOptions{
		CSSExtend: map[string]map[string]string{
			"code": {"line-height": "150%"},
			"p":    {"line-height": "200%"},
		},
	}
}

// typographyPreset provides the prose class for rendered markdown.
type typographyPreset struct {
	opts TypographyOptions
}

func (typographyPreset) Name() string { return "typography" }

func (p typographyPreset) Rules(th *theme.Theme) ([]Rule, error) {
	body := theme.Ref("text-900")
	if c, ok := th.Colors["text"]; ok && c.Scale != nil && c.Scale["900"] != "" {
		body = c.Scale["900"]
	}
	link := theme.Ref("brand-500")
	if c, ok := th.Colors["brand"]; ok && c.Scale != nil && c.Scale["500"] != "" {
		link = c.Scale["500"]
	}

	rules := []Rule{
		{Utility: "prose", Decls: []Decl{{"color", body}, {"max-width", "65ch"}}},
		{Utility: "prose", Selector: "& a", Decls: []Decl{{"color", link}, {"text-decoration", "underline"}}},
		{Utility: "prose", Selector: "& pre", Decls: []Decl{{"overflow-x", "auto"}, {"padding", "1em"}}},
		{Utility: "prose", Selector: "& :where(h1,h2,h3,h4) a[aria-hidden]", Decls: []Decl{{"opacity", "0"}}},
		{Utility: "prose", Selector: "& :where(h1,h2,h3,h4):hover a[aria-hidden]", Decls: []Decl{{"opacity", "1"}}},
	}

	selectors := make([]string, 0, len(p.opts.CSSExtend))
	for sel := range p.opts.CSSExtend {
		selectors = append(selectors, sel)
	}
	sort.Sort(natural.StringSlice(selectors))
	for _, sel := range selectors {
		props := p.opts.CSSExtend[sel]
		names := make([]string, 0, len(props))
		for prop := range props {
			names = append(names, prop)
		}
		sort.Strings(names)
		decls := make([]Decl, 0, len(names))
		for _, prop := range names {
			decls = append(decls, Decl{prop, props[prop]})
		}
		rules = append(rules, Rule{Utility: "prose", Selector: "& " + sel, Decls: decls})
	}

	return rules, nil
}
