package styles

import (
	"bytes"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// Transformer rewrites the value of a class attribute before classes are
// matched against utilities.
type Transformer interface {
	Name() string
	TransformClass(class string) string
}

func LookupTransformer(name string) (Transformer, error) {
	switch name {
	case "variant-group":
		return variantGroup{}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownTransformer, "%q", name)
	}
}

// variantGroup expands hover:(a b) into hover:a hover:b. Groups nest, and a
// trailing - works as well as a trailing :, so border-(a b) gives border-a
// border-b.
type variantGroup struct{}

func (variantGroup) Name() string { return "variant-group" }

func (variantGroup) TransformClass(class string) string {
	return ExpandVariantGroups(class)
}

func ExpandVariantGroups(s string) string {
	var out []string
	for _, tok := range splitTopLevel(s) {
		open := strings.IndexByte(tok, '(')
		if open <= 0 || !strings.HasSuffix(tok, ")") {
			out = append(out, tok)
			continue
		}
		prefix := tok[:open]
		if !strings.HasSuffix(prefix, ":") && !strings.HasSuffix(prefix, "-") {
			out = append(out, tok)
			continue
		}
		for _, c := range strings.Fields(ExpandVariantGroups(tok[open+1 : len(tok)-1])) {
			out = append(out, prefix+c)
		}
	}
	return strings.Join(out, " ")
}

// splitTopLevel splits on whitespace outside parentheses.
func splitTopLevel(s string) []string {
	var (
		out   []string
		depth int
		start = -1
	)
	for i, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case unicode.IsSpace(r) && depth == 0:
			if start >= 0 {
				out = append(out, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		out = append(out, s[start:])
	}
	return out
}

// TransformHTML runs every transformer over the class attributes of a page.
// Other markup passes through untouched.
func (e *Engine) TransformHTML(page []byte) ([]byte, error) {
	if len(e.transformers) == 0 {
		return page, nil
	}

	var out bytes.Buffer
	z := html.NewTokenizer(bytes.NewReader(page))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != io.EOF {
				return nil, errors.WithStack(err)
			}
			return out.Bytes(), nil
		}
		raw := append([]byte(nil), z.Raw()...)
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			out.Write(raw)
			continue
		}

		tok := z.Token()
		changed := false
		for i, a := range tok.Attr {
			if a.Key != "class" {
				continue
			}
			v := a.Val
			for _, t := range e.transformers {
				v = t.TransformClass(v)
			}
			if v != a.Val {
				tok.Attr[i].Val = v
				changed = true
			}
		}
		if changed {
			out.WriteString(tok.String())
		} else {
			out.Write(raw)
		}
	}
}

// ExtractClasses returns the sorted set of classes used by an HTML document,
// after transformers have run.
func (e *Engine) ExtractClasses(r io.Reader) ([]string, error) {
	set := map[string]struct{}{}
	z := html.NewTokenizer(r)
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != io.EOF {
				return nil, errors.WithStack(err)
			}
			break
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		for _, a := range z.Token().Attr {
			if a.Key != "class" {
				continue
			}
			v := a.Val
			for _, t := range e.transformers {
				v = t.TransformClass(v)
			}
			for _, c := range strings.Fields(v) {
				set[c] = struct{}{}
			}
		}
	}

	classes := make([]string, 0, len(set))
	for c := range set {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	return classes, nil
}
