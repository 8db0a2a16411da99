package markdown

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gomarkdown/markdown/ast"
)

// CSSVariablesTheme colors tokens with --shiki-* custom properties so the
// palette can live in the site's stylesheet.
const CSSVariablesTheme = "css-variables"

type HighlightOptions struct {
	Theme string
	// Langs lists the fence languages that get highlighted. Anything else
	// is rendered as plain escaped code.
	Langs []string
	Wrap  bool
}

type Highlighter struct {
	theme string
	langs map[string]bool
	wrap  bool
}

func NewHighlighter(opts HighlightOptions) *Highlighter {
	h := &Highlighter{
		theme: opts.Theme,
		langs: make(map[string]bool, len(opts.Langs)),
		wrap:  opts.Wrap,
	}
	if h.theme == "" {
		h.theme = CSSVariablesTheme
	}
	for _, l := range opts.Langs {
		h.langs[strings.ToLower(l)] = true
	}
	return h
}

func (h *Highlighter) RenderNode(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	cb, ok := node.(*ast.CodeBlock)
	if !ok || !entering {
		return ast.GoToNext, false
	}
	lang := ""
	if fields := strings.Fields(string(cb.Info)); len(fields) > 0 {
		lang = strings.ToLower(fields[0])
	}
	if err := h.Highlight(w, lang, string(cb.Literal)); err != nil {
		return ast.Terminate, true
	}
	return ast.GoToNext, true
}

// Highlight writes code as a <pre> block.
func (h *Highlighter) Highlight(w io.Writer, lang, code string) error {
	var lexer chroma.Lexer
	if h.langs[lang] {
		lexer = lexers.Get(lang)
	}
	if lexer == nil {
		return h.plain(w, lang, code)
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return h.plain(w, lang, code)
	}

	if h.theme != CSSVariablesTheme {
		formatter := chromahtml.New(chromahtml.WithClasses(false), chromahtml.WrapLongLines(h.wrap))
		return formatter.Format(w, styles.Get(h.theme), it)
	}

	style := "background-color: var(--shiki-color-background); overflow-x: auto;"
	if h.wrap {
		style += " white-space: pre-wrap; word-wrap: break-word;"
	}
	if _, err := fmt.Fprintf(w, `<pre class="highlight" style="%s"><code class="language-%s">`, style, html.EscapeString(lang)); err != nil {
		return err
	}
	for _, tok := range it.Tokens() {
		v := html.EscapeString(tok.Value)
		if prop := tokenColor(tok.Type); prop != "" {
			_, err = fmt.Fprintf(w, `<span style="color: var(%s)">%s</span>`, prop, v)
		} else {
			_, err = io.WriteString(w, v)
		}
		if err != nil {
			return err
		}
	}
	_, err = io.WriteString(w, "</code></pre>\n")
	return err
}

func (h *Highlighter) plain(w io.Writer, lang, code string) error {
	class := ""
	if lang != "" {
		class = fmt.Sprintf(` class="language-%s"`, html.EscapeString(lang))
	}
	_, err := fmt.Fprintf(w, "<pre><code%s>%s</code></pre>\n", class, html.EscapeString(code))
	return err
}

// tokenColor maps a chroma token type to its --shiki-token-* property.
// Plain text inherits the <pre> color.
func tokenColor(t chroma.TokenType) string {
	switch {
	case t.InCategory(chroma.Comment):
		return "--shiki-token-comment"
	case t.InCategory(chroma.Keyword):
		return "--shiki-token-keyword"
	case t.InSubCategory(chroma.LiteralString):
		return "--shiki-token-string"
	case t.InCategory(chroma.Literal):
		return "--shiki-token-constant"
	case t == chroma.NameFunction, t == chroma.NameBuiltin:
		return "--shiki-token-function"
	case t == chroma.NameVariable, t == chroma.NameAttribute:
		return "--shiki-token-parameter"
	case t.InCategory(chroma.Operator), t.InCategory(chroma.Punctuation):
		return "--shiki-token-punctuation"
	default:
		return ""
	}
}
