package markdown

import (
	"io"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Heading is a document heading after the slug plugin assigned its id.
type Heading struct {
	Depth int
	Text  string
	Slug  string
}

// Document is a rendered markdown page.
type Document struct {
	Meta     Frontmatter
	Headings []Heading
	HTML     string
}

// Options configure a Renderer.
type Options struct {
	// Plugins are applied in order.
	Plugins   []string
	Highlight HighlightOptions

	// ExternalLinkRel replaces DefaultExternalRel for the external-links plugin.
	ExternalLinkRel string
}

type Renderer struct {
	plugins     []Plugin
	highlighter *Highlighter
	log         *zap.Logger
}

func NewRenderer(opts Options, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Renderer{
		highlighter: NewHighlighter(opts.Highlight),
		log:         log.Named("markdown"),
	}
	for _, name := range opts.Plugins {
		p, err := lookupPlugin(name, opts)
		if err != nil {
			return nil, err
		}
		r.plugins = append(r.plugins, p)
	}
	return r, nil
}

// RenderFile renders a page with frontmatter.
func (r *Renderer) RenderFile(content []byte) (*Document, error) {
	meta, body, err := SplitFrontmatter(content)
	if err != nil {
		return nil, err
	}
	return r.Render(meta, body)
}

// Render converts a markdown body to HTML, running every plugin over the tree
// before rendering.
func (r *Renderer) Render(meta Frontmatter, body []byte) (*Document, error) {
	if meta == nil {
		meta = Frontmatter{}
	}
	doc := &Document{Meta: meta}

	p := parser.NewWithExtensions(parser.CommonExtensions)
	root := markdown.Parse(body, p)
	if root == nil {
		return nil, errors.New("markdown parser returned no document")
	}

	hooks := []NodeRenderer{r.highlighter}
	for _, plugin := range r.plugins {
		if t, ok := plugin.(Transformer); ok {
			t.Transform(doc, root)
		}
		if nr, ok := plugin.(NodeRenderer); ok {
			hooks = append(hooks, nr)
		}
	}

	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags,
		RenderNodeHook: func(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
			for _, h := range hooks {
				if status, handled := h.RenderNode(w, node, entering); handled {
					return status, true
				}
			}
			return ast.GoToNext, false
		},
	})

	doc.HTML = string(markdown.Render(root, renderer))
	r.log.Debug("Rendered markdown",
		zap.Int("bytes", len(doc.HTML)),
		zap.Int("headings", len(doc.Headings)))

	return doc, nil
}

// nodeText concatenates the literal text below n.
func nodeText(n ast.Node) string {
	var b strings.Builder
	ast.WalkFunc(n, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		if leaf := node.AsLeaf(); leaf != nil {
			b.Write(leaf.Literal)
		}
		return ast.GoToNext
	})
	return b.String()
}
