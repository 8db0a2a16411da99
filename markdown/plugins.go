package markdown

import (
	"fmt"
	"html"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gosimple/slug"
	"github.com/pkg/errors"
)

var ErrUnknownPlugin = errors.New("unknown markdown plugin")

// Plugin is a named step of the markdown pipeline. A plugin implements
// Transformer, NodeRenderer, or both.
type Plugin interface {
	Name() string
}

// Transformer rewrites the parsed tree or the document metadata before
// rendering.
type Transformer interface {
	Transform(doc *Document, root ast.Node)
}

// NodeRenderer takes over rendering of selected nodes. It reports false for
// nodes it leaves to the default renderer.
type NodeRenderer interface {
	RenderNode(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool)
}

// DefaultExternalRel is the rel value given to external links unless
// Options.ExternalLinkRel overrides it.
const DefaultExternalRel = "nofollow noopener noreferrer"

var plugins = map[string]func(Options) Plugin{
	"reading-time":      func(Options) Plugin { return readingTime{wordsPerMinute: 200} },
	"slug":              func(Options) Plugin { return headingSlugs{} },
	"autolink-headings": func(Options) Plugin { return autolinkHeadings{} },
	"external-links": func(opts Options) Plugin {
		rel := opts.ExternalLinkRel
		if rel == "" {
			rel = DefaultExternalRel
		}
		return externalLinks{rel: rel}
	},
}

func LookupPlugin(name string) (Plugin, error) {
	return lookupPlugin(name, Options{})
}

func lookupPlugin(name string, opts Options) (Plugin, error) {
	ctor, ok := plugins[name]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownPlugin, "%q", name)
	}
	return ctor(opts), nil
}

// PluginNames lists the registered plugins.
func PluginNames() []string {
	names := make([]string, 0, len(plugins))
	for name := range plugins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// readingTime stores an estimate such as "3 min read" under minutes_read.
type readingTime struct {
	wordsPerMinute int
}

func (readingTime) Name() string { return "reading-time" }

func (p readingTime) Transform(doc *Document, root ast.Node) {
	words := 0
	ast.WalkFunc(root, func(node ast.Node, entering bool) ast.WalkStatus {
		if leaf := node.AsLeaf(); leaf != nil && entering {
			words += len(strings.Fields(string(leaf.Literal)))
		}
		return ast.GoToNext
	})
	minutes := math.Ceil(float64(words) / float64(p.wordsPerMinute))
	doc.Meta["minutes_read"] = fmt.Sprintf("%d min read", int(minutes))
	doc.Meta["words"] = words
}

// headingSlugs gives every heading an id derived from its text. Repeated
// slugs get -1, -2, ... appended, skipping any id already handed out, so
// Intro, Intro, Intro 1 become intro, intro-1, intro-1-1.
type headingSlugs struct{}

func (headingSlugs) Name() string { return "slug" }

func (headingSlugs) Transform(doc *Document, root ast.Node) {
	seen := map[string]int{}
	ast.WalkFunc(root, func(node ast.Node, entering bool) ast.WalkStatus {
		h, ok := node.(*ast.Heading)
		if !ok || !entering {
			return ast.GoToNext
		}
		text := strings.TrimSpace(nodeText(h))
		id := slug.Make(text)
		if id == "" {
			return ast.SkipChildren
		}
		base := id
		for {
			if _, used := seen[id]; !used {
				break
			}
			seen[base]++
			id = base + "-" + strconv.Itoa(seen[base])
		}
		seen[id] = 0
		h.HeadingID = id
		doc.Headings = append(doc.Headings, Heading{Depth: h.Level, Text: text, Slug: id})
		return ast.SkipChildren
	})
}

// autolinkHeadings prepends a self link to every heading with an id.
type autolinkHeadings struct{}

func (autolinkHeadings) Name() string { return "autolink-headings" }

func (autolinkHeadings) RenderNode(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	h, ok := node.(*ast.Heading)
	if !ok || h.HeadingID == "" {
		return ast.GoToNext, false
	}
	if !entering {
		fmt.Fprintf(w, "</h%d>\n", h.Level)
		return ast.GoToNext, true
	}
	id := html.EscapeString(h.HeadingID)
	fmt.Fprintf(w, `<h%d id="%s"><a aria-hidden="true" tabindex="-1" href="#%s"><span class="icon icon-link"></span></a>`,
		h.Level, id, id)
	return ast.GoToNext, true
}

// externalLinks marks links to other origins.
type externalLinks struct {
	rel string
}

func (externalLinks) Name() string { return "external-links" }

func (p externalLinks) RenderNode(w io.Writer, node ast.Node, entering bool) (ast.WalkStatus, bool) {
	link, ok := node.(*ast.Link)
	if !ok || !isExternal(string(link.Destination)) {
		return ast.GoToNext, false
	}
	if !entering {
		io.WriteString(w, "</a>")
		return ast.GoToNext, true
	}
	fmt.Fprintf(w, `<a href="%s"`, html.EscapeString(string(link.Destination)))
	if len(link.Title) > 0 {
		fmt.Fprintf(w, ` title="%s"`, html.EscapeString(string(link.Title)))
	}
	fmt.Fprintf(w, ` rel="%s">`, html.EscapeString(p.rel))
	return ast.GoToNext, true
}

func isExternal(dest string) bool {
	lower := strings.ToLower(dest)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "//")
}
