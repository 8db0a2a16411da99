package handlers

import (
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ZacxDev/go-blog-site/config"
	"github.com/ZacxDev/go-blog-site/images"
	"github.com/ZacxDev/go-blog-site/markdown"
	"github.com/gobuffalo/plush"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	TemplatePlush    = "PLUSH"
	TemplateMarkdown = "MARKDOWN"
	TemplateMDX      = "MDX"
)

var ErrUnsupportedTemplate = errors.New("unsupported template type")

func (s *Site) DynamicHandler(route config.Route) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := s.newContext(r)

		content, err := s.renderRoute(route, ctx)
		if err != nil {
			s.log.Error("Error rendering template", zap.String("source", route.Source), zap.Error(err))
			http.Error(w, fmt.Sprintf("Error rendering template: %v", err), http.StatusInternalServerError)
			return
		}

		page, err := s.renderLayout(content, ctx)
		if err != nil {
			s.log.Error("Error executing base layout", zap.String("path", r.URL.Path), zap.Error(err))
			http.Error(w, fmt.Sprintf("Error executing base layout: %v", err), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write(page); err != nil {
			s.log.Warn("Error writing response", zap.Error(err))
		}
	}
}

func (s *Site) renderRoute(route config.Route, ctx *plush.Context) (string, error) {
	switch route.TemplateType {
	case TemplatePlush:
		return s.renderPlushTemplate(route.Source, ctx)
	case TemplateMarkdown:
		return s.renderMarkdownTemplate(route.Source, ctx, false)
	case TemplateMDX:
		if !s.Setup.TemplateTypes[TemplateMDX] {
			return "", errors.Wrapf(ErrUnsupportedTemplate, "%s needs the mdx integration", route.TemplateType)
		}
		return s.renderMarkdownTemplate(route.Source, ctx, true)
	default:
		return "", errors.Wrapf(ErrUnsupportedTemplate, "%q", route.TemplateType)
	}
}

// renderLayout wraps content in the base layout and finishes the page.
func (s *Site) renderLayout(content string, ctx *plush.Context) ([]byte, error) {
	ctx.Set("yield", template.HTML(content))

	layout := filepath.Join(s.Manifest.Dirs.Templates, "layouts", "base.plush.html")
	pageHtml, err := s.renderPlushTemplate(layout, ctx)
	if err != nil {
		return nil, err
	}

	return s.finishPage([]byte(pageHtml))
}

func (s *Site) newContext(r *http.Request) *plush.Context {
	ctx := plush.NewContext()
	vars := mux.Vars(r)
	ctx.Set("params", vars)
	ctx.Set("registeredRoutes", s.registeredRoutes)

	lang := vars["lang"]
	if lang == "" {
		lang = s.langFromPath(r.URL.Path)
	}

	ctx.Set("text", func(key string) string {
		if t, ok := s.translations[lang][key]; ok {
			return t
		}
		return key
	})

	ctx.Set("lang", lang)
	ctx.Set("supportedLangs", s.Langs())
	ctx.Set("site", s.Manifest.Site)

	ctx.Set("startsWith", func(str string, prefix string) bool {
		return strings.HasPrefix(str, prefix)
	})

	ctx.Set("matches", func(str string, pat string) (bool, error) {
		re, err := regexp.Compile(pat)
		if err != nil {
			return false, errors.WithStack(err)
		}
		return re.MatchString(str), nil
	})

	ctx.Set("replace", func(str string, old string, n string) string {
		return strings.Replace(str, old, n, 1)
	})

	ctx.Set("replaceAll", func(str string, old string, n string) string {
		return strings.ReplaceAll(str, old, n)
	})

	ctx.Set("replacePattern", func(str string, pat, n string) (string, error) {
		re, err := regexp.Compile(pat)
		if err != nil {
			return "", errors.WithStack(err)
		}
		return re.ReplaceAllString(str, n), nil
	})

	// Markdown pages override these.
	ctx.Set("title", "")
	ctx.Set("description", "")
	ctx.Set("minutesRead", "")
	ctx.Set("headings", []markdown.Heading{})

	ctx.Set("canonical", s.canonical(r.URL.Path, lang))
	ctx.Set("currentPath", r.URL.Path)

	ctx.Set("script", func(target string) (template.HTML, error) {
		src, ok := s.bundles[target]
		if !ok {
			return "", errors.Errorf("unknown javascript target %q", target)
		}
		return template.HTML(fmt.Sprintf(`<script src="%s" defer></script>`, template.HTMLEscapeString(s.bundleURL(src)))), nil
	})

	ctx.Set("image", func(name string, width int) (string, error) {
		if s.Setup.Images == nil {
			return "", errors.New("image helper needs the image integration")
		}
		v, err := s.Setup.Images.Variant(name, width)
		if err != nil {
			return "", err
		}
		return images.URL(v), nil
	})

	ctx.Set("include", func(name string) (template.HTML, error) {
		partial, ok := s.Manifest.Partials[name]
		if !ok {
			return "", errors.Errorf("unknown partial %q", name)
		}
		out, err := s.renderPartial(partial, ctx)
		return template.HTML(out), err
	})

	return ctx
}

func (s *Site) renderPartial(p config.Partial, ctx *plush.Context) (string, error) {
	switch p.TemplateType {
	case "", TemplatePlush:
		return s.renderPlushTemplate(p.Source, ctx)
	case TemplateMarkdown:
		return s.renderMarkdownTemplate(p.Source, plush.NewContext(), false)
	default:
		return "", errors.Wrapf(ErrUnsupportedTemplate, "partial %q", p.TemplateType)
	}
}

// langFromPath picks the language for routes without a lang variable, such
// as blog posts registered per language, falling back to the default.
func (s *Site) langFromPath(path string) string {
	first := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)[0]
	if _, ok := s.translations[first]; ok {
		return first
	}
	return s.defaultLang()
}

func (s *Site) defaultLang() string {
	if _, ok := s.translations["en"]; ok {
		return "en"
	}
	if langs := s.Langs(); len(langs) > 0 {
		return langs[0]
	}
	return "en"
}

func (s *Site) canonical(path, lang string) string {
	if s.Manifest.Site == "" {
		return ""
	}
	site := strings.TrimSuffix(s.Manifest.Site, "/")
	if len(s.translations) == 0 {
		return site + path
	}
	pathNoLang := path
	if path == "/"+lang || strings.HasPrefix(path, "/"+lang+"/") {
		pathNoLang = strings.TrimPrefix(path, "/"+lang)
		if pathNoLang == "" {
			pathNoLang = "/"
		}
	}
	return fmt.Sprintf("%s/%s%s", site, lang, pathNoLang)
}

// bundleURL turns a bundle path below the public directory into the URL it
// is published at.
func (s *Site) bundleURL(src string) string {
	public := "/" + filepath.ToSlash(filepath.Clean(s.Manifest.Dirs.Public))
	if strings.HasPrefix(src, public+"/") {
		return strings.TrimPrefix(src, public)
	}
	return src
}

func (s *Site) renderPlushTemplate(source string, ctx *plush.Context) (string, error) {
	content, err := os.ReadFile(source)
	if err != nil {
		return "", errors.WithStack(err)
	}

	tmpl, err := plush.Parse(string(content))
	if err != nil {
		return "", errors.Wrapf(err, "parsing %s", source)
	}

	out, err := tmpl.Exec(ctx)
	if err != nil {
		return "", errors.Wrapf(err, "executing %s", source)
	}
	return out, nil
}

// renderMarkdownTemplate renders a markdown page and exposes its frontmatter
// to the layout. MDX bodies run through plush before markdown.
func (s *Site) renderMarkdownTemplate(source string, ctx *plush.Context, mdx bool) (string, error) {
	content, err := os.ReadFile(source)
	if err != nil {
		return "", errors.WithStack(err)
	}

	meta, body, err := markdown.SplitFrontmatter(content)
	if err != nil {
		return "", errors.Wrap(err, source)
	}

	ctx.Set("frontmatter", map[string]interface{}(meta))
	if mdx {
		tmpl, err := plush.Parse(string(body))
		if err != nil {
			return "", errors.Wrapf(err, "parsing %s", source)
		}
		expanded, err := tmpl.Exec(ctx)
		if err != nil {
			return "", errors.Wrapf(err, "executing %s", source)
		}
		body = []byte(expanded)
	}

	doc, err := s.markdown.Render(meta, body)
	if err != nil {
		return "", errors.Wrap(err, source)
	}

	ctx.Set("title", doc.Meta.String("title"))
	ctx.Set("description", doc.Meta.String("description"))
	ctx.Set("minutesRead", doc.Meta.String("minutes_read"))
	ctx.Set("headings", doc.Headings)

	contentHtml := strings.Replace(`
  <article class="flex flex-col gap-4 blog-container">
  [content]
  </article>
  `, "[content]", doc.HTML, 1)

	return contentHtml, nil
}
