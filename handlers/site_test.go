package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZacxDev/go-blog-site/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const baseLayout = `<html><head><title><%= title %></title></head>` +
	`<body class="bg-body-100"><main class="hover:(text-brand-500)"><%= yield %></main>` +
	`<p class="read"><%= minutesRead %></p></body></html>`

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}
}

func newTestSite(t *testing.T, siteURL string) (*Site, http.Handler) {
	t.Helper()
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"templates/layouts/base.plush.html": baseLayout,
		"templates/404.plush.html":          `<h1>Lost</h1>`,
		"pages/about.plush.html":            `<p><%= text("greeting") %> <%= canonical %></p>`,
		"pages/blog/hello/en.md":            "title: Hello\n---\n# Hello World\n\nSome words here.\n",
		"pages/blog/hello/es.md":            "title: Hola\n---\n# Hola Mundo\n",
		"pages/blog/sums/en.mdx":            "title: Sums\n---\nTotal <%= 1 + 2 %>\n",
		"translations/en.yaml":              "greeting: Hello\n",
		"translations/es.yaml":              "greeting: Hola\n",
	})

	m, err := config.ParseManifest([]byte(`
routes:
  - path: /about
    source: ` + filepath.Join(root, "pages/about.plush.html") + `
    template_type: PLUSH
  - path: /blog/:slug
    template_type: MARKDOWN
dirs:
  static: ` + filepath.Join(root, "static") + `
  templates: ` + filepath.Join(root, "templates") + `
  pages: ` + filepath.Join(root, "pages") + `
  translations: ` + filepath.Join(root, "translations") + `
  icons: ` + filepath.Join(root, "icons") + `
  public: ` + filepath.Join(root, "public") + `
not_found_page_source: ` + filepath.Join(root, "templates/404.plush.html") + `
`))
	require.NoError(t, err)
	m.Site = siteURL

	s, err := NewSite(m, zaptest.NewLogger(t))
	require.NoError(t, err)
	router, err := s.SetupRouter()
	require.NoError(t, err)
	return s, router
}

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return rec.Code, string(body)
}

func TestMarkdownPost(t *testing.T) {
	s, router := newTestSite(t, "")

	code, body := get(t, router, "/en/blog/hello")
	require.Equal(t, http.StatusOK, code, body)

	assert.Contains(t, body, "<title>Hello</title>")
	assert.Contains(t, body, `<h1 id="hello-world"><a aria-hidden="true" tabindex="-1" href="#hello-world">`)
	assert.Contains(t, body, `<article class="flex flex-col gap-4 blog-container">`)
	assert.Contains(t, body, "1 min read")
	assert.Contains(t, body, `class="hover:text-brand-500"`)
	assert.Less(t, strings.Index(body, `<link rel="stylesheet" href="/theme.css">`), strings.Index(body, "</head>"))
	assert.Less(t, strings.Index(body, "<script>"), strings.Index(body, "</body>"))

	assert.Contains(t, s.Classes(), "hover:text-brand-500")
	assert.Contains(t, s.Classes(), "bg-body-100")
	css := string(s.Stylesheet())
	assert.Contains(t, css, `.hover\:text-brand-500:hover{color:var(--brand-500);}`)
	assert.NotContains(t, css, ".text-brand-100")
}

func TestMDXPost(t *testing.T) {
	_, router := newTestSite(t, "")

	code, body := get(t, router, "/en/blog/sums")
	require.Equal(t, http.StatusOK, code, body)
	assert.Contains(t, body, "Total 3")

	code, _ = get(t, router, "/es/blog/sums")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPlushPageTranslations(t *testing.T) {
	_, router := newTestSite(t, "https://blog.example.com")

	_, body := get(t, router, "/es/about")
	assert.Contains(t, body, "<p>Hola https://blog.example.com/es/about</p>")

	_, body = get(t, router, "/about")
	assert.Contains(t, body, "<p>Hello https://blog.example.com/en/about</p>")
}

func TestNotFound(t *testing.T) {
	_, router := newTestSite(t, "")

	code, body := get(t, router, "/nowhere")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, body, "<h1>Lost</h1>")

	code, _ = get(t, router, "/sitemap.xml")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSitemap(t *testing.T) {
	s, router := newTestSite(t, "https://blog.example.com")

	assert.ElementsMatch(t, []string{"/{lang}/about", "/about", "/en/blog/hello", "/es/blog/hello", "/en/blog/sums"}, s.RegisteredRoutes())

	code, body := get(t, router, "/sitemap.xml")
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, "<loc>https://blog.example.com/es/about</loc>")
	assert.Contains(t, body, "<loc>https://blog.example.com/en/blog/sums</loc>")
}

func TestThemeStylesheet(t *testing.T) {
	s, router := newTestSite(t, "")

	code, body := get(t, router, ThemeStylesheet)
	require.Equal(t, http.StatusOK, code)
	assert.Contains(t, body, ".text-brand-100{color:var(--brand-100);}")
	assert.True(t, s.IsPage("/blog/hello") == false)
	assert.True(t, s.IsPage("/en/blog/hello"))
	assert.False(t, s.IsPage(ThemeStylesheet))
}

func TestUnsupportedTemplate(t *testing.T) {
	s, _ := newTestSite(t, "")
	rec := httptest.NewRecorder()
	s.DynamicHandler(config.Route{Path: "/x", TemplateType: "JADE"})(rec, httptest.NewRequest("GET", "/x", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestImageHelperDeclaredWidths(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"templates/layouts/base.plush.html": `<html><head></head><body><%= yield %></body></html>`,
		"templates/404.plush.html":          `<h1>Lost</h1>`,
		"pages/good.plush.html":             `<img src="<%= image("hero", 40) %>">`,
		"pages/bad.plush.html":              `<img src="<%= image("hero", 500) %>">`,
	})

	m, err := config.ParseManifest([]byte(`
routes:
  - path: /good
    source: ` + filepath.Join(root, "pages/good.plush.html") + `
    template_type: PLUSH
  - path: /bad
    source: ` + filepath.Join(root, "pages/bad.plush.html") + `
    template_type: PLUSH
images:
  hero:
    source: ` + filepath.Join(root, "hero.png") + `
    widths: [40]
    format: png
`))
	require.NoError(t, err)
	m.NotFoundPageSource = filepath.Join(root, "templates/404.plush.html")
	m.Dirs.Templates = filepath.Join(root, "templates")
	m.Dirs.Translations = filepath.Join(root, "translations")
	m.Dirs.Icons = filepath.Join(root, "icons")

	s, err := NewSite(m, zaptest.NewLogger(t))
	require.NoError(t, err)
	router, err := s.SetupRouter()
	require.NoError(t, err)

	code, body := get(t, router, "/good")
	require.Equal(t, http.StatusOK, code, body)
	assert.Contains(t, body, `<img src="/images/hero-40.png">`)

	code, body = get(t, router, "/bad")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Contains(t, body, "unknown image")
}
