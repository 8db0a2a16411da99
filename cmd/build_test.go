package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZacxDev/go-blog-site/config"
	"github.com/ZacxDev/go-blog-site/handlers"
	"github.com/ZacxDev/go-blog-site/integrations"
	"github.com/ZacxDev/go-blog-site/styles"
	"github.com/ZacxDev/go-blog-site/theme"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"
)

func testManifest(t *testing.T, output string) *config.SiteManifest {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"templates/layouts/base.plush.html": `<html><head></head><body class="text-text-900"><%= yield %></body></html>`,
		"templates/404.plush.html":          `<p>missing</p>`,
		"pages/index.plush.html":            `<p class="font-serif">home</p>`,
		"pages/blog/first/index.md":         "title: First\n---\n# First\n",
		"static/css/site.css":               "body{}",
	}
	for name, content := range files {
		p := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	}

	m, err := config.ParseManifest([]byte(`
output: ` + output + `
adapter: cloudflare
routes:
  - path: /
    source: ` + filepath.Join(root, "pages/index.plush.html") + `
    template_type: PLUSH
  - path: /blog/:slug
    template_type: MARKDOWN
`))
	require.NoError(t, err)
	m.Site = "https://blog.example.com"
	m.NotFoundPageSource = filepath.Join(root, "templates/404.plush.html")
	m.Dirs = config.Dirs{
		Static:       filepath.Join(root, "static"),
		Templates:    filepath.Join(root, "templates"),
		Pages:        filepath.Join(root, "pages"),
		Translations: filepath.Join(root, "translations"),
		Icons:        filepath.Join(root, "icons"),
		Public:       filepath.Join(root, "public"),
	}
	return m
}

func TestBuildStatic(t *testing.T) {
	m := testManifest(t, "static")
	log := zaptest.NewLogger(t)
	site, err := handlers.NewSite(m, log)
	require.NoError(t, err)

	require.NoError(t, buildSite(site, log))

	public := m.Dirs.Public
	for _, f := range []string{"index.html", "blog/first/index.html", "static/css/site.css", "theme.css", "sitemap.xml", "_headers"} {
		assert.FileExists(t, filepath.Join(public, f))
	}

	page, err := os.ReadFile(filepath.Join(public, "blog/first/index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), `<h1 id="first">`)

	css, err := os.ReadFile(filepath.Join(public, "theme.css"))
	require.NoError(t, err)
	assert.Contains(t, string(css), ".font-serif{")
	assert.Contains(t, string(css), ".text-text-900{")
	assert.NotContains(t, string(css), ".text-brand-100{")

	sitemap, err := os.ReadFile(filepath.Join(public, "sitemap.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(sitemap), "<loc>https://blog.example.com/blog/first</loc>")
}

func TestBuildServerSkipsPages(t *testing.T) {
	m := testManifest(t, "server")
	log := zaptest.NewLogger(t)
	site, err := handlers.NewSite(m, log)
	require.NoError(t, err)

	require.NoError(t, buildSite(site, log))

	assert.NoFileExists(t, filepath.Join(m.Dirs.Public, "index.html"))
	css, err := os.ReadFile(filepath.Join(m.Dirs.Public, "theme.css"))
	require.NoError(t, err)
	assert.Contains(t, string(css), ".text-brand-100{")
}

func TestWriteTokens(t *testing.T) {
	var buf bytes.Buffer
	th := &theme.Theme{
		FontFamily: map[string]string{"sans": theme.Ref("font-family-sans")},
		Colors:     map[string]theme.Color{"gap": {Scale: theme.GenerateScale("gap", 1, 2)}},
	}
	require.NoError(t, writeTokens(&buf, th))
	assert.Equal(t, "fontFamily  sans   var(--font-family-sans)\ncolors      gap-1  var(--gap-1)\ncolors      gap-2  var(--gap-2)\n", buf.String())
}

func TestBuildReportsBrokenPages(t *testing.T) {
	m := testManifest(t, "static")
	m.Routes = append(m.Routes,
		config.Route{Path: "/broken", Source: filepath.Join(m.Dirs.Pages, "nope.plush.html"), TemplateType: "PLUSH"},
		config.Route{Path: "/also-broken", Source: filepath.Join(m.Dirs.Pages, "nope.plush.html"), TemplateType: "PLUSH"},
	)
	log := zaptest.NewLogger(t)
	site, err := handlers.NewSite(m, log)
	require.NoError(t, err)

	err = buildSite(site, log)
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Contains(t, err.Error(), "/broken")
	assert.FileExists(t, filepath.Join(m.Dirs.Public, "index.html"))
}

func TestLoadSetupRejectsWhatBuildRejects(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte("integrations:\n  - name: styles\n    presets: [uno]\n"), 0644))
	setup, err := loadSetup(good)
	require.NoError(t, err)
	assert.Equal(t, "var(--brand-100)", setup.Theme.Colors["brand"].Scale["100"])

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("integrations:\n  - name: styles\n    presets: [wind]\n"), 0644))
	_, err = loadSetup(bad)
	assert.Equal(t, styles.ErrUnknownPreset, errors.Cause(err))

	require.NoError(t, os.WriteFile(bad, []byte("integrations:\n  - name: sitemap\n"), 0644))
	_, err = loadSetup(bad)
	assert.Equal(t, integrations.ErrUnknownIntegration, errors.Cause(err))
}
