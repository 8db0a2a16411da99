package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ZacxDev/go-blog-site/config"
	"github.com/ZacxDev/go-blog-site/integrations"
	"github.com/ZacxDev/go-blog-site/javascript"
	"github.com/ZacxDev/go-blog-site/markdown"
	"github.com/ZacxDev/go-blog-site/styles"
	"github.com/ZacxDev/go-blog-site/utils"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// ThemeStylesheet is where the generated utility CSS is served and written.
const ThemeStylesheet = "/theme.css"

// Site holds everything needed to render pages. Build and serve share it.
type Site struct {
	Manifest *config.SiteManifest
	Setup    *integrations.Setup

	markdown *markdown.Renderer
	classes  *styles.ClassSet
	bundles  map[string]string

	translations     map[string]map[string]string
	registeredRoutes []string
	// pages holds the mux path templates of page routes.
	pages            map[string]bool

	log *zap.Logger
}

// NewSite loads translations, runs the integrations and prepares the
// markdown pipeline.
func NewSite(m *config.SiteManifest, log *zap.Logger) (*Site, error) {
	if log == nil {
		log = zap.NewNop()
	}

	setup, err := integrations.Load(m, m.BuildTheme(), log)
	if err != nil {
		return nil, err
	}

	md, err := markdown.NewRenderer(markdown.Options{
		Plugins: m.Markdown.Plugins,
		Highlight: markdown.HighlightOptions{
			Theme: m.Markdown.Highlight.Theme,
			Langs: m.Markdown.Highlight.Langs,
			Wrap:  m.Markdown.Highlight.WrapCode(),
		},
		ExternalLinkRel: m.Markdown.ExternalLinks.Rel,
	}, log)
	if err != nil {
		return nil, err
	}

	translations, err := loadTranslations(m.Dirs.Translations)
	if err != nil {
		return nil, errors.Wrap(err, "error loading translations")
	}

	if m.Site == "" {
		log.Warn("SITE_URL is not set, sitemap and canonical URLs are disabled")
	}

	return &Site{
		Manifest:     m,
		Setup:        setup,
		markdown:     md,
		classes:      styles.NewClassSet(),
		bundles:      map[string]string{},
		translations: translations,
		log:          log.Named("site"),
	}, nil
}

// CompileScripts bundles the javascript targets, compiling JSX for the UI
// framework integration when one is enabled. Call it before SetupRouter.
func (s *Site) CompileScripts() error {
	bundles, err := javascript.CompileJSTarget(s.Manifest.JavascriptTargets, javascript.Options{
		JSXImportSource: s.Setup.JSXImportSource,
	}, s.log)
	if err != nil {
		return err
	}
	s.bundles = bundles
	return nil
}

func (s *Site) SetupRouter() (*mux.Router, error) {
	router := mux.NewRouter()
	s.registeredRoutes = nil
	s.pages = map[string]bool{}

	router.NotFoundHandler = http.HandlerFunc(s.Custom404Handler)

	staticDir := s.Manifest.Dirs.Static
	router.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))

	if s.Setup.Styles != nil {
		router.HandleFunc(ThemeStylesheet, s.serveStylesheet).Methods("GET")
	}
	if s.Setup.Images != nil {
		router.PathPrefix("/images/").Handler(s.Setup.Images.Handler())
	}

	langPattern := s.langPattern()
	for _, route := range s.Manifest.Routes {
		if strings.Contains(route.Path, ":slug") {
			if err := s.setupBlogRoutes(router, route); err != nil {
				return nil, errors.Wrap(err, "error setting up blog routes")
			}
			continue
		}

		if langPattern != "" {
			s.handlePage(router, "/{lang:"+langPattern+"}"+route.Path, route)
			s.registeredRoutes = append(s.registeredRoutes, "/"+utils.LangParam+route.Path)
		}
		s.handlePage(router, route.Path, route)
		s.registeredRoutes = append(s.registeredRoutes, route.Path)
	}

	for target, src := range s.bundles {
		target, src := target, src
		router.HandleFunc(s.bundleURL(src), func(w http.ResponseWriter, r *http.Request) {
			s.log.Debug("Serving bundle", zap.String("target", target))
			http.ServeFile(w, r, filepath.FromSlash(strings.TrimPrefix(src, "/")))
		}).Methods("GET")
	}

	if s.Manifest.Site != "" {
		router.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
			sitemap, err := utils.GenerateSitemapContent(s.Manifest.Site, s.registeredRoutes, s.Langs(), time.Now())
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/xml")
			w.Write([]byte(sitemap))
		}).Methods("GET")
	}

	return router, nil
}

func (s *Site) handlePage(router *mux.Router, tpl string, route config.Route) {
	router.HandleFunc(tpl, s.DynamicHandler(route)).Methods("GET")
	s.pages[tpl] = true
}

// IsPage reports whether a mux path template renders a page, as opposed to
// assets, images and the sitemap.
func (s *Site) IsPage(tpl string) bool {
	return s.pages[tpl]
}

// langPattern is the mux regexp alternation of the supported languages.
func (s *Site) langPattern() string {
	return strings.Join(s.Langs(), "|")
}

// Langs returns the translation codes, sorted.
func (s *Site) Langs() []string {
	langs := make([]string, 0, len(s.translations))
	for lang := range s.translations {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// setupBlogRoutes registers one route per post directory below route.Source
// (pages/blog by default). Each post holds <lang>.md, or index.md on sites
// without translations. MDX posts use the .mdx extension.
func (s *Site) setupBlogRoutes(router *mux.Router, route config.Route) error {
	postsDir := route.Source
	if postsDir == "" {
		postsDir = filepath.Join(s.Manifest.Dirs.Pages, "blog")
	}
	blogPosts, err := filepath.Glob(filepath.Join(postsDir, "*"))
	if err != nil {
		return errors.WithStack(err)
	}

	langs := s.Langs()
	if len(langs) == 0 {
		langs = []string{""}
	}

	for _, postDir := range blogPosts {
		isDir, err := isDirectory(postDir)
		if err != nil {
			return errors.WithStack(err)
		}
		if !isDir {
			continue
		}

		slug := filepath.Base(postDir)
		postPath := strings.Replace(route.Path, ":slug", slug, 1)

		for _, lang := range langs {
			source, templateType, ok := s.postSource(postDir, lang, route.TemplateType)
			if !ok {
				s.log.Warn("Post has no source for language", zap.String("post", slug), zap.String("lang", lang))
				continue
			}
			path := postPath
			if lang != "" {
				path = "/" + lang + postPath
			}
			s.handlePage(router, path, config.Route{
				Path:           postPath,
				Source:         source,
				TemplateType:   templateType,
				JavascriptDeps: route.JavascriptDeps,
				PartialDeps:    route.PartialDeps,
			})
			s.registeredRoutes = append(s.registeredRoutes, path)
		}
	}

	return nil
}

func (s *Site) postSource(postDir, lang, templateType string) (string, string, bool) {
	name := lang
	if name == "" {
		name = "index"
	}
	candidates := []struct{ ext, templateType string }{{".md", templateType}}
	if s.Setup.TemplateTypes["MDX"] {
		candidates = append(candidates, struct{ ext, templateType string }{".mdx", "MDX"})
	}
	for _, c := range candidates {
		p := filepath.Join(postDir, name+c.ext)
		if _, err := os.Stat(p); err == nil {
			return p, c.templateType, true
		}
	}
	return "", "", false
}

func loadTranslations(dir string) (map[string]map[string]string, error) {
	translations := make(map[string]map[string]string)

	files, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, errors.WithStack(err)
	}

	for _, file := range files {
		lang := strings.TrimSuffix(filepath.Base(file), ".yaml")
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		var langTranslations map[string]string
		if err := yaml.Unmarshal(data, &langTranslations); err != nil {
			return nil, errors.Wrapf(err, "parsing %s", file)
		}

		translations[lang] = langTranslations
	}

	return translations, nil
}

// RegisteredRoutes lists the page paths; language-prefixed routes use
// utils.LangParam in place of the code.
func (s *Site) RegisteredRoutes() []string {
	return s.registeredRoutes
}

// Classes reports every utility class seen in rendered pages so far.
func (s *Site) Classes() []string {
	return s.classes.List()
}

// Stylesheet generates CSS for the classes used by the pages rendered so far.
func (s *Site) Stylesheet() []byte {
	if s.Setup.Styles == nil {
		return nil
	}
	return s.Setup.Styles.Generate(s.classes.List())
}

// serveStylesheet answers with every base utility plus the variants seen so
// far, since in development pages may be requested after the stylesheet.
func (s *Site) serveStylesheet(w http.ResponseWriter, r *http.Request) {
	classes := append(s.Setup.Styles.Utilities(), s.classes.List()...)
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Write(s.Setup.Styles.Generate(classes))
}

// finishPage applies class transformers, records classes for the
// stylesheet and injects the stylesheet link and prefetch script.
func (s *Site) finishPage(page []byte) ([]byte, error) {
	if st := s.Setup.Styles; st != nil {
		var err error
		page, err = st.TransformHTML(page)
		if err != nil {
			return nil, err
		}
		classes, err := st.ExtractClasses(strings.NewReader(string(page)))
		if err != nil {
			return nil, err
		}
		s.classes.Add(classes...)
		page = utils.InjectBefore(page, "</head>", `<link rel="stylesheet" href="`+ThemeStylesheet+`">`)
	}
	if s.Setup.PrefetchTag != "" {
		page = utils.InjectBefore(page, "</body>", string(s.Setup.PrefetchTag))
	}
	return page, nil
}

func isDirectory(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
