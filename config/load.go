package config

import (
	"os"

	"github.com/ZacxDev/go-blog-site/markdown"
	"github.com/ZacxDev/go-blog-site/theme"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// SiteURLEnv names the environment variable the site origin is read from.
const SiteURLEnv = "SITE_URL"

type OutputMode string

const (
	OutputStatic OutputMode = "static"
	OutputServer OutputMode = "server"
)

const AdapterCloudflare = "cloudflare"

var (
	ErrInvalidOutput  = errors.New("invalid output mode")
	ErrUnknownAdapter = errors.New("unknown adapter")
	ErrInvalidImage   = errors.New("invalid image target")
)

// DefaultPlugins is the markdown plugin chain used when none is configured.
var DefaultPlugins = []string{"reading-time", "slug", "autolink-headings", "external-links"}

// DefaultIntegrations mirrors the stock blog setup.
func DefaultIntegrations() []Integration {
	return []Integration{
		{Name: "styles"},
		{Name: "mdx"},
		{Name: "image", Options: map[string]interface{}{"service": "imaging", "cache_dir": ".sharp"}},
		{Name: "prefetch", Options: map[string]interface{}{"throttle": 3}},
		{Name: "react"},
	}
}

// LoadManifest reads a manifest file, loads .env from the working directory
// when present, and applies defaults. SITE_URL is passed through unchecked; an
// unset variable leaves Site empty.
func LoadManifest(filename string) (*SiteManifest, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(errors.Cause(err)) {
		return nil, errors.Wrap(err, "loading .env")
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	m, err := ParseManifest(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", filename)
	}
	m.Site = os.Getenv(SiteURLEnv)

	return m, nil
}

// ParseManifest decodes and validates manifest YAML with defaults applied.
func ParseManifest(data []byte) (*SiteManifest, error) {
	var m SiteManifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.WithStack(err)
	}
	m.ApplyDefaults()
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *SiteManifest) ApplyDefaults() {
	if m.Output == "" {
		m.Output = OutputStatic
	}
	if m.Markdown.Plugins == nil {
		m.Markdown.Plugins = append([]string(nil), DefaultPlugins...)
	}
	h := &m.Markdown.Highlight
	if h.Theme == "" {
		h.Theme = "css-variables"
	}
	if h.Langs == nil {
		h.Langs = []string{"ts", "js", "haskell", "rust"}
	}
	if h.Wrap == nil {
		wrap := true
		h.Wrap = &wrap
	}
	if m.Integrations == nil {
		m.Integrations = DefaultIntegrations()
	}
	if m.NotFoundPageSource == "" {
		m.NotFoundPageSource = "templates/404.plush.html"
	}

	d := &m.Dirs
	setDefault(&d.Static, "static")
	setDefault(&d.Templates, "templates")
	setDefault(&d.Pages, "pages")
	setDefault(&d.Translations, "translations")
	setDefault(&d.Icons, "icons")
	setDefault(&d.Public, "public")
}

func setDefault(s *string, v string) {
	if *s == "" {
		*s = v
	}
}

func (m *SiteManifest) Validate() error {
	switch m.Output {
	case OutputStatic, OutputServer:
	default:
		return errors.Wrapf(ErrInvalidOutput, "%q", m.Output)
	}

	switch m.Adapter {
	case "", AdapterCloudflare:
	default:
		return errors.Wrapf(ErrUnknownAdapter, "%q", m.Adapter)
	}

	for name, img := range m.Images {
		if img.Source == "" {
			return errors.Wrapf(ErrInvalidImage, "%s: missing source", name)
		}
		for _, w := range img.Widths {
			if w <= 0 {
				return errors.Wrapf(ErrInvalidImage, "%s: width %d", name, w)
			}
		}
	}

	for _, name := range m.Markdown.Plugins {
		if _, err := markdown.LookupPlugin(name); err != nil {
			return err
		}
	}

	for _, integ := range m.Integrations {
		if integ.Name == "" {
			return errors.New("integration without a name")
		}
	}

	return nil
}

// WrapCode reports whether highlighted code blocks should soft-wrap.
func (h HighlightConfig) WrapCode() bool {
	return h.Wrap == nil || *h.Wrap
}

// BuildTheme layers the manifest's theme block over the default theme. Scale
// colors go through theme.GenerateScale with the color name as the default
// label.
func (m *SiteManifest) BuildTheme() *theme.Theme {
	override := &theme.Theme{
		FontFamily: m.Theme.FontFamily,
		Colors:     make(map[string]theme.Color, len(m.Theme.Colors)),
	}
	for name, c := range m.Theme.Colors {
		if c.Steps == nil {
			override.Colors[name] = theme.Color{Ref: c.Ref}
			continue
		}
		label := c.Label
		if label == "" {
			label = name
		}
		override.Colors[name] = theme.Color{Scale: theme.GenerateScale(label, []string(c.Steps)...)}
	}
	return theme.Default().Merge(override)
}

// DecodeOptions decodes the integration's option set into out, which should
// be a pointer to a struct with yaml tags.
func (i Integration) DecodeOptions(out interface{}) error {
	if len(i.Options) == 0 {
		return nil
	}
	data, err := yaml.Marshal(i.Options)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := yaml.UnmarshalStrict(data, out); err != nil {
		return errors.Wrapf(err, "integration %s options", i.Name)
	}
	return nil
}
