package integrations

import (
	"github.com/ZacxDev/go-blog-site/config"
	"github.com/ZacxDev/go-blog-site/images"
	"github.com/ZacxDev/go-blog-site/prefetch"
	"github.com/ZacxDev/go-blog-site/styles"
)

// stylesIntegration generates utility CSS from the theme.
type stylesIntegration struct {
	opts stylesOptions
}

type stylesOptions struct {
	Presets      []string                  `yaml:"presets"`
	Transformers []string                  `yaml:"transformers"`
	Typography   *styles.TypographyOptions `yaml:"typography"`
	IconsDir     string                    `yaml:"icons_dir"`
	Minify       *bool                     `yaml:"minify"`
}

func newStyles(cfg config.Integration) (Integration, error) {
	i := &stylesIntegration{}
	if err := cfg.DecodeOptions(&i.opts); err != nil {
		return nil, err
	}
	return i, nil
}

func (*stylesIntegration) Name() string { return "styles" }

func (i *stylesIntegration) Setup(s *Setup) error {
	opts := styles.DefaultOptions()
	opts.IconsDir = s.Manifest.Dirs.Icons
	if i.opts.Presets != nil {
		opts.Presets = i.opts.Presets
	}
	if i.opts.Transformers != nil {
		opts.Transformers = i.opts.Transformers
	}
	if i.opts.Typography != nil {
		opts.Typography = *i.opts.Typography
	}
	if i.opts.IconsDir != "" {
		opts.IconsDir = i.opts.IconsDir
	}
	if i.opts.Minify != nil {
		opts.Minify = *i.opts.Minify
	}

	engine, err := styles.New(s.Theme, opts, s.Log)
	if err != nil {
		return err
	}
	s.Styles = engine
	return nil
}

// mdxIntegration lets markdown pages use template expressions.
type mdxIntegration struct{}

func newMDX(cfg config.Integration) (Integration, error) {
	var none struct{}
	if err := cfg.DecodeOptions(&none); err != nil {
		return nil, err
	}
	return mdxIntegration{}, nil
}

func (mdxIntegration) Name() string { return "mdx" }

func (mdxIntegration) Setup(s *Setup) error {
	s.TemplateTypes["MDX"] = true
	return nil
}

type imageIntegration struct {
	opts imageOptions
}

type imageOptions struct {
	Service  string `yaml:"service"`
	CacheDir string `yaml:"cache_dir"`
}

func newImage(cfg config.Integration) (Integration, error) {
	i := &imageIntegration{opts: imageOptions{Service: "imaging", CacheDir: ".sharp"}}
	if err := cfg.DecodeOptions(&i.opts); err != nil {
		return nil, err
	}
	return i, nil
}

func (*imageIntegration) Name() string { return "image" }

func (i *imageIntegration) Setup(s *Setup) error {
	backend, err := images.LookupBackend(i.opts.Service)
	if err != nil {
		return err
	}
	targets := make(map[string]images.Target, len(s.Manifest.Images))
	for name, t := range s.Manifest.Images {
		targets[name] = images.Target{Source: t.Source, Widths: t.Widths, Format: t.Format, Quality: t.Quality}
	}
	s.Images = images.NewService(backend, i.opts.CacheDir, targets, s.Log)
	return nil
}

type prefetchIntegration struct {
	opts prefetch.Options
}

func newPrefetch(cfg config.Integration) (Integration, error) {
	i := &prefetchIntegration{opts: prefetch.DefaultOptions()}
	if err := cfg.DecodeOptions(&i.opts); err != nil {
		return nil, err
	}
	return i, nil
}

func (*prefetchIntegration) Name() string { return "prefetch" }

func (i *prefetchIntegration) Setup(s *Setup) error {
	tag, err := prefetch.Tag(i.opts)
	if err != nil {
		return err
	}
	s.PrefetchTag = tag
	return nil
}

// reactIntegration compiles JSX in javascript targets against React.
type reactIntegration struct {
	opts reactOptions
}

type reactOptions struct {
	ImportSource string `yaml:"import_source"`
}

func newReact(cfg config.Integration) (Integration, error) {
	i := &reactIntegration{opts: reactOptions{ImportSource: "react"}}
	if err := cfg.DecodeOptions(&i.opts); err != nil {
		return nil, err
	}
	return i, nil
}

func (*reactIntegration) Name() string { return "react" }

func (i *reactIntegration) Setup(s *Setup) error {
	s.JSXImportSource = i.opts.ImportSource
	return nil
}
