// Package integrations wires the optional build features listed under
// integrations: in the manifest. Each integration reads its own options and
// contributes to a shared Setup in manifest order.
package integrations

import (
	"html/template"

	"github.com/ZacxDev/go-blog-site/config"
	"github.com/ZacxDev/go-blog-site/images"
	"github.com/ZacxDev/go-blog-site/styles"
	"github.com/ZacxDev/go-blog-site/theme"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var (
	ErrUnknownIntegration   = errors.New("unknown integration")
	ErrDuplicateIntegration = errors.New("integration listed twice")
)

// Setup is what the integrations hand to the site.
type Setup struct {
	Manifest *config.SiteManifest
	Theme    *theme.Theme
	Log      *zap.Logger

	Styles      *styles.Engine
	Images      *images.Service
	PrefetchTag template.HTML
	// TemplateTypes lists extra route template types, e.g. MDX.
	TemplateTypes map[string]bool
	// JSXImportSource is set by a UI framework integration.
	JSXImportSource string

	Enabled []string
}

type Integration interface {
	Name() string
	Setup(s *Setup) error
}

type factory func(cfg config.Integration) (Integration, error)

var registry = map[string]factory{
	"styles":   newStyles,
	"mdx":      newMDX,
	"image":    newImage,
	"prefetch": newPrefetch,
	"react":    newReact,
}

// Load runs every configured integration in order.
func Load(m *config.SiteManifest, th *theme.Theme, log *zap.Logger) (*Setup, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Setup{
		Manifest:      m,
		Theme:         th,
		Log:           log,
		TemplateTypes: map[string]bool{},
	}

	seen := map[string]bool{}
	for _, cfg := range m.Integrations {
		build, ok := registry[cfg.Name]
		if !ok {
			return nil, errors.Wrapf(ErrUnknownIntegration, "%q", cfg.Name)
		}
		if seen[cfg.Name] {
			return nil, errors.Wrapf(ErrDuplicateIntegration, "%q", cfg.Name)
		}
		seen[cfg.Name] = true

		integ, err := build(cfg)
		if err != nil {
			return nil, err
		}
		if err := integ.Setup(s); err != nil {
			return nil, errors.Wrapf(err, "integration %s", cfg.Name)
		}
		s.Enabled = append(s.Enabled, integ.Name())
		log.Debug("Integration ready", zap.String("integration", integ.Name()))
	}

	return s, nil
}
