// Package prefetch builds the client script that warms the browser cache for
// links the reader is likely to follow next.
package prefetch

import (
	_ "embed"
	"encoding/json"
	"html/template"

	"github.com/ZacxDev/go-blog-site/javascript"
	"github.com/gobuffalo/plush"
	"github.com/pkg/errors"
)

//go:embed prefetch.js.plush
var scriptTemplate string

var ErrInvalidThrottle = errors.New("prefetch throttle must not be negative")

type Options struct {
	// Throttle caps concurrent prefetch requests. Zero means the default.
	Throttle int `yaml:"throttle"`
	// Selector matches links prefetched once they scroll into view.
	Selector string `yaml:"selector"`
	// IntentSelector matches links prefetched on hover, touch or focus.
	IntentSelector string `yaml:"intent_selector"`
}

func DefaultOptions() Options {
	return Options{
		Throttle:       3,
		Selector:       `a[href][rel~="prefetch"]`,
		IntentSelector: `a[href][rel~="prefetch-intent"]`,
	}
}

func (o Options) withDefaults() (Options, error) {
	if o.Throttle < 0 {
		return o, errors.Wrapf(ErrInvalidThrottle, "%d", o.Throttle)
	}
	d := DefaultOptions()
	if o.Throttle == 0 {
		o.Throttle = d.Throttle
	}
	if o.Selector == "" {
		o.Selector = d.Selector
	}
	if o.IntentSelector == "" {
		o.IntentSelector = d.IntentSelector
	}
	return o, nil
}

// Script renders and minifies the prefetch script.
func Script(opts Options) (string, error) {
	src, err := render(opts)
	if err != nil {
		return "", err
	}
	return javascript.Minify(src)
}

func render(opts Options) (string, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return "", err
	}

	ctx := plush.NewContext()
	ctx.Set("throttle", opts.Throttle)
	for key, sel := range map[string]string{"selector": opts.Selector, "intentSelector": opts.IntentSelector} {
		b, err := json.Marshal(sel)
		if err != nil {
			return "", errors.WithStack(err)
		}
		ctx.Set(key, template.HTML(b))
	}

	src, err := plush.Render(scriptTemplate, ctx)
	if err != nil {
		return "", errors.Wrap(err, "rendering prefetch script")
	}
	return src, nil
}

// Tag wraps the script for inclusion in a page.
func Tag(opts Options) (template.HTML, error) {
	js, err := Script(opts)
	if err != nil {
		return "", err
	}
	return template.HTML("<script>" + js + "</script>"), nil
}
