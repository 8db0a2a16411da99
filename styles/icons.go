package styles

import (
	"bytes"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZacxDev/go-blog-site/theme"
	"github.com/pkg/errors"
	"github.com/srwiley/oksvg"
	"go.uber.org/zap"
)

// iconsPreset turns every SVG in dir into an i-<name> utility rendered as a
// CSS mask, so icons take the current text color.
type iconsPreset struct {
	dir string
	log *zap.Logger
}

func (iconsPreset) Name() string { return "icons" }

func (p iconsPreset) Rules(*theme.Theme) ([]Rule, error) {
	files, err := filepath.Glob(filepath.Join(p.dir, "*.svg"))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if len(files) == 0 {
		p.log.Debug("No icons found", zap.String("dir", p.dir))
		return nil, nil
	}
	sort.Strings(files)

	rules := make([]Rule, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		name := strings.TrimSuffix(filepath.Base(f), ".svg")
		if _, err := oksvg.ReadIconStream(bytes.NewReader(data)); err != nil {
			p.log.Warn("Skipping unreadable icon", zap.String("file", f), zap.Error(err))
			continue
		}
		rules = append(rules, Rule{
			Utility: "i-" + name,
			Decls: []Decl{
				{"--un-icon", `url("data:image/svg+xml;utf8,` + encodeSVG(string(data)) + `")`},
				{"-webkit-mask", "var(--un-icon) no-repeat"},
				{"mask", "var(--un-icon) no-repeat"},
				{"-webkit-mask-size", "100% 100%"},
				{"mask-size", "100% 100%"},
				{"background-color", "currentColor"},
				{"color", "inherit"},
				{"display", "inline-block"},
				{"width", "1.2em"},
				{"height", "1.2em"},
			},
		})
	}
	return rules, nil
}

var svgEscaper = strings.NewReplacer(
	`"`, `'`,
	"%", "%25",
	"#", "%23",
	"{", "%7B",
	"}", "%7D",
	"<", "%3C",
	">", "%3E",
	"\r", " ",
	"\n", " ",
	"\t", " ",
)

// encodeSVG makes markup safe inside a double quoted data URL.
func encodeSVG(svg string) string {
	s := svgEscaper.Replace(strings.TrimSpace(svg))
	return strings.Join(strings.Fields(s), " ")
}
