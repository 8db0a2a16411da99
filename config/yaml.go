package config

import "fmt"

// config/yaml.go

type Partial struct {
	Source       string `yaml:"source"`
	TemplateType string `yaml:"template_type"`
}

type JavascriptTarget struct {
	Source string `yaml:"source"`
	OutDir string `yaml:"out_dir"`
}

type SiteManifest struct {
	// Site is the canonical origin. It is taken from SITE_URL and never read
	// from the manifest itself.
	Site string `yaml:"-"`

	Routes             []Route                     `yaml:"routes"`
	JavascriptTargets  map[string]JavascriptTarget `yaml:"javascript"`
	Translations       []Translation               `yaml:"translations"`
	NotFoundPageSource string                      `yaml:"not_found_page_source"`
	Partials           map[string]Partial          `yaml:"partials"`

	Markdown     MarkdownConfig         `yaml:"markdown"`
	Integrations []Integration          `yaml:"integrations"`
	Output       OutputMode             `yaml:"output"`
	Adapter      string                 `yaml:"adapter"`
	Theme        ThemeConfig            `yaml:"theme"`
	Images       map[string]ImageTarget `yaml:"images"`
	Dirs         Dirs                   `yaml:"dirs"`
}

type Route struct {
	Path           string   `yaml:"path"`
	Source         string   `yaml:"source"`
	TemplateType   string   `yaml:"template_type"`
	JavascriptDeps []string `yaml:"javascript_deps"`
	PartialDeps    []string `yaml:"partial_deps"`
}

type Translation struct {
	Code       string `yaml:"code"`
	Source     string `yaml:"source"`
	SourceType string `yaml:"source_type"`
}

type MarkdownConfig struct {
	Plugins       []string            `yaml:"plugins"`
	Highlight     HighlightConfig     `yaml:"highlight"`
	ExternalLinks ExternalLinksConfig `yaml:"external_links"`
}

type ExternalLinksConfig struct {
	Rel string `yaml:"rel"`
}

type HighlightConfig struct {
	Theme string   `yaml:"theme"`
	Langs []string `yaml:"langs"`
	Wrap  *bool    `yaml:"wrap"`
}

// Integration is one entry of the ordered integrations list. Everything other
// than name is handed to the integration as its option set.
type Integration struct {
	Name    string                 `yaml:"name"`
	Options map[string]interface{} `yaml:",inline"`
}

type ImageTarget struct {
	Source  string `yaml:"source"`
	Widths  []int  `yaml:"widths"`
	Format  string `yaml:"format"`
	Quality int    `yaml:"quality"`
}

type ThemeConfig struct {
	FontFamily map[string]string      `yaml:"font_family"`
	Colors     map[string]ColorConfig `yaml:"colors"`
}

// ColorConfig is either a literal reference or a scale declaration.
type ColorConfig struct {
	Ref   string `yaml:"ref"`
	Label string `yaml:"label"`
	Steps Steps  `yaml:"steps"`
}

// Steps accepts a YAML list of numbers and strings.
type Steps []string

func (s *Steps) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw []interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	out := make(Steps, 0, len(raw))
	for _, v := range raw {
		out = append(out, fmt.Sprint(v))
	}
	*s = out
	return nil
}

// Dirs lists the directories the site is laid out in.
type Dirs struct {
	Static       string `yaml:"static"`
	Templates    string `yaml:"templates"`
	Pages        string `yaml:"pages"`
	Translations string `yaml:"translations"`
	Icons        string `yaml:"icons"`
	Public       string `yaml:"public"`
}
