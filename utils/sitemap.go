package utils

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrNoSite is returned when a sitemap is requested without a site origin.
var ErrNoSite = errors.New("sitemap requires a site URL")

type Sitemap struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	Urls    []Url    `xml:"url"`
}

type Url struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// LangParam is the route placeholder that expands to every language code.
const LangParam = "{lang}"

func GenerateSitemaps(publicDir, site string, routes, langs []string, now time.Time) error {
	xmlOutput, err := GenerateSitemapContent(site, routes, langs, now)
	if err != nil {
		return err
	}

	content := []byte(xml.Header + xmlOutput)
	if err := os.WriteFile(filepath.Join(publicDir, "sitemap.xml"), content, 0644); err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// GenerateSitemapContent lists every route under site. Routes containing
// LangParam are listed once per language. Duplicates are dropped.
func GenerateSitemapContent(site string, routes, langs []string, now time.Time) (string, error) {
	if site == "" {
		return "", errors.WithStack(ErrNoSite)
	}
	baseURL := strings.TrimSuffix(site, "/")
	sitemap := Sitemap{
		Xmlns: "http://www.sitemaps.org/schemas/sitemap/0.9",
	}

	seen := map[string]bool{}
	add := func(route string) {
		if seen[route] {
			return
		}
		seen[route] = true
		sitemap.Urls = append(sitemap.Urls, Url{
			Loc:     baseURL + route,
			LastMod: now.Format("2006-01-02"),
		})
	}

	sortedLangs := append([]string(nil), langs...)
	sort.Strings(sortedLangs)

	for _, route := range routes {
		if strings.Contains(route, LangParam) {
			for _, lang := range sortedLangs {
				add(strings.Replace(route, LangParam, lang, 1))
			}
		} else {
			add(route)
		}
	}

	xmlOutput, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return "", errors.WithStack(err)
	}

	return string(xmlOutput), nil
}
