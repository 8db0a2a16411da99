package cmd

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/ZacxDev/go-blog-site/config"
	"github.com/ZacxDev/go-blog-site/handlers"
	"github.com/ZacxDev/go-blog-site/images"
	"github.com/ZacxDev/go-blog-site/utils"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build a static version of the site",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.Info("Building site...")

		site, err := loadSite()
		if err != nil {
			return errors.Wrap(err, "error loading site")
		}

		if err := buildSite(site, logger); err != nil {
			return err
		}

		logger.Info("Site generated successfully", zap.String("dir", site.Manifest.Dirs.Public))
		return nil
	},
}

func buildSite(site *handlers.Site, log *zap.Logger) error {
	m := site.Manifest
	public := m.Dirs.Public

	router, err := site.SetupRouter()
	if err != nil {
		return errors.Wrap(err, "error setting up router")
	}

	if err := os.MkdirAll(public, os.ModePerm); err != nil {
		return errors.Wrap(err, "error creating public directory")
	}

	if err := copyStatic(m.Dirs.Static, filepath.Join(public, "static"), log); err != nil {
		return errors.Wrap(err, "error copying static files")
	}

	if m.Output == config.OutputStatic {
		if err := prerender(router, site, public, log); err != nil {
			return err
		}
	} else {
		log.Info("Server output, skipping page prerender", zap.String("output", string(m.Output)))
	}

	if site.Setup.Images != nil {
		written, err := site.Setup.Images.WriteAll(filepath.Join(public, strings.Trim(images.PathPrefix, "/")))
		if err != nil {
			return errors.Wrap(err, "error writing images")
		}
		log.Info("Wrote images", zap.Int("count", len(written)))
	}

	if site.Setup.Styles != nil {
		css := site.Stylesheet()
		if m.Output != config.OutputStatic {
			css = site.Setup.Styles.Generate(append(site.Setup.Styles.Utilities(), site.Classes()...))
		}
		p := filepath.Join(public, strings.TrimPrefix(handlers.ThemeStylesheet, "/"))
		if err := os.WriteFile(p, css, 0644); err != nil {
			return errors.Wrap(err, "error writing stylesheet")
		}
		log.Info("Generated stylesheet", zap.Int("classes", len(site.Classes())))
	}

	if m.Site != "" {
		if err := utils.GenerateSitemaps(public, m.Site, site.RegisteredRoutes(), site.Langs(), time.Now()); err != nil {
			log.Error("Error generating sitemap", zap.Error(err))
		}
	} else {
		log.Warn("Skipping sitemap, " + config.SiteURLEnv + " is not set")
	}

	if m.Adapter == config.AdapterCloudflare {
		if err := utils.WriteHeaders(public, utils.DefaultHeaderRules()); err != nil {
			return err
		}
	}

	return nil
}

var langPattern = regexp.MustCompile(`\/\{lang:([^}]+)\}\/`)

// prerender requests every page through a test server and writes the
// responses below public.
func prerender(router *mux.Router, site *handlers.Site, public string, log *zap.Logger) error {
	server := httptest.NewServer(router)
	defer server.Close()

	var failed error
	err := router.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return nil // Skip routes without a path template
		}

		if !site.IsPage(path) {
			return nil
		}

		var paths []string
		if matches := langPattern.FindStringSubmatch(path); len(matches) > 1 {
			baseRoute := langPattern.ReplaceAllString(path, "/")
			for _, lang := range strings.Split(matches[1], "|") {
				paths = append(paths, fmt.Sprintf("/%s%s", lang, baseRoute))
			}
		} else {
			paths = append(paths, path)
		}

		for _, p := range paths {
			if err := generateStaticPage(server, public, p, log); err != nil {
				log.Error("Error generating static page", zap.String("path", p), zap.Error(err))
				failed = multierr.Append(failed, errors.Wrap(err, p))
			}
		}
		return nil
	})
	if err != nil {
		return errors.WithStack(err)
	}
	return failed
}

func generateStaticPage(server *httptest.Server, public, route string, log *zap.Logger) error {
	resp, err := http.Get(server.URL + route)
	if err != nil {
		return errors.WithStack(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WithStack(err)
	}
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	filePath := filepath.Join(public, strings.TrimPrefix(route, "/"), "index.html")
	if err := os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
		return errors.WithStack(err)
	}

	if err := os.WriteFile(filePath, body, 0644); err != nil {
		return errors.WithStack(err)
	}

	log.Debug("Generated page", zap.String("file", filePath))
	return nil
}

func copyStatic(src, dst string, log *zap.Logger) error {
	if _, err := os.Stat(src); os.IsNotExist(err) {
		log.Debug("No static directory", zap.String("dir", src))
		return nil
	}
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		destPath := filepath.Join(dst, rel)
		if err := os.MkdirAll(filepath.Dir(destPath), os.ModePerm); err != nil {
			return err
		}
		log.Debug("Copying static file", zap.String("src", path), zap.String("dst", destPath))
		return copyFile(path, destPath)
	})
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func copyFile(src, dst string) error {
	input, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	return os.WriteFile(dst, input, 0644)
}
