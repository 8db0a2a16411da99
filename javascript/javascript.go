package javascript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZacxDev/go-blog-site/config"
	"github.com/evanw/esbuild/pkg/api"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ErrBuildFailed = errors.New("javascript build failed")

var engines = []api.Engine{
	{Name: api.EngineChrome, Version: "100"},
	{Name: api.EngineFirefox, Version: "100"},
	{Name: api.EngineSafari, Version: "15"},
	{Name: api.EngineEdge, Version: "100"},
}

// Options tune how targets are bundled.
type Options struct {
	// JSXImportSource enables the automatic JSX runtime from this package,
	// e.g. "react". Empty leaves esbuild's defaults.
	JSXImportSource string
}

// CompileJSTarget bundles every target into its out dir with a content hash
// in the file name. It returns the public path of each target's bundle.
func CompileJSTarget(targets map[string]config.JavascriptTarget, opts Options, log *zap.Logger) (map[string]string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("javascript")

	emitted := make(map[string]string, 0)
	for targetName, target := range targets {
		buildOpts := api.BuildOptions{
			EntryPoints:       []string{target.Source},
			Bundle:            true,
			MinifyWhitespace:  true,
			MinifyIdentifiers: true,
			MinifySyntax:      true,
			Engines:           engines,
			Sourcemap:         api.SourceMapExternal,
			Write:             false,
			Outdir:            target.OutDir,
		}
		if opts.JSXImportSource != "" {
			buildOpts.JSX = api.JSXAutomatic
			buildOpts.JSXImportSource = opts.JSXImportSource
		}
		result := api.Build(buildOpts)

		if len(result.Errors) > 0 {
			for _, m := range result.Errors {
				log.Error("esbuild", zap.String("target", targetName), zap.String("message", m.Text))
			}
			return nil, errors.Wrapf(ErrBuildFailed, "%s: %d errors", targetName, len(result.Errors))
		}

		// Separate files with and without .map extension
		var regularFiles []api.OutputFile
		var mapFiles []api.OutputFile

		for _, out := range result.OutputFiles {
			ext := filepath.Ext(out.Path)
			if strings.EqualFold(ext, ".map") {
				mapFiles = append(mapFiles, out)
			} else {
				regularFiles = append(regularFiles, out)
			}
		}

		// Sources go first so their hash is known when the map is written
		sortedFiles := append(regularFiles, mapFiles...)

		srcToHash := make(map[string]string)

		if err := os.MkdirAll(target.OutDir, os.ModePerm); err != nil {
			return nil, errors.WithStack(err)
		}

		for _, out := range sortedFiles {
			dir := filepath.Dir(out.Path)
			base := filepath.Base(out.Path)
			ext := base[strings.Index(base, "."):]
			isMap := ext == ".js.map"
			fileNameWithoutExt := base[:len(base)-len(ext)]

			var hashForFileName string
			if isMap {
				hashForFileName = srcToHash[fileNameWithoutExt]
				if hashForFileName == "" {
					return nil, errors.Errorf("source map %s can not find hash for its source file", fileNameWithoutExt)
				}
			} else {
				safeHash := strings.ReplaceAll(out.Hash, "/", "")
				srcToHash[fileNameWithoutExt] = safeHash
				hashForFileName = safeHash
			}

			name := fmt.Sprintf("%s_%s%s", fileNameWithoutExt, hashForFileName, ext)
			newPath := filepath.Join(dir, name)

			contents := out.Contents
			if !isMap {
				contents = append(append([]byte(nil), out.Contents...), fmt.Sprintf("//# sourceMappingURL=%s.map", name)...)
			}

			if err := os.WriteFile(newPath, contents, 0644); err != nil {
				return nil, errors.Wrapf(err, "writing %s", newPath)
			}
			log.Debug("Wrote bundle", zap.String("target", targetName), zap.String("path", newPath))

			if !isMap {
				emitted[targetName] = "/" + filepath.ToSlash(filepath.Join(target.OutDir, name))
			}
		}
	}

	return emitted, nil
}

// Minify minifies a standalone script for inlining into pages.
func Minify(src string) (string, error) {
	result := api.Transform(src, api.TransformOptions{
		Loader:            api.LoaderJS,
		MinifyWhitespace:  true,
		MinifyIdentifiers: true,
		MinifySyntax:      true,
		Engines:           engines,
	})
	if len(result.Errors) > 0 {
		return "", errors.Wrapf(ErrBuildFailed, "%s", result.Errors[0].Text)
	}
	return strings.TrimSpace(string(result.Code)), nil
}
