package cmd

import (
	"fmt"
	"os"

	"github.com/ZacxDev/go-blog-site/config"
	"github.com/ZacxDev/go-blog-site/handlers"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

var (
	manifestPath string
	verbose      bool
	logger       = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "blogsite",
	Short: "Blogsite - a markdown blog with a generated design system",
	Long:  `Blogsite renders markdown and plush pages into a static site or serves them, with utility CSS generated from the theme's color scales.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&manifestPath, "manifest", "m", "manifest.yaml", "Site manifest")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// newLogger logs to the console, with colored levels on a terminal.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	if term.IsTerminal(int(os.Stderr.Fd())) {
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return cfg.Build()
}

// loadSite reads the manifest and prepares the site with its scripts bundled.
func loadSite() (*handlers.Site, error) {
	m, err := config.LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	site, err := handlers.NewSite(m, logger)
	if err != nil {
		return nil, err
	}
	if err := site.CompileScripts(); err != nil {
		return nil, err
	}
	return site, nil
}
