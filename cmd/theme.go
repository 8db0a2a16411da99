package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/ZacxDev/go-blog-site/config"
	"github.com/ZacxDev/go-blog-site/integrations"
	"github.com/ZacxDev/go-blog-site/theme"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Inspect the theme built from the manifest",
}

var themeTokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "List the design tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		setup, err := loadSetup(manifestPath)
		if err != nil {
			return err
		}
		return writeTokens(cmd.OutOrStdout(), setup.Theme)
	},
}

var themeCSSCmd = &cobra.Command{
	Use:   "css",
	Short: "Print every utility the styling engine generates",
	RunE: func(cmd *cobra.Command, args []string) error {
		setup, err := loadSetup(manifestPath)
		if err != nil {
			return err
		}
		if setup.Styles == nil {
			return errors.New("the styles integration is not enabled")
		}
		_, err = cmd.OutOrStdout().Write(setup.Styles.Generate(nil))
		return err
	},
}

// loadSetup reads the manifest and runs its integrations, so the theme
// commands reject the same manifests build does.
func loadSetup(path string) (*integrations.Setup, error) {
	m, err := config.LoadManifest(path)
	if err != nil {
		return nil, err
	}
	return integrations.Load(m, m.BuildTheme(), logger)
}

func writeTokens(w io.Writer, th *theme.Theme) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, t := range th.Tokens() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", t.Category, t.Name, t.Value)
	}
	return tw.Flush()
}

func init() {
	themeCmd.AddCommand(themeTokensCmd, themeCSSCmd)
	rootCmd.AddCommand(themeCmd)
}
