package cmd

import (
	"net/http"
	"time"

	"github.com/ZacxDev/go-blog-site/handlers"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")

		site, err := loadSite()
		if err != nil {
			return errors.Wrap(err, "error loading site")
		}

		router, err := site.SetupRouter()
		if err != nil {
			return errors.Wrap(err, "error setting up router")
		}

		server := http.Server{
			Handler:      handlers.LogRequests(handlers.Secure(router, true), logger),
			Addr:         ":" + port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
		}

		logger.Info("Starting server", zap.String("port", port))
		return server.ListenAndServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "9010", "Port to run the server on")
}
