package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "imager",
	Short: "Image storage with on-demand crop and resize derivatives",
	Long: `imager stores uploaded images and generates cropped and resized derivatives in the
background. Without a subcommand it starts the HTTP server.

Example usage:
  imager serve
  imager crop fox.png --x 10 --y 10 --width 100 --height 100
  imager resize fox.png 50x50ftrue`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.toml)")
	rootCmd.PersistentFlags().String("upload-dir", "", "storage directory")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info)")

	bindFlag("storage.upload_dir", rootCmd.PersistentFlags().Lookup("upload-dir"))
	bindFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(serveCmd, cropCmd, resizeCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("imager failed")
		os.Exit(1)
	}
}
