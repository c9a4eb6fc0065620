package cmd

import (
	"fmt"
	"os"

	"condi-loader/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "condi-loader",
	Short: "Conditional resource loader",
	Long: `condi-loader loads stylesheets and scripts into HTML pages, item by item,
only when the item's selector and XPath conditions match the page.
It runs as an HTTP service or processes local pages from the command line.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var configDir string

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console encoding at debug level for readable CLI errors with ISO8601 timestamps
		l, logErr := logger.NewConsole("debug")
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "directory holding .env and config.yaml")
}
