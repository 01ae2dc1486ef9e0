// Command tracker monitors ad library pages and keeps a spreadsheet
// inventory of every ad seen, with appearance history and daily statistics.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/vfg2006/adlibrary-tracker/internal/config"
	"github.com/vfg2006/adlibrary-tracker/pkg/log"
)

var rootCmd = &cobra.Command{
	Use:          "tracker",
	Short:        "Ad library tracker",
	Long:         "Scrapes ad library pages, reconciles the observed ads with the stored inventory and records appearance history and daily statistics.",
	SilenceUsage: true,
}

func main() {
	configureLogger()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func configureLogger() {
	log.Configure("info")
}

// loadConfig reads the configuration and applies its log level
func loadConfig() (*config.Config, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, err
	}

	logLevel := log.Configure(cfg.App.LogLevel)
	log.L.Debugf("Log level set to: %s", logLevel)

	return cfg, nil
}
