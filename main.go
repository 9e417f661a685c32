package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/NickyBoy89/pharbuild/config"
)

var rootCmd = &cobra.Command{
	Use:   "pharbuild",
	Short: "Obfuscate and pack PHP plugins into phar archives",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

func main() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(printCmd)
	rootCmd.AddCommand(graphCmd)

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Additional debug info")
	rootCmd.PersistentFlags().String("config", "", "Build configuration, in YAML or TOML")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the configuration given on the command line. Without one,
// every setting uses its default
func loadConfig(cmd *cobra.Command) (config.View, error) {
	path, err := cmd.Flags().GetString("config")
	if err != nil || path == "" {
		return config.View{}, err
	}
	return config.Load(path)
}
