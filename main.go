package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"startuphub/config"
)

var (
	envFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "startuphub",
	Short: "Startup program management API",
	Long: `startuphub manages startup calls, applications, reviews, startups,
budgets, sponsorships and events behind a JSON API.

Configuration is read from the environment, optionally seeded from a dotenv file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(envFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		config.SetupLogger(cfg)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file to load before reading the environment")

	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "seed.yaml", "YAML fixture with users and startup calls")

	rootCmd.AddCommand(serveCmd, workerCmd, migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
