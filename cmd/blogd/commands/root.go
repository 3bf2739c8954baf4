package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrKrzychu46/Blog-Backend/internal/config"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "blogd",
	Short: "Blog backend: posts, ratings, favorites and accounts over HTTP",
	Long: `blogd serves the blog REST API.

Configuration comes from the environment, optionally seeded from a .env file.
JWT_SECRET is required.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
}

func loadConfig() (*config.Config, error) {
	return config.Load(envFile)
}
