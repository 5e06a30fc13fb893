package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const version = "1.0.0"

var cfgPath string

var rootCmd = &cobra.Command{
	Use:     "yamdb",
	Short:   "YaMDb - reviews of books, films and music",
	Version: version,
	// serve is what a bare invocation does
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config/local.yml", "path to config file")
	rootCmd.AddCommand(serveCmd, migrateCmd, loadCSVCmd)
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd)
	loadCSVCmd.Flags().StringVar(&csvDir, "dir", "static/data", "directory with the csv files")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
