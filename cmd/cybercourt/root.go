package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/openveritas/cybercourt/internal/logging"
)

var (
	cfgFile string
	debug   bool
	rootCmd = &cobra.Command{
		Use:   "cybercourt",
		Short: "cybercourt is a terminal client for the cyber-law courtroom backend",
	}
)

// Execute runs the root command.
func Execute() error {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "cybercourt.json", "config file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		return fmt.Errorf("bind config flag: %w", err)
	}
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		logging.Init(debug)
	}
	rootCmd.AddCommand(flagCmd())
	rootCmd.AddCommand(courtroomCmd())
	rootCmd.AddCommand(casesCmd())
	rootCmd.AddCommand(observeCmd())
	rootCmd.AddCommand(pingCmd())
	rootCmd.AddCommand(versionCmd())
	return rootCmd.Execute()
}

func initConfig() {
	// Env vars from .env feed the CYBERCOURT_* overrides viper reads.
	_ = godotenv.Load()
	path := cfgFile
	if path == "" {
		path = "cybercourt.json"
	}
	viper.SetConfigFile(path)
	viper.SetConfigType("json")
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
}
