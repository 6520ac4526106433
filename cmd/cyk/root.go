package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootFlags = struct {
	config *string
}{}

var rootCmd = &cobra.Command{
	Use:   "cyk",
	Short: "Recognize a text stream with a grammar in Chomsky normal form",
	Long: `cyk provides the following features:
- Compiles a grammar in Chomsky normal form extended with unit rules into a portable form.
- Decides whether a text stream is derivable from the grammar and prints the CYK chart.
- Tests a grammar against test cases.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(*rootFlags.config)
	},
}

func init() {
	rootFlags.config = rootCmd.PersistentFlags().String("config", "", "config file path (default $HOME/.cyk.yaml)")
}

// initConfig reads a config file and environment variables prefixed with CYK_. A key such as
// parse.workers is read from the variable CYK_PARSE_WORKERS. Flags given on the command line take
// precedence over both. A missing default config file is not an error.
func initConfig(path string) error {
	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			defaultPath := filepath.Join(home, ".cyk.yaml")
			if _, err := os.Stat(defaultPath); err == nil {
				path = defaultPath
			}
		}
	}
	viper.SetEnvPrefix("cyk")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path == "" {
		return nil
	}
	viper.SetConfigFile(path)
	err := viper.ReadInConfig()
	if err != nil {
		return fmt.Errorf("Cannot read the config file %s: %w", path, err)
	}
	return nil
}

// mustBindFlags binds the flags of cmd to config keys. keys maps a key to a flag name.
func mustBindFlags(cmd *cobra.Command, keys map[string]string) {
	for key, name := range keys {
		err := viper.BindPFlag(key, cmd.Flags().Lookup(name))
		if err != nil {
			panic(fmt.Errorf("cannot bind the flag --%v to %v: %w", name, key, err))
		}
	}
}

func Execute() error {
	return rootCmd.Execute()
}
