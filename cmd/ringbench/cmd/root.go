// Package cmd contains the CLI setup and commands exposed to the user
// Author: velesov <velesov.dev@gmail.com>
// License: Apache-2.0

package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ringbench",
	Short: "Exercise and measure ringstream ring buffers",
	Long: `ringbench drives the ringstream SPSC ring buffer from the command line:
soak runs a two-goroutine FIFO verification, bench measures throughput,
trace walks the speculative read protocol and prints the journal.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	defaultConfig := filepath.Join(xdg.ConfigHome, "ringbench", "ringbench.toml")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", defaultConfig, "config file")
	rootCmd.PersistentFlags().Int("capacity", 64*1024, "ring capacity in bytes")
	rootCmd.PersistentFlags().Bool("debug", false, "print debugging information")

	// expose to application via viper
	_ = viper.BindPFlag("capacity", rootCmd.PersistentFlags().Lookup("capacity"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

// initConfig loads the config file when present; flags and RINGBENCH_*
// environment variables override it.
func initConfig() {
	viper.SetConfigType("toml")
	viper.SetEnvPrefix("ringbench")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	viper.SetConfigFile(configFile)

	if err := viper.ReadInConfig(); err == nil {
		if viper.GetBool("debug") {
			log.Printf("using config file: %s", viper.ConfigFileUsed())
		}
	}
}
