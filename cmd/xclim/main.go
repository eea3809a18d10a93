// Command xclim computes climate indicators and bias-adjusted series from
// NetCDF model output.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "xclim",
	Short: "climate indicators and bias adjustment for daily gridded series",
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./xclim.yaml)")
	rootCmd.PersistentFlags().Int("workers", 0, "worker pool size (0 takes the CPU count)")
	viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	rootCmd.AddCommand(infoCmd, indicesCmd, adjustCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("xclim")
	}
	viper.SetEnvPrefix("xclim")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("using config:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
