/*
	Copyright 2026 KeibaCICD
*/

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/keibacicd/jvdata-engine/log"
	betCmd "github.com/keibacicd/jvdata-engine/pkg/cmd/bet"
	markCmd "github.com/keibacicd/jvdata-engine/pkg/cmd/mark"
	oddsCmd "github.com/keibacicd/jvdata-engine/pkg/cmd/odds"
	"github.com/keibacicd/jvdata-engine/pkg/config"
	"github.com/keibacicd/jvdata-engine/version"
)

const envPrefix = "JVD"

var (
	cfgFile   string
	telemetry *config.Telemetry
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "jvd",
	Short:   "JV-Data odds, TARGET marks and bet files",
	Long:    ``,
	Version: version.FullVersion,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupAmbient(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if telemetry != nil {
			telemetry.Shutdown()
		}
		//nolint:errcheck // stderr sync may fail on terminals
		log.Sync()
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.jvd.yml)")

	rootCmd.PersistentFlags().StringVar(&config.JVDataRoot, "jv-data-root",
		"C:\\TFJV",
		"root directory of the JV-Data tree")
	rootCmd.PersistentFlags().StringVar(&config.RTDataDir, "rt-data-dir",
		"",
		"directory of realtime odds snapshots (default <jv-data-root>/RT_DATA)")
	rootCmd.PersistentFlags().StringVar(&config.MyDataDir, "my-data-dir",
		"",
		"TARGET user data directory (default <jv-data-root>/MY_DATA)")
	rootCmd.PersistentFlags().DurationVar(&config.CacheTTL, "cache-ttl",
		0,
		"time to live of cached odds data (0 disables caching)")
	rootCmd.PersistentFlags().StringVar(&config.LogLevel,
		"log-level",
		"info",
		"controls the log level (debug, info, warn, error, fatal)")
	rootCmd.PersistentFlags().StringVar(&config.LogFormat,
		"log-format",
		"text",
		"controls the log output format (text, json)")
	rootCmd.PersistentFlags().StringVar(&config.LogFilter,
		"log-filter",
		"",
		"zapfilter rules, e.g. \"debug:markstore info:*\"")
	rootCmd.PersistentFlags().BoolVar(&config.EnableTelemetry,
		"enable-telemetry",
		false,
		"enables telemetry (metrics are written to stderr)")
	rootCmd.PersistentFlags().StringVarP(&config.OutputFormat,
		"output",
		"o",
		"yaml",
		"output format (json, yaml)")

	// add commands here
	rootCmd.AddCommand(oddsCmd.NewOddsCmd())
	rootCmd.AddCommand(markCmd.NewMarkCmd())
	rootCmd.AddCommand(betCmd.NewBetCmd())
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".jvd" (without extension).
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".jvd")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	bindFlags(rootCmd, viper.GetViper())
	for _, cmd := range rootCmd.Commands() {
		bindFlags(cmd, viper.GetViper())
	}
}

// Bind each cobra flag to its associated viper configuration
// (config file and environment variable)
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Environment variables can't have dashes in them, so bind them to their
		// equivalent keys with underscores, e.g. --jv-data-root to JVD_JV_DATA_ROOT
		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name,
				fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				fmt.Fprintf(os.Stderr, "Could not bind env var %s: %v", f.Name, err)
			}
		}
		// Apply the viper config value to the flag when the flag is not set and viper
		// has a value
		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				fmt.Fprintf(os.Stderr, "Could set flag value for %s: %v", f.Name, err)
			}
		}
	})
}

func parseLogLevel(l string, defaultVal log.Level) log.Level {
	level, err := log.ParseLevel(l)
	if err != nil {
		return defaultVal
	}
	return level
}

// setupAmbient installs the default logger and, if requested, telemetry.
func setupAmbient(cmd *cobra.Command) error {
	logger, err := log.NewWithFilter(
		config.LogFormat,
		os.Stderr,
		parseLogLevel(config.LogLevel, log.InfoLevel),
		config.LogFilter,
		log.WithCaller(true),
		log.AddCallerSkip(1))
	if err != nil {
		return err
	}
	log.ResetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if config.EnableTelemetry {
		logger.Info("Enabling telemetry")
		if telemetry, err = config.SetupTelemetry(ctx); err != nil {
			logger.Warn("Could not setup telemetry", log.ErrorField(err))
		}
	}
	cmd.SetContext(log.AddToContext(ctx, logger.Named(cmd.Name())))
	return nil
}
