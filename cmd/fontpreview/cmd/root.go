package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fontpreview/fontpreview/internal/config"
	"github.com/fontpreview/fontpreview/internal/logging"
	"github.com/spf13/cobra"
)

var (
	v          = config.NewViper()
	cfg        = config.DefaultConfig()
	logger     = logging.Discard()
	configFile string
)

var rootCmd = &cobra.Command{
	Use:           "fontpreview",
	Short:         "fontpreview — compare how fonts render a character",
	Long:          "Builds a local web page showing one character in each candidate font family and opens it in your browser.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return loadConfig()
	},
}

// loadConfig merges defaults, config file, env, and bound flags into cfg.
func loadConfig() error {
	loaded, err := config.Load(v, configFile, config.DefaultDir())
	if err != nil {
		return err
	}
	cfg = loaded
	logger = logging.New(os.Stderr, logging.LevelFromString(cfg.LogLevel))
	slog.SetDefault(logger)
	return nil
}

// bindFlag ties a flag to a config key so flags override file and env values.
func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := v.BindPFlag(key, cmd.Flags().Lookup(flag)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", flag, err))
	}
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%serror:%s %v\n", colorRed, colorReset, err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default "+config.DefaultDir()+"/config.toml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error, off")
	if err := v.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level")); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
}
