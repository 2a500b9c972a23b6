package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/apandji/pandjico4/internal/config"
	"github.com/apandji/pandjico4/internal/logger"
	"github.com/apandji/pandjico4/internal/site"
)

var (
	cfgFile    string
	appConfig  config.Config
	siteParams map[string]any
	appLogger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "pandjico",
	Short: "pandjico - portfolio site generator",
	Long: `pandjico builds the portfolio site from data/projects.json and the
project markdown under works/, serves it locally with live rebuilds, and
runs the works list pipeline headless for inspection.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig(cmd)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

func initializeConfig(cmd *cobra.Command) error {
	_ = godotenv.Load()
	appLogger = logger.New(cmd.ErrOrStderr())

	v := viper.New()
	for key, value := range config.Defaults() {
		v.SetDefault(key, value)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("PANDJICO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		appLogger.Debug("no config file found, using defaults and environment")
	} else {
		appLogger.Debug("using config file", slog.String("file", v.ConfigFileUsed()))
	}

	if err := v.Unmarshal(&appConfig); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	params, err := site.LoadParams(v.ConfigFileUsed())
	if err != nil {
		return err
	}
	siteParams = params
	return nil
}
