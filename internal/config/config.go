// Package config holds the settings every command resolves through viper.
package config

import "time"

type Config struct {
	SiteTitle        string        `mapstructure:"siteTitle"`
	BaseURL          string        `mapstructure:"baseURL"`
	OutputDir        string        `mapstructure:"outputDir"`
	ContentDir       string        `mapstructure:"contentDir"`
	LegacyContentDir string        `mapstructure:"legacyContentDir"`
	LayoutsDir       string        `mapstructure:"layoutsDir"`
	StaticDir        string        `mapstructure:"staticDir"`
	DataFile         string        `mapstructure:"dataFile"`
	ShellFile        string        `mapstructure:"shellFile"`
	WorksPath        string        `mapstructure:"worksPath"`
	Featured         []string      `mapstructure:"featured"`
	Port             int           `mapstructure:"port"`
	FetchTimeout     time.Duration `mapstructure:"fetchTimeout"`
}

// Defaults mirrors the layout of the original site checkout.
func Defaults() map[string]any {
	return map[string]any{
		"siteTitle":        "pandjico",
		"baseURL":          "",
		"outputDir":        "public",
		"contentDir":       "works/content",
		"legacyContentDir": "works",
		"layoutsDir":       "layouts",
		"staticDir":        "static",
		"dataFile":         "data/projects.json",
		"shellFile":        "components/sidebar.html",
		"worksPath":        "works",
		"featured":         []string{},
		"port":             1313,
		"fetchTimeout":     5 * time.Second,
	}
}

// Default returns a Config populated from Defaults, for callers that do not
// go through viper (tests, embedding).
func Default() Config {
	return Config{
		SiteTitle:        "pandjico",
		OutputDir:        "public",
		ContentDir:       "works/content",
		LegacyContentDir: "works",
		LayoutsDir:       "layouts",
		StaticDir:        "static",
		DataFile:         "data/projects.json",
		ShellFile:        "components/sidebar.html",
		WorksPath:        "works",
		Port:             1313,
		FetchTimeout:     5 * time.Second,
	}
}
