package configs

import (
	"flag"
	"os"

	"github.com/scrawlhq/scrawl/internal/infrastructure/env"
)

func DetermineConfigPath() string {
	var configPath string

	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	if configPath == "" {
		configPath = env.GetString("SCRAWL_CONFIG", "")
	}

	if configPath == "" {
		candidates := []string{
			"./config.yaml",
			"./config.yml",
			"./tmp/config.yml",
			"./tmp/config.yaml",
			"../../config.yaml", // keep for local dev
			"/etc/scrawl/config.yaml",
			"/app/config.yaml", // common in Docker
		}

		for _, p := range candidates {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
	}

	// No file found is fine, Load falls back to defaults and env overrides.
	return configPath
}
