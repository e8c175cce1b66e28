package config

import (
	"os"
	"strings"

	"github.com/msarti/mandan/pkg/types"
	"github.com/msarti/mandan/util"
)

func (cfg *Config) Normalize() {
	if strings.TrimSpace(cfg.LogDir) == "" {
		cfg.LogDir = types.DefaultBasePath
	}
	if cfg.ExporterPort <= 0 || cfg.ExporterPort > 65535 {
		if cfg.EnableExporter {
			util.Warn("Invalid exporter_port (%d), defaulting to 9100", cfg.ExporterPort)
		}
		cfg.ExporterPort = 9100
	}
	if cfg.LogLevel < util.LogLevelDebug || cfg.LogLevel > util.LogLevelError {
		cfg.LogLevel = util.LogLevelInfo
	}
}

func overrideEnvInt(target *int, key string) {
	if v := os.Getenv(key); v != "" {
		*target = util.ParseInt(v, *target)
	}
}

func overrideEnvBool(target *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*target = util.ParseBool(v, *target)
	}
}

func overrideEnvString(target *string, key string) {
	if v := os.Getenv(key); v != "" {
		*target = v
	}
}
