package config

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/msarti/mandan/pkg/types"
	"github.com/msarti/mandan/util"
	"gopkg.in/yaml.v3"
)

const envPrefix = "MANDAN_"

// Config holds the settings shared by the segment store and its tooling.
type Config struct {
	LogLevel util.LogLevel `yaml:"log_level" json:"log_level"`

	// Segment storage
	LogDir       string `yaml:"log_dir" json:"log.dir"`
	SyncOnAppend bool   `yaml:"sync_on_append" json:"sync.on.append"`

	// Metrics exporter
	EnableExporter bool `yaml:"enable_exporter" json:"enable.exporter"`
	ExporterPort   int  `yaml:"exporter_port" json:"exporter.port"`
}

// Default returns a normalized config with every field at its default.
func Default() *Config {
	cfg := &Config{LogLevel: util.LogLevelInfo}
	cfg.Normalize()
	return cfg
}

// LoadConfig builds a Config from, in increasing precedence: defaults, the
// YAML/JSON file named by -config or CONFIG_PATH, MANDAN_* environment
// variables and explicitly set flags. Arguments left after the flags are
// returned unchanged.
func LoadConfig(args []string) (*Config, []string, error) {
	fs := flag.NewFlagSet("mandan", flag.ContinueOnError)

	configPath := fs.String("config", "", "Path to YAML/JSON config file")
	logDir := fs.String("log-dir", types.DefaultBasePath, "Base directory for topic segments")
	logLevel := fs.String("log-level", "info", "Log Level (debug, info, warn, error)")
	syncOnAppend := fs.Bool("sync-on-append", false, "fsync the segment after every append")
	exporter := fs.Bool("exporter", false, "Enable Prometheus exporter")
	exporterPort := fs.Int("exporter-port", 9100, "Exporter port")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	cfg := &Config{
		LogDir:         *logDir,
		LogLevel:       util.ParseLogLevel(*logLevel),
		SyncOnAppend:   *syncOnAppend,
		EnableExporter: *exporter,
		ExporterPort:   *exporterPort,
	}

	path := *configPath
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" && path == "" {
		path = envPath
	}
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, nil, err
		}
	}

	applyEnv(cfg)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "log-dir":
			cfg.LogDir = *logDir
		case "log-level":
			cfg.LogLevel = util.ParseLogLevel(*logLevel)
		case "sync-on-append":
			cfg.SyncOnAppend = *syncOnAppend
		case "exporter":
			cfg.EnableExporter = *exporter
		case "exporter-port":
			cfg.ExporterPort = *exporterPort
		}
	})

	cfg.Normalize()
	util.SetLevel(cfg.LogLevel)
	return cfg, fs.Args(), nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	if strings.HasSuffix(path, ".json") {
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	overrideEnvString(&cfg.LogDir, envPrefix+"LOG_DIR")
	overrideEnvBool(&cfg.SyncOnAppend, envPrefix+"SYNC_ON_APPEND")
	overrideEnvBool(&cfg.EnableExporter, envPrefix+"ENABLE_EXPORTER")
	overrideEnvInt(&cfg.ExporterPort, envPrefix+"EXPORTER_PORT")
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		cfg.LogLevel = util.ParseLogLevel(v)
	}
}
