package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/defect-triage/internal/common"
	"github.com/Veraticus/defect-triage/internal/model"
)

// Config is the typed application configuration.
type Config struct {
	Catalog CatalogConfig
	Server  ServerConfig
	Export  ExportConfig
	Logging LoggingConfig
}

// CatalogConfig selects the keyword catalog and how it is applied.
type CatalogConfig struct {
	Path          string
	Preset        string
	Strategy      string
	SummaryColumn string
	OutputColumn  string
	StrictColumns bool
}

// ServerConfig configures the web front end.
type ServerConfig struct {
	Addr            string
	MaxUploadMB     int
	SessionCapacity int
}

// ExportConfig configures file output of the categorize command.
type ExportConfig struct {
	Format    string
	OutputDir string
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string
	Format string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("catalog.preset", "standard")
	v.SetDefault("catalog.strategy", "weighted")
	v.SetDefault("catalog.summary_column", model.SummaryColumn)
	v.SetDefault("catalog.output_column", model.PredictedColumn)
	v.SetDefault("catalog.strict_columns", false)
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.max_upload_mb", 16)
	v.SetDefault("server.session_capacity", 128)
	v.SetDefault("export.format", "xlsx")
	v.SetDefault("export.output_dir", ".")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom reads the configuration from v, applying defaults for unset keys.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{
		Catalog: CatalogConfig{
			Path:          ExpandPath(v.GetString("catalog.path")),
			Preset:        strings.TrimSpace(v.GetString("catalog.preset")),
			Strategy:      strings.TrimSpace(v.GetString("catalog.strategy")),
			SummaryColumn: v.GetString("catalog.summary_column"),
			OutputColumn:  v.GetString("catalog.output_column"),
			StrictColumns: v.GetBool("catalog.strict_columns"),
		},
		Server: ServerConfig{
			Addr:            v.GetString("server.addr"),
			MaxUploadMB:     v.GetInt("server.max_upload_mb"),
			SessionCapacity: v.GetInt("server.session_capacity"),
		},
		Export: ExportConfig{
			Format:    v.GetString("export.format"),
			OutputDir: ExpandPath(v.GetString("export.output_dir")),
		},
		Logging: LoggingConfig{
			Level:  v.GetString("logging.level"),
			Format: v.GetString("logging.format"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges that viper cannot express.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Catalog.SummaryColumn) == "" {
		return fmt.Errorf("%w: catalog.summary_column must not be empty", common.ErrInvalidConfig)
	}
	if strings.TrimSpace(c.Catalog.OutputColumn) == "" {
		return fmt.Errorf("%w: catalog.output_column must not be empty", common.ErrInvalidConfig)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("%w: server.max_upload_mb must be positive", common.ErrInvalidConfig)
	}
	if c.Server.SessionCapacity <= 0 {
		return fmt.Errorf("%w: server.session_capacity must be positive", common.ErrInvalidConfig)
	}
	return nil
}

// MaxUploadBytes returns the upload limit in bytes.
func (s ServerConfig) MaxUploadBytes() int64 {
	return int64(s.MaxUploadMB) << 20
}
