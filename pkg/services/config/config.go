package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "BILLATLAS"

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Log        LogConfig        `mapstructure:"log"`
	Store      StoreConfig      `mapstructure:"store"`
	Letterhead LetterheadConfig `mapstructure:"letterhead"`
	Export     ExportConfig     `mapstructure:"export"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type StoreConfig struct {
	DbPath       string `mapstructure:"db_path"`
	DocumentsDir string `mapstructure:"documents_dir"`
}

type LetterheadConfig struct {
	Name         string   `mapstructure:"name"`
	AddressLines []string `mapstructure:"address_lines"`
	LogoURL      string   `mapstructure:"logo_url"`
	LogoAlt      string   `mapstructure:"logo_alt"`
	// ProfilesPath points at an ini file of named letterheads; Profile picks one.
	ProfilesPath string `mapstructure:"profiles_path"`
	Profile      string `mapstructure:"profile"`
}

type ExportConfig struct {
	SettleDelay time.Duration `mapstructure:"settle_delay"`
	Scale       float64       `mapstructure:"scale"`
	Width       int           `mapstructure:"width"`
	Rasterizer  CommandConfig `mapstructure:"rasterizer"`
	Sink        SinkConfig    `mapstructure:"sink"`
}

type CommandConfig struct {
	Path string   `mapstructure:"path"`
	Args []string `mapstructure:"args"`
}

type SinkConfig struct {
	Kind    string `mapstructure:"kind"`
	Dir     string `mapstructure:"dir"`
	Bucket  string `mapstructure:"bucket"`
	Prefix  string `mapstructure:"prefix"`
	Region  string `mapstructure:"region"`
	Profile string `mapstructure:"profile"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("store.db_path", ":memory:")
	v.SetDefault("store.documents_dir", "")
	v.SetDefault("letterhead.name", "SHILAT LLC")
	v.SetDefault("letterhead.address_lines", []string{"21 GRASSMERE ST", "LKWD, NJ 08701"})
	v.SetDefault("letterhead.logo_url", "/shilat_logo.png")
	v.SetDefault("letterhead.logo_alt", "Shilat LLC Logo")
	v.SetDefault("letterhead.profiles_path", "")
	v.SetDefault("letterhead.profile", "")
	v.SetDefault("export.settle_delay", 500*time.Millisecond)
	v.SetDefault("export.scale", 2.0)
	v.SetDefault("export.width", 595)
	v.SetDefault("export.rasterizer.path", "wkhtmltoimage")
	v.SetDefault("export.rasterizer.args", []string{"--quiet", "--format", "png", "--width", "{width}", "--zoom", "{scale}", "-", "-"})
	v.SetDefault("export.sink.kind", "local")
	v.SetDefault("export.sink.dir", "exports")
	v.SetDefault("export.sink.bucket", "")
	v.SetDefault("export.sink.prefix", "")
	v.SetDefault("export.sink.region", "")
	v.SetDefault("export.sink.profile", "")
}

// LoadConfig reads the YAML file at path on top of the defaults. An empty
// path uses the defaults alone. BILLATLAS_* variables override both, e.g.
// BILLATLAS_SERVER_PORT or BILLATLAS_EXPORT_SINK_KIND.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Export.Sink.Kind {
	case "local":
		if c.Export.Sink.Dir == "" {
			return fmt.Errorf("export.sink.dir is required for local sink")
		}
	case "s3":
		if c.Export.Sink.Bucket == "" {
			return fmt.Errorf("export.sink.bucket is required for s3 sink")
		}
	default:
		return fmt.Errorf("unknown export sink kind %q", c.Export.Sink.Kind)
	}
	if c.Export.Scale <= 0 {
		return fmt.Errorf("export.scale must be positive")
	}
	if c.Export.Width <= 0 {
		return fmt.Errorf("export.width must be positive")
	}
	return nil
}
