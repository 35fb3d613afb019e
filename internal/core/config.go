package core

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/jo-hoe/perfumecatalog/internal/backend/blobstore"
	"github.com/jo-hoe/perfumecatalog/internal/backend/commandstructure"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath     = "config.yaml"
	defaultPort           = 8080
	defaultThumbnailWidth = 320
)

type Database struct {
	Type             string `yaml:"type"`
	ConnectionString string `yaml:"connectionString"`
}

// Redis enables the redis backed flash store when Addr is set.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type ServiceConfig struct {
	Port           int                              `yaml:"port"`
	LogLevel       string                           `yaml:"logLevel"`
	Database       Database                         `yaml:"database"`
	BlobStore      blobstore.Config                 `yaml:"blobStore"`
	Redis          Redis                            `yaml:"redis"`
	ThumbnailWidth int                              `yaml:"thumbnailWidth"`
	Commands       []commandstructure.CommandConfig `yaml:"commands"`
}

// LoadConfig reads the YAML file at configPath, applies defaults and CATALOG_* environment overrides
// and validates the result. A missing file at the default path is not an error.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	var config ServiceConfig

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
		}
	case errors.Is(err, fs.ErrNotExist) && configPath == DefaultConfigPath:
		slog.Warn("config file not found, using defaults", "path", configPath)
	default:
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	applyEnvironmentOverrides(&config)
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

func (c *ServiceConfig) applyDefaults() {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
	if c.Database.Type == "sqlite" && c.Database.ConnectionString == "" {
		c.Database.ConnectionString = "catalog.db"
	}
	if c.BlobStore.Type == "" {
		c.BlobStore.Type = "filesystem"
	}
	if c.BlobStore.Type == "filesystem" && c.BlobStore.Root == "" {
		c.BlobStore.Root = "storage/app/public"
	}
	if c.BlobStore.PublicPrefix == "" {
		c.BlobStore.PublicPrefix = "/storage"
	}
	if c.ThumbnailWidth == 0 {
		c.ThumbnailWidth = defaultThumbnailWidth
	}
	if len(c.Commands) == 0 {
		c.Commands = DefaultThumbnailCommands(c.ThumbnailWidth)
	}
}

// DefaultThumbnailCommands converts to PNG, crops to 4:3 and scales down to width.
func DefaultThumbnailCommands(width int) []commandstructure.CommandConfig {
	return []commandstructure.CommandConfig{
		{Name: "PngConverterCommand", Params: map[string]any{"svgFallbackWidth": width, "svgFallbackHeight": width * 3 / 4}},
		{Name: "CropCommand", Params: map[string]any{"aspectWidth": 4, "aspectHeight": 3}},
		{Name: "PixelScaleCommand", Params: map[string]any{"width": width}},
	}
}

func (c *ServiceConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.Database.Type == "" {
		return errors.New("database type must not be empty")
	}
	switch c.BlobStore.Type {
	case "filesystem", "s3", "memory":
	default:
		return fmt.Errorf("unknown blob store type: %q", c.BlobStore.Type)
	}
	if c.ThumbnailWidth < 0 {
		return fmt.Errorf("thumbnail width must be positive, got %d", c.ThumbnailWidth)
	}
	if err := validateCommands(c.Commands); err != nil {
		return fmt.Errorf("invalid command configuration: %w", err)
	}
	return nil
}

// validateCommands ensures all command configurations have unique, non-empty, registered names
func validateCommands(commands []commandstructure.CommandConfig) error {
	seenNames := make(map[string]bool)

	for i, cmd := range commands {
		if cmd.Name == "" {
			return fmt.Errorf("command at index %d has empty name", i)
		}
		if seenNames[cmd.Name] {
			return fmt.Errorf("duplicate command name: %s", cmd.Name)
		}
		if !commandstructure.DefaultRegistry.IsRegistered(cmd.Name) {
			return fmt.Errorf("unknown command %s, available: %s", cmd.Name,
				strings.Join(commandstructure.DefaultRegistry.GetRegisteredNames(), ", "))
		}
		seenNames[cmd.Name] = true
	}

	return nil
}

// applyEnvironmentOverrides maps CATALOG_<SECTION>_<KEY> variables onto the config.
func applyEnvironmentOverrides(config *ServiceConfig) {
	v := viper.New()
	v.SetEnvPrefix("CATALOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	overrideInt(v, "port", &config.Port)
	overrideString(v, "logLevel", &config.LogLevel)
	overrideString(v, "database.type", &config.Database.Type)
	overrideString(v, "database.connectionString", &config.Database.ConnectionString)
	overrideString(v, "blobStore.type", &config.BlobStore.Type)
	overrideString(v, "blobStore.root", &config.BlobStore.Root)
	overrideString(v, "blobStore.publicPrefix", &config.BlobStore.PublicPrefix)
	overrideString(v, "blobStore.s3.bucket", &config.BlobStore.S3.Bucket)
	overrideString(v, "blobStore.s3.region", &config.BlobStore.S3.Region)
	overrideString(v, "blobStore.s3.endpoint", &config.BlobStore.S3.Endpoint)
	overrideString(v, "blobStore.s3.accessKeyId", &config.BlobStore.S3.AccessKeyID)
	overrideString(v, "blobStore.s3.secretAccessKey", &config.BlobStore.S3.SecretAccessKey)
	overrideString(v, "blobStore.s3.publicUrl", &config.BlobStore.S3.PublicURL)
	overrideString(v, "redis.addr", &config.Redis.Addr)
	overrideString(v, "redis.password", &config.Redis.Password)
	overrideInt(v, "redis.db", &config.Redis.DB)
	overrideInt(v, "thumbnailWidth", &config.ThumbnailWidth)
}

func overrideString(v *viper.Viper, key string, target *string) {
	if v.IsSet(key) {
		*target = v.GetString(key)
	}
}

func overrideInt(v *viper.Viper, key string, target *int) {
	if v.IsSet(key) {
		*target = v.GetInt(key)
	}
}
