package cli

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arloliu/onx/archive"
	"github.com/arloliu/onx/format"
	"github.com/arloliu/onx/meshcodec"
	"github.com/arloliu/onx/model"
)

// ConfigEnv names the environment variable consulted when --config is not set.
const ConfigEnv = "ONX_CONFIG"

// Config is the onx command configuration.
type Config struct {
	Write WriteConfig `yaml:"write"`
	Mesh  MeshConfig  `yaml:"mesh"`
}

// WriteConfig holds the defaults for commands that write model archives.
type WriteConfig struct {
	// Version is the user-facing major version; 0 writes the current one.
	Version           int    `yaml:"version"`
	UserData          bool   `yaml:"user_data"`
	BufferCompression bool   `yaml:"buffer_compression"`
	Comment           string `yaml:"comment"`
}

// MeshConfig holds the defaults for mesh blob encoding.
type MeshConfig struct {
	Compression string `yaml:"compression"`
	Speed       int    `yaml:"speed"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Write: WriteConfig{
			UserData:          true,
			BufferCompression: true,
			Comment:           "onx",
		},
		Mesh: MeshConfig{
			Compression: "zstd",
			Speed:       meshcodec.DefaultSpeed,
		},
	}
}

// LoadConfig loads the configuration from path, or from the file named by
// ONX_CONFIG when path is empty. With neither set the defaults are returned.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(ConfigEnv)
	}

	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errList []error

	if c.Write.Version < 0 || !archive.IsSupportedVersion(archive.OnDiskVersion(c.Write.Version)) {
		errList = append(errList, fmt.Errorf("write.version %d is not supported", c.Write.Version))
	}
	if _, err := format.ParseCompressionType(c.Mesh.Compression); err != nil {
		errList = append(errList, fmt.Errorf("mesh.compression: %w", err))
	}
	if c.Mesh.Speed < 0 || c.Mesh.Speed > meshcodec.MaxSpeed {
		errList = append(errList, fmt.Errorf("mesh.speed must be between 0 and %d", meshcodec.MaxSpeed))
	}

	return errors.Join(errList...)
}

// WriteOptions converts the write section into model options.
func (c *Config) WriteOptions() []model.WriteOption {
	return []model.WriteOption{
		model.WithVersion(c.Write.Version),
		model.WithUserData(c.Write.UserData),
		model.WithBufferCompression(c.Write.BufferCompression),
		model.WithComment(c.Write.Comment),
	}
}

// MeshOptions converts the mesh section into encoder options.
func (c *Config) MeshOptions() ([]meshcodec.Option, error) {
	ct, err := format.ParseCompressionType(c.Mesh.Compression)
	if err != nil {
		return nil, err
	}

	return []meshcodec.Option{
		meshcodec.WithCompression(ct),
		meshcodec.WithSpeed(c.Mesh.Speed),
	}, nil
}
