package meshcodec

import (
	"fmt"

	"github.com/arloliu/onx/compress"
	"github.com/arloliu/onx/errs"
	"github.com/arloliu/onx/format"
	"github.com/arloliu/onx/internal/options"
)

// Encoder defaults.
const (
	DefaultCompression = format.CompressionZstd
	DefaultSpeed       = 5
	MaxSpeed           = 10
)

// Config holds the encoder settings.
type Config struct {
	Compression format.CompressionType
	// Speed trades blob size for encode time, from 0 (smallest) to 10 (fastest).
	Speed int
}

// Option configures the encoder.
type Option = options.Option[*Config]

// DefaultConfig returns the default encoder settings.
func DefaultConfig() Config {
	return Config{Compression: DefaultCompression, Speed: DefaultSpeed}
}

// WithCompression selects the body compression.
func WithCompression(ct format.CompressionType) Option {
	return options.Named("WithCompression", func(c *Config) error {
		if _, err := compress.GetCodec(ct); err != nil {
			return fmt.Errorf("%w: %w", errs.ErrCodecFailure, err)
		}
		c.Compression = ct

		return nil
	})
}

// WithSpeed sets the encoder speed, 0 to 10.
func WithSpeed(speed int) Option {
	return options.Named("WithSpeed", func(c *Config) error {
		if speed < 0 || speed > MaxSpeed {
			return fmt.Errorf("%w: speed %d outside 0..%d", errs.ErrCodecFailure, speed, MaxSpeed)
		}
		c.Speed = speed

		return nil
	})
}
