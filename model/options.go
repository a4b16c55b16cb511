package model

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/onx/archive"
	"github.com/arloliu/onx/errs"
	"github.com/arloliu/onx/internal/options"
)

// WriteOptions controls how a document is written.
type WriteOptions struct {
	// Version is the user-facing major version; see archive.OnDiskVersion.
	// Zero selects archive.CurrentVersion.
	Version int
	// SaveUserData includes the plug-in data table.
	SaveUserData bool
	// Comment is stored in the start section's comment block.
	Comment string
	// BufferCompression lets large arrays be deflated.
	BufferCompression bool

	logger *slog.Logger
}

// WriteOption configures WriteOptions.
type WriteOption = options.Option[*WriteOptions]

// ReadOptions controls how a document is read.
type ReadOptions struct {
	logger *slog.Logger
}

// ReadOption configures ReadOptions.
type ReadOption = options.Option[*ReadOptions]

func defaultWriteOptions() *WriteOptions {
	return &WriteOptions{
		SaveUserData:      true,
		Comment:           "onx",
		BufferCompression: true,
		logger:            slog.New(slog.DiscardHandler),
	}
}

func defaultReadOptions() *ReadOptions {
	return &ReadOptions{logger: slog.New(slog.DiscardHandler)}
}

// OnDiskVersion returns the start-section version these options write.
func (o *WriteOptions) OnDiskVersion() int {
	return archive.OnDiskVersion(o.Version)
}

// WithVersion selects the user-facing write version. Versions below 5 are
// written as-is, 5 to 49 are multiplied by 10 and 50 or above are taken as
// on-disk values.
func WithVersion(version int) WriteOption {
	return options.Named("WithVersion", func(o *WriteOptions) error {
		if version < 0 || !archive.IsSupportedVersion(archive.OnDiskVersion(version)) {
			return fmt.Errorf("%w: %d", errs.ErrInvalidWriteVersion, version)
		}
		o.Version = version

		return nil
	})
}

// WithUserData controls whether plug-in data is written.
func WithUserData(save bool) WriteOption {
	return options.NoError(func(o *WriteOptions) {
		o.SaveUserData = save
	})
}

// WithComment sets the start-section comment.
func WithComment(comment string) WriteOption {
	return options.NoError(func(o *WriteOptions) {
		o.Comment = comment
	})
}

// WithBufferCompression controls whether large arrays may be deflated.
func WithBufferCompression(enabled bool) WriteOption {
	return options.NoError(func(o *WriteOptions) {
		o.BufferCompression = enabled
	})
}

// WithLogger sets the logger for write diagnostics.
func WithLogger(logger *slog.Logger) WriteOption {
	return options.NoError(func(o *WriteOptions) {
		if logger != nil {
			o.logger = logger
		}
	})
}

// WithReadLogger sets the logger for read diagnostics, such as skipped chunks.
func WithReadLogger(logger *slog.Logger) ReadOption {
	return options.NoError(func(o *ReadOptions) {
		if logger != nil {
			o.logger = logger
		}
	})
}
