// Package cli implements the onx command.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/arloliu/onx/model"
)

// app is the state shared by every subcommand of one invocation.
type app struct {
	configPath string
	verbose    bool

	cfg    *Config
	logger *slog.Logger
}

// NewRootCmd builds the onx command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "onx",
		Short: "Inspect and convert 3D model archives",
		Long: `onx reads and writes chunked 3D model archives, extracts the files embedded
in them and converts mesh geometry to and from compressed blobs.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (defaults to $"+ConfigEnv+")")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Log debug diagnostics to stderr")

	root.AddCommand(
		a.infoCmd(),
		a.notesCmd(),
		a.versionCmd(),
		a.encodeCmd(),
		a.decodeCmd(),
		a.embeddedCmd(),
		a.meshCmd(),
	)

	return root
}

// Execute runs the onx command and returns the process exit code.
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		return 1
	}

	return 0
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))

	cfg, err := LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger.Debug("config loaded", "path", a.configPath, "write_version", cfg.Write.Version, "mesh_compression", cfg.Mesh.Compression)

	return nil
}

func (a *app) readDocument(path string) (*model.Document, error) {
	doc, err := model.Read(path, model.WithReadLogger(a.logger))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return doc, nil
}

func (a *app) writeOptions() []model.WriteOption {
	return append(a.cfg.WriteOptions(), model.WithLogger(a.logger))
}

// writeOutput writes data to path, or to the command output when path is
// empty or "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}

	return os.WriteFile(path, data, 0o644) //nolint:gosec
}

// readInput reads path, or the command input when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}

	return os.ReadFile(path)
}
