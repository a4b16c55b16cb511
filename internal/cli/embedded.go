package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arloliu/onx/errs"
)

func (a *app) embeddedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "embedded",
		Short: "List and extract files embedded in a model archive",
	}
	cmd.AddCommand(a.embeddedListCmd(), a.embeddedExtractCmd())

	return cmd
}

func (a *app) embeddedListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [file]",
		Short: "List embedded file paths",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.readDocument(args[0])
			if err != nil {
				return err
			}
			paths, err := doc.EmbeddedFilePaths()
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}

			return nil
		},
	}
}

func (a *app) embeddedExtractCmd() *cobra.Command {
	var (
		output string
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "extract [file] [embedded-path]",
		Short: "Extract one embedded file",
		Long: `Extracts the embedded file whose path equals embedded-path. Unless --strict
is set, a file whose name matches the last component of embedded-path is
accepted when no exact match exists.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.readDocument(args[0])
			if err != nil {
				return err
			}
			data, ok, err := doc.EmbeddedFile(args[1], strict)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: embedded file %q", errs.ErrNotFound, args[1])
			}
			a.logger.Debug("embedded file extracted", "path", args[1], "bytes", len(data))

			return writeOutput(cmd, output, data)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().BoolVar(&strict, "strict", false, "Require an exact path match")

	return cmd
}
