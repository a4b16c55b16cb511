package cli

import (
	"bytes"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arloliu/onx/archive"
	"github.com/arloliu/onx/geometry"
	"github.com/arloliu/onx/model"
)

func (a *app) infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [file]",
		Short: "Summarize a model archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.readDocument(args[0])
			if err != nil {
				return err
			}

			return printInfo(cmd.OutOrStdout(), doc)
		},
	}
}

func printInfo(out io.Writer, doc *model.Document) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "version:\t%d (on disk %d)\n", archive.UserVersion(doc.ArchiveVersion), doc.ArchiveVersion)
	fmt.Fprintf(tw, "comment:\t%s\n", doc.Comment)
	fmt.Fprintf(tw, "application:\t%s\n", doc.Properties.Application.Name)
	fmt.Fprintf(tw, "units:\t%s\n", doc.Settings.ModelUnits)

	counts := []struct {
		name  string
		count int
	}{
		{"materials", doc.Materials.Count()},
		{"layers", doc.Layers.Count()},
		{"groups", doc.Groups.Count()},
		{"dimension styles", doc.DimStyles.Count()},
		{"instance definitions", doc.InstanceDefinitions.Count()},
		{"bitmaps", doc.Bitmaps.Count()},
		{"objects", doc.Objects.Count()},
		{"views", doc.Views.Count()},
		{"named views", doc.NamedViews.Count()},
		{"render content", doc.RenderContent.Count()},
		{"plug-in data", doc.PlugInData.Count()},
		{"strings", doc.Strings.Count()},
	}
	for _, c := range counts {
		fmt.Fprintf(tw, "%s:\t%d\n", c.name, c.count)
	}

	if paths, err := doc.EmbeddedFilePaths(); err == nil {
		fmt.Fprintf(tw, "embedded files:\t%d\n", len(paths))
	}

	fmt.Fprintf(tw, "bounding box:\t%s\n", formatBox(doc.GetBoundingBox()))

	return tw.Flush()
}

func formatBox(b geometry.BoundingBox) string {
	if !b.IsValid() {
		return "empty"
	}

	return fmt.Sprintf("(%g, %g, %g) - (%g, %g, %g)", b.Min.X, b.Min.Y, b.Min.Z, b.Max.X, b.Max.Y, b.Max.Z)
}

func (a *app) notesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "notes [file]",
		Short: "Print the notes of a model archive",
		Long:  `Prints the notes text without reading the rest of the archive.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, err := model.ReadNotes(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), notes)

			return nil
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version [file]",
		Short: "Print the archive version of a file, or of this build",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "onx kernel %d, writes archive version %d\n", archive.KernelVersion, archive.CurrentVersion)
				return nil
			}

			version, err := model.ReadArchiveVersion(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), version)

			return nil
		},
	}
}

func (a *app) encodeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode a model archive as base64 text",
		Long:  `Reads a model archive and rewrites it as base64 text using the configured write options.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.readDocument(args[0])
			if err != nil {
				return err
			}
			text, err := doc.Encode(a.writeOptions()...)
			if err != nil {
				return err
			}

			return writeOutput(cmd, output, []byte(text+"\n"))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")

	return cmd
}

func (a *app) decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [text-file|-] [output]",
		Short: "Decode base64 text into a model archive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			doc, err := model.Decode(string(bytes.TrimSpace(text)), model.WithReadLogger(a.logger))
			if err != nil {
				return err
			}

			return doc.Write(args[1], a.writeOptions()...)
		},
	}
}
