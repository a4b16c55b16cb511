package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/arloliu/onx/errs"
	"github.com/arloliu/onx/geometry"
	"github.com/arloliu/onx/meshcodec"
	"github.com/arloliu/onx/model"
)

func (a *app) meshCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mesh",
		Short: "Convert mesh and point cloud objects to and from compressed blobs",
	}
	cmd.AddCommand(a.meshEncodeCmd(), a.meshDecodeCmd())

	return cmd
}

func (a *app) meshEncodeCmd() *cobra.Command {
	var (
		output      string
		compression string
		speed       int
	)

	cmd := &cobra.Command{
		Use:   "encode [file] [object-index]",
		Short: "Compress the mesh or point cloud of one object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("object index: %w", err)
			}

			mc := a.cfg.Mesh
			if cmd.Flags().Changed("compression") {
				mc.Compression = compression
			}
			if cmd.Flags().Changed("speed") {
				mc.Speed = speed
			}
			opts, err := (&Config{Mesh: mc}).MeshOptions()
			if err != nil {
				return err
			}

			doc, err := a.readDocument(args[0])
			if err != nil {
				return err
			}
			obj, ok := doc.Objects.FindIndex(index)
			if !ok {
				return fmt.Errorf("%w: object %d", errs.ErrNotFound, index)
			}

			var blob []byte
			switch g := obj.Geometry.(type) {
			case *geometry.Mesh:
				blob, err = meshcodec.Encode(g, opts...)
			case *geometry.PointCloud:
				blob, err = meshcodec.EncodePointCloud(g, opts...)
			case nil:
				return fmt.Errorf("object %d has no geometry", index)
			default:
				return fmt.Errorf("object %d is a %s, not a mesh or point cloud", index, g.Kind())
			}
			if err != nil {
				return err
			}
			a.logger.Debug("mesh encoded", "object", index, "compression", mc.Compression, "speed", mc.Speed, "bytes", len(blob))

			return writeOutput(cmd, output, blob)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (default stdout)")
	cmd.Flags().StringVar(&compression, "compression", "", "Blob compression: none, zstd, s2, lz4 or deflate")
	cmd.Flags().IntVar(&speed, "speed", meshcodec.DefaultSpeed, "Encoder speed, 0 (smallest) to 10 (fastest)")

	return cmd
}

func (a *app) meshDecodeCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "decode [blob|-]",
		Short: "Describe a mesh blob, or wrap it in a new model archive",
		Long: `Decodes a blob and prints its geometry. With --output the geometry is written
as the only object of a new model archive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			h, err := meshcodec.ParseHeader(blob)
			if err != nil {
				return err
			}
			g, err := meshcodec.Decode(blob)
			if err != nil {
				return err
			}

			if output != "" {
				doc := model.New()
				if _, err := doc.Objects.Add(model.NewObject(g)); err != nil {
					return err
				}

				return doc.Write(output, a.writeOptions()...)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "geometry:    %s\n", h.Geometry)
			fmt.Fprintf(cmd.OutOrStdout(), "compression: %s\n", h.Compression)
			switch v := g.(type) {
			case *geometry.Mesh:
				fmt.Fprintf(cmd.OutOrStdout(), "vertices:    %d\n", len(v.Vertices))
				fmt.Fprintf(cmd.OutOrStdout(), "triangles:   %d\n", len(v.Faces))
				fmt.Fprintf(cmd.OutOrStdout(), "normals:     %t\n", v.HasNormals())
			case *geometry.PointCloud:
				fmt.Fprintf(cmd.OutOrStdout(), "points:      %d\n", len(v.Points))
				fmt.Fprintf(cmd.OutOrStdout(), "normals:     %t\n", v.HasNormals())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bounding box: %s\n", formatBox(g.BoundingBox()))

			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the geometry into a new model archive")

	return cmd
}
