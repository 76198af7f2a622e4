package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowvis/flowvis/pkg/render/nodelink"
	"github.com/flowvis/flowvis/pkg/vis"
)

// newExportCmd creates the export command: render a saved flowsheet as a
// static node-link diagram (SVG, PNG, or raw DOT).
func newExportCmd(iconsPath *string) *cobra.Command {
	var (
		output   string
		format   string
		detailed bool
		pinned   bool
	)

	cmd := &cobra.Command{
		Use:   "export [file" + vis.Ext + "]",
		Short: "Export a flowsheet as a static diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := loadRegistry(*iconsPath)
			if err != nil {
				return err
			}
			fs, err := vis.ReadFile(args[0], reg.Resolve)
			if err != nil {
				return err
			}

			dot := nodelink.ToDOT(fs, nodelink.Options{Detailed: detailed, UsePositions: pinned})

			var data []byte
			switch format {
			case "dot":
				data = []byte(dot)
			case "svg":
				data, err = nodelink.RenderSVG(dot)
			case "png":
				data, err = nodelink.RenderPNG(dot)
			default:
				return fmt.Errorf("unsupported format %q (want svg, png, or dot)", format)
			}
			if err != nil {
				return err
			}

			if output == "" {
				output = strings.TrimSuffix(args[0], vis.Ext) + "." + format
			}
			if err := os.WriteFile(output, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess("%s (%d nodes, %d edges)", output, fs.NodeCount(), fs.EdgeCount())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input name with format extension)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg, png, dot")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include icon asset paths in labels")
	cmd.Flags().BoolVar(&pinned, "pinned", false, "pin nodes at their canvas positions")
	return cmd
}
