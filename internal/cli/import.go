package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flowvis/flowvis/pkg/vis"
)

// newImportCmd creates the import command: bootstrap a flowsheet from an
// external producer description (unit types plus stream connectivity) and
// write it as a .flowvis session file. Nodes land on the default staircase;
// run edit afterwards to arrange them.
func newImportCmd(iconsPath *string) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "import [description.json]",
		Short: "Bootstrap a flowsheet from a producer description",
		Long: `Bootstrap a flowsheet from a producer description.

The description is a JSON document from the process-simulation engine:

  {
    "units":   {"M101": "Mixer", "H101": "Heater"},
    "streams": {"M101": ["H101"]}
  }

Unit types with no icon mapping are kept and rendered without an image.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			reg, err := loadRegistry(*iconsPath)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer f.Close()

			desc, err := vis.ReadDescription(f)
			if err != nil {
				return err
			}
			fs, err := vis.Bootstrap(desc, reg.Resolve)
			if err != nil {
				return fmt.Errorf("bootstrap: %w", err)
			}
			for _, n := range fs.Nodes() {
				if n.Image == "" {
					logger.Warn("no icon for unit type", "node", n.ID, "type", n.TypeTag)
				}
			}

			if output == "" {
				output = vis.DefaultPath(strings.TrimSuffix(args[0], ".json"))
			}
			if err := vis.WriteFile(fs, output); err != nil {
				return err
			}
			logger.Debug("imported description", "units", fs.NodeCount(), "streams", fs.EdgeCount())
			printSuccess("%s: %d units, %d streams", output, fs.NodeCount(), fs.EdgeCount())
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: description name with "+vis.Ext+")")
	return cmd
}
