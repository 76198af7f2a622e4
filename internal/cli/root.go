package cli

import (
	"context"
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/flowvis/flowvis/pkg/buildinfo"
	"github.com/flowvis/flowvis/pkg/icons"
)

// Execute runs the flowvis CLI and returns an error if any command fails.
//
// Logging defaults to info level on stderr; --verbose (-v) enables debug.
// The logger is attached to the command context and retrieved by
// subcommands via loggerFromContext. The optional --icons flag points at a
// TOML config overriding the built-in icon registry; it applies to every
// command that resolves icons.
func Execute(ctx context.Context) error {
	var (
		verbose   bool
		iconsPath string
	)

	root := &cobra.Command{
		Use:          "flowvis",
		Short:        "Flowvis edits process flowsheet diagrams",
		Long:         `Flowvis is a flowsheet diagram editor: it keeps unit-operation nodes and directed stream connections behind an interactive canvas and persists the complete visual state to a .flowvis file.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&iconsPath, "icons", "", "TOML config overriding the icon registry")

	root.AddCommand(newImportCmd(&iconsPath))
	root.AddCommand(newEditCmd(&iconsPath))
	root.AddCommand(newServeCmd(&iconsPath))
	root.AddCommand(newExportCmd(&iconsPath))

	return root.ExecuteContext(ctx)
}

// loadRegistry resolves the icon registry for a command invocation: the
// built-in defaults, or the --icons TOML config when given.
func loadRegistry(path string) (icons.Registry, error) {
	if path == "" {
		return icons.Default(), nil
	}
	reg, err := icons.Load(path)
	if err != nil {
		return icons.Registry{}, fmt.Errorf("load icon config: %w", err)
	}
	return reg, nil
}
