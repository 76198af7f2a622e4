package cli

import (
	"errors"
	"io/fs"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/flowvis/flowvis/pkg/model"
	"github.com/flowvis/flowvis/pkg/vis"
)

// newEditCmd creates the edit command: open a .flowvis file in the
// interactive terminal canvas. A missing file starts an empty diagram that
// is created on first save.
func newEditCmd(iconsPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "edit [file" + vis.Ext + "]",
		Short: "Edit a flowsheet interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := loggerFromContext(cmd.Context())

			reg, err := loadRegistry(*iconsPath)
			if err != nil {
				return err
			}

			path := vis.DefaultPath(args[0])
			flowsheet, err := vis.ReadFile(path, reg.Resolve)
			switch {
			case err == nil:
			case errors.Is(err, fs.ErrNotExist):
				logger.Info("starting empty flowsheet", "path", path)
				flowsheet = model.New(reg.Resolve)
			default:
				return err
			}

			session := vis.NewSession(flowsheet, reg.Resolve)
			p := tea.NewProgram(newEditorModel(session, path), tea.WithOutput(os.Stderr))
			if _, err := p.Run(); err != nil {
				return err
			}
			return nil
		},
	}
}
