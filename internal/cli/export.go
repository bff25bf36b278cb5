package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "export [DEST]",
		Short: "Copy the catalog into a SQLite database",
		Long: `Export writes every catalog record into the "photos" table of a SQLite
database, replacing whatever a previous export left there. DEST defaults
to export.sqlite_path.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dest := s.app.Config.Export.SQLitePath
			if len(args) == 1 {
				dest = args[0]
			}

			exp, err := OpenExport(dest)
			if err != nil {
				return err
			}
			defer exp.Close()

			n, err := s.app.Store.ExportTo(exp)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d photo(s) to %s\n", n, dest)
			return nil
		},
	}
}
