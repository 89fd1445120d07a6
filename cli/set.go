package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewSetCommand creates the set command.
func NewSetCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "set FILE ROW COL VALUE",
		Short: "Edit one cell and save the file",
		Long: `Replace the cell at ROW and COL with VALUE and save. COL is a 0-based
index or a column name. The file is overwritten unless --out is given.

A column keeps its type when every edited value converts back to it without
loss; otherwise the column is saved as strings.`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			row, err := resolveRow(s.Table(), args[1])
			if err != nil {
				return err
			}
			col, err := resolveColumn(s.Table(), args[2])
			if err != nil {
				return err
			}

			s.Adapter().SetCell(row, col, args[3])
			if err := save(cmd, s, out); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved %s\n", s.Path())
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this path instead of FILE")
	return cmd
}
