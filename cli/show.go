package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"pqedit/datatable"
)

// NewShowCommand creates the show command.
func NewShowCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Print the rows of a Parquet file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			a := s.Adapter()

			rows := a.RowCount()
			if limit > 0 && limit < rows {
				rows = limit
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleLight)

			header := make(table.Row, a.ColumnCount()+1)
			for c := 0; c < a.ColumnCount(); c++ {
				header[c+1] = a.Header(c, datatable.Horizontal)
			}
			t.AppendHeader(header)

			for r := 0; r < rows; r++ {
				row := make(table.Row, a.ColumnCount()+1)
				row[0] = a.Header(r, datatable.Vertical)
				for c := 0; c < a.ColumnCount(); c++ {
					row[c+1] = a.Cell(r, c)
				}
				t.AppendRow(row)
			}
			t.Render()

			if rows < a.RowCount() {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "(%d of %d rows)\n", rows, a.RowCount())
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum rows to print (0 for all)")
	return cmd
}
