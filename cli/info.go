package cli

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"pqedit/datatable"
	"pqedit/fileio"
	"pqedit/session"
)

// NewInfoCommand creates the info command.
func NewInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info FILE",
		Short: "Show dimensions and column types of a Parquet file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, res, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			return describe(cmd.OutOrStdout(), res, s.Table())
		},
	}
}

// describe prints the summary and column listing of a loaded file.
func describe(out io.Writer, res session.LoadResult, tbl datatable.DataSource) error {
	meta := tbl.Metadata()

	_, _ = fmt.Fprintf(out, "File:       %s\n", res.Path)
	_, _ = fmt.Fprintf(out, "Rows:       %d\n", tbl.RowCount())
	_, _ = fmt.Fprintf(out, "Columns:    %d\n", tbl.ColumnCount())
	if n, ok := meta[fileio.MetaRowGroups]; ok {
		_, _ = fmt.Fprintf(out, "Row groups: %v\n", n)
	}
	_, _ = fmt.Fprintf(out, "Repaired:   %t\n", res.Repaired)
	if dropped, ok := meta[fileio.MetaDroppedRowGroups].(int); ok && dropped > 0 {
		_, _ = fmt.Fprintf(out, "Dropped:    %d row groups\n", dropped)
	}
	if skipped, ok := meta[fileio.MetaSkippedColumns].([]string); ok && len(skipped) > 0 {
		_, _ = fmt.Fprintf(out, "Skipped:    %v\n", skipped)
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Column", "Type"})
	for i := 0; i < tbl.ColumnCount(); i++ {
		name, err := tbl.ColumnName(i)
		if err != nil {
			return err
		}
		typ, err := tbl.ColumnType(i)
		if err != nil {
			return err
		}
		t.AppendRow(table.Row{i, name, typ})
	}
	t.Render()
	return nil
}
