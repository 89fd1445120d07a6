package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pqedit/clip"
)

// clipboard receives copied text. Replaced in tests.
var clipboard clip.Writer = clip.System{}

// NewCopyCommand creates the copy command.
func NewCopyCommand() *cobra.Command {
	var col, row string

	cmd := &cobra.Command{
		Use:   "copy FILE --col COL [--row ROW]",
		Short: "Copy a cell or a whole column to the clipboard",
		Long: `Copy the text of one cell, or of every cell in a column joined by newlines,
to the system clipboard. COL is a 0-based index or a column name.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, _, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			c, err := resolveColumn(s.Table(), col)
			if err != nil {
				return err
			}

			if row == "" {
				if _, err := clip.CopyColumn(clipboard, s.Adapter(), c); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "copied %d values\n", s.Adapter().RowCount())
				return nil
			}

			r, err := resolveRow(s.Table(), row)
			if err != nil {
				return err
			}
			text, err := clip.CopyCell(clipboard, s.Adapter(), r, c)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "copied %q\n", text)
			return nil
		},
	}

	cmd.Flags().StringVarP(&col, "col", "c", "", "Column index or name")
	cmd.Flags().StringVarP(&row, "row", "r", "", "Row index; copies the whole column when omitted")
	_ = cmd.MarkFlagRequired("col")
	return cmd
}
