package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pqedit/session"
)

// NewRepairCommand creates the repair command.
func NewRepairCommand() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "repair FILE",
		Short: "Recover a damaged Parquet file and write it back",
		Long: `Open FILE, falling back to the repair reader when the standard reader
rejects it, and write the recovered table back in normalized form.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, res, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}
			if err := save(cmd, s, out); err != nil {
				return err
			}
			if res.Repaired {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "repaired %s: %d rows written to %s\n", args[0], s.Table().RowCount(), s.Path())
			} else {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s was readable; rewritten to %s\n", args[0], s.Path())
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "Write to this path instead of FILE")
	return cmd
}

func save(cmd *cobra.Command, s *session.Session, out string) error {
	if out != "" {
		return s.SaveAs(cmd.Context(), out)
	}
	return s.Save(cmd.Context())
}
