package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"pqedit/fileio"
)

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Export a Parquet file as CSV or JSON",
		Long: `Write the table in FILE as CSV or JSON. Without --out the result goes to
stdout. The format defaults to the extension of --out, or csv.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := exportFormat(format, out)
			if err != nil {
				return err
			}
			s, _, err := openSession(cmd, args[0])
			if err != nil {
				return err
			}

			if out == "" {
				switch f {
				case fileio.FormatCSV:
					return fileio.ExportCSV(cmd.OutOrStdout(), s.Table())
				case fileio.FormatJSON:
					return fileio.ExportJSON(cmd.OutOrStdout(), s.Table())
				default:
					return fmt.Errorf("%w: %s to stdout", fileio.ErrUnsupportedFormat, f)
				}
			}

			fileOpts, err := GetConfig(cmd.Context()).FileOptions(GetLogger(cmd.Context()))
			if err != nil {
				return err
			}
			if err := fileio.ExportFile(cmd.Context(), out, f, s.Table(), fileOpts); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "exported %d rows to %s\n", s.Table().RowCount(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (csv|json|parquet)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: stdout)")
	_ = cmd.RegisterFlagCompletionFunc("format", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"csv", "json", "parquet"}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func exportFormat(format, out string) (fileio.Format, error) {
	if format != "" {
		return fileio.ParseFormat(format)
	}
	if out != "" {
		if f := fileio.DetectFormat(out); f != fileio.FormatUnknown {
			return f, nil
		}
	}
	return fileio.FormatCSV, nil
}
