package commands

import (
	"os"

	"github.com/spf13/cobra"

	"scopeline/workbench/internal/export"
	"scopeline/workbench/internal/printer"
)

var (
	exportFormat    string
	exportOut       string
	exportName      string
	exportQuestions bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the BRD as markdown, html or pdf",
	Long: `Export renders the loaded workspace into a shareable document. PDF
output requires a local chromium install.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := rt.load(cmd); err != nil {
			return err
		}

		svc := export.NewService()
		result, err := svc.Export(rt.ws.Snapshot(), rt.ws.Metrics(), export.Request{
			ProjectName:          exportName,
			Format:               export.Format(exportFormat),
			Author:               rt.sess.DisplayName(),
			IncludeOpenQuestions: exportQuestions,
		})
		if err != nil {
			return printer.Error("export failed: %v", err)
		}

		out := exportOut
		if out == "" {
			out = result.Filename
		}
		if err := os.WriteFile(out, result.Data, 0o644); err != nil {
			return printer.Error("write export: %v", err)
		}
		printer.Success("exported %s (%d bytes)", out, len(result.Data))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "markdown", "output format: markdown, html or pdf")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (defaults to a name derived from the project)")
	exportCmd.Flags().StringVar(&exportName, "name", "", "project display name for the document header")
	exportCmd.Flags().BoolVar(&exportQuestions, "questions", false, "include open questions")
	rootCmd.AddCommand(exportCmd)
}
