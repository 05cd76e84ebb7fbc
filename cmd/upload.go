package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/telhawk-systems/flowsearch/internal/model"
	"github.com/telhawk-systems/flowsearch/internal/upload"
	"github.com/telhawk-systems/flowsearch/pkg/output"
)

var uploadCmd = &cobra.Command{
	Use:   "upload FILE...",
	Short: "Upload flow-log files",
	Long: `Upload one or more flow-log files in a single batch. Each file is parsed
independently by the backend; a failed file does not fail the batch.`,
	Example: `  flowsearch upload flows-01.log flows-02.log
  flowsearch upload ./logs/*.log -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := upload.OpenSelection(fs, args)
		if err != nil {
			return err
		}

		structured := cfg.Output != output.FormatTable
		if !structured && len(files) > 0 {
			output.Info("Uploading %d file(s):", len(files))
			for _, f := range files {
				output.Info("  %s (%s)", f.Name, upload.FormatSize(f.Size))
			}
		}

		sess := newSession()
		batch, err := sess.Upload(cmd.Context(), files)
		if err != nil {
			return err
		}

		if handled, err := output.Structured(cfg.Output, batch.Outcomes); handled {
			return err
		}

		if msg := batch.SuccessMessage(); msg != "" {
			output.Success("%s", msg)
		}
		if msg := batch.FailureMessage(); msg != "" {
			output.Warn("%s", msg)
		}

		table := output.NewTable([]string{"File", "Status", "Events", "Error"})
		for _, o := range batch.Outcomes {
			table.AddRow(outcomeRow(o))
		}
		table.RenderTo(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func outcomeRow(o model.UploadOutcome) []string {
	if o.Succeeded() {
		return []string{o.Filename, output.Paint("success", o.Status), strconv.Itoa(o.EventsCount), ""}
	}
	return []string{o.Filename, output.Paint("danger", o.Status), "", o.Error}
}
