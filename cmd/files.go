package cmd

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/telhawk-systems/flowsearch/pkg/output"
)

var statusTones = map[string]string{
	"completed":  "success",
	"failed":     "danger",
	"processing": "info",
	"pending":    "warning",
}

var filesCmd = &cobra.Command{
	Use:     "files",
	Aliases: []string{"ls"},
	Short:   "List uploaded files",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess := newSession()
		if err := sess.RefreshInventory(cmd.Context()); err != nil {
			return err
		}
		files, _ := sess.Inventory()

		if handled, err := output.Structured(cfg.Output, files); handled {
			return err
		}

		if len(files) == 0 {
			output.Info("No files uploaded yet")
			return nil
		}

		table := output.NewTable([]string{"ID", "Filename", "Events", "Status", "Uploaded"})
		for _, f := range files {
			table.AddRow([]string{
				strconv.FormatInt(f.ID, 10),
				f.Filename,
				humanize.Comma(int64(f.TotalEvents)),
				output.Paint(statusTones[f.ProcessingStatus], f.ProcessingStatus),
				uploadedAgo(f.UploadDate),
			})
		}
		table.RenderTo(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(filesCmd)
}

// uploadedAgo renders an RFC 3339 timestamp relative to now, or returns it unchanged.
func uploadedAgo(raw string) string {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return raw
	}
	return humanize.Time(t)
}
