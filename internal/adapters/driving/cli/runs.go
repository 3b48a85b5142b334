package cli

import (
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored analysis runs",
	RunE:  runRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	runs, err := runStore.ListRuns(cmd.Context())
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		cmd.Println("No stored runs.")
		return nil
	}

	cmd.Printf("%-18s %-18s %s\n", "RUN", "MODEL", "OCR")
	for _, r := range runs {
		model, ocr := r.ModelMode, r.OCRMode
		if model == "" {
			model = "-"
		}
		if ocr == "" {
			ocr = "-"
		}
		cmd.Printf("%-18s %-18s %s\n", r.Timestamp, model, ocr)
	}
	return nil
}
