package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Export all stored results to a CSV file",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	out, err := os.Create(args[0])
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	if err := runStore.ExportAll(cmd.Context(), out); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}

	cmd.Printf("Results exported to %s\n", args[0])
	return nil
}
