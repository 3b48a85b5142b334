package cli

import (
	"github.com/spf13/cobra"
)

var flagClearForce bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all stored runs, results and evidence",
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&flagClearForce, "force", false, "delete without confirmation")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	if !flagClearForce {
		cmd.Println("This deletes every stored run. Re-run with --force to confirm.")
		return nil
	}

	if err := runStore.ClearAll(cmd.Context()); err != nil {
		return err
	}
	cmd.Println("All stored results cleared.")
	return nil
}
