package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"scopeline/workbench/internal/history"
	"scopeline/workbench/internal/printer"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the local snapshot history",
	Long: `Every successful workspace load is recorded in a local git repository
under the snapshots directory, one repo per project. History shows
what the BRD looked like across loads and rollbacks.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var historyLogCmd = &cobra.Command{
	Use:   "log",
	Short: "List recorded snapshot revisions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		revisions, err := rt.hist.History(projectID, historyLimit)
		if err != nil {
			if errors.Is(err, history.ErrNoHistory) {
				printer.Println("no recorded snapshots; run status or any mutation first")
				return nil
			}
			return printer.Error("history failed: %v", err)
		}
		for _, rev := range revisions {
			printer.Printf("%s  %s  %s  %s\n",
				rev.Hash, rev.CreatedAt.Format("2006-01-02 15:04"), rev.Author, rev.Message)
		}
		return nil
	},
}

var historyDiffCmd = &cobra.Command{
	Use:   "diff <from-hash> <to-hash>",
	Short: "Show what changed between two recorded snapshots",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		diff, err := rt.hist.Diff(projectID, args[0], args[1])
		if err != nil {
			return printer.Error("diff failed: %v", err)
		}
		if diff == "" {
			printer.Println("no changes")
			return nil
		}
		printer.Printf("%s", diff)
		return nil
	},
}

func init() {
	historyLogCmd.Flags().IntVar(&historyLimit, "limit", 20, "max revisions")
	historyCmd.AddCommand(historyLogCmd)
	historyCmd.AddCommand(historyDiffCmd)
	rootCmd.AddCommand(historyCmd)
}
