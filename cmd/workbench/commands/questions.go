package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"scopeline/workbench/internal/printer"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Work with the project's open questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var questionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List open questions",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := rt.load(cmd); err != nil {
			return err
		}

		open := rt.ws.OpenQuestions()
		if len(open) == 0 {
			printer.Success("no open questions")
			return nil
		}
		for _, q := range open {
			printer.Printf("[%s] %s  %s\n", q.Priority, q.ID, q.Question)
			if q.TargetEntityID != "" {
				printer.Muted("       about %s %s", q.TargetEntityType, q.TargetEntityID)
			}
		}
		return nil
	},
}

var questionsAnswerCmd = &cobra.Command{
	Use:   "answer <question-id> <answer>",
	Short: "Answer an open question",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := rt.load(cmd); err != nil {
			return err
		}
		answer := strings.Join(args[1:], " ")
		if err := rt.ws.AnswerQuestion(cmd.Context(), args[0], answer); err != nil {
			return printer.Error("answer failed, workspace reloaded: %v", err)
		}
		printer.Success("question %s answered", args[0])
		return nil
	},
}

var questionsDismissCmd = &cobra.Command{
	Use:   "dismiss <question-id>",
	Short: "Dismiss an open question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := rt.load(cmd); err != nil {
			return err
		}
		if err := rt.ws.DismissQuestion(cmd.Context(), args[0]); err != nil {
			return printer.Error("dismiss failed, workspace reloaded: %v", err)
		}
		printer.Success("question %s dismissed", args[0])
		return nil
	},
}

func init() {
	questionsCmd.AddCommand(questionsListCmd)
	questionsCmd.AddCommand(questionsAnswerCmd)
	questionsCmd.AddCommand(questionsDismissCmd)
	rootCmd.AddCommand(questionsCmd)
}
