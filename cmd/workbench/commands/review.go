package commands

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"scopeline/workbench/internal/printer"
	"scopeline/workbench/internal/review"
)

func newReviewManager(rt *runtime) (*review.Manager, func(), error) {
	// Sessions outlive a CLI invocation only with Redis; the in-memory
	// store covers single-shot use when none is configured.
	if rt.cfg.RedisURL == "" {
		printer.Warning("REDIS_URL not set; review sessions will not survive this invocation")
		store := review.NewMemoryStore(rt.cfg.ReviewTTL)
		return review.NewManager(store, rt.client, rt.cfg.ReviewMaxTurns, rt.log), func() {}, nil
	}
	store, err := review.NewRedisStore(rt.cfg.RedisURL, rt.cfg.ReviewTTL)
	if err != nil {
		return nil, nil, printer.Error("redis connection failed: %v", err)
	}
	manager := review.NewManager(store, rt.client, rt.cfg.ReviewMaxTurns, rt.log)
	return manager, func() { _ = store.Close() }, nil
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Run a turn-limited prototype review session",
	Long: `Review drives a chat with the assistant about a prototype, one page
at a time. Sessions live in Redis with a TTL; each assistant reply
spends one turn from a fixed budget. Page changes drop a marker into
the transcript and verdicts are recorded per page, latest wins.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var (
	reviewPrototype string
	reviewPage      string
)

var reviewStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a review session",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()
		manager, closeStore, err := newReviewManager(rt)
		if err != nil {
			return err
		}
		defer closeStore()

		session, err := manager.Start(cmd.Context(), projectID, reviewPrototype, reviewPage)
		if err != nil {
			return printer.Error("start review: %v", err)
		}
		printer.Success("session %s started on page %s (%d turns)", session.ID, session.CurrentPage, session.RemainingTurns())
		return nil
	},
}

var reviewSayCmd = &cobra.Command{
	Use:   "say <session-id> <message>",
	Short: "Send a reviewer message and print the assistant's reply",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()
		manager, closeStore, err := newReviewManager(rt)
		if err != nil {
			return err
		}
		defer closeStore()

		reply, session, err := manager.Say(cmd.Context(), args[0], strings.Join(args[1:], " "))
		if err != nil {
			if errors.Is(err, review.ErrTurnLimit) {
				printer.Warning("turn limit reached; the message was kept in the transcript")
				return nil
			}
			return printer.Error("say failed: %v", err)
		}
		printer.Println(reply)
		printer.Muted("%d turn(s) left", session.RemainingTurns())
		return nil
	},
}

var reviewPageCmd = &cobra.Command{
	Use:   "page <session-id> <page>",
	Short: "Move the session to another prototype page",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()
		manager, closeStore, err := newReviewManager(rt)
		if err != nil {
			return err
		}
		defer closeStore()

		session, err := manager.ChangePage(cmd.Context(), args[0], args[1])
		if err != nil {
			return printer.Error("page change failed: %v", err)
		}
		printer.Success("now reviewing %s", session.CurrentPage)
		return nil
	},
}

var verdictComment string

var reviewVerdictCmd = &cobra.Command{
	Use:   "verdict <session-id> <page> <approved|rejected|needs_changes>",
	Short: "Record a verdict for a prototype page",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		verdict := review.Verdict(args[2])
		if _, ok := review.AllowedVerdicts[verdict]; !ok {
			return printer.Error("unknown verdict %q", args[2])
		}
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()
		manager, closeStore, err := newReviewManager(rt)
		if err != nil {
			return err
		}
		defer closeStore()

		if _, err := manager.RecordVerdict(cmd.Context(), args[0], args[1], verdict, verdictComment); err != nil {
			return printer.Error("verdict failed: %v", err)
		}
		printer.Success("%s: %s", args[1], verdict)
		return nil
	},
}

var reviewShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print the session transcript and verdicts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()
		manager, closeStore, err := newReviewManager(rt)
		if err != nil {
			return err
		}
		defer closeStore()

		session, err := manager.Get(cmd.Context(), args[0])
		if err != nil {
			return printer.Error("session lookup failed: %v", err)
		}

		printer.Printf("prototype %s, page %s, %d turn(s) left\n\n", session.PrototypeID, session.CurrentPage, session.RemainingTurns())
		for _, entry := range session.Entries {
			switch entry.Kind {
			case review.EntryPageChange:
				printer.Step("page: %s", entry.Page)
			case review.EntryUser:
				printer.Printf("you: %s\n", entry.Body)
			case review.EntryAssistant:
				printer.Printf("assistant: %s\n", entry.Body)
			case review.EntryVerdict:
				printer.Muted("verdict on %s: %s", entry.Page, entry.Body)
			}
		}
		for page, v := range session.Verdicts {
			printer.Printf("\n%s: %s", page, v.Verdict)
			if v.Comment != "" {
				printer.Printf(" (%s)", v.Comment)
			}
			printer.Println()
		}
		return nil
	},
}

var reviewEndCmd = &cobra.Command{
	Use:   "end <session-id>",
	Short: "End a review session and delete its transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()
		manager, closeStore, err := newReviewManager(rt)
		if err != nil {
			return err
		}
		defer closeStore()

		if err := manager.End(cmd.Context(), args[0]); err != nil {
			return printer.Error("end failed: %v", err)
		}
		printer.Success("session %s ended", args[0])
		return nil
	},
}

func init() {
	reviewStartCmd.Flags().StringVar(&reviewPrototype, "prototype", "", "prototype id")
	reviewStartCmd.Flags().StringVar(&reviewPage, "page", "home", "starting page")
	_ = reviewStartCmd.MarkFlagRequired("prototype")
	reviewVerdictCmd.Flags().StringVar(&verdictComment, "comment", "", "verdict comment")

	reviewCmd.AddCommand(reviewStartCmd)
	reviewCmd.AddCommand(reviewSayCmd)
	reviewCmd.AddCommand(reviewPageCmd)
	reviewCmd.AddCommand(reviewVerdictCmd)
	reviewCmd.AddCommand(reviewShowCmd)
	reviewCmd.AddCommand(reviewEndCmd)
	rootCmd.AddCommand(reviewCmd)
}
