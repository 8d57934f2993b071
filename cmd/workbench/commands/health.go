package commands

import (
	"github.com/spf13/cobra"

	"scopeline/workbench/internal/actions"
	"scopeline/workbench/internal/brd"
	"scopeline/workbench/internal/printer"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Show workspace health metrics and scope alerts",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := rt.load(cmd); err != nil {
			return err
		}

		printMetrics(rt.ws.Metrics())
		health := rt.ws.Health()

		if len(health.ScopeAlerts) > 0 {
			printer.Println()
			for _, alert := range health.ScopeAlerts {
				if alert.Severity == brd.SeverityWarning {
					printer.Warning("%s", alert.Message)
				} else {
					printer.Muted("%s", alert.Message)
				}
			}
		}
		for entityType, ids := range health.StaleEntities {
			for _, id := range ids {
				printer.Muted("stale %s: %s", entityType, id)
			}
		}
		return nil
	},
}

var refreshCmd = &cobra.Command{
	Use:   "refresh <entity-type> <id>",
	Short: "Ask the backend to re-derive a stale entity",
	Long: `Refresh requests server-side re-derivation of one stale entity and
reloads the workspace afterwards. Staleness is only ever cleared on the
server; the reload is how the cleared flag lands locally.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		entityType, err := parseEntityType(args[0])
		if err != nil {
			return err
		}
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := rt.load(cmd); err != nil {
			return err
		}
		if err := rt.ws.RefreshStale(cmd.Context(), entityType, args[1]); err != nil {
			return printer.Error("refresh failed: %v", err)
		}
		printer.Success("%s %s refreshed", args[0], args[1])
		return nil
	},
}

var cascadesCmd = &cobra.Command{
	Use:   "cascades",
	Short: "Run server-side staleness propagation",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := rt.load(cmd); err != nil {
			return err
		}
		if err := rt.ws.ProcessCascades(cmd.Context()); err != nil {
			return printer.Error("cascade processing failed: %v", err)
		}
		printer.Success("cascades processed")
		printMetrics(rt.ws.Metrics())
		return nil
	},
}

var impactCmd = &cobra.Command{
	Use:   "impact <entity-type> <id>",
	Short: "Estimate the cascade impact of changing an entity",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		entityType, err := parseEntityType(args[0])
		if err != nil {
			return err
		}
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()

		analysis, err := rt.ws.ImpactAnalysis(cmd.Context(), entityType, args[1])
		if err != nil {
			return printer.Error("impact analysis failed: %v", err)
		}

		printer.Printf("%d entities affected\n", analysis.TotalAffected)
		for _, entry := range analysis.DirectImpacts {
			printer.Printf("  direct   %s %s: %s\n", entry.EntityType, entry.EntityID, entry.Title)
		}
		for _, entry := range analysis.IndirectImpacts {
			printer.Muted("  indirect %s %s: %s", entry.EntityType, entry.EntityID, entry.Title)
		}
		if analysis.Recommendation != "" {
			printer.Step("%s", analysis.Recommendation)
		}
		return nil
	},
}

var (
	actionEntityType string
	actionEntityID   string
	actionApply      bool
)

var actionsCmd = &cobra.Command{
	Use:   "action <type>",
	Short: "Route a suggested action to its workspace target",
	Long: `Action resolves a gap descriptor from the health feed into what the
workspace would do with it: bulk-confirm ids, open a drawer, scroll to
a section, or forward to chat. With --apply, a bulk_confirm target is
executed against the backend.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := rt.load(cmd); err != nil {
			return err
		}

		action := actions.Action{
			Type:             actions.ActionType(args[0]),
			TargetEntityType: brd.EntityType(actionEntityType),
			TargetEntityID:   actionEntityID,
		}
		execution := actions.Route(action, rt.ws.Snapshot())

		switch execution.Kind {
		case actions.KindBulkConfirm:
			if len(execution.FeatureIDs) == 0 {
				printer.Println("nothing to confirm")
				return nil
			}
			if !actionApply {
				printer.Printf("would confirm %d feature(s): %v\n", len(execution.FeatureIDs), execution.FeatureIDs)
				return nil
			}
			if err := rt.ws.ConfirmAll(cmd.Context(), brd.TypeFeature, execution.FeatureIDs); err != nil {
				return printer.Error("bulk confirm failed, workspace reloaded: %v", err)
			}
			printer.Success("confirmed %d features", len(execution.FeatureIDs))
		case actions.KindDrawer:
			printer.Printf("open drawer: %s", string(execution.Drawer))
			if execution.EntityID != "" {
				printer.Printf(" (%s %s)", execution.EntityType, execution.EntityID)
			}
			printer.Println()
		case actions.KindScroll:
			printer.Printf("scroll to section: %s\n", string(execution.Section))
		case actions.KindChat:
			printer.Printf("forward to assistant chat: %s\n", args[0])
		default:
			printer.Println("no-op")
		}
		return nil
	},
}

func init() {
	actionsCmd.Flags().StringVar(&actionEntityType, "entity-type", "", "target entity type")
	actionsCmd.Flags().StringVar(&actionEntityID, "entity-id", "", "target entity id")
	actionsCmd.Flags().BoolVar(&actionApply, "apply", false, "execute bulk_confirm targets")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(cascadesCmd)
	rootCmd.AddCommand(impactCmd)
	rootCmd.AddCommand(actionsCmd)
}
