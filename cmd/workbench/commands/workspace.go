package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"scopeline/workbench/internal/brd"
	"scopeline/workbench/internal/printer"
)

var entityTypes = map[string]brd.EntityType{
	"feature":     brd.TypeFeature,
	"actor":       brd.TypeActor,
	"workflow":    brd.TypeWorkflow,
	"constraint":  brd.TypeConstraint,
	"data-entity": brd.TypeDataEntity,
	"stakeholder": brd.TypeStakeholder,
}

func parseEntityType(arg string) (brd.EntityType, error) {
	if t, ok := entityTypes[arg]; ok {
		return t, nil
	}
	names := make([]string, 0, len(entityTypes))
	for name := range entityTypes {
		names = append(names, name)
	}
	return "", printer.Error("unknown entity type %q (one of: %s)", arg, strings.Join(names, ", "))
}

func parseGroup(arg string) (brd.PriorityGroup, error) {
	group := brd.PriorityGroup(strings.ReplaceAll(arg, "-", "_"))
	if _, ok := brd.AllowedGroups[group]; !ok {
		return "", printer.Error("unknown priority group %q (must-have, should-have, could-have, out-of-scope)", arg)
	}
	return group, nil
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Load the workspace and show its health",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := rt.load(cmd); err != nil {
			return err
		}

		snap := rt.ws.Snapshot()
		metrics := rt.ws.Metrics()

		printer.Printf("Project %s\n\n", snap.ProjectID)
		printer.Printf("  Actors        %d\n", len(snap.Actors))
		printer.Printf("  Workflows     %d\n", len(snap.Workflows))
		printer.Printf("  Features      %d\n", snap.FeatureCount())
		printer.Printf("  Data entities %d\n", len(snap.DataEntities))
		printer.Printf("  Stakeholders  %d\n", len(snap.Stakeholders))
		printer.Printf("  Open questions %d\n\n", len(snap.Open()))
		printMetrics(metrics)
		return nil
	},
}

func printMetrics(m brd.Metrics) {
	printer.Printf("  Confirmed %d%%  Enriched %d%%  Stale %d\n", m.ConfirmedPct, m.EnrichedPct, m.StaleCount)
	switch m.RiskScore {
	case brd.RiskHigh:
		printer.Warning("Risk: High")
	case brd.RiskMedium:
		printer.Warning("Risk: Medium")
	default:
		printer.Success("Risk: Low")
	}
}

var confirmCmd = &cobra.Command{
	Use:   "confirm <entity-type> <id>...",
	Short: "Confirm one or more entities",
	Long: `Confirm marks entities as confirmed by the current session's role:
consultants produce confirmed_consultant, clients confirmed_client.
The change lands locally first; if the backend rejects it, or confirms
fewer entities than requested, the workspace reloads from the server.`,
	Args: cobra.MinimumNArgs(2),
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

		ids := args[1:]
		if len(ids) == 1 {
			err = rt.ws.ConfirmEntity(cmd.Context(), entityType, ids[0])
		} else {
			err = rt.ws.ConfirmAll(cmd.Context(), entityType, ids)
		}
		if err != nil {
			return printer.Error("confirm failed, workspace reloaded: %v", err)
		}
		printer.Success("confirmed %d %s(s)", len(ids), args[0])
		return nil
	},
}

var needsReviewCmd = &cobra.Command{
	Use:   "needs-review <entity-type> <id>",
	Short: "Send an entity back for client review",
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
		if err := rt.load(cmd); err != nil {
			return err
		}
		if err := rt.ws.MarkNeedsReview(cmd.Context(), entityType, args[1]); err != nil {
			return printer.Error("needs-review failed, workspace reloaded: %v", err)
		}
		printer.Success("%s %s marked needs_client", args[0], args[1])
		return nil
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <feature-id> <group>",
	Short: "Move a feature to another MoSCoW group",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		group, err := parseGroup(args[1])
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
		if err := rt.ws.MovePriority(cmd.Context(), args[0], group); err != nil {
			return printer.Error("move failed, workspace reloaded: %v", err)
		}
		printer.Success("feature %s moved to %s", args[0], group)
		return nil
	},
}

var visionCmd = &cobra.Command{
	Use:   "vision <text>",
	Short: "Replace the project vision",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := rt.load(cmd); err != nil {
			return err
		}
		text := strings.Join(args, " ")
		if err := rt.ws.SetVision(cmd.Context(), text); err != nil {
			return printer.Error("vision update failed, workspace reloaded: %v", err)
		}
		printer.Success("vision updated")
		return nil
	},
}

var backgroundCmd = &cobra.Command{
	Use:   "background <text>",
	Short: "Replace the project background",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := rt.load(cmd); err != nil {
			return err
		}
		text := strings.Join(args, " ")
		if err := rt.ws.SetBackground(cmd.Context(), text); err != nil {
			return printer.Error("background update failed, workspace reloaded: %v", err)
		}
		printer.Success("background updated")
		return nil
	},
}

var clearCanvasRole bool

var canvasRoleCmd = &cobra.Command{
	Use:   "role <actor-id> [primary|secondary]",
	Short: "Set or clear an actor's workflow canvas role",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var role brd.CanvasRole
		switch {
		case clearCanvasRole:
			role = brd.RoleNone
		case len(args) == 2 && args[1] == "primary":
			role = brd.RolePrimary
		case len(args) == 2 && args[1] == "secondary":
			role = brd.RoleSecondary
		default:
			return printer.Error("pass a role (primary or secondary) or --clear")
		}

		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := rt.load(cmd); err != nil {
			return err
		}
		if err := rt.ws.SetCanvasRole(cmd.Context(), args[0], role); err != nil {
			return printer.Error("canvas role update failed, workspace reloaded: %v", err)
		}
		if role == brd.RoleNone {
			printer.Success("canvas role cleared for %s", args[0])
		} else {
			printer.Success("actor %s set to %s", args[0], role)
		}
		return nil
	},
}

var inviteRole string

var inviteCmd = &cobra.Command{
	Use:   "invite <email>",
	Short: "Invite a teammate into the project's organization",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := rt.ws.Invite(cmd.Context(), args[0], inviteRole); err != nil {
			return printer.Error("invite failed: %v", err)
		}
		printer.Success("invited %s as %s", args[0], inviteRole)
		return nil
	},
}

func init() {
	canvasRoleCmd.Flags().BoolVar(&clearCanvasRole, "clear", false, "remove the actor from the canvas")
	inviteCmd.Flags().StringVar(&inviteRole, "role", "consultant", "membership role (consultant or client)")

	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(confirmCmd)
	rootCmd.AddCommand(needsReviewCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(visionCmd)
	rootCmd.AddCommand(backgroundCmd)
	rootCmd.AddCommand(canvasRoleCmd)
	rootCmd.AddCommand(inviteCmd)
}
