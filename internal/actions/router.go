// Package actions maps gap/action descriptors from the backend to one
// of a fixed set of workspace executions. The router is a pure dispatch
// table: it selects a target (section, drawer, chat, bulk confirm) and
// leaves performing the side effect to the caller, which keeps every
// routing decision testable.
package actions

import "scopeline/workbench/internal/brd"

// ActionType is the catalog of gap/action types the backend emits.
type ActionType string

const (
	ConfirmCritical         ActionType = "confirm_critical"
	MissingVision           ActionType = "missing_vision"
	MissingEvidence         ActionType = "missing_evidence"
	TemporalStale           ActionType = "temporal_stale"
	ValidatePains           ActionType = "validate_pains"
	SectionGap              ActionType = "section_gap"
	StakeholderGap          ActionType = "stakeholder_gap"
	CrossEntityGap          ActionType = "cross_entity_gap"
	MissingMetrics          ActionType = "missing_metrics"
	OpenQuestionCritical    ActionType = "open_question_critical"
	OpenQuestionBlocking    ActionType = "open_question_blocking"
	StaleBelief             ActionType = "stale_belief"
	ContradictionUnresolved ActionType = "contradiction_unresolved"
	RevisitDecision         ActionType = "revisit_decision"
)

// Action is a gap descriptor from the health/action feed.
type Action struct {
	Type             ActionType     `json:"actionType"`
	TargetEntityType brd.EntityType `json:"targetEntityType,omitempty"`
	TargetEntityID   string         `json:"targetEntityId,omitempty"`
	Title            string         `json:"title"`
}

// ExecutionKind is what the workspace should do with an action.
type ExecutionKind string

const (
	KindBulkConfirm ExecutionKind = "bulk_confirm"
	KindDrawer      ExecutionKind = "drawer"
	KindScroll      ExecutionKind = "scroll"
	KindChat        ExecutionKind = "chat"
	KindNone        ExecutionKind = "none"
)

// Drawer names the drawers an action can open.
type Drawer string

const (
	DrawerVision   Drawer = "vision"
	DrawerEvidence Drawer = "evidence"
)

// Section names the scroll targets in the workspace view.
type Section string

const (
	SectionFeatures        Section = "features"
	SectionActors          Section = "actors"
	SectionWorkflows       Section = "workflows"
	SectionDataEntities    Section = "data_entities"
	SectionStakeholders    Section = "stakeholders"
	SectionQuestions       Section = "questions"
	SectionBusinessContext Section = "business_context"
)

// Execution is the router's selected target. Exactly the fields for its
// Kind are set.
type Execution struct {
	Kind       ExecutionKind
	Section    Section
	Drawer     Drawer
	EntityType brd.EntityType
	EntityID   string
	// Bulk confirm only: the not-yet-confirmed must-have features,
	// confirmed first, then the view scrolls to Section.
	FeatureIDs []string
	Action     Action
}

// sectionByEntity backs section_gap routing; unrecognized entity types
// fall back to the business context section.
var sectionByEntity = map[brd.EntityType]Section{
	brd.TypeFeature:     SectionFeatures,
	brd.TypeActor:       SectionActors,
	brd.TypeWorkflow:    SectionWorkflows,
	brd.TypeDataEntity:  SectionDataEntities,
	brd.TypeStakeholder: SectionStakeholders,
}

// registeredKinds is the default dispatch for action types without a
// dedicated arm. Only chat-kind defaults are forwarded; everything else
// is a no-op.
var registeredKinds = map[ActionType]ExecutionKind{
	StaleBelief:             KindChat,
	ContradictionUnresolved: KindChat,
	RevisitDecision:         KindChat,
}

// Route selects the execution for an action against the given snapshot.
// Stateless: every call is independent.
func Route(action Action, snap brd.WorkspaceSnapshot) Execution {
	switch action.Type {
	case ConfirmCritical:
		ids := make([]string, 0, len(snap.Requirements.MustHave))
		for _, f := range snap.Requirements.MustHave {
			if !f.ConfirmationStatus.Confirmed() {
				ids = append(ids, f.ID)
			}
		}
		return Execution{Kind: KindBulkConfirm, FeatureIDs: ids, Section: SectionFeatures, Action: action}

	case MissingVision:
		return Execution{Kind: KindDrawer, Drawer: DrawerVision, Action: action}

	case MissingEvidence, TemporalStale, ValidatePains:
		if action.TargetEntityID == "" || action.TargetEntityType == "" {
			return Execution{Kind: KindNone, Action: action}
		}
		return Execution{
			Kind:       KindDrawer,
			Drawer:     DrawerEvidence,
			EntityType: action.TargetEntityType,
			EntityID:   action.TargetEntityID,
			Action:     action,
		}

	case SectionGap:
		section, ok := sectionByEntity[action.TargetEntityType]
		if !ok {
			section = SectionBusinessContext
		}
		return Execution{Kind: KindScroll, Section: section, Action: action}

	case StakeholderGap, CrossEntityGap:
		return Execution{Kind: KindScroll, Section: SectionStakeholders, Action: action}

	case MissingMetrics:
		return Execution{Kind: KindScroll, Section: SectionBusinessContext, Action: action}

	case OpenQuestionCritical, OpenQuestionBlocking:
		return Execution{Kind: KindScroll, Section: SectionQuestions, Action: action}

	case StaleBelief, ContradictionUnresolved, RevisitDecision:
		return Execution{Kind: KindChat, Action: action}

	default:
		if registeredKinds[action.Type] == KindChat {
			return Execution{Kind: KindChat, Action: action}
		}
		return Execution{Kind: KindNone, Action: action}
	}
}
