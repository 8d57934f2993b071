// Package brd holds the client-side model of a project's business
// requirement document: the workspace snapshot, the optimistic mutators
// that rewrite it, and the health metrics derived from it.
//
// The snapshot is a cache of server state, never the source of truth.
// Mutators are pure: they return a new snapshot and leave the input
// untouched, so a failed network call can discard local changes by
// reloading from the server.
package brd

import "time"

// ConfirmationStatus records the provenance and trust level of an entity.
type ConfirmationStatus string

const (
	StatusAIGenerated         ConfirmationStatus = "ai_generated"
	StatusNeedsClient         ConfirmationStatus = "needs_client"
	StatusConfirmedConsultant ConfirmationStatus = "confirmed_consultant"
	StatusConfirmedClient     ConfirmationStatus = "confirmed_client"
)

// Confirmed reports whether a status counts as confirmed by a person.
func (s ConfirmationStatus) Confirmed() bool {
	return s == StatusConfirmedConsultant || s == StatusConfirmedClient
}

var AllowedStatuses = map[ConfirmationStatus]struct{}{
	StatusAIGenerated:         {},
	StatusNeedsClient:         {},
	StatusConfirmedConsultant: {},
	StatusConfirmedClient:     {},
}

// CanvasRole marks a persona's position on the workflow canvas.
// The empty string means the persona has no canvas role.
type CanvasRole string

const (
	RolePrimary   CanvasRole = "primary"
	RoleSecondary CanvasRole = "secondary"
	RoleNone      CanvasRole = ""
)

// EntityType names the entity collections the mutators operate on.
type EntityType string

const (
	TypeFeature     EntityType = "feature"
	TypeActor       EntityType = "actor"
	TypeWorkflow    EntityType = "workflow"
	TypeConstraint  EntityType = "constraint"
	TypeDataEntity  EntityType = "data_entity"
	TypeStakeholder EntityType = "stakeholder"
)

// PriorityGroup is a MoSCoW prioritization bucket for features.
type PriorityGroup string

const (
	GroupMustHave   PriorityGroup = "must_have"
	GroupShouldHave PriorityGroup = "should_have"
	GroupCouldHave  PriorityGroup = "could_have"
	GroupOutOfScope PriorityGroup = "out_of_scope"
)

var AllowedGroups = map[PriorityGroup]struct{}{
	GroupMustHave:   {},
	GroupShouldHave: {},
	GroupCouldHave:  {},
	GroupOutOfScope: {},
}

type BusinessContext struct {
	Vision         string   `json:"vision"`
	Background     string   `json:"background"`
	PainPoints     []string `json:"painPoints"`
	Goals          []string `json:"goals"`
	SuccessMetrics []string `json:"successMetrics"`
}

type Actor struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Description        string             `json:"description"`
	ConfirmationStatus ConfirmationStatus `json:"confirmationStatus"`
	CanvasRole         CanvasRole         `json:"canvasRole,omitempty"`
	Goals              []string           `json:"goals"`
	IsStale            bool               `json:"isStale,omitempty"`
}

type WorkflowStep struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Workflow struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	ConfirmationStatus ConfirmationStatus `json:"confirmationStatus"`
	Steps              []WorkflowStep     `json:"steps"`
	IsStale            bool               `json:"isStale,omitempty"`
}

type Feature struct {
	ID                 string             `json:"id"`
	Title              string             `json:"title"`
	Description        string             `json:"description"`
	ConfirmationStatus ConfirmationStatus `json:"confirmationStatus"`
	IsStale            bool               `json:"isStale,omitempty"`
}

// Requirements partitions features into MoSCoW groups. Every feature
// lives in exactly one group.
type Requirements struct {
	MustHave   []Feature `json:"mustHave"`
	ShouldHave []Feature `json:"shouldHave"`
	CouldHave  []Feature `json:"couldHave"`
	OutOfScope []Feature `json:"outOfScope"`
}

type Constraint struct {
	ID                 string             `json:"id"`
	Description        string             `json:"description"`
	ConfirmationStatus ConfirmationStatus `json:"confirmationStatus"`
}

type DataEntity struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Fields             []string           `json:"fields"`
	ConfirmationStatus ConfirmationStatus `json:"confirmationStatus"`
	IsStale            bool               `json:"isStale,omitempty"`
}

type Stakeholder struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Role               string             `json:"role"`
	ConfirmationStatus ConfirmationStatus `json:"confirmationStatus"`
}

// QuestionPriority ranks open questions.
type QuestionPriority string

const (
	PriorityCritical QuestionPriority = "critical"
	PriorityHigh     QuestionPriority = "high"
	PriorityMedium   QuestionPriority = "medium"
	PriorityLow      QuestionPriority = "low"
)

// QuestionStatus is the lifecycle state of an open question.
type QuestionStatus string

const (
	QuestionOpen      QuestionStatus = "open"
	QuestionAnswered  QuestionStatus = "answered"
	QuestionDismissed QuestionStatus = "dismissed"
)

// OpenQuestion is created server-side; the client only moves it to
// answered or dismissed.
type OpenQuestion struct {
	ID               string           `json:"id"`
	Question         string           `json:"question"`
	Priority         QuestionPriority `json:"priority"`
	Status           QuestionStatus   `json:"status"`
	TargetEntityID   string           `json:"targetEntityId,omitempty"`
	TargetEntityType EntityType       `json:"targetEntityType,omitempty"`
}

// WorkspaceSnapshot is the root aggregate for one project. It is owned
// by exactly one workspace view; there is no cross-view sharing.
type WorkspaceSnapshot struct {
	ProjectID       string          `json:"projectId"`
	BusinessContext BusinessContext `json:"businessContext"`
	Actors          []Actor         `json:"actors"`
	Workflows       []Workflow      `json:"workflows"`
	Requirements    Requirements    `json:"requirements"`
	Constraints     []Constraint    `json:"constraints"`
	DataEntities    []DataEntity    `json:"dataEntities"`
	Stakeholders    []Stakeholder   `json:"stakeholders"`
	OpenQuestions   []OpenQuestion  `json:"openQuestions"`
	FetchedAt       time.Time       `json:"fetchedAt,omitempty"`
}

// Features returns all features across the four MoSCoW groups, in group
// order.
func (s WorkspaceSnapshot) Features() []Feature {
	all := make([]Feature, 0, s.FeatureCount())
	all = append(all, s.Requirements.MustHave...)
	all = append(all, s.Requirements.ShouldHave...)
	all = append(all, s.Requirements.CouldHave...)
	all = append(all, s.Requirements.OutOfScope...)
	return all
}

// FeatureCount is the total number of features across all groups.
func (s WorkspaceSnapshot) FeatureCount() int {
	return len(s.Requirements.MustHave) + len(s.Requirements.ShouldHave) +
		len(s.Requirements.CouldHave) + len(s.Requirements.OutOfScope)
}

// FeatureGroup reports which MoSCoW group holds the feature, if any.
func (s WorkspaceSnapshot) FeatureGroup(featureID string) (PriorityGroup, bool) {
	for group, list := range map[PriorityGroup][]Feature{
		GroupMustHave:   s.Requirements.MustHave,
		GroupShouldHave: s.Requirements.ShouldHave,
		GroupCouldHave:  s.Requirements.CouldHave,
		GroupOutOfScope: s.Requirements.OutOfScope,
	} {
		for _, f := range list {
			if f.ID == featureID {
				return group, true
			}
		}
	}
	return "", false
}

// Open returns the questions still awaiting an answer or dismissal.
func (s WorkspaceSnapshot) Open() []OpenQuestion {
	open := make([]OpenQuestion, 0, len(s.OpenQuestions))
	for _, q := range s.OpenQuestions {
		if q.Status == QuestionOpen {
			open = append(open, q)
		}
	}
	return open
}

// Clone returns a deep copy of the snapshot. Mutators work on clones so
// the caller's snapshot is never modified in place.
func (s WorkspaceSnapshot) Clone() WorkspaceSnapshot {
	out := s
	out.BusinessContext.PainPoints = cloneStrings(s.BusinessContext.PainPoints)
	out.BusinessContext.Goals = cloneStrings(s.BusinessContext.Goals)
	out.BusinessContext.SuccessMetrics = cloneStrings(s.BusinessContext.SuccessMetrics)

	if s.Actors != nil {
		out.Actors = make([]Actor, len(s.Actors))
		for i, a := range s.Actors {
			a.Goals = cloneStrings(a.Goals)
			out.Actors[i] = a
		}
	}

	if s.Workflows != nil {
		out.Workflows = make([]Workflow, len(s.Workflows))
		for i, w := range s.Workflows {
			w.Steps = append([]WorkflowStep(nil), w.Steps...)
			out.Workflows[i] = w
		}
	}

	out.Requirements.MustHave = append([]Feature(nil), s.Requirements.MustHave...)
	out.Requirements.ShouldHave = append([]Feature(nil), s.Requirements.ShouldHave...)
	out.Requirements.CouldHave = append([]Feature(nil), s.Requirements.CouldHave...)
	out.Requirements.OutOfScope = append([]Feature(nil), s.Requirements.OutOfScope...)

	out.Constraints = append([]Constraint(nil), s.Constraints...)

	if s.DataEntities != nil {
		out.DataEntities = make([]DataEntity, len(s.DataEntities))
		for i, d := range s.DataEntities {
			d.Fields = cloneStrings(d.Fields)
			out.DataEntities[i] = d
		}
	}

	out.Stakeholders = append([]Stakeholder(nil), s.Stakeholders...)
	out.OpenQuestions = append([]OpenQuestion(nil), s.OpenQuestions...)
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
