package api

import "scopeline/workbench/internal/brd"

// Wire types for the Scopeline backend. Responses are decoded strictly:
// a payload that decodes but fails validation is an ErrUnknownShape, not
// a zero value.

type batchConfirmRequest struct {
	EntityType brd.EntityType         `json:"entityType"`
	IDs        []string               `json:"ids"`
	Status     brd.ConfirmationStatus `json:"status"`
}

type batchConfirmResponse struct {
	UpdatedCount *int `json:"updatedCount"`
}

type priorityRequest struct {
	Group brd.PriorityGroup `json:"group"`
}

type textRequest struct {
	Text string `json:"text"`
}

type canvasRoleRequest struct {
	// Pointer so clearing the role serializes as an explicit null.
	Role *string `json:"role"`
}

type questionStatusRequest struct {
	Status brd.QuestionStatus `json:"status"`
	Answer string             `json:"answer,omitempty"`
}

type inviteRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ImpactEntry is one entity affected by a proposed change.
type ImpactEntry struct {
	EntityType  brd.EntityType `json:"entityType"`
	EntityID    string         `json:"entityId"`
	Title       string         `json:"title"`
	Explanation string         `json:"explanation"`
}

// ImpactAnalysis is the server's cascade estimate for changing one entity.
type ImpactAnalysis struct {
	Recommendation  string        `json:"recommendation"`
	TotalAffected   int           `json:"totalAffected"`
	DirectImpacts   []ImpactEntry `json:"directImpacts"`
	IndirectImpacts []ImpactEntry `json:"indirectImpacts"`
}

// ReviewTurnRequest carries one reviewer message plus the session
// context the assistant needs to answer in place.
type ReviewTurnRequest struct {
	SessionID      string `json:"sessionId"`
	ProjectID      string `json:"projectId"`
	PrototypeID    string `json:"prototypeId"`
	Page           string `json:"page"`
	Message        string `json:"message"`
	RemainingTurns int    `json:"remainingTurns"`
}

// ReviewTurnReply is the assistant's answer for one review turn.
type ReviewTurnReply struct {
	Reply string `json:"reply"`
}
