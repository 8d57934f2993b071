// Package search indexes workspace entities so consultants can find
// features, personas, and questions by text in large workspaces.
// Meilisearch is used when configured; otherwise an in-memory scan over
// the current snapshot serves the same queries.
package search

import (
	"strings"

	"scopeline/workbench/internal/brd"
)

// Record is one indexed workspace entity.
type Record struct {
	ID        string `json:"id"`
	ProjectID string `json:"projectId"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Status    string `json:"status"`
}

// Query describes a search request.
type Query struct {
	ProjectID  string
	Text       string
	FilterType string // empty = all types
	Limit      int
}

// Response is the envelope returned to the CLI.
type Response struct {
	Results []Record `json:"results"`
	Total   int      `json:"total"`
	Query   string   `json:"query"`
}

// Searcher can execute a text search over indexed entities.
type Searcher interface {
	Search(q Query) ([]Record, int, error)
	Healthy() bool
}

// Flatten turns a snapshot into index records, one per entity plus one
// per open question.
func Flatten(snap brd.WorkspaceSnapshot) []Record {
	var records []Record
	add := func(id, entityType, title, body string, status brd.ConfirmationStatus) {
		records = append(records, Record{
			ID:        id,
			ProjectID: snap.ProjectID,
			Type:      entityType,
			Title:     title,
			Body:      body,
			Status:    string(status),
		})
	}

	for _, f := range snap.Features() {
		add(f.ID, string(brd.TypeFeature), f.Title, f.Description, f.ConfirmationStatus)
	}
	for _, a := range snap.Actors {
		add(a.ID, string(brd.TypeActor), a.Name, a.Description+" "+strings.Join(a.Goals, " "), a.ConfirmationStatus)
	}
	for _, w := range snap.Workflows {
		var steps []string
		for _, step := range w.Steps {
			steps = append(steps, step.Title)
		}
		add(w.ID, string(brd.TypeWorkflow), w.Name, strings.Join(steps, " "), w.ConfirmationStatus)
	}
	for _, c := range snap.Constraints {
		add(c.ID, string(brd.TypeConstraint), c.Description, "", c.ConfirmationStatus)
	}
	for _, d := range snap.DataEntities {
		add(d.ID, string(brd.TypeDataEntity), d.Name, strings.Join(d.Fields, " "), d.ConfirmationStatus)
	}
	for _, st := range snap.Stakeholders {
		add(st.ID, string(brd.TypeStakeholder), st.Name, st.Role, st.ConfirmationStatus)
	}
	for _, q := range snap.OpenQuestions {
		records = append(records, Record{
			ID:        q.ID,
			ProjectID: snap.ProjectID,
			Type:      "question",
			Title:     q.Question,
			Status:    string(q.Status),
		})
	}
	return records
}
