package export

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"scopeline/workbench/internal/brd"
)

// TemplateData is the flattened view of a snapshot handed to the HTML
// template.
type TemplateData struct {
	ProjectName  string
	Author       string
	GeneratedAt  time.Time
	Vision       string
	Background   string
	PainPoints   []string
	Goals        []string
	Metrics      brd.Metrics
	Actors       []brd.Actor
	Workflows    []brd.Workflow
	Groups       []TemplateGroup
	Constraints  []brd.Constraint
	DataEntities []brd.DataEntity
	Stakeholders []brd.Stakeholder
	Questions    []brd.OpenQuestion
}

// TemplateGroup is one MoSCoW bucket with a display heading.
type TemplateGroup struct {
	Heading  string
	Features []brd.Feature
}

var groupHeadings = []struct {
	group   brd.PriorityGroup
	heading string
}{
	{brd.GroupMustHave, "Must Have"},
	{brd.GroupShouldHave, "Should Have"},
	{brd.GroupCouldHave, "Could Have"},
	{brd.GroupOutOfScope, "Out of Scope"},
}

func buildTemplateData(snap brd.WorkspaceSnapshot, metrics brd.Metrics, req Request) TemplateData {
	data := TemplateData{
		ProjectName:  req.ProjectName,
		Author:       req.Author,
		GeneratedAt:  time.Now(),
		Vision:       snap.BusinessContext.Vision,
		Background:   snap.BusinessContext.Background,
		PainPoints:   snap.BusinessContext.PainPoints,
		Goals:        snap.BusinessContext.Goals,
		Metrics:      metrics,
		Actors:       snap.Actors,
		Workflows:    snap.Workflows,
		Constraints:  snap.Constraints,
		DataEntities: snap.DataEntities,
		Stakeholders: snap.Stakeholders,
	}
	if data.ProjectName == "" {
		data.ProjectName = snap.ProjectID
	}
	groups := map[brd.PriorityGroup][]brd.Feature{
		brd.GroupMustHave:   snap.Requirements.MustHave,
		brd.GroupShouldHave: snap.Requirements.ShouldHave,
		brd.GroupCouldHave:  snap.Requirements.CouldHave,
		brd.GroupOutOfScope: snap.Requirements.OutOfScope,
	}
	for _, g := range groupHeadings {
		data.Groups = append(data.Groups, TemplateGroup{
			Heading:  g.heading,
			Features: groups[g.group],
		})
	}
	if req.IncludeOpenQuestions {
		data.Questions = snap.Open()
	}
	return data
}

var documentTemplate = template.Must(template.New("brd").Funcs(template.FuncMap{
	"lower": strings.ToLower,
	"statusLabel": func(s brd.ConfirmationStatus) string {
		return strings.ReplaceAll(string(s), "_", " ")
	},
	"formatDate": func(t time.Time) string {
		return t.Format("Jan 2, 2006")
	},
}).Parse(brdTemplate))

// RenderDocumentHTML renders the BRD template with the provided data.
func RenderDocumentHTML(data TemplateData) (string, error) {
	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const brdTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.ProjectName}} - Business Requirements</title>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; max-width: 800px; margin: 2rem auto; color: #1a1a1a; }
    h1 { border-bottom: 2px solid #333; padding-bottom: 0.5rem; }
    h2 { margin-top: 2rem; }
    .meta { color: #666; font-size: 0.9em; margin-bottom: 2rem; }
    .metrics { background: #f5f5f5; padding: 1rem; margin: 1rem 0; }
    .entity { margin: 0.5rem 0; padding-left: 0.5rem; border-left: 3px solid #ccc; }
    .entity.stale { border-left-color: #e6a817; }
    .status { color: #666; font-size: 0.85em; }
    .question { background: #fdf6e3; padding: 0.75rem; margin: 0.5rem 0; }
  </style>
</head>
<body>
  <h1>{{.ProjectName}}</h1>
  <div class="meta">Business Requirements Document | {{.Author}} | {{formatDate .GeneratedAt}}</div>
  <div class="metrics">
    Confirmed: {{.Metrics.ConfirmedPct}}% | Enriched: {{.Metrics.EnrichedPct}}% |
    Stale: {{.Metrics.StaleCount}} | Risk: {{.Metrics.RiskScore}}
  </div>

  <h2>Business Context</h2>
  {{if .Vision}}<p><strong>Vision.</strong> {{.Vision}}</p>{{end}}
  {{if .Background}}<p><strong>Background.</strong> {{.Background}}</p>{{end}}
  {{if .PainPoints}}<p><strong>Pain points</strong></p><ul>{{range .PainPoints}}<li>{{.}}</li>{{end}}</ul>{{end}}
  {{if .Goals}}<p><strong>Goals</strong></p><ul>{{range .Goals}}<li>{{.}}</li>{{end}}</ul>{{end}}

  {{if .Actors}}
  <h2>Actors</h2>
  {{range .Actors}}
  <div class="entity{{if .IsStale}} stale{{end}}">
    <strong>{{.Name}}</strong> <span class="status">({{statusLabel .ConfirmationStatus}})</span>
    {{if .Description}}<br>{{.Description}}{{end}}
    {{if .Goals}}<ul>{{range .Goals}}<li>{{.}}</li>{{end}}</ul>{{end}}
  </div>
  {{end}}
  {{end}}

  {{if .Workflows}}
  <h2>Workflows</h2>
  {{range .Workflows}}
  <div class="entity{{if .IsStale}} stale{{end}}">
    <strong>{{.Name}}</strong> <span class="status">({{statusLabel .ConfirmationStatus}})</span>
    {{if .Steps}}<ol>{{range .Steps}}<li>{{.Title}}{{if .Description}}: {{.Description}}{{end}}</li>{{end}}</ol>{{end}}
  </div>
  {{end}}
  {{end}}

  <h2>Requirements</h2>
  {{range .Groups}}
  <h3>{{.Heading}}</h3>
  {{if .Features}}
  {{range .Features}}
  <div class="entity{{if .IsStale}} stale{{end}}">
    <strong>{{.Title}}</strong> <span class="status">({{statusLabel .ConfirmationStatus}})</span>
    {{if .Description}}<br>{{.Description}}{{end}}
  </div>
  {{end}}
  {{else}}<p class="status">None.</p>{{end}}
  {{end}}

  {{if .Constraints}}
  <h2>Constraints</h2>
  <ul>{{range .Constraints}}<li>{{.Description}} <span class="status">({{statusLabel .ConfirmationStatus}})</span></li>{{end}}</ul>
  {{end}}

  {{if .DataEntities}}
  <h2>Data Entities</h2>
  {{range .DataEntities}}
  <div class="entity{{if .IsStale}} stale{{end}}">
    <strong>{{.Name}}</strong> <span class="status">({{statusLabel .ConfirmationStatus}})</span>
    {{if .Fields}}<br><span class="status">Fields: {{range $i, $f := .Fields}}{{if $i}}, {{end}}{{$f}}{{end}}</span>{{end}}
  </div>
  {{end}}
  {{end}}

  {{if .Stakeholders}}
  <h2>Stakeholders</h2>
  <ul>{{range .Stakeholders}}<li>{{.Name}} - {{.Role}} <span class="status">({{statusLabel .ConfirmationStatus}})</span></li>{{end}}</ul>
  {{end}}

  {{if .Questions}}
  <h2>Open Questions</h2>
  {{range .Questions}}
  <div class="question"><strong>[{{.Priority}}]</strong> {{.Question}}</div>
  {{end}}
  {{end}}
</body>
</html>`
