package brd

import "math"

// AlertSeverity grades a scope alert.
type AlertSeverity string

const (
	SeverityInfo    AlertSeverity = "info"
	SeverityWarning AlertSeverity = "warning"
)

// ScopeAlert is a server-surfaced warning about requirement-scope drift.
type ScopeAlert struct {
	Severity   AlertSeverity `json:"severity"`
	Message    string        `json:"message"`
	EntityType EntityType    `json:"entityType,omitempty"`
	EntityID   string        `json:"entityId,omitempty"`
}

// HealthData is the server-computed health payload for a project.
// Staleness is decided server-side only; the client never sets it.
type HealthData struct {
	StaleEntities map[EntityType][]string `json:"staleEntities"`
	ScopeAlerts   []ScopeAlert            `json:"scopeAlerts"`
}

// StaleRefCount is the number of entity references the server reported
// as stale, across all types.
func (h HealthData) StaleRefCount() int {
	total := 0
	for _, ids := range h.StaleEntities {
		total += len(ids)
	}
	return total
}

// RiskLevel summarizes scope-alert severity.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Metrics is the derived health view shown in the workspace header.
type Metrics struct {
	ConfirmedPct int       `json:"confirmedPct"`
	EnrichedPct  int       `json:"enrichedPct"`
	StaleCount   int       `json:"staleCount"`
	RiskScore    RiskLevel `json:"riskScore"`
}

// ComputeMetrics derives workspace health from the snapshot and the
// server health payload. Deterministic, no hidden state.
func ComputeMetrics(s WorkspaceSnapshot, health HealthData) Metrics {
	confirmed, total := 0, 0
	count := func(status ConfirmationStatus) {
		total++
		if status.Confirmed() {
			confirmed++
		}
	}
	for _, f := range s.Features() {
		count(f.ConfirmationStatus)
	}
	for _, a := range s.Actors {
		count(a.ConfirmationStatus)
	}
	for _, w := range s.Workflows {
		count(w.ConfirmationStatus)
	}
	for _, c := range s.Constraints {
		count(c.ConfirmationStatus)
	}
	for _, d := range s.DataEntities {
		count(d.ConfirmationStatus)
	}
	for _, st := range s.Stakeholders {
		count(st.ConfirmationStatus)
	}

	enriched, enrichable := 0, 0
	for _, f := range s.Features() {
		enrichable++
		if f.Description != "" {
			enriched++
		}
	}
	for _, a := range s.Actors {
		enrichable++
		if len(a.Goals) > 0 {
			enriched++
		}
	}

	stale := 0
	for _, a := range s.Actors {
		if a.IsStale {
			stale++
		}
	}
	for _, w := range s.Workflows {
		if w.IsStale {
			stale++
		}
	}
	for _, f := range s.Features() {
		if f.IsStale {
			stale++
		}
	}
	for _, d := range s.DataEntities {
		if d.IsStale {
			stale++
		}
	}

	return Metrics{
		ConfirmedPct: pct(confirmed, total),
		EnrichedPct:  pct(enriched, enrichable),
		StaleCount:   stale,
		RiskScore:    riskScore(health.ScopeAlerts),
	}
}

func pct(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}

func riskScore(alerts []ScopeAlert) RiskLevel {
	if len(alerts) == 0 {
		return RiskLow
	}
	for _, a := range alerts {
		if a.Severity == SeverityWarning {
			return RiskHigh
		}
	}
	return RiskMedium
}
