package search

import (
	"sort"
	"strings"
	"sync"
)

// Memory implements Searcher with a case-insensitive substring scan
// over the records from the last snapshot load. The fallback when
// Meilisearch is not configured.
type Memory struct {
	mu      sync.RWMutex
	records map[string][]Record // keyed by project id
}

func NewMemory() *Memory {
	return &Memory{records: make(map[string][]Record)}
}

// Healthy always returns true; the fallback has nothing to be down.
func (m *Memory) Healthy() bool {
	return true
}

// Update replaces the record set for a project.
func (m *Memory) Update(projectID string, records []Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[projectID] = append([]Record(nil), records...)
}

// Search scans the project's records for the query text in title or
// body. Title matches rank before body-only matches.
func (m *Memory) Search(q Query) ([]Record, int, error) {
	m.mu.RLock()
	records := m.records[q.ProjectID]
	m.mu.RUnlock()

	text := strings.ToLower(strings.TrimSpace(q.Text))
	if text == "" {
		return nil, 0, nil
	}

	type ranked struct {
		record Record
		rank   int
	}
	var hits []ranked
	for _, r := range records {
		if q.FilterType != "" && r.Type != q.FilterType {
			continue
		}
		switch {
		case strings.Contains(strings.ToLower(r.Title), text):
			hits = append(hits, ranked{r, 0})
		case strings.Contains(strings.ToLower(r.Body), text):
			hits = append(hits, ranked{r, 1})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].rank < hits[j].rank })

	limit := q.Limit
	if limit <= 0 {
		limit = 20
	}
	total := len(hits)
	if len(hits) > limit {
		hits = hits[:limit]
	}
	results := make([]Record, len(hits))
	for i, h := range hits {
		results[i] = h.record
	}
	return results, total, nil
}
