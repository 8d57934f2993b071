package search

import (
	"go.uber.org/zap"

	"scopeline/workbench/internal/brd"
)

// Service is the facade that tries Meilisearch first and falls back to
// the in-memory scan.
type Service struct {
	meili  *Meili
	memory *Memory
	log    *zap.Logger
}

// NewService creates a search service. meili may be nil if Meilisearch
// is not configured.
func NewService(meili *Meili, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{meili: meili, memory: NewMemory(), log: log}
}

// IndexSnapshot refreshes both backends from a freshly loaded
// snapshot. The memory fallback updates synchronously; Meilisearch is
// fire-and-forget.
func (s *Service) IndexSnapshot(snap brd.WorkspaceSnapshot) {
	records := Flatten(snap)
	s.memory.Update(snap.ProjectID, records)

	if s.meili == nil || !s.meili.Healthy() {
		return
	}
	go func() {
		if err := s.meili.IndexRecords(snap.ProjectID, records); err != nil {
			s.log.Warn("index snapshot", zap.String("project", snap.ProjectID), zap.Error(err))
		}
	}()
}

// Search tries Meilisearch if healthy, otherwise scans the last
// snapshot in memory.
func (s *Service) Search(q Query) Response {
	if s.meili != nil && s.meili.Healthy() {
		results, total, err := s.meili.Search(q)
		if err == nil {
			return Response{Results: nonNil(results), Total: total, Query: q.Text}
		}
		s.log.Warn("meilisearch error, falling back to memory scan", zap.Error(err))
	}

	results, total, err := s.memory.Search(q)
	if err != nil {
		s.log.Warn("memory search", zap.Error(err))
		return Response{Results: []Record{}, Query: q.Text}
	}
	return Response{Results: nonNil(results), Total: total, Query: q.Text}
}

func nonNil(records []Record) []Record {
	if records == nil {
		return []Record{}
	}
	return records
}
